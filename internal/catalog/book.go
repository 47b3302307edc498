// Package catalog defines the rentable book record and the rules that
// synthesize its display fields.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Condition is the physical state a lender declares for a copy.
type Condition string

const (
	ConditionNew        Condition = "New"
	ConditionLikeNew    Condition = "Like New"
	ConditionGood       Condition = "Good"
	ConditionAcceptable Condition = "Acceptable"
)

// Conditions lists every condition in the order the listing form offers them.
var Conditions = []Condition{
	ConditionNew,
	ConditionLikeNew,
	ConditionGood,
	ConditionAcceptable,
}

// Valid reports whether c is one of the declared conditions.
func (c Condition) Valid() bool {
	for _, known := range Conditions {
		if c == known {
			return true
		}
	}
	return false
}

// Book is a rentable copy as shown across the marketplace.
type Book struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	Synopsis          string    `json:"synopsis"`
	Category          string    `json:"category"`
	ISBN              string    `json:"isbn"`
	PricePerDay       int       `json:"pricePerDay"`
	Rating            string    `json:"rating"`
	Distance          string    `json:"distance"`
	CoverURL          string    `json:"coverUrl"`
	Condition         Condition `json:"condition"`
	Pincode           string    `json:"pincode"`
	LenderName        string    `json:"lenderName"`
	LenderPhoneNumber string    `json:"lenderPhoneNumber"`
}

// InCategory reports whether the book's category contains name, ignoring case.
func (b Book) InCategory(name string) bool {
	return strings.Contains(strings.ToLower(b.Category), strings.ToLower(name))
}

// Draft is what a lender supplies before the id, rating, distance, lender
// identity and pincode are attached.
type Draft struct {
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Synopsis    string    `json:"synopsis"`
	Category    string    `json:"category"`
	ISBN        string    `json:"isbn"`
	PricePerDay int       `json:"pricePerDay"`
	CoverURL    string    `json:"coverUrl"`
	Condition   Condition `json:"condition"`
}

// ErrInvalidDraft is returned by Draft.Validate.
var ErrInvalidDraft = errors.New("invalid draft")

// Validate checks the fields a lender must fill in before publishing.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidDraft)
	}
	if d.PricePerDay <= 0 {
		return fmt.Errorf("%w: price per day must be positive", ErrInvalidDraft)
	}
	if d.Condition != "" && !d.Condition.Valid() {
		return fmt.Errorf("%w: unknown condition %q", ErrInvalidDraft, d.Condition)
	}
	return nil
}

// RawBook is one record as returned by the content generator.
type RawBook struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Synopsis string `json:"synopsis"`
	Category string `json:"category"`
	ISBN     string `json:"isbn"`
}

// Identity describes the person using the session.
type Identity struct {
	Name        string
	Email       string
	PhoneNumber string
	Pincode     string
	Address     string
}

// ShortName returns the first name and last initial, e.g. "Rohan G.".
func (i Identity) ShortName() string {
	parts := strings.Fields(i.Name)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	last := []rune(parts[len(parts)-1])
	return parts[0] + " " + string(last[0]) + "."
}

// CurrentUser is the fixed identity the demo runs as.
var CurrentUser = Identity{
	Name:        "Rohan Gupta",
	Email:       "rohan.gupta@example.com",
	PhoneNumber: "9876543210",
	Pincode:     "110001",
	Address:     "42, MG Road, Sector 18, Noida, Uttar Pradesh - 201301",
}

var (
	Pincodes = []string{"110001", "400001", "700001", "600001", "560001", "411001", "500001", "380001"}

	LenderNames = []string{
		"Priya Sharma", "Rohan Gupta", "Ananya Reddy", "Vikram Singh",
		"Isha Patel", "Arjun Kumar", "Saanvi Joshi", "Advik Nair",
	}

	LenderPhoneNumbers = []string{
		"9876543210", "9123456789", "8765432109", "7890123456",
		"9988776655", "8877665544", "7766554433", "6655443322",
	}
)

// Category is one of the tiles offered on the home page.
type Category struct {
	Name string
	Icon string
}

// PopularCategories are the fixed category tiles.
var PopularCategories = []Category{
	{Name: "Fiction", Icon: "📖"},
	{Name: "Mythology", Icon: "🛕"},
	{Name: "Biography", Icon: "👤"},
	{Name: "History", Icon: "📜"},
	{Name: "Sci-Fi", Icon: "🚀"},
	{Name: "Business", Icon: "💼"},
}

// Filter returns the books whose category contains name, case-insensitively,
// in their original order.
func Filter(books []Book, name string) []Book {
	out := []Book{}
	for _, b := range books {
		if b.InCategory(name) {
			out = append(out, b)
		}
	}
	return out
}

// Find returns the first book with the given id.
func Find(books []Book, id string) (Book, bool) {
	for _, b := range books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}
