package catalog

import (
	"fmt"
	"strings"
)

const (
	contactBaseURL     = "https://wa.me/"
	contactCountryCode = "91"
	contactTemplate    = "Hi %s, this is regarding the book \"%s\" I rented from you on BookLoop."
)

// ContactMessage is the text a renter sends to the lender of b.
func ContactMessage(b Book) string {
	return fmt.Sprintf(contactTemplate, b.LenderName, b.Title)
}

// ContactURL builds the messaging deep link for reaching the lender of b.
func ContactURL(b Book) string {
	return contactBaseURL + contactCountryCode + b.LenderPhoneNumber + "?text=" + EncodeURIComponent(ContactMessage(b))
}

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent escapes s the way browsers' encodeURIComponent does:
// everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent-encoded as UTF-8.
func EncodeURIComponent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
