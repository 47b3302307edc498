package console

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"bookloop/internal/catalog"
	"bookloop/internal/render"
	"bookloop/internal/store"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Print renders the snapshot's catalog and shelves to the writer in a
// compact format.
func Print(w io.Writer, snap store.Snapshot) {
	fmt.Fprintf(w, "%s%s %s%s\n", colorCyan, "■", "BOOKLOOP CATALOG", colorReset)

	if snap.LoadError != "" {
		fmt.Fprintf(w, "%s%s%s\n\n", colorRed, snap.LoadError, colorReset)
		return
	}

	home := render.Home(snap.Catalog)
	for _, shelf := range home.Shelves {
		section(w, shelf.Title)
		for _, b := range shelf.Books {
			line(w, b.Title, fmt.Sprintf("₹%d/day", b.PricePerDay), marker(colorGreen, b.Rating+"★"))
		}
	}

	section(w, "My Books")
	if len(snap.Listed) == 0 {
		fmt.Fprintln(w, "  You haven't listed any books yet.")
	}
	for i, b := range snap.Listed {
		status := render.ListingStatus(i)
		line(w, b.Title, fmt.Sprintf("₹%d/day", b.PricePerDay), marker(colorFor(status), status))
	}

	section(w, "My Rentals")
	if len(snap.Rented) == 0 {
		fmt.Fprintln(w, "  You are not currently renting any books.")
	}
	for i, b := range snap.Rented {
		line(w, b.Title, "due "+render.DueDate(i), "")
		fmt.Fprintf(w, "    %s%s%s\n", colorCyan, catalog.ContactURL(b), colorReset)
	}

	// Single-line Summary
	fmt.Fprintf(w, "%s─ Summary%s: %d books | %s\n\n", colorCyan, colorReset, len(snap.Catalog), categorySummary(snap.Catalog))
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "%s%s%s\n", colorCyan, "─ "+title, colorReset)
}

// line prints "  Label............... Value Marker".
func line(w io.Writer, label, value, mark string) {
	// Compact Label (max 28 chars)
	r := []rune(label)
	if len(r) > 28 {
		label = string(r[:25]) + "..."
	}
	dots := strings.Repeat("·", 30-len([]rune(label)))
	fmt.Fprintf(w, "  %s%s %12s%s\n", label, colorCyan+dots+colorReset, value, mark)
}

func marker(color, text string) string {
	return fmt.Sprintf(" %s%s%s", color, text, colorReset)
}

func categorySummary(books []catalog.Book) string {
	counts := map[string]int{}
	for _, b := range books {
		counts[b.Category]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		label := name
		if label == "" {
			label = "Uncategorized"
		}
		parts = append(parts, fmt.Sprintf("%s: %d", label, counts[name]))
	}
	return strings.Join(parts, ", ")
}

func colorFor(status string) string {
	switch status {
	case render.StatusOnRent:
		return colorYellow
	case "":
		return colorRed
	default:
		return colorGreen
	}
}
