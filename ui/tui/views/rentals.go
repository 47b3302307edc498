package views

import (
	"bookloop/internal/catalog"
	"bookloop/internal/render"
	"bookloop/ui/tui/state"
	"bookloop/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

type RentalsView struct{}

func (v RentalsView) Render(s state.AppState, props ViewProps) string {
	books := s.Page.Books
	title := styles.TitleStyle.Render("My Rentals")
	if len(books) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			styles.CardStyle.Render("You are not currently renting any books."))
	}

	width := max(props.Width-4, 40)
	var cards []string
	for i, b := range books {
		style := styles.CardStyle.Width(width)
		if i == s.Cursor {
			style = styles.SelectedCardStyle.Width(width)
		}
		card := style.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(b.Title),
			styles.CopyStyle.Render(b.Author),
			"Lender: "+lipgloss.NewStyle().Bold(true).Render(b.LenderName),
			lipgloss.NewStyle().Bold(true).Foreground(styles.DangerColor).Render("Due: "+render.DueDate(i)),
			lipgloss.NewStyle().Foreground(styles.Highlight).Render("Contact: "+catalog.ContactURL(b)),
		))
		cards = append(cards, zone.Mark(EntryZone(i), card))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		styles.CopyStyle.PaddingLeft(1).Render("Current Rentals"),
		lipgloss.JoinVertical(lipgloss.Left, cards...),
	)
}
