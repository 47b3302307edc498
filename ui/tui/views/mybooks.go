package views

import (
	"fmt"

	"bookloop/internal/render"
	"bookloop/ui/tui/state"
	"bookloop/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

type MyBooksView struct{}

func (v MyBooksView) Render(s state.AppState, props ViewProps) string {
	books := s.Page.Books
	title := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.TitleStyle.Render("My Books"),
		styles.CopyStyle.PaddingLeft(4).Render("[n] List a New Book"),
	)
	if len(books) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			styles.CardStyle.Render("You haven't listed any books yet."))
	}

	var cards []string
	for i, b := range books {
		status := render.ListingStatus(i)
		badge := lipgloss.NewStyle().Bold(true).Foreground(styles.OKColor)
		if status == render.StatusOnRent {
			badge = badge.Foreground(styles.WarnColor)
		}
		style := styles.CardStyle.Width(40)
		if i == s.Cursor {
			style = styles.SelectedCardStyle.Width(40)
		}
		card := style.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(truncate(b.Title, 36)),
			styles.CopyStyle.Render(b.Author),
			styles.PriceStyle.Render(fmt.Sprintf("₹%d/day", b.PricePerDay)),
			badge.Render(status),
		))
		cards = append(cards, zone.Mark(EntryZone(i), card))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		styles.CopyStyle.PaddingLeft(1).Render("Listed Books"),
		gridOf(cards, props.Width, 44),
	)
}
