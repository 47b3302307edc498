package views

import (
	"fmt"

	"bookloop/ui/tui/state"
	"bookloop/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

type CategoryView struct{}

func (v CategoryView) Render(s state.AppState, props ViewProps) string {
	p := s.Page
	title := styles.TitleStyle.Render(fmt.Sprintf("%s Books", p.Category))
	if len(p.Books) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			styles.CopyStyle.PaddingLeft(2).Render(fmt.Sprintf("No books found in the \"%s\" category at the moment.", p.Category)),
		)
	}

	cards := make([]string, 0, len(p.Books))
	for i, b := range p.Books {
		cards = append(cards, zone.Mark(EntryZone(i), bookCard(b, i == s.Cursor)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, grid(cards, props.Width))
}
