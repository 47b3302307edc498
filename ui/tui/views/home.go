package views

import (
	"strings"

	"bookloop/ui/tui/state"
	"bookloop/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

type HomeView struct{}

func (v HomeView) Render(s state.AppState, props ViewProps) string {
	p := s.Page

	var banner string
	if len(p.Slides) > 0 {
		slide := p.Slides[s.Slide%len(p.Slides)]
		dots := make([]string, len(p.Slides))
		for i := range p.Slides {
			dots[i] = "○"
			if i == s.Slide%len(p.Slides) {
				dots[i] = "●"
			}
		}
		banner = styles.BannerStyle.Width(max(props.Width-4, 20)).Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Foreground(styles.BrandColor).Render(slide.Title),
			slide.Subtitle,
			lipgloss.NewStyle().Foreground(styles.MutedColor).Render(strings.Join(dots, " ")),
		))
	}

	entry := 0
	var tiles []string
	for _, c := range p.Categories {
		style := styles.CardStyle
		if entry == s.Cursor {
			style = styles.SelectedCardStyle
		}
		tiles = append(tiles, zone.Mark(EntryZone(entry), style.Render(c.Icon+" "+c.Name)))
		entry++
	}
	sections := []string{
		banner,
		styles.TitleStyle.Render("Popular Categories"),
		lipgloss.JoinHorizontal(lipgloss.Top, tiles...),
	}

	for _, sh := range p.Shelves {
		var cards []string
		for _, b := range sh.Books {
			cards = append(cards, zone.Mark(EntryZone(entry), bookCard(b, entry == s.Cursor)))
			entry++
		}
		sections = append(sections, styles.TitleStyle.Render(sh.Title), grid(cards, props.Width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
