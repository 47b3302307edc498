package views

import (
	"fmt"
	"strconv"

	"bookloop/ui/tui/components"
	"bookloop/ui/tui/state"
	"bookloop/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

type DetailsView struct{}

func (v DetailsView) Render(s state.AppState, props ViewProps) string {
	b := s.Page.Book
	label := lipgloss.NewStyle().Foreground(styles.MutedColor)

	rating, _ := strconv.ParseFloat(b.Rating, 64)
	info := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(styles.BrandColor).Render(b.Category),
		lipgloss.NewStyle().Bold(true).Render(b.Title),
		"by "+b.Author,
		fmt.Sprintf("%s %s • %d reviews",
			lipgloss.NewStyle().Foreground(styles.WarnColor).Render(components.Stars(int(rating+0.5))),
			b.Rating, len(s.Reviews)),
		"",
		label.Render("Condition ")+string(b.Condition)+label.Render("   Pincode ")+b.Pincode,
		label.Render("ISBN ")+b.ISBN,
		"",
		styles.PriceStyle.Render(fmt.Sprintf("₹%d", b.PricePerDay))+" / day",
		"",
		label.Render("Lender ")+lipgloss.NewStyle().Bold(true).Render(b.LenderName),
	)

	width := max(props.Width-6, 20)
	synopsis := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Synopsis"),
		lipgloss.NewStyle().Width(width).PaddingLeft(1).Render(b.Synopsis),
	)

	reviews := []string{styles.TitleStyle.Render(fmt.Sprintf("User Reviews (%d)", len(s.Reviews)))}
	for _, r := range s.Reviews {
		reviews = append(reviews, lipgloss.NewStyle().PaddingLeft(1).Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(r.Author)+label.Render(" • "+r.Date),
			lipgloss.NewStyle().Foreground(styles.WarnColor).Render(components.Stars(r.Rating)),
			r.Text,
		)))
	}

	form := styles.CopyStyle.PaddingLeft(1).Render("Press 'r' to leave a review")
	if props.ReviewOpen {
		form = props.FormView
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.CardStyle.Render(info),
		synopsis,
		lipgloss.JoinVertical(lipgloss.Left, reviews...),
		"",
		form,
	)
}
