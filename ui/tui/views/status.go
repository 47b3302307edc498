package views

import (
	"bookloop/ui/tui/state"
	"bookloop/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

type LoadingView struct{}

func (v LoadingView) Render(s state.AppState, props ViewProps) string {
	return lipgloss.Place(props.Width, props.Height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Left,
			props.SpinnerView,
			styles.TitleStyle.Render("Loading books..."),
		),
	)
}

// ErrorView blocks the whole screen; there is no retry.
type ErrorView struct{}

func (v ErrorView) Render(s state.AppState, props ViewProps) string {
	msg := lipgloss.NewStyle().Bold(true).Foreground(styles.DangerColor).Render(s.Page.Message)
	return lipgloss.Place(props.Width, props.Height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			msg,
			"",
			styles.CopyStyle.Render("Press 'q' to quit"),
		),
	)
}
