package views

import (
	"bookloop/ui/tui/state"

	"github.com/charmbracelet/lipgloss"
)

type ListBookView struct{}

func (v ListBookView) Render(s state.AppState, props ViewProps) string {
	return lipgloss.NewStyle().Padding(0, 2).Render(props.FormView)
}
