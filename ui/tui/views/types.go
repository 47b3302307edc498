package views

import (
	"time"

	"bookloop/ui/tui/state"
)

// ViewProps contains UI-specific properties provided by the Controller.
type ViewProps struct {
	Width, Height int
	Now           time.Time

	// Component States
	TabCursor   int
	AnimCursor  float64
	SpinnerView string
	ChartView   string
	FormView    string
	ReviewOpen  bool
	ScrollY     int
}

// View defines the contract for any renderable page in the TUI.
type View interface {
	Render(s state.AppState, props ViewProps) string
}

// EntryZone is the mouse zone id of the i-th selectable entry.
func EntryZone(i int) string {
	return "entry_" + itoa(i)
}

// TabZone is the mouse zone id of the i-th navigation tab.
func TabZone(i int) string {
	return "tab_" + itoa(i)
}
