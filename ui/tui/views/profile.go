package views

import (
	"fmt"
	"sort"

	"bookloop/internal/catalog"
	"bookloop/ui/tui/state"
	"bookloop/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

type ProfileView struct {
	User catalog.Identity
}

func (v ProfileView) Render(s state.AppState, props ViewProps) string {
	label := lipgloss.NewStyle().Foreground(styles.MutedColor)

	identity := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(v.User.Name),
		styles.CopyStyle.Render(v.User.Email),
	))
	personal := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("Personal Information"),
		label.Render("Full Name     ")+v.User.Name,
		label.Render("Email Address ")+v.User.Email,
		label.Render("Phone Number  ")+formatPhone(v.User.PhoneNumber),
	))
	location := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("Location"),
		v.User.Address,
	))

	activity := []string{lipgloss.NewStyle().Bold(true).Render("Activity")}
	if s.SummaryErr != nil {
		activity = append(activity, lipgloss.NewStyle().Foreground(styles.DangerColor).Render(s.SummaryErr.Error()))
	} else {
		activity = append(activity,
			fmt.Sprintf("%s%d", label.Render("Active listings  "), s.Summary.ActiveListings),
			fmt.Sprintf("%s₹%d", label.Render("Listed per day   "), s.Summary.ListedValuePerDay),
		)
		kinds := make([]string, 0, len(s.Summary.EventCounts))
		for k := range s.Summary.EventCounts {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			activity = append(activity, fmt.Sprintf("%s%d", label.Render(fmt.Sprintf("%-17s", k)), s.Summary.EventCounts[k]))
		}
	}

	left := lipgloss.JoinVertical(lipgloss.Left, identity, location, personal)
	right := lipgloss.JoinVertical(lipgloss.Left,
		props.ChartView,
		styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, activity...)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("My Profile"),
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
	)
}

// formatPhone renders a ten digit number as "+91 98765 43210".
func formatPhone(p string) string {
	if len(p) != 10 {
		return p
	}
	return "+91 " + p[:5] + " " + p[5:]
}
