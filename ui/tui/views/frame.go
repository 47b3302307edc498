package views

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"bookloop/internal/catalog"
	"bookloop/ui/tui/state"
	"bookloop/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

const tabWidth = 14

// Frame wraps a page body with the header, navigation bar, notice banner,
// confirmation dialog and footer, and scrolls the body to fit.
func Frame(s state.AppState, props ViewProps, body, help string) string {
	header := styles.HeaderStyle.Width(max(props.Width, 1)).Render(
		fmt.Sprintf("BookLoop  •  %s", s.User),
	)
	nav := navBar(props)

	var top []string
	top = append(top, header, nav)
	if s.NoticeVisible(props.Now) {
		top = append(top, styles.NoticeStyle.Render(s.Notice))
	}
	footer := styles.FooterStyle.Render(help + " • [←/→] Tabs • [q] Quit")

	if s.Confirm != nil {
		body = confirmDialog(*s.Confirm)
	}

	avail := props.Height - lipgloss.Height(strings.Join(top, "\n")) - lipgloss.Height(footer) - 1
	body = scroll(body, props.ScrollY, avail)

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, top...),
		body,
		footer,
	))
}

func navBar(props ViewProps) string {
	var tabs []string
	for i, tab := range state.Tabs {
		// Spring-animated underline follows the cursor.
		dist := math.Abs(float64(i) - props.AnimCursor)
		style := lipgloss.NewStyle().Width(tabWidth).Align(lipgloss.Center).Foreground(lipgloss.Color("#AAA"))
		if i == props.TabCursor {
			style = style.Bold(true).Foreground(styles.BrandColor)
		}
		underline := " "
		if dist < 0.5 {
			underline = "━"
		} else if dist < 1.0 {
			underline = "─"
		}
		cell := lipgloss.JoinVertical(lipgloss.Center,
			style.Render(tab.Name),
			lipgloss.NewStyle().Foreground(styles.AccentColor).Render(strings.Repeat(underline, tabWidth)),
		)
		tabs = append(tabs, zone.Mark(TabZone(i), cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func confirmDialog(p state.Pending) string {
	return lipgloss.NewStyle().Padding(1, 2).Render(styles.DialogStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(p.Prompt),
			styles.CopyStyle.Render(p.Title),
			"",
			"[y] Yes, delete   [n] Cancel",
		),
	))
}

func scroll(body string, scrollY, avail int) string {
	if avail < 1 {
		avail = 1
	}
	lines := strings.Split(body, "\n")
	if scrollY > len(lines)-avail {
		scrollY = len(lines) - avail
	}
	if scrollY < 0 {
		scrollY = 0
	}
	end := scrollY + avail
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[scrollY:end], "\n")
}

// bookCard is the compact card used on shelves and in category grids.
func bookCard(b catalog.Book, selected bool) string {
	style := styles.CardStyle.Width(24)
	if selected {
		style = styles.SelectedCardStyle.Width(24)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		truncate(b.Title, 22),
		styles.CopyStyle.Render(truncate(b.Author, 22)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			styles.PriceStyle.Render(fmt.Sprintf("₹%d/day ", b.PricePerDay)),
			styles.RatingStyle.Render(b.Rating+" ★"),
		),
		styles.CopyStyle.Render(b.Distance+" km away"),
	))
}

// grid lays book cards out in rows that fit width.
func grid(cards []string, width int) string {
	return gridOf(cards, width, 28)
}

func gridOf(cards []string, width, cell int) string {
	perRow := width / cell
	if perRow < 1 {
		perRow = 1
	}
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := i + perRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
