package components

import (
	"bookloop/internal/journal"
	"bookloop/ui/tui/styles"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxBars keeps the chart readable on narrow terminals.
const maxBars = 8

var barStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(styles.BrandColor),
	lipgloss.NewStyle().Foreground(styles.AccentColor),
}

// CategoryChart draws the user's active listings per category.
type CategoryChart struct {
	Chart      barchart.Model
	Categories []journal.CategoryCount
	Width      int
	Height     int
}

func NewCategoryChart(width, height int) *CategoryChart {
	return &CategoryChart{
		Chart:  barchart.New(width, height),
		Width:  width,
		Height: height,
	}
}

func (c *CategoryChart) Init() tea.Cmd {
	return nil
}

// Set replaces the plotted counts.
func (c *CategoryChart) Set(counts []journal.CategoryCount) {
	if len(counts) > maxBars {
		counts = counts[:maxBars]
	}
	c.Categories = counts
}

func (c *CategoryChart) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return c, nil
}

func (c *CategoryChart) Resize(w, h int) {
	c.Width = w
	c.Height = h
	c.Chart.Resize(w, h)
}

func (c *CategoryChart) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Listings by Category")
	if len(c.Categories) == 0 {
		return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			styles.CopyStyle.Render("You haven't listed any books yet."),
		))
	}

	c.Chart.Clear()
	data := make([]barchart.BarData, 0, len(c.Categories))
	for i, cat := range c.Categories {
		data = append(data, barchart.BarData{
			Label: abbreviate(cat.Category),
			Values: []barchart.BarValue{{
				Name:  cat.Category,
				Value: float64(cat.Listings),
				Style: barStyles[i%len(barStyles)],
			}},
		})
	}
	c.Chart.PushAll(data)
	c.Chart.Draw()

	return styles.CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, c.Chart.View()),
	)
}

func abbreviate(s string) string {
	r := []rune(s)
	if len(r) > 5 {
		return string(r[:4]) + "."
	}
	return s
}
