package styles

import "github.com/charmbracelet/lipgloss"

var (
	Subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	Highlight = lipgloss.AdaptiveColor{Light: "#1F5FC9", Dark: "#5B9BFF"}
	Special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	BrandColor  = lipgloss.Color("#2874F0")
	AccentColor = lipgloss.Color("#FB641B")
	BaseColor   = lipgloss.Color("#444")
	DangerColor = lipgloss.Color("196")
	WarnColor   = lipgloss.Color("220")
	OKColor     = lipgloss.Color("46")
	MutedColor  = lipgloss.Color("#888")

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(BrandColor).
			Align(lipgloss.Left).
			Padding(0, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginLeft(1).
			Foreground(BrandColor)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1).
			Margin(0, 1)

	SelectedCardStyle = CardStyle.
				BorderForeground(AccentColor).
				Bold(true)

	BannerStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(BrandColor).
			Padding(0, 2).
			Margin(1, 1, 0, 1)

	CopyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	PriceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))

	RatingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("#388E3C")).
			Padding(0, 1)

	NoticeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000")).
			Background(AccentColor).
			Padding(0, 2)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(DangerColor).
			Padding(1, 3)

	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555")).
			PaddingLeft(2)

	StatusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))
)
