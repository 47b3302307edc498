package components

import (
	"strings"

	"bookloop/ui/tui/styles"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SubmitReviewMsg carries a finished review to the controller.
type SubmitReviewMsg struct {
	Rating int
	Text   string
}

// CancelReviewMsg closes the form without saving.
type CancelReviewMsg struct{}

// ReviewForm collects a star rating and a comment. Tab switches between
// the stars and the text.
type ReviewForm struct {
	Rating  int
	text    textarea.Model
	onStars bool
}

func NewReviewForm() *ReviewForm {
	ta := textarea.New()
	ta.Placeholder = "Share your thoughts on this book..."
	ta.SetHeight(4)
	ta.SetWidth(56)
	ta.ShowLineNumbers = false
	return &ReviewForm{text: ta, onStars: true}
}

// Reset clears the rating and the text.
func (r *ReviewForm) Reset() {
	r.Rating = 0
	r.text.Reset()
	r.text.Blur()
	r.onStars = true
}

func (r *ReviewForm) Init() tea.Cmd {
	return textarea.Blink
}

func (r *ReviewForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return r, func() tea.Msg { return CancelReviewMsg{} }
		case "tab", "shift+tab":
			r.onStars = !r.onStars
			if r.onStars {
				r.text.Blur()
				return r, nil
			}
			return r, r.text.Focus()
		case "ctrl+s":
			rating, text := r.Rating, r.text.Value()
			return r, func() tea.Msg { return SubmitReviewMsg{Rating: rating, Text: text} }
		}

		if r.onStars {
			switch s := key.String(); s {
			case "left", "h":
				if r.Rating > 1 {
					r.Rating--
				}
			case "right", "l":
				if r.Rating < 5 {
					r.Rating++
				}
			case "1", "2", "3", "4", "5":
				r.Rating = int(s[0] - '0')
			case "enter":
				r.onStars = false
				return r, r.text.Focus()
			}
			return r, nil
		}
	}

	var cmd tea.Cmd
	r.text, cmd = r.text.Update(msg)
	return r, cmd
}

func (r *ReviewForm) View() string {
	starStyle := lipgloss.NewStyle().Foreground(styles.WarnColor)
	if r.onStars {
		starStyle = starStyle.Bold(true).Underline(true)
	}
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("Leave a Review"),
		"Your Rating  "+starStyle.Render(Stars(r.Rating)),
		"Your Review",
		r.text.View(),
		styles.CopyStyle.Render("[tab] stars/text • [ctrl+s] Submit Review • [esc] Cancel"),
	))
}

// Stars renders a 0..5 rating as filled and empty stars.
func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
