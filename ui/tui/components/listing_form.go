package components

import (
	"fmt"
	"strconv"
	"strings"

	"bookloop/internal/catalog"
	"bookloop/ui/tui/styles"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Steps of the listing wizard.
const (
	StepBookInfo = iota
	StepPricing
	StepPublish
)

// StepNames label the progress bar.
var StepNames = []string{"Book Info", "Pricing & Photos", "Review & Publish"}

// TermsRequired is shown when publishing without accepting the terms.
const TermsRequired = "Please agree to the Lender Terms before publishing."

const (
	fieldTitle = iota
	fieldAuthor
	fieldISBN
	fieldCategory
	fieldPrice
	fieldDeposit
	fieldCount
)

// Focus slots of the book info step beyond its text inputs.
const (
	slotDescription = fieldCategory + 1
	slotCondition   = fieldCategory + 2
)

// PublishMsg carries the finished draft to the controller.
type PublishMsg struct {
	Draft catalog.Draft
}

// ListingForm is the three-step "List a Book" wizard.
type ListingForm struct {
	Step        int
	Err         string
	inputs      []textinput.Model
	description textarea.Model
	condition   int // index into catalog.Conditions; -1 until chosen
	agreed      bool
	focus       int
	width       int
}

func NewListingForm() *ListingForm {
	f := &ListingForm{condition: -1, width: 60}
	f.Reset()
	return f
}

// Reset clears every field and returns to the first step.
func (f *ListingForm) Reset() {
	placeholders := map[int]string{
		fieldTitle:    "Title",
		fieldAuthor:   "Author",
		fieldISBN:     "e.g., 978-0143450932",
		fieldCategory: "e.g., Fiction",
		fieldPrice:    "20",
		fieldDeposit:  "100",
	}
	f.inputs = make([]textinput.Model, fieldCount)
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 120
		in.Width = f.width - 4
		if i == fieldPrice || i == fieldDeposit {
			in.Prompt = "₹ "
			in.CharLimit = 6
		}
		f.inputs[i] = in
	}

	f.description = textarea.New()
	f.description.Placeholder = "A brief summary of the book..."
	f.description.SetHeight(4)
	f.description.SetWidth(f.width - 4)
	f.description.ShowLineNumbers = false

	f.Step = StepBookInfo
	f.Err = ""
	f.condition = -1
	f.agreed = false
	f.setFocus(0)
}

// Resize fits the fields to the terminal width.
func (f *ListingForm) Resize(width int) {
	if width < 30 {
		width = 30
	}
	if width > 80 {
		width = 80
	}
	f.width = width
	for i := range f.inputs {
		f.inputs[i].Width = width - 4
	}
	f.description.SetWidth(width - 4)
}

func (f *ListingForm) Init() tea.Cmd {
	return textinput.Blink
}

// Draft assembles the fields into a draft. Validation is left to the caller.
func (f *ListingForm) Draft() catalog.Draft {
	price, _ := strconv.Atoi(strings.TrimSpace(f.inputs[fieldPrice].Value()))
	d := catalog.Draft{
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Author:      strings.TrimSpace(f.inputs[fieldAuthor].Value()),
		ISBN:        strings.TrimSpace(f.inputs[fieldISBN].Value()),
		Category:    strings.TrimSpace(f.inputs[fieldCategory].Value()),
		Synopsis:    strings.TrimSpace(f.description.Value()),
		PricePerDay: price,
	}
	if f.condition >= 0 {
		d.Condition = catalog.Conditions[f.condition]
	}
	return d
}

// Typing reports whether key presses go to a text field.
func (f *ListingForm) Typing() bool {
	return f.Step != StepPublish && !(f.Step == StepBookInfo && f.focus == slotCondition)
}

func (f *ListingForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, f.updateFocused(msg)
	}

	switch key.String() {
	case "ctrl+n":
		f.next()
		return f, nil
	case "ctrl+p":
		f.prev()
		return f, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return f, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return f, nil
	}

	switch f.Step {
	case StepBookInfo:
		if f.focus == slotCondition {
			switch key.String() {
			case "left", "h":
				f.cycleCondition(-1)
			case "right", "l", " ":
				f.cycleCondition(1)
			case "enter":
				f.next()
			}
			return f, nil
		}
	case StepPricing:
		if key.String() == "enter" && f.focus == f.slots()-1 {
			f.next()
			return f, nil
		}
	case StepPublish:
		switch key.String() {
		case " ", "x":
			f.agreed = !f.agreed
			f.Err = ""
		case "enter":
			return f, f.publish()
		}
		return f, nil
	}

	if key.String() == "enter" && f.focus != slotDescription {
		f.setFocus(f.focus + 1)
		return f, nil
	}
	return f, f.updateFocused(msg)
}

func (f *ListingForm) publish() tea.Cmd {
	if !f.agreed {
		f.Err = TermsRequired
		return nil
	}
	d := f.Draft()
	if err := d.Validate(); err != nil {
		f.Err = err.Error()
		return nil
	}
	return func() tea.Msg {
		return PublishMsg{Draft: d}
	}
}

func (f *ListingForm) next() {
	if f.Step < StepPublish {
		f.Step++
		f.setFocus(0)
	}
}

func (f *ListingForm) prev() {
	if f.Step > StepBookInfo {
		f.Step--
		f.setFocus(0)
	}
}

func (f *ListingForm) cycleCondition(delta int) {
	n := len(catalog.Conditions)
	f.condition = ((f.condition+delta)%n + n) % n
}

// slots is the number of focusable controls on the current step.
func (f *ListingForm) slots() int {
	switch f.Step {
	case StepBookInfo:
		return slotCondition + 1
	case StepPricing:
		return 2
	default:
		return 1
	}
}

func (f *ListingForm) setFocus(i int) {
	n := f.slots()
	f.focus = ((i % n) + n) % n

	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.description.Blur()

	switch f.Step {
	case StepBookInfo:
		switch {
		case f.focus <= fieldCategory:
			f.inputs[f.focus].Focus()
		case f.focus == slotDescription:
			f.description.Focus()
		}
	case StepPricing:
		f.inputs[fieldPrice+f.focus].Focus()
	}
}

func (f *ListingForm) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.Step {
	case StepBookInfo:
		switch {
		case f.focus <= fieldCategory:
			f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		case f.focus == slotDescription:
			f.description, cmd = f.description.Update(msg)
		}
	case StepPricing:
		i := fieldPrice + f.focus
		f.inputs[i], cmd = f.inputs[i].Update(msg)
	}
	return cmd
}

func (f *ListingForm) View() string {
	label := lipgloss.NewStyle().Bold(true)

	var body []string
	switch f.Step {
	case StepBookInfo:
		body = append(body,
			label.Render("Title"), f.inputs[fieldTitle].View(),
			label.Render("Author"), f.inputs[fieldAuthor].View(),
			label.Render("ISBN"), f.inputs[fieldISBN].View(),
			label.Render("Category"), f.inputs[fieldCategory].View(),
			label.Render("Description"), f.description.View(),
			label.Render("Condition"), f.conditionView(),
		)
	case StepPricing:
		body = append(body,
			label.Render("Price per day"), f.inputs[fieldPrice].View(),
			label.Render("Security Deposit (Optional)"), f.inputs[fieldDeposit].View(),
			label.Render("Upload Photos"),
			styles.CopyStyle.Render("A cover is picked for you when the listing is published."),
		)
	case StepPublish:
		body = append(body, f.summaryView())
	}

	if f.Err != "" {
		body = append(body, lipgloss.NewStyle().Foreground(styles.DangerColor).Render(f.Err))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("List a New Book"),
		styles.CopyStyle.Render("Follow the steps to get your book listed for others to rent."),
		"",
		f.progressView(),
		"",
		lipgloss.JoinVertical(lipgloss.Left, body...),
	)
}

func (f *ListingForm) progressView() string {
	var parts []string
	for i, name := range StepNames {
		marker := fmt.Sprintf("(%d)", i+1)
		style := lipgloss.NewStyle().Foreground(styles.MutedColor)
		switch {
		case i < f.Step:
			marker = "(✓)"
			style = lipgloss.NewStyle().Foreground(styles.BrandColor)
		case i == f.Step:
			style = lipgloss.NewStyle().Foreground(styles.BrandColor).Bold(true)
		}
		parts = append(parts, style.Render(marker+" "+name))
	}
	return strings.Join(parts, lipgloss.NewStyle().Foreground(styles.BaseColor).Render(" ── "))
}

func (f *ListingForm) conditionView() string {
	text := "Select Condition"
	if f.condition >= 0 {
		text = string(catalog.Conditions[f.condition])
	}
	style := lipgloss.NewStyle().Padding(0, 1)
	if f.Step == StepBookInfo && f.focus == slotCondition {
		style = style.Foreground(styles.AccentColor).Bold(true)
		text = "◀ " + text + " ▶"
	}
	return style.Render(text)
}

func (f *ListingForm) summaryView() string {
	d := f.Draft()
	check := "[ ]"
	if f.agreed {
		check = "[x]"
	}
	rows := []string{
		lipgloss.NewStyle().Bold(true).Render("You're All Set!"),
		"Review your listing details and publish to make it available for others to rent.",
		"",
		fmt.Sprintf("Title:     %s", d.Title),
		fmt.Sprintf("Author:    %s", d.Author),
		fmt.Sprintf("Category:  %s", d.Category),
		fmt.Sprintf("Condition: %s", d.Condition),
		fmt.Sprintf("Price:     ₹%d / day", d.PricePerDay),
		"",
		check + " I agree to the Lender Terms.",
	}
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
