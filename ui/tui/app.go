package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bookloop/internal/catalog"
	"bookloop/internal/ingest"
	"bookloop/internal/journal"
	"bookloop/internal/render"
	"bookloop/internal/store"
	"bookloop/ui/tui/components"
	"bookloop/ui/tui/state"
	"bookloop/ui/tui/views"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"
)

// Notices shown by the controller itself.
const (
	ReviewRequired   = "Please provide a rating and a comment."
	ListingPublished = "Book Listed!"
)

// EditNotice is shown for the unimplemented edit action.
func EditNotice(title string) string {
	return fmt.Sprintf("Editing \"%s\"... (feature not implemented)", title)
}

// Market is the store surface the TUI drives.
type Market interface {
	store.Reader
	store.Navigator
	store.Mutator
}

// ActivitySource feeds the profile page.
type ActivitySource interface {
	Summary(ctx context.Context) (journal.Summary, error)
}

// Notices is a store.Notifier that hands messages to the running program.
type Notices chan string

func NewNotices() Notices {
	return make(Notices, 16)
}

// Notify never blocks; a full queue drops the message.
func (n Notices) Notify(message string) {
	select {
	case n <- message:
	default:
	}
}

// Options wires the model to the session.
type Options struct {
	Load             func(context.Context) error
	Activity         ActivitySource
	Notices          Notices
	CarouselInterval time.Duration
	NoticeDuration   time.Duration
	Logger           *zap.Logger
}

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	market Market
	opts   Options
	state  state.AppState

	spinner    spinner.Model
	chart      *components.CategoryChart
	form       *components.ListingForm
	review     *components.ReviewForm
	reviewOpen bool

	tabCursor  int
	animCursor float64
	velocity   float64 // Physics velocity
	spring     harmonica.Spring

	lastView store.View
	now      func() time.Time
	quitting bool
	width    int
	height   int
}

// Messages
type CarouselMsg time.Time
type AnimateMsg time.Time
type NoticeMsg string
type noticeExpiredMsg struct{}
type CatalogLoadedMsg struct {
	Err error
}
type SummaryMsg struct {
	Summary journal.Summary
	Err     error
}

var zoneOnce sync.Once

func InitialModel(market Market, opts Options) MainModel {
	zoneOnce.Do(zone.NewGlobal)

	if opts.CarouselInterval <= 0 {
		opts.CarouselInterval = 5 * time.Second
	}
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = 4 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// Increased frequency (12.0) for faster response and damping (0.9) to prevent overshoot
	spring := harmonica.NewSpring(harmonica.FPS(60), 12.0, 0.9)

	m := MainModel{
		market:  market,
		opts:    opts,
		spinner: s,
		chart:   components.NewCategoryChart(40, 10),
		form:    components.NewListingForm(),
		review:  components.NewReviewForm(),
		spring:  spring,
		now:     time.Now,
		state: state.AppState{
			User: market.User().Name,
		},
	}
	m.lastView = market.CurrentView()
	m.refresh()
	return m
}

func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		loadCmd(m.opts.Load),
		carouselCmd(m.opts.CarouselInterval),
		animateCmd(),
		waitForNotice(m.opts.Notices),
		m.form.Init(),
	)
}

// Commands
func carouselCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return CarouselMsg(t)
	})
}

func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func loadCmd(load func(context.Context) error) tea.Cmd {
	if load == nil {
		return nil
	}
	return func() tea.Msg {
		return CatalogLoadedMsg{Err: load(context.Background())}
	}
}

func waitForNotice(n Notices) tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		return NoticeMsg(<-n)
	}
}

func summaryCmd(src ActivitySource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		summary, err := src.Summary(ctx)
		return SummaryMsg{Summary: summary, Err: err}
	}
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		return m.handleAnimateMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case CarouselMsg:
		m.state.Slide = (m.state.Slide + 1) % len(render.Slides)
		return m, carouselCmd(m.opts.CarouselInterval)

	case CatalogLoadedMsg:
		return m.handleCatalogLoadedMsg(msg)

	case NoticeMsg:
		return m, tea.Batch(m.notify(string(msg)), waitForNotice(m.opts.Notices))

	case noticeExpiredMsg:
		return m, nil

	case SummaryMsg:
		m.state.Summary, m.state.SummaryErr = msg.Summary, msg.Err
		m.chart.Set(msg.Summary.Categories)
		return m, nil

	case components.PublishMsg:
		return m.handlePublish(msg)

	case components.SubmitReviewMsg:
		return m.handleSubmitReview(msg)

	case components.CancelReviewMsg:
		m.reviewOpen = false
		m.review.Reset()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	// Cursor blinks and other component messages.
	switch {
	case m.state.Page.Kind == render.PageListBook:
		_, cmd := m.form.Update(msg)
		return m, cmd
	case m.reviewOpen:
		_, cmd := m.review.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.state.Confirm != nil {
		return m.handleConfirmKey(key)
	}

	switch m.state.Page.Kind {
	case render.PageLoading, render.PageError:
		if key == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case render.PageListBook:
		if key == "esc" {
			return m, m.navigate(store.ViewHome, "")
		}
		_, cmd := m.form.Update(msg)
		return m, cmd
	}

	if m.reviewOpen {
		_, cmd := m.review.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "left", "h":
		if m.tabCursor > 0 {
			return m, m.selectTab(m.tabCursor - 1)
		}
		return m, nil
	case "right", "l":
		if m.tabCursor < len(state.Tabs)-1 {
			return m, m.selectTab(m.tabCursor + 1)
		}
		return m, nil
	case "1", "2", "3", "4", "5":
		return m, m.selectTab(int(key[0] - '1'))
	case "b", "esc", "backspace":
		return m, m.navigate(store.ViewHome, "")
	case "up", "k":
		if m.state.Cursor > 0 {
			m.state.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.state.Cursor < len(state.Entries(m.state.Page))-1 {
			m.state.Cursor++
		}
		return m, nil
	case "pgup":
		m.state.ScrollY = max(m.state.ScrollY-m.pageStep(), 0)
		return m, nil
	case "pgdown", " ":
		m.state.ScrollY += m.pageStep()
		return m, nil
	case "enter":
		return m, m.activate(m.state.Cursor)
	}

	return m.handlePageKey(key)
}

func (m *MainModel) handlePageKey(key string) (tea.Model, tea.Cmd) {
	entry, hasEntry := m.selected()

	switch m.state.Page.Kind {
	case render.PageBookDetails:
		if key == "r" {
			m.reviewOpen = true
			m.review.Reset()
			return m, m.review.Init()
		}

	case render.PageMyBooks:
		switch key {
		case "n":
			return m, m.navigate(store.ViewListBook, "")
		case "e":
			if hasEntry {
				return m, m.notify(EditNotice(entry.Book.Title))
			}
		case "d", "delete":
			if hasEntry {
				m.state.Confirm = &state.Pending{
					Prompt: store.DeleteListingPrompt,
					BookID: entry.Book.ID,
					Title:  entry.Book.Title,
				}
			}
		}

	case render.PageMyRentals:
		switch key {
		case "r":
			if hasEntry {
				// The store sends the notice through the notifier.
				m.market.ReturnRental(entry.Book.ID)
				m.refresh()
			}
		case "c":
			if hasEntry {
				return m, m.notify(catalog.ContactURL(entry.Book))
			}
		}
	}
	return m, nil
}

func (m *MainModel) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	pending := *m.state.Confirm
	switch key {
	case "y", "Y", "enter":
		m.state.Confirm = nil
		m.market.RemoveListedBook(pending.BookID, store.Answer(true))
		m.refresh()
	case "n", "N", "esc", "q":
		m.state.Confirm = nil
		m.market.RemoveListedBook(pending.BookID, store.Answer(false))
	}
	return m, nil
}

func (m *MainModel) handleAnimateMsg(msg AnimateMsg) (tea.Model, tea.Cmd) {
	var v float64 = m.velocity
	m.animCursor, v = m.spring.Update(m.animCursor, float64(m.tabCursor), v)
	m.velocity = v
	return m, animateCmd()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	newW := msg.Width/2 - 6
	if newW > 10 {
		m.chart.Resize(newW, 10)
	}
	m.form.Resize(msg.Width - 8)
	return m, nil
}

func (m *MainModel) handleCatalogLoadedMsg(msg CatalogLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil && !errors.Is(msg.Err, ingest.ErrAlreadyLoaded) {
		m.opts.Logger.Error("catalog load failed", zap.Error(msg.Err))
	}
	m.refresh()
	return m, nil
}

func (m *MainModel) handlePublish(msg components.PublishMsg) (tea.Model, tea.Cmd) {
	b := m.market.AddBook(msg.Draft)
	m.opts.Logger.Info("listing published", zap.String("id", b.ID))
	return m, tea.Batch(
		m.navigate(store.ViewMyBooks, ""),
		m.notify(ListingPublished),
	)
}

func (m *MainModel) handleSubmitReview(msg components.SubmitReviewMsg) (tea.Model, tea.Cmd) {
	if m.state.Page.Kind != render.PageBookDetails {
		return m, nil
	}
	if _, err := m.market.AddReview(m.state.Page.Book.ID, msg.Rating, msg.Text); err != nil {
		return m, m.notify(ReviewRequired)
	}
	m.reviewOpen = false
	m.review.Reset()
	m.refresh()
	return m, nil
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || m.state.Confirm != nil {
		return m, nil
	}
	for i := range state.Tabs {
		if zone.Get(views.TabZone(i)).InBounds(msg) {
			return m, m.selectTab(i)
		}
	}
	for i := range state.Entries(m.state.Page) {
		if zone.Get(views.EntryZone(i)).InBounds(msg) {
			m.state.Cursor = i
			return m, m.activate(i)
		}
	}
	return m, nil
}

func (m *MainModel) selectTab(i int) tea.Cmd {
	if i < 0 || i >= len(state.Tabs) {
		return nil
	}
	m.tabCursor = i
	return m.navigate(state.Tabs[i].View, "")
}

// activate opens the entry at i: a category tile or a book.
func (m *MainModel) activate(i int) tea.Cmd {
	entries := state.Entries(m.state.Page)
	if i < 0 || i >= len(entries) {
		return nil
	}
	e := entries[i]
	switch {
	case e.Kind == state.EntryCategory:
		return m.navigate(store.ViewCategory, e.Category)
	case m.state.Page.Kind == render.PageMyRentals:
		// Rentals are managed in place.
		return nil
	default:
		return m.navigate(store.ViewBookDetails, e.Book.ID)
	}
}

func (m *MainModel) navigate(v store.View, payload string) tea.Cmd {
	if err := m.market.Navigate(v, payload); err != nil {
		m.opts.Logger.Warn("navigation rejected", zap.Error(err))
		return nil
	}
	return m.refresh()
}

// refresh re-reads the store. A change of view resets the page-local
// state, as leaving a page does.
func (m *MainModel) refresh() tea.Cmd {
	snap := m.market.Snapshot()
	m.state.Page = render.Select(snap)

	var cmd tea.Cmd
	if snap.View != m.lastView {
		m.lastView = snap.View
		m.state.Cursor = 0
		m.state.ScrollY = 0
		m.reviewOpen = false
		if i := state.TabIndex(snap.View); i >= 0 {
			m.tabCursor = i
		}
		switch m.state.Page.Kind {
		case render.PageListBook:
			m.form.Reset()
			cmd = m.form.Init()
		case render.PageProfile:
			cmd = summaryCmd(m.opts.Activity)
		}
	}

	if n := len(state.Entries(m.state.Page)); m.state.Cursor >= n {
		m.state.Cursor = max(n-1, 0)
	}
	m.state.Reviews = nil
	if m.state.Page.Kind == render.PageBookDetails {
		m.state.Reviews = m.market.Reviews(m.state.Page.Book.ID)
	}
	return cmd
}

func (m *MainModel) selected() (state.Entry, bool) {
	entries := state.Entries(m.state.Page)
	if m.state.Cursor < 0 || m.state.Cursor >= len(entries) {
		return state.Entry{}, false
	}
	return entries[m.state.Cursor], true
}

func (m *MainModel) notify(message string) tea.Cmd {
	m.state.Notice = message
	m.state.NoticeUntil = m.now().Add(m.opts.NoticeDuration)
	return tea.Tick(m.opts.NoticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}

func (m *MainModel) pageStep() int {
	return max(m.height/2, 1)
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	props := views.ViewProps{
		Width:       m.width,
		Height:      m.height,
		Now:         m.now(),
		TabCursor:   m.tabCursor,
		AnimCursor:  m.animCursor,
		SpinnerView: m.spinner.View(),
		ReviewOpen:  m.reviewOpen,
		ScrollY:     m.state.ScrollY,
	}
	switch m.state.Page.Kind {
	case render.PageListBook:
		props.FormView = m.form.View()
	case render.PageBookDetails:
		if m.reviewOpen {
			props.FormView = m.review.View()
		}
	case render.PageProfile:
		props.ChartView = m.chart.View()
	}
	return views.Render(m.state, m.market.User(), props)
}

func Start(market Market, opts Options) error {
	m := InitialModel(market, opts)
	p := tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
