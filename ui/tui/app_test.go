package tui

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"
	"time"

	"bookloop/internal/catalog"
	"bookloop/internal/render"
	"bookloop/internal/store"
	"bookloop/ui/tui/components"
	"bookloop/ui/tui/state"

	tea "github.com/charmbracelet/bubbletea"
)

func newLoadedStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	e := catalog.NewEnricher(rand.New(rand.NewPCG(3, 3)), catalog.CurrentUser)
	st := store.New(e, opts...)
	books := make([]catalog.Book, 24)
	for i := range books {
		books[i] = catalog.Book{
			ID:                "b" + strconv.Itoa(i),
			Title:             "Title " + strconv.Itoa(i),
			Category:          []string{"Fiction", "History", "Sci-Fi"}[i%3],
			PricePerDay:       10 + i,
			Rating:            "4.2",
			LenderName:        "Priya Sharma",
			LenderPhoneNumber: "9123456789",
		}
	}
	st.Install(books)
	return st
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *MainModel, keys ...string) *MainModel {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(key(k))
		m = updated.(*MainModel)
	}
	return m
}

func TestTabNavigation(t *testing.T) {
	st := newLoadedStore(t)
	model := InitialModel(st, Options{})

	if model.tabCursor != 0 {
		t.Errorf("Expected initial tab cursor 0, got %d", model.tabCursor)
	}
	if model.state.Page.Kind != render.PageHome {
		t.Errorf("Expected home page, got %v", model.state.Page.Kind)
	}

	m := press(t, &model, "right")
	if m.tabCursor != 1 || st.CurrentView() != store.ViewMyBooks {
		t.Errorf("Expected My Books after Right key, got tab %d view %s", m.tabCursor, st.CurrentView())
	}

	m = press(t, m, "left")
	if m.tabCursor != 0 || st.CurrentView() != store.ViewHome {
		t.Errorf("Expected Home after Left key, got tab %d view %s", m.tabCursor, st.CurrentView())
	}

	m = press(t, m, "5")
	if m.state.Page.Kind != render.PageProfile {
		t.Errorf("Expected profile page after '5', got %v", m.state.Page.Kind)
	}
}

func TestTabAnimationLogic(t *testing.T) {
	model := InitialModel(newLoadedStore(t), Options{})
	model.tabCursor = 1

	if model.animCursor != 0 {
		t.Errorf("Expected initial animCursor 0, got %f", model.animCursor)
	}

	// The spring should move animCursor towards tabCursor (1.0)
	animateMsg := AnimateMsg(time.Now())
	updatedModel, _ := model.Update(animateMsg)
	m := updatedModel.(*MainModel)

	if m.animCursor <= 0 {
		t.Errorf("Expected animCursor to increase after animation frame, got %f", m.animCursor)
	}
	if m.animCursor >= 1.0 {
		t.Errorf("Expected animCursor to not reach target immediately, got %f", m.animCursor)
	}

	updatedModel, _ = m.Update(animateMsg)
	m = updatedModel.(*MainModel)
	prevCursor := m.animCursor

	updatedModel, _ = m.Update(animateMsg)
	m = updatedModel.(*MainModel)

	if m.animCursor <= prevCursor {
		t.Errorf("Expected animCursor to continue increasing, got %f (prev %f)", m.animCursor, prevCursor)
	}
}

func TestPageTransition(t *testing.T) {
	st := newLoadedStore(t)
	model := InitialModel(st, Options{})

	// First entry is the Fiction tile.
	m := press(t, &model, "enter")
	if m.state.Page.Kind != render.PageCategory || m.state.Page.Category != "Fiction" {
		t.Fatalf("Expected Fiction category page, got %v %q", m.state.Page.Kind, m.state.Page.Category)
	}
	if len(m.state.Page.Books) != 8 {
		t.Errorf("Expected 8 Fiction books, got %d", len(m.state.Page.Books))
	}

	m = press(t, m, "down", "enter")
	if m.state.Page.Kind != render.PageBookDetails || m.state.Page.Book.ID != "b3" {
		t.Fatalf("Expected details of b3, got %v %q", m.state.Page.Kind, m.state.Page.Book.ID)
	}
	if len(m.state.Reviews) != len(store.SampleReviews) {
		t.Errorf("Expected sample reviews, got %d", len(m.state.Reviews))
	}
	if m.state.Cursor != 0 {
		t.Errorf("Expected cursor reset on view change, got %d", m.state.Cursor)
	}

	m = press(t, m, "b")
	if m.state.Page.Kind != render.PageHome {
		t.Errorf("Expected page to change back to home, got %v", m.state.Page.Kind)
	}
}

func TestDeleteListingNeedsConfirmation(t *testing.T) {
	st := newLoadedStore(t)
	model := InitialModel(st, Options{})
	m := press(t, &model, "2")

	first := st.MyListedBooks()[0]
	m = press(t, m, "d")
	if m.state.Confirm == nil || m.state.Confirm.Prompt != store.DeleteListingPrompt {
		t.Fatalf("Expected confirmation prompt, got %+v", m.state.Confirm)
	}

	m = press(t, m, "n")
	if m.state.Confirm != nil {
		t.Error("Expected prompt to close after declining")
	}
	if len(st.MyListedBooks()) != store.ListedSeed {
		t.Errorf("Expected listings unchanged after declining, got %d", len(st.MyListedBooks()))
	}

	m = press(t, m, "d", "y")
	if _, ok := st.Book(first.ID); ok {
		t.Errorf("Expected %s removed from catalog", first.ID)
	}
	if len(m.state.Page.Books) != store.ListedSeed-1 {
		t.Errorf("Expected %d listings on page, got %d", store.ListedSeed-1, len(m.state.Page.Books))
	}
}

func TestEditShowsNotice(t *testing.T) {
	st := newLoadedStore(t)
	model := InitialModel(st, Options{})
	m := press(t, &model, "2", "e")

	want := EditNotice(st.MyListedBooks()[0].Title)
	if m.state.Notice != want {
		t.Errorf("Expected notice %q, got %q", want, m.state.Notice)
	}
	if !m.state.NoticeVisible(time.Now()) {
		t.Error("Expected notice to be visible")
	}
}

func TestReturnRentalNotifies(t *testing.T) {
	notices := NewNotices()
	st := newLoadedStore(t, store.WithNotifier(notices))
	model := InitialModel(st, Options{Notices: notices})
	m := press(t, &model, "3")

	rented := st.MyRentedBooks()
	m = press(t, m, "r")

	if len(st.MyRentedBooks()) != len(rented)-1 {
		t.Errorf("Expected one rental returned, got %d left", len(st.MyRentedBooks()))
	}
	select {
	case msg := <-notices:
		if msg != store.ReturnNotice(rented[0].Title) {
			t.Errorf("Unexpected notice %q", msg)
		}
		updated, _ := m.Update(NoticeMsg(msg))
		m = updated.(*MainModel)
		if m.state.Notice != msg {
			t.Errorf("Expected notice shown, got %q", m.state.Notice)
		}
	default:
		t.Error("Expected a notice from the store")
	}
}

func TestPublishAddsListing(t *testing.T) {
	st := newLoadedStore(t)
	model := InitialModel(st, Options{})
	m := press(t, &model, "4")
	if m.state.Page.Kind != render.PageListBook {
		t.Fatalf("Expected list book page, got %v", m.state.Page.Kind)
	}

	updated, _ := m.Update(components.PublishMsg{Draft: catalog.Draft{Title: "Wings of Fire", PricePerDay: 15}})
	m = updated.(*MainModel)

	if st.CurrentView() != store.ViewMyBooks {
		t.Errorf("Expected My Books after publishing, got %s", st.CurrentView())
	}
	if st.MyListedBooks()[0].Title != "Wings of Fire" {
		t.Errorf("Expected new listing first, got %q", st.MyListedBooks()[0].Title)
	}
	if m.state.Notice != ListingPublished {
		t.Errorf("Expected %q notice, got %q", ListingPublished, m.state.Notice)
	}
}

func TestListingFormRequiresTerms(t *testing.T) {
	st := newLoadedStore(t)
	model := InitialModel(st, Options{})
	m := press(t, &model, "4")

	m = press(t, m, "Dune")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(*MainModel)
	m = press(t, m, "12")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(*MainModel)

	if m.form.Step != components.StepPublish {
		t.Fatalf("Expected publish step, got %d", m.form.Step)
	}
	_, cmd := m.Update(key("enter"))
	if cmd != nil || m.form.Err != components.TermsRequired {
		t.Errorf("Expected terms error, got %q", m.form.Err)
	}

	m = press(t, m, " ")
	_, cmd = m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("Expected publish command once terms are accepted")
	}
	msg, ok := cmd().(components.PublishMsg)
	if !ok {
		t.Fatalf("Expected PublishMsg, got %T", cmd())
	}
	if msg.Draft.Title != "Dune" || msg.Draft.PricePerDay != 12 {
		t.Errorf("Unexpected draft %+v", msg.Draft)
	}
}

func TestReviewSubmission(t *testing.T) {
	st := newLoadedStore(t)
	model := InitialModel(st, Options{})
	if err := st.Navigate(store.ViewBookDetails, "b1"); err != nil {
		t.Fatal(err)
	}
	updated, _ := model.Update(CatalogLoadedMsg{})
	m := updated.(*MainModel)

	m = press(t, m, "r")
	if !m.reviewOpen {
		t.Fatal("Expected review form to open")
	}

	updated, _ = m.Update(components.SubmitReviewMsg{Rating: 0, Text: "great"})
	m = updated.(*MainModel)
	if m.state.Notice != ReviewRequired {
		t.Errorf("Expected %q, got %q", ReviewRequired, m.state.Notice)
	}

	updated, _ = m.Update(components.SubmitReviewMsg{Rating: 4, Text: "Loved it"})
	m = updated.(*MainModel)
	if m.reviewOpen {
		t.Error("Expected review form to close")
	}
	if len(m.state.Reviews) != len(store.SampleReviews)+1 || m.state.Reviews[0].Text != "Loved it" {
		t.Errorf("Expected new review first, got %+v", m.state.Reviews)
	}
}

func TestCarouselAdvances(t *testing.T) {
	model := InitialModel(newLoadedStore(t), Options{})
	for i := 0; i < len(render.Slides); i++ {
		updated, _ := model.Update(CarouselMsg(time.Now()))
		model = *updated.(*MainModel)
	}
	if model.state.Slide != 0 {
		t.Errorf("Expected carousel to wrap to 0, got %d", model.state.Slide)
	}
}

func TestLoadingPageBlocksNavigation(t *testing.T) {
	st := store.New(catalog.NewEnricher(rand.New(rand.NewPCG(1, 1)), catalog.CurrentUser))
	model := InitialModel(st, Options{})

	m := press(t, &model, "right")
	if m.state.Page.Kind != render.PageLoading || st.CurrentView() != store.ViewHome {
		t.Errorf("Expected loading page to ignore navigation, got %v", m.state.Page.Kind)
	}

	st.FailLoad("Could not load book data. Please try again later.")
	updated, _ := m.Update(CatalogLoadedMsg{})
	m = updated.(*MainModel)
	if m.state.Page.Kind != render.PageError {
		t.Errorf("Expected error page, got %v", m.state.Page.Kind)
	}
}

func TestViewRendersEveryPage(t *testing.T) {
	st := newLoadedStore(t)
	model := InitialModel(st, Options{})
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m := updated.(*MainModel)

	for i, tab := range state.Tabs {
		m = press(t, m, strconv.Itoa(i+1))
		out := m.View()
		if !strings.Contains(out, "BookLoop") {
			t.Errorf("Expected header on %s page", tab.Name)
		}
	}
}
