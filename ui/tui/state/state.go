package state

import (
	"time"

	"bookloop/internal/catalog"
	"bookloop/internal/journal"
	"bookloop/internal/render"
	"bookloop/internal/store"
)

// Tab is an entry of the navigation bar.
type Tab struct {
	Name string
	View store.View
}

// Tabs are shown left to right in the navigation bar.
var Tabs = []Tab{
	{Name: "Home", View: store.ViewHome},
	{Name: "My Books", View: store.ViewMyBooks},
	{Name: "My Rentals", View: store.ViewMyRentals},
	{Name: "List a Book", View: store.ViewListBook},
	{Name: "Profile", View: store.ViewProfile},
}

// TabIndex returns the tab showing v, or -1 for pages reached from content.
func TabIndex(v store.View) int {
	for i, tab := range Tabs {
		if tab.View == v {
			return i
		}
	}
	return -1
}

// Pending is a destructive action waiting for a yes/no answer.
type Pending struct {
	Prompt string
	BookID string
	Title  string
}

// AppState holds what the views need beyond the store snapshot.
type AppState struct {
	Page    render.Page
	User    string
	Reviews []store.Review

	Slide       int
	Cursor      int
	ScrollY     int
	Notice      string
	NoticeUntil time.Time
	Confirm     *Pending

	Summary    journal.Summary
	SummaryErr error
}

// NoticeVisible reports whether the notice banner is still up at now.
func (s AppState) NoticeVisible(now time.Time) bool {
	return s.Notice != "" && now.Before(s.NoticeUntil)
}

// EntryKind says what activating an entry does.
type EntryKind int

const (
	EntryCategory EntryKind = iota
	EntryBook
)

// Entry is one selectable item in the page body.
type Entry struct {
	Kind     EntryKind
	Category string
	Book     catalog.Book
}

// Entries lists the selectable items of p in display order.
func Entries(p render.Page) []Entry {
	var out []Entry
	switch p.Kind {
	case render.PageHome:
		for _, c := range p.Categories {
			out = append(out, Entry{Kind: EntryCategory, Category: c.Name})
		}
		for _, sh := range p.Shelves {
			for _, b := range sh.Books {
				out = append(out, Entry{Kind: EntryBook, Book: b})
			}
		}
	case render.PageCategory, render.PageMyBooks, render.PageMyRentals:
		for _, b := range p.Books {
			out = append(out, Entry{Kind: EntryBook, Book: b})
		}
	}
	return out
}
