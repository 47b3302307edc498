package views

import (
	"bookloop/internal/catalog"
	"bookloop/internal/render"
	"bookloop/ui/tui/state"
)

// Render draws the page in s inside the application frame.
func Render(s state.AppState, user catalog.Identity, props ViewProps) string {
	switch s.Page.Kind {
	case render.PageLoading:
		return LoadingView{}.Render(s, props)
	case render.PageError:
		return ErrorView{}.Render(s, props)
	}

	var v View
	help := "[↑/↓] Select • [enter] Open • [b] Home"
	switch s.Page.Kind {
	case render.PageBookDetails:
		v = DetailsView{}
		help = "[r] Review • [pgup/pgdn] Scroll • [b] Home"
	case render.PageCategory:
		v = CategoryView{}
	case render.PageMyBooks:
		v = MyBooksView{}
		help = "[↑/↓] Select • [e] Edit • [d] Delete • [n] New • [b] Home"
	case render.PageMyRentals:
		v = RentalsView{}
		help = "[↑/↓] Select • [r] Return • [c] Contact • [b] Home"
	case render.PageListBook:
		v = ListBookView{}
		help = "[tab] Next field • [ctrl+n/ctrl+p] Step • [enter] Publish • [esc] Leave"
	case render.PageProfile:
		v = ProfileView{User: user}
		help = "[b] Home"
	default:
		v = HomeView{}
	}
	return Frame(s, props, v.Render(s, props), help)
}
