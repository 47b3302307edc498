package store

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ReviewDateLayout formats review dates as "July 15, 2024".
const ReviewDateLayout = "January 2, 2006"

// ErrInvalidReview is returned for a rating outside 1..5 or an empty text.
var ErrInvalidReview = errors.New("invalid review")

// Review is a reader's rating of a book.
type Review struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Date   string `json:"date"`
	Text   string `json:"text"`
}

// SampleReviews are shown under every book after the user's own reviews.
var SampleReviews = []Review{
	{
		ID:     "sample-1",
		Author: "Priya S.",
		Rating: 5,
		Date:   "July 15, 2024",
		Text:   "An absolute masterpiece! The character development was incredible, and I couldn't put it down. Highly recommend renting this.",
	},
	{
		ID:     "sample-2",
		Author: "Rohan G.",
		Rating: 4,
		Date:   "July 10, 2024",
		Text:   "A really solid read. The plot had some interesting twists. The book was in great condition when I received it.",
	},
}

// Reviews returns the reviews of bookID, newest first, followed by the
// sample reviews.
func (s *Store) Reviews(bookID string) []Review {
	s.mu.RLock()
	own := s.reviews[bookID]
	out := make([]Review, 0, len(own)+len(SampleReviews))
	out = append(out, own...)
	s.mu.RUnlock()
	return append(out, SampleReviews...)
}

// AddReview records a review by the current user.
func (s *Store) AddReview(bookID string, rating int, text string) (Review, error) {
	text = strings.TrimSpace(text)
	if rating < 1 || rating > 5 || text == "" {
		return Review{}, ErrInvalidReview
	}

	r := Review{
		ID:     uuid.New().String(),
		Author: s.User().ShortName(),
		Rating: rating,
		Date:   s.clock().Format(ReviewDateLayout),
		Text:   text,
	}

	s.mu.Lock()
	s.reviews[bookID] = append([]Review{r}, s.reviews[bookID]...)
	title := titleOf(s.books, bookID)
	s.mu.Unlock()

	s.emit(Event{Kind: EventReviewAdded, BookID: bookID, Title: title, Detail: itoa(rating)})
	return r, nil
}
