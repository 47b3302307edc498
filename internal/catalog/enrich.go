package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	coverURLFormat = "https://picsum.photos/seed/%s/400/600"

	// LocalDistance is the distance shown for books listed by the current user.
	LocalDistance = "0.1"

	// OwnedPrefix is how many leading catalog entries belong to the current user.
	OwnedPrefix = 4
)

// RandomSource supplies the randomness used to fabricate display fields.
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// Enricher turns generator records and lender drafts into complete books.
// It is safe for concurrent use; calls into the RandomSource are serialized.
type Enricher struct {
	mu    sync.Mutex
	rng   RandomSource
	user  Identity
	clock func() time.Time
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher)

// WithClock overrides the clock used for timestamp ids.
func WithClock(clock func() time.Time) EnricherOption {
	return func(e *Enricher) {
		e.clock = clock
	}
}

// NewEnricher creates an enricher acting on behalf of user.
func NewEnricher(rng RandomSource, user Identity, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		rng:   rng,
		user:  user,
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// User returns the identity the enricher lists books for.
func (e *Enricher) User() Identity {
	return e.user
}

// Enrich attaches randomized display fields to the record at position index
// of a generated batch. Entries before OwnedPrefix are lent by the user.
func (e *Enricher) Enrich(raw RawBook, index int) Book {
	seed := raw.ISBN
	if seed == "" {
		seed = strconv.Itoa(index)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	b := Book{
		ID:          seed,
		Title:       raw.Title,
		Author:      raw.Author,
		Synopsis:    raw.Synopsis,
		Category:    raw.Category,
		ISBN:        raw.ISBN,
		PricePerDay: e.rng.IntN(21) + 10,
		Rating:      e.rating(),
		Distance:    fmt.Sprintf("%.1f", e.rng.Float64()*15+1),
		CoverURL:    CoverURL(seed),
		Condition:   Conditions[e.rng.IntN(len(Conditions))],
		Pincode:     Pincodes[e.rng.IntN(len(Pincodes))],
	}

	if index < OwnedPrefix {
		b.LenderName = e.user.Name
		b.LenderPhoneNumber = e.user.PhoneNumber
	} else {
		b.LenderName = LenderNames[e.rng.IntN(len(LenderNames))]
		b.LenderPhoneNumber = LenderPhoneNumbers[e.rng.IntN(len(LenderPhoneNumbers))]
	}
	return b
}

// EnrichAll enriches a whole batch. An ISBN seen earlier in the batch falls
// back to the positional id so ids stay unique.
func (e *Enricher) EnrichAll(raws []RawBook) []Book {
	books := make([]Book, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for i, raw := range raws {
		b := e.Enrich(raw, i)
		if seen[b.ID] {
			b.ID = strconv.Itoa(i)
		}
		seen[b.ID] = true
		books = append(books, b)
	}
	return books
}

// Synthesize completes a lender draft: id from the ISBN or the current
// timestamp, a fresh rating, local distance and the user's identity.
func (e *Enricher) Synthesize(d Draft) Book {
	id := d.ISBN
	if id == "" {
		id = strconv.FormatInt(e.clock().UnixMilli(), 10)
	}

	cover := d.CoverURL
	if cover == "" {
		seed := d.ISBN
		if seed == "" {
			seed = d.Title
		}
		if seed == "" {
			seed = id
		}
		cover = CoverURL(seed)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return Book{
		ID:                id,
		Title:             d.Title,
		Author:            d.Author,
		Synopsis:          d.Synopsis,
		Category:          d.Category,
		ISBN:              d.ISBN,
		PricePerDay:       d.PricePerDay,
		Rating:            e.rating(),
		Distance:          LocalDistance,
		CoverURL:          cover,
		Condition:         d.Condition,
		Pincode:           e.user.Pincode,
		LenderName:        e.user.Name,
		LenderPhoneNumber: e.user.PhoneNumber,
	}
}

// rating is uniform in [3.5, 5.0] with one decimal. Callers hold e.mu.
func (e *Enricher) rating() string {
	return fmt.Sprintf("%.1f", e.rng.Float64()*1.5+3.5)
}

// CoverURL derives a deterministic placeholder cover from seed.
func CoverURL(seed string) string {
	return fmt.Sprintf(coverURLFormat, url.PathEscape(seed))
}
