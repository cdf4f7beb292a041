// Package feed holds the presentation state of the feed, saved and detail
// views: which cards are visible, their computed price and badge, and the
// explicit outcome of the last catalog load.
package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/xenking/catalog-feed/internal/domain/pricing"
	"github.com/xenking/catalog-feed/internal/domain/prime"
	"github.com/xenking/catalog-feed/internal/domain/product"
)

// Status classifies the result of a catalog load.
type Status int

const (
	// StatusOK means products were fetched.
	StatusOK Status = iota
	// StatusEmpty means the fetch succeeded but returned nothing.
	StatusEmpty
	// StatusFailed means the fetch failed; Outcome.Err holds the reason.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of a load. Failures are reported here instead of
// being swallowed, so callers decide whether to surface them.
type Outcome struct {
	Status Status
	Count  int
	Err    error
}

// SavedSet is the read side of the saved store used by the views.
type SavedSet interface {
	IsSaved(id int) bool
	Get(id int) (product.Product, bool)
	Items() []product.Product
}

// Card is one rendered product card.
type Card struct {
	Product product.Product
	// Index is the position of the card in its list, starting at 0.
	Index int
	Price string
	// Prime marks cards whose Index is prime; the saved view never sets it.
	Prime bool
	Saved bool
}

// Screen is the state of the feed view.
type Screen struct {
	fetcher product.Fetcher
	saved   SavedSet
	limit   int
	lg      *zap.Logger

	mu       sync.Mutex
	loading  bool
	products []product.Product
	outcome  Outcome
}

// NewScreen creates a feed Screen. It starts in the loading state.
func NewScreen(fetcher product.Fetcher, saved SavedSet, limit int, lg *zap.Logger) *Screen {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Screen{
		fetcher: fetcher,
		saved:   saved,
		limit:   limit,
		lg:      lg,
		loading: true,
	}
}

// Load fetches the catalog once. On failure the visible list is left
// unchanged and the failure is returned in the Outcome.
func (s *Screen) Load(ctx context.Context) Outcome {
	products, err := s.fetcher.List(ctx, s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	switch {
	case err != nil:
		s.lg.Warn("Failed to load feed", zap.Error(err))
		s.outcome = Outcome{Status: StatusFailed, Err: err}
	case len(products) == 0:
		s.products = nil
		s.outcome = Outcome{Status: StatusEmpty}
	default:
		s.products = products
		s.outcome = Outcome{Status: StatusOK, Count: len(products)}
	}
	return s.outcome
}

// Loading reports whether the first load is still pending.
func (s *Screen) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Outcome returns the result of the last load.
func (s *Screen) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Hide removes the product with id from the visible list. The catalog and
// the saved set are not affected. It reports whether a card was removed.
func (s *Screen) Hide(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i:i], s.products[i+1:]...)
			return true
		}
	}
	return false
}

// Cards returns the visible cards in order.
func (s *Screen) Cards() []Card {
	s.mu.Lock()
	products := make([]product.Product, len(s.products))
	copy(products, s.products)
	s.mu.Unlock()

	cards := make([]Card, len(products))
	for i, p := range products {
		cards[i] = Card{
			Product: p,
			Index:   i,
			Price:   pricing.CalculatePrice(p.Title, p.Description),
			Prime:   prime.IsPrime(i),
			Saved:   s.saved != nil && s.saved.IsSaved(p.ID),
		}
	}
	return cards
}

// SavedCards returns the cards of the saved view.
func SavedCards(saved SavedSet) []Card {
	items := saved.Items()
	cards := make([]Card, len(items))
	for i, p := range items {
		cards[i] = Card{
			Product: p,
			Index:   i,
			Price:   pricing.CalculatePrice(p.Title, p.Description),
			Saved:   true,
		}
	}
	return cards
}

// Detail resolves the product shown by the detail view: the saved copy when
// present, otherwise the product from a full catalog fetch.
func Detail(ctx context.Context, fetcher product.Fetcher, saved SavedSet, id int) (Card, error) {
	if p, ok := saved.Get(id); ok {
		return detailCard(p, true), nil
	}

	products, err := fetcher.List(ctx, 0)
	if err != nil {
		return Card{}, err
	}
	p, ok := product.Find(products, id)
	if !ok {
		return Card{}, product.ErrNotFound
	}
	return detailCard(p, saved.IsSaved(id)), nil
}

func detailCard(p product.Product, saved bool) Card {
	return Card{
		Product: p,
		Price:   pricing.CalculatePrice(p.Title, p.Description),
		Saved:   saved,
	}
}
