package feed

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/xenking/catalog-feed/internal/catalog"
	"github.com/xenking/catalog-feed/internal/domain/favorites"
	"github.com/xenking/catalog-feed/internal/domain/pricing"
	"github.com/xenking/catalog-feed/internal/domain/prime"
)

// DefaultRecipeLimit is the number of recipes the alternate feed requests.
const DefaultRecipeLimit = 30

// RecipeFetcher retrieves recipes for the alternate feed.
type RecipeFetcher interface {
	Recipes(ctx context.Context, limit int) ([]catalog.Recipe, error)
}

// FavoriteSet is the read side of the favorites store.
type FavoriteSet interface {
	IsFavorite(id string) bool
}

// RecipeCard is one card of the alternate feed.
type RecipeCard struct {
	Item favorites.Item
	// OriginalIndex is the position in the fetched list; hiding cards does
	// not shift it, and the prime badge follows it.
	OriginalIndex int
	Prime         bool
	Favorite      bool
}

type recipeEntry struct {
	item  favorites.Item
	index int
}

// RecipeScreen is the state of the alternate feed backed by recipes.
type RecipeScreen struct {
	fetcher   RecipeFetcher
	favorites FavoriteSet
	limit     int
	lg        *zap.Logger

	mu      sync.Mutex
	loading bool
	entries []recipeEntry
	outcome Outcome
}

// NewRecipeScreen creates a RecipeScreen. A limit <= 0 uses DefaultRecipeLimit.
func NewRecipeScreen(fetcher RecipeFetcher, favs FavoriteSet, limit int, lg *zap.Logger) *RecipeScreen {
	if lg == nil {
		lg = zap.NewNop()
	}
	if limit <= 0 {
		limit = DefaultRecipeLimit
	}
	return &RecipeScreen{
		fetcher:   fetcher,
		favorites: favs,
		limit:     limit,
		lg:        lg,
		loading:   true,
	}
}

// RecipeItem converts a recipe into a favorites item priced from its name
// and instructions.
func RecipeItem(r catalog.Recipe) favorites.Item {
	description := r.Description()
	return favorites.Item{
		ID:          strconv.Itoa(r.ID),
		Name:        r.Name,
		Description: description,
		Image:       r.Image,
		Price:       pricing.CalculatePrice(r.Name, description),
	}
}

// Load fetches recipes once.
func (s *RecipeScreen) Load(ctx context.Context) Outcome {
	recipes, err := s.fetcher.Recipes(ctx, s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.lg.Warn("Failed to load recipes", zap.Error(err))
		s.outcome = Outcome{Status: StatusFailed, Err: err}
		return s.outcome
	}

	s.entries = make([]recipeEntry, len(recipes))
	for i, r := range recipes {
		s.entries[i] = recipeEntry{item: RecipeItem(r), index: i}
	}
	if len(recipes) == 0 {
		s.outcome = Outcome{Status: StatusEmpty}
	} else {
		s.outcome = Outcome{Status: StatusOK, Count: len(recipes)}
	}
	return s.outcome
}

// Loading reports whether the first load is still pending.
func (s *RecipeScreen) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Item returns the visible item with id.
func (s *RecipeScreen) Item(id string) (favorites.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.item.ID == id {
			return e.item, true
		}
	}
	return favorites.Item{}, false
}

// Hide removes the card with id from the screen.
func (s *RecipeScreen) Hide(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.item.ID == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Cards returns the visible cards.
func (s *RecipeScreen) Cards() []RecipeCard {
	s.mu.Lock()
	entries := make([]recipeEntry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	cards := make([]RecipeCard, len(entries))
	for i, e := range entries {
		cards[i] = RecipeCard{
			Item:          e.item,
			OriginalIndex: e.index,
			Prime:         prime.IsPrime(e.index),
			Favorite:      s.favorites != nil && s.favorites.IsFavorite(e.item.ID),
		}
	}
	return cards
}
