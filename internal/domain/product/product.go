package product

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item as served by the remote catalog. Products are
// identified by ID and never mutated after they are fetched.
type Product struct {
	ID          int
	Title       string
	Description string
	Image       string
	Category    string
	Rating      Rating
}

// Rating holds the aggregate review score of a product.
type Rating struct {
	Rate  float64
	Count int
}

// Fetcher retrieves the product catalog from a remote source.
type Fetcher interface {
	// List returns up to limit products. A limit <= 0 returns the whole catalog.
	List(ctx context.Context, limit int) ([]Product, error)
}

// Find returns the product with the given id from products.
func Find(products []Product, id int) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
