package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"github.com/xenking/catalog-feed/internal/domain/product"
)

// List fetches up to limit products; limit <= 0 fetches the whole catalog.
func (c *Client) List(ctx context.Context, limit int) ([]product.Product, error) {
	body, err := c.get(ctx, withLimit(c.productsURL, limit))
	if err != nil {
		return nil, errors.Wrap(err, "fetch products")
	}

	products, err := product.DecodeList(jx.DecodeBytes(body))
	if err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	// Some mirrors ignore the limit parameter.
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}

	c.lg.Debug("Fetched products", zap.Int("count", len(products)))
	return products, nil
}
