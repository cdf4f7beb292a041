package catalog

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// Recipe is an entry of the recipes endpoint that backs the alternate feed.
type Recipe struct {
	ID           int
	Name         string
	Instructions []string
	Image        string
}

// Description joins the instructions into a single paragraph.
func (r Recipe) Description() string {
	return strings.Join(r.Instructions, " ")
}

// Decode reads r from a JSON object. Instructions may be an array of steps or
// a single string.
func (r *Recipe) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if d.Next() == jx.Null {
			return d.Null()
		}
		var err error
		switch string(key) {
		case "id":
			r.ID, err = d.Int()
		case "name":
			r.Name, err = d.Str()
		case "image":
			r.Image, err = d.Str()
		case "instructions":
			r.Instructions, err = decodeInstructions(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "decode %q", key)
		}
		return nil
	})
}

func decodeInstructions(d *jx.Decoder) ([]string, error) {
	if d.Next() == jx.String {
		s, err := d.Str()
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	var steps []string
	err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		steps = append(steps, s)
		return nil
	})
	return steps, err
}

// Recipes fetches up to limit recipes.
func (c *Client) Recipes(ctx context.Context, limit int) ([]Recipe, error) {
	body, err := c.get(ctx, withLimit(c.recipesURL, limit))
	if err != nil {
		return nil, errors.Wrap(err, "fetch recipes")
	}

	var recipes []Recipe
	if err := jx.DecodeBytes(body).ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "recipes" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			var r Recipe
			if err := r.Decode(d); err != nil {
				return err
			}
			recipes = append(recipes, r)
			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode recipes")
	}

	c.lg.Debug("Fetched recipes", zap.Int("count", len(recipes)))
	return recipes, nil
}
