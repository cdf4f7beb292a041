package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/jx"
	"gopkg.in/yaml.v3"

	"github.com/xenking/catalog-feed/internal/domain/favorites"
	"github.com/xenking/catalog-feed/internal/domain/feed"
)

// Format selects how results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates an --output value. The empty string means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", &ValidationError{Field: "output", Message: fmt.Sprintf("%q is not one of table, json, yaml", s)}
	}
}

// cardView is the machine-readable form of a product card.
type cardView struct {
	ID          int     `yaml:"id"`
	Index       int     `yaml:"index"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description,omitempty"`
	Category    string  `yaml:"category"`
	Image       string  `yaml:"image"`
	Rating      float64 `yaml:"rating"`
	Price       string  `yaml:"price"`
	Prime       bool    `yaml:"prime"`
	Saved       bool    `yaml:"saved"`
}

func (v cardView) encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int(v.ID)
	e.FieldStart("index")
	e.Int(v.Index)
	e.FieldStart("title")
	e.Str(v.Title)
	if v.Description != "" {
		e.FieldStart("description")
		e.Str(v.Description)
	}
	e.FieldStart("category")
	e.Str(v.Category)
	e.FieldStart("image")
	e.Str(v.Image)
	e.FieldStart("rating")
	e.Float64(v.Rating)
	e.FieldStart("price")
	e.Str(v.Price)
	e.FieldStart("prime")
	e.Bool(v.Prime)
	e.FieldStart("saved")
	e.Bool(v.Saved)
	e.ObjEnd()
}

func newCardView(c feed.Card, withDescription bool) cardView {
	v := cardView{
		ID:       c.Product.ID,
		Index:    c.Index,
		Title:    c.Product.Title,
		Category: c.Product.Category,
		Image:    c.Product.Image,
		Rating:   c.Product.Rating.Rate,
		Price:    c.Price,
		Prime:    c.Prime,
		Saved:    c.Saved,
	}
	if withDescription {
		v.Description = c.Product.Description
	}
	return v
}

// itemView is the machine-readable form of a recipe card or favorite.
type itemView struct {
	ID       string `yaml:"id"`
	Index    int    `yaml:"index"`
	Name     string `yaml:"name"`
	Image    string `yaml:"image"`
	Price    string `yaml:"price"`
	Prime    bool   `yaml:"prime"`
	Favorite bool   `yaml:"favorite"`
}

func (v itemView) encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(v.ID)
	e.FieldStart("index")
	e.Int(v.Index)
	e.FieldStart("name")
	e.Str(v.Name)
	e.FieldStart("image")
	e.Str(v.Image)
	e.FieldStart("price")
	e.Str(v.Price)
	e.FieldStart("prime")
	e.Bool(v.Prime)
	e.FieldStart("favorite")
	e.Bool(v.Favorite)
	e.ObjEnd()
}

// Printer writes results in the selected format.
type Printer struct {
	W       io.Writer
	Format  Format
	Palette Palette
}

// Cards writes a list of product cards.
func (p Printer) Cards(cards []feed.Card) error {
	views := make([]cardView, len(cards))
	for i, c := range cards {
		views[i] = newCardView(c, false)
	}

	switch p.Format {
	case FormatJSON:
		return p.writeJSON(func(e *jx.Encoder) {
			e.ArrStart()
			for _, v := range views {
				v.encode(e)
			}
			e.ArrEnd()
		})
	case FormatYAML:
		return p.writeYAML(views)
	}

	if len(views) == 0 {
		_, err := fmt.Fprintln(p.W, p.Palette.Gray("No products."))
		return err
	}
	t := NewTable()
	t.SetMaxWidth(2, DefaultMaxTitleWidth)
	t.AddRow("#", "ID", "TITLE", "PRICE", "RATING", "")
	for _, v := range views {
		t.AddRow(
			strconv.Itoa(v.Index),
			strconv.Itoa(v.ID),
			v.Title,
			p.Palette.Green(v.Price),
			strconv.FormatFloat(v.Rating, 'f', 1, 64),
			p.badges(v.Prime, v.Saved, "saved"),
		)
	}
	return t.Render(p.W)
}

// Detail writes a single product card with its description.
func (p Printer) Detail(card feed.Card) error {
	v := newCardView(card, true)

	switch p.Format {
	case FormatJSON:
		return p.writeJSON(v.encode)
	case FormatYAML:
		return p.writeYAML(v)
	}

	t := NewTable()
	t.AddRow("ID", strconv.Itoa(v.ID))
	t.AddRow("Title", v.Title)
	t.AddRow("Category", v.Category)
	t.AddRow("Price", p.Palette.Green(v.Price))
	t.AddRow("Rating", fmt.Sprintf("%.1f (%d)", v.Rating, card.Product.Rating.Count))
	t.AddRow("Image", v.Image)
	if v.Saved {
		t.AddRow("Saved", p.Palette.Yellow("yes"))
	} else {
		t.AddRow("Saved", "no")
	}
	if err := t.Render(p.W); err != nil {
		return err
	}
	if v.Description == "" {
		return nil
	}
	_, err := fmt.Fprintf(p.W, "\n%s\n", v.Description)
	return err
}

// RecipeCards writes the cards of the alternate feed.
func (p Printer) RecipeCards(cards []feed.RecipeCard) error {
	views := make([]itemView, len(cards))
	for i, c := range cards {
		views[i] = itemView{
			ID:       c.Item.ID,
			Index:    c.OriginalIndex,
			Name:     c.Item.Name,
			Image:    c.Item.Image,
			Price:    c.Item.Price,
			Prime:    c.Prime,
			Favorite: c.Favorite,
		}
	}
	return p.items(views, "No recipes.")
}

// Favorites writes favorited items in insertion order.
func (p Printer) Favorites(items []favorites.Item) error {
	views := make([]itemView, len(items))
	for i, it := range items {
		views[i] = itemView{
			ID:       it.ID,
			Index:    i,
			Name:     it.Name,
			Image:    it.Image,
			Price:    it.Price,
			Favorite: true,
		}
	}
	return p.items(views, "No favorites.")
}

func (p Printer) items(views []itemView, empty string) error {
	switch p.Format {
	case FormatJSON:
		return p.writeJSON(func(e *jx.Encoder) {
			e.ArrStart()
			for _, v := range views {
				v.encode(e)
			}
			e.ArrEnd()
		})
	case FormatYAML:
		return p.writeYAML(views)
	}

	if len(views) == 0 {
		_, err := fmt.Fprintln(p.W, p.Palette.Gray(empty))
		return err
	}
	t := NewTable()
	t.SetMaxWidth(2, DefaultMaxTitleWidth)
	t.AddRow("#", "ID", "NAME", "PRICE", "")
	for _, v := range views {
		t.AddRow(
			strconv.Itoa(v.Index),
			v.ID,
			v.Name,
			p.Palette.Green(v.Price),
			p.badges(v.Prime, v.Favorite, "favorite"),
		)
	}
	return t.Render(p.W)
}

// Message writes a plain status line. Machine formats stay silent.
func (p Printer) Message(format string, args ...any) error {
	if p.Format != FormatTable && p.Format != "" {
		return nil
	}
	_, err := fmt.Fprintf(p.W, format+"\n", args...)
	return err
}

func (p Printer) badges(prime, marked bool, mark string) string {
	var out []string
	if prime {
		out = append(out, p.Palette.Yellow("prime"))
	}
	if marked {
		out = append(out, p.Palette.Red(mark))
	}
	return strings.Join(out, " ")
}

func (p Printer) writeJSON(fn func(e *jx.Encoder)) error {
	e := &jx.Encoder{}
	e.SetIdent(2)
	fn(e)
	e.RawStr("\n")
	_, err := p.W.Write(e.Bytes())
	return err
}

func (p Printer) writeYAML(v any) error {
	enc := yaml.NewEncoder(p.W)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
