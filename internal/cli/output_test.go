package cli

import (
	"bytes"
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xenking/catalog-feed/internal/domain/favorites"
	"github.com/xenking/catalog-feed/internal/domain/feed"
	"github.com/xenking/catalog-feed/internal/domain/product"
)

func testCards() []feed.Card {
	return []feed.Card{
		{
			Product: product.Product{ID: 1, Title: "Backpack", Category: "bags", Rating: product.Rating{Rate: 3.9, Count: 120}},
			Index:   0,
			Price:   "$85.00",
		},
		{
			Product: product.Product{ID: 2, Title: "Shirt", Description: "Slim fit"},
			Index:   2,
			Price:   "$52.00",
			Prime:   true,
			Saved:   true,
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":       FormatTable,
		"table":  FormatTable,
		"JSON":   FormatJSON,
		" yaml ": FormatYAML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "output", vErr.Field)
}

func TestPrinter_CardsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf, Format: FormatTable}.Cards(testCards()))

	want := "" +
		"#  ID  TITLE     PRICE   RATING  \n" +
		"0  1   Backpack  $85.00  3.9     \n" +
		"2  2   Shirt     $52.00  0.0     prime saved\n"
	assert.Equal(t, want, buf.String())
}

func TestPrinter_CardsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf}.Cards(nil))
	assert.Equal(t, "No products.\n", buf.String())

	buf.Reset()
	require.NoError(t, Printer{W: &buf, Format: FormatJSON}.Cards(nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestPrinter_CardsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf, Format: FormatJSON}.Cards(testCards()))

	var ids []int
	var primes []bool
	err := jx.DecodeBytes(buf.Bytes()).Arr(func(d *jx.Decoder) error {
		return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			switch string(key) {
			case "id":
				v, err := d.Int()
				ids = append(ids, v)
				return err
			case "prime":
				v, err := d.Bool()
				primes = append(primes, v)
				return err
			default:
				return d.Skip()
			}
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)
	assert.Equal(t, []bool{false, true}, primes)
}

func TestPrinter_CardsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf, Format: FormatYAML}.Cards(testCards()))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Backpack", got[0]["title"])
	assert.Equal(t, "$52.00", got[1]["price"])
	assert.Equal(t, true, got[1]["saved"])
}

func TestPrinter_Detail(t *testing.T) {
	card := testCards()[1]

	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf}.Detail(card))
	out := buf.String()
	assert.Contains(t, out, "Title     Shirt\n")
	assert.Contains(t, out, "Saved     yes\n")
	assert.Contains(t, out, "\nSlim fit\n")

	buf.Reset()
	require.NoError(t, Printer{W: &buf, Format: FormatYAML}.Detail(card))
	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Slim fit", got["description"])
}

func TestPrinter_RecipeCardsAndFavorites(t *testing.T) {
	cards := []feed.RecipeCard{
		{Item: favorites.Item{ID: "4", Name: "Tea", Price: "$31.00"}, OriginalIndex: 3, Prime: true, Favorite: true},
	}

	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf}.RecipeCards(cards))
	assert.Equal(t, "#  ID  NAME  PRICE   \n3  4   Tea   $31.00  prime favorite\n", buf.String())

	buf.Reset()
	require.NoError(t, Printer{W: &buf}.Favorites(nil))
	assert.Equal(t, "No favorites.\n", buf.String())

	buf.Reset()
	require.NoError(t, Printer{W: &buf, Format: FormatJSON}.Favorites([]favorites.Item{{ID: "9", Name: "Soup"}}))
	assert.Contains(t, buf.String(), `"favorite"`)
	assert.Contains(t, buf.String(), `"Soup"`)
}

func TestPrinter_Message(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf}.Message("saved %d", 3))
	assert.Equal(t, "saved 3\n", buf.String())

	buf.Reset()
	require.NoError(t, Printer{W: &buf, Format: FormatJSON}.Message("saved %d", 3))
	assert.Empty(t, buf.String())
}
