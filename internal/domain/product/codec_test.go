package product

import (
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeStorePayload = `[
  {
    "id": 1,
    "title": "Fjallraven - Foldsack No. 1 Backpack, Fits 15 Laptops",
    "price": 109.95,
    "description": "Your perfect pack for everyday use",
    "category": "men's clothing",
    "image": "https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
    "rating": {"rate": 3.9, "count": 120}
  },
  {
    "id": 2,
    "title": "Mens Casual Premium Slim Fit T-Shirts",
    "description": null,
    "category": "men's clothing",
    "image": "",
    "rating": {"rate": 4.1, "count": 259, "extra": true}
  }
]`

func TestDecodeList_FakeStoreShape(t *testing.T) {
	products, err := DecodeList(jx.DecodeStr(fakeStorePayload))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, Product{
		ID:          1,
		Title:       "Fjallraven - Foldsack No. 1 Backpack, Fits 15 Laptops",
		Description: "Your perfect pack for everyday use",
		Image:       "https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
		Category:    "men's clothing",
		Rating:      Rating{Rate: 3.9, Count: 120},
	}, products[0])

	assert.Equal(t, 2, products[1].ID)
	assert.Empty(t, products[1].Description)
	assert.Equal(t, 259, products[1].Rating.Count)
}

func TestDecodeList_Invalid(t *testing.T) {
	for _, input := range []string{
		`{"id":1}`,
		`[{"id":"one"}]`,
		`[{"id":1`,
	} {
		_, err := DecodeList(jx.DecodeStr(input))
		assert.Error(t, err, input)
	}
}

func TestEncodeList_ReadsBack(t *testing.T) {
	in := []Product{
		{ID: 7, Title: "Lamp", Description: "warm light", Category: "home", Rating: Rating{Rate: 4.5, Count: 3}},
		{ID: 9, Title: "Mug \"XL\""},
	}

	data := EncodeList(in)
	assert.JSONEq(t, `[
		{"id":7,"title":"Lamp","description":"warm light","image":"","category":"home","rating":{"rate":4.5,"count":3}},
		{"id":9,"title":"Mug \"XL\"","description":"","image":"","category":"","rating":{"rate":0,"count":0}}
	]`, string(data))

	out, err := DecodeList(jx.DecodeBytes(data))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeList_Empty(t *testing.T) {
	assert.Equal(t, "[]", string(EncodeList(nil)))
}

func TestFind(t *testing.T) {
	products := []Product{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}

	p, ok := Find(products, 2)
	require.True(t, ok)
	assert.Equal(t, "b", p.Title)

	_, ok = Find(products, 3)
	assert.False(t, ok)
}
