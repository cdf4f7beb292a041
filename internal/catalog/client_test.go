package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsBody = `[
	{"id":1,"title":"Backpack","price":109.95,"description":"Your perfect pack","category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
	{"id":2,"title":"T-Shirt","price":22.3,"description":"Slim-fitting style","category":"men's clothing","image":"https://img/2.jpg","rating":{"rate":4.1,"count":259}},
	{"id":3,"title":"Jacket","price":55.99,"description":"Great outerwear","category":"men's clothing","image":"https://img/3.jpg","rating":{"rate":4.7,"count":500}}
]`

const recipesBody = `{
	"recipes": [
		{"id": 1, "name": "Classic Margherita Pizza", "instructions": ["Preheat the oven.", "Bake."], "image": "https://img/r1.jpg", "tags": ["Pizza"]},
		{"id": 2, "name": "Veg Stir-Fry", "instructions": "Stir and fry.", "image": "https://img/r2.jpg"}
	],
	"total": 50,
	"skip": 0,
	"limit": 2
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		ProductsURL: srv.URL + "/products",
		RecipesURL:  srv.URL + "/recipes",
		Timeout:     2 * time.Second,
		UserAgent:   "catalog-feed/test",
	}, nil)
	require.NoError(t, err)
	return c, srv
}

func TestClient_List(t *testing.T) {
	var gotQuery, gotUA, gotRequestID string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productsBody))
	})

	products, err := c.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Empty(t, gotQuery)
	assert.Equal(t, "catalog-feed/test", gotUA)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "Backpack", products[0].Title)
	assert.Equal(t, 500, products[2].Rating.Count)
}

func TestClient_ListWithLimit(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		// Ignore the limit like some mirrors do.
		_, _ = w.Write([]byte(productsBody))
	})

	products, err := c.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "limit=2", gotQuery)
	assert.Len(t, products, 2)
}

func TestClient_ListStatusError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.List(context.Background(), 0)
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestClient_ListMalformed(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"not a list"}`))
	})

	_, err := c.List(context.Background(), 0)
	require.Error(t, err)
}

func TestClient_ListCancelled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(productsBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx, 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_Recipes(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recipes", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(recipesBody))
	})

	recipes, err := c.Recipes(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, "limit=30", gotQuery)
	require.Len(t, recipes, 2)

	assert.Equal(t, "Classic Margherita Pizza", recipes[0].Name)
	assert.Equal(t, "Preheat the oven. Bake.", recipes[0].Description())
	assert.Equal(t, "Stir and fry.", recipes[1].Description())
}

func TestClient_Ping(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "limit=1", r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	})
	require.NoError(t, c.Ping(context.Background()))
}

func TestNew_InvalidURL(t *testing.T) {
	for _, raw := range []string{"ftp://example.com", "not a url", "http://"} {
		_, err := New(Config{ProductsURL: raw}, nil)
		assert.Error(t, err, raw)
	}
}
