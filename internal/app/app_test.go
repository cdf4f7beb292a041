package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/catalog-feed/internal/domain/feed"
	"github.com/xenking/catalog-feed/internal/domain/product"
	"github.com/xenking/catalog-feed/internal/domain/saved"
	"github.com/xenking/catalog-feed/internal/storage"
	"github.com/xenking/catalog-feed/internal/storage/file"
)

const productsBody = `[
	{"id":1,"title":"Backpack","description":"Your perfect pack","category":"bags","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
	{"id":2,"title":"T-Shirt","description":"Slim fit","category":"clothing","image":"https://img/2.jpg","rating":{"rate":4.1,"count":259}}
]`

const recipesBody = `{"recipes":[{"id":7,"name":"Soup","instructions":["Boil water."],"image":"https://img/r7.jpg"}]}`

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(productsBody))
	})
	mux.HandleFunc("/recipes", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(recipesBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestConfig(srv *httptest.Server, backend, dir string) *Config {
	return &Config{
		Storage: StorageConfig{Backend: backend, Dir: dir},
		Catalog: CatalogConfig{
			ProductsURL: srv.URL + "/products",
			RecipesURL:  srv.URL + "/recipes",
			Timeout:     2 * time.Second,
			UserAgent:   "catalog-feed/test",
			RecipeLimit: 30,
		},
	}
}

func newTestApp(t *testing.T, cfg *Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, Options{})
	require.NoError(t, err)
	return a
}

func TestApp_OpenFeed(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, newTestConfig(newCatalogServer(t), storage.BackendMemory, ""))
	defer func() { require.NoError(t, a.Close(ctx)) }()

	screen, outcome, err := a.OpenFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, feed.StatusOK, outcome.Status)
	assert.True(t, a.Saved.Ready())

	cards := screen.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, "Backpack", cards[0].Product.Title)
}

func TestApp_OpenRecipes(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, newTestConfig(newCatalogServer(t), storage.BackendMemory, ""))
	defer func() { require.NoError(t, a.Close(ctx)) }()

	screen, outcome, err := a.OpenRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, feed.StatusOK, outcome.Status)

	cards := screen.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "7", cards[0].Item.ID)
}

func TestApp_FileBackendPersists(t *testing.T) {
	ctx := context.Background()
	srv := newCatalogServer(t)
	dir := t.TempDir()

	a := newTestApp(t, newTestConfig(srv, storage.BackendFile, dir))
	require.NoError(t, a.LoadStores(ctx))
	require.True(t, a.Saved.Save(product.Product{ID: 2, Title: "T-Shirt"}))
	require.NoError(t, a.Close(ctx))

	data, err := file.New(dir).Get(ctx, saved.StorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"T-Shirt"`)

	b := newTestApp(t, newTestConfig(srv, storage.BackendFile, dir))
	defer func() { require.NoError(t, b.Close(ctx)) }()
	require.NoError(t, b.LoadStores(ctx))
	assert.True(t, b.Saved.IsSaved(2))
}

func TestApp_LoadStoresCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, file.New(dir).Set(ctx, saved.StorageKey, []byte("{not json")))

	a := newTestApp(t, newTestConfig(newCatalogServer(t), storage.BackendFile, dir))
	defer func() { require.NoError(t, a.Close(ctx)) }()

	err := a.LoadStores(ctx)
	require.Error(t, err)
	assert.True(t, a.Saved.Ready())
	assert.Empty(t, a.Saved.Items())

	// Loaded stores are not read again.
	require.NoError(t, a.LoadStores(ctx))
}

func TestApp_Checks(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, newTestConfig(newCatalogServer(t), storage.BackendMemory, ""))
	defer func() { require.NoError(t, a.Close(ctx)) }()

	report := a.Checks().Run(ctx)
	require.Len(t, report, 2)
	assert.Equal(t, "storage:memory", report[0].Name)
	assert.Equal(t, "catalog", report[1].Name)
	assert.True(t, report.Healthy())
}

func TestApp_ChecksCatalogDown(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := newTestApp(t, newTestConfig(srv, storage.BackendMemory, ""))
	defer func() { require.NoError(t, a.Close(ctx)) }()

	report := a.Checks().Run(ctx)
	assert.False(t, report.Healthy())
	assert.True(t, report[0].Healthy())
	assert.False(t, report[1].Healthy())
}

func TestNew_InvalidCatalogURL(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{Backend: storage.BackendMemory},
		Catalog: CatalogConfig{ProductsURL: "ftp://example.com/products"},
	}
	_, err := New(context.Background(), cfg, Options{})
	require.Error(t, err)
}
