// Package app loads configuration and wires the storage backend, catalog
// client and stores used by the terminal front-end.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/catalog-feed/internal/catalog"
	"github.com/xenking/catalog-feed/internal/domain/favorites"
	"github.com/xenking/catalog-feed/internal/domain/feed"
	"github.com/xenking/catalog-feed/internal/domain/saved"
	"github.com/xenking/catalog-feed/internal/storage"
	"github.com/xenking/catalog-feed/internal/storage/file"
	"github.com/xenking/catalog-feed/internal/storage/memory"
	"github.com/xenking/catalog-feed/internal/storage/postgres"
	"github.com/xenking/catalog-feed/pkg/health"
)

// checkTimeout bounds each doctor check.
const checkTimeout = 5 * time.Second

// Options carries process-wide dependencies into New.
type Options struct {
	Logger         *zap.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// Transport replaces the base HTTP transport of the catalog client.
	Transport http.RoundTripper
}

// App holds the wired dependencies. Create it with New and release it with
// Close.
type App struct {
	cfg  *Config
	lg   *zap.Logger
	pool *pgxpool.Pool

	KV        storage.KV
	Catalog   *catalog.Client
	Saved     *saved.Store
	Favorites *favorites.Store
}

// New creates every dependency described by cfg. Stores are created but not
// loaded; see LoadStores.
func New(ctx context.Context, cfg *Config, opts Options) (*App, error) {
	lg := opts.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	a := &App{cfg: cfg, lg: lg}

	kv, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	a.KV = kv

	client, err := catalog.New(catalog.Config{
		ProductsURL:    cfg.Catalog.ProductsURL,
		RecipesURL:     cfg.Catalog.RecipesURL,
		Timeout:        cfg.Catalog.Timeout,
		UserAgent:      cfg.Catalog.UserAgent,
		TracerProvider: opts.TracerProvider,
		MeterProvider:  opts.MeterProvider,
		Transport:      opts.Transport,
	}, lg.Named("catalog"))
	if err != nil {
		a.closePool()
		return nil, errors.Wrap(err, "create catalog client")
	}
	a.Catalog = client

	a.Saved = saved.NewStore(kv, saved.Options{
		Logger:        lg.Named("saved"),
		MeterProvider: opts.MeterProvider,
	})
	a.Favorites = favorites.NewStore(kv, favorites.Options{
		Logger:        lg.Named("favorites"),
		MeterProvider: opts.MeterProvider,
	})

	return a, nil
}

func (a *App) openStorage(ctx context.Context) (storage.KV, error) {
	switch backend := a.cfg.Storage.Backend; backend {
	case storage.BackendMemory:
		a.lg.Debug("Using in-memory storage")
		return memory.New(), nil
	case storage.BackendFile:
		a.lg.Debug("Using file storage", zap.String("dir", a.cfg.Storage.Dir))
		return file.New(a.cfg.Storage.Dir), nil
	case storage.BackendPostgres:
		pool, err := postgres.NewPool(ctx, a.cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "create db pool")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "run migrations")
		}
		a.pool = pool
		a.lg.Debug("Using postgres storage")
		return postgres.New(pool), nil
	default:
		return nil, errors.Errorf("unknown storage backend %q", backend)
	}
}

// Limit is the configured product limit.
func (a *App) Limit() int { return a.cfg.Catalog.Limit }

// LoadStores loads the saved and favorites stores concurrently. Stores that
// are already loaded are left alone. Both stores are usable afterwards even when an error is returned; the error describes
// stored data that could not be read and was replaced by an empty list.
func (a *App) LoadStores(ctx context.Context) error {
	var g errgroup.Group
	var savedErr, favErr error
	g.Go(func() error {
		savedErr = a.loadSaved(ctx)
		return nil
	})
	g.Go(func() error {
		favErr = a.loadFavorites(ctx)
		return nil
	})
	_ = g.Wait()

	if savedErr != nil {
		return savedErr
	}
	return favErr
}

func (a *App) loadSaved(ctx context.Context) error {
	if a.Saved.Ready() {
		return nil
	}
	if err := a.Saved.Load(ctx); err != nil {
		a.lg.Warn("Failed to load saved items", zap.Error(err))
		return errors.Wrap(err, "load saved items")
	}
	return nil
}

func (a *App) loadFavorites(ctx context.Context) error {
	if a.Favorites.Ready() {
		return nil
	}
	if err := a.Favorites.Load(ctx); err != nil {
		a.lg.Warn("Failed to load favorites", zap.Error(err))
		return errors.Wrap(err, "load favorites")
	}
	return nil
}

// OpenFeed loads the saved set and fetches the catalog concurrently and
// returns the resulting feed screen. The Outcome reports the fetch; the error
// reports a saved set that could not be read.
func (a *App) OpenFeed(ctx context.Context) (*feed.Screen, feed.Outcome, error) {
	screen := feed.NewScreen(a.Catalog, a.Saved, a.cfg.Catalog.Limit, a.lg.Named("feed"))

	var (
		g       errgroup.Group
		loadErr error
		outcome feed.Outcome
	)
	g.Go(func() error {
		loadErr = a.loadSaved(ctx)
		return nil
	})
	g.Go(func() error {
		outcome = screen.Load(ctx)
		return nil
	})
	_ = g.Wait()

	return screen, outcome, loadErr
}

// OpenRecipes loads favorites and fetches recipes concurrently.
func (a *App) OpenRecipes(ctx context.Context) (*feed.RecipeScreen, feed.Outcome, error) {
	screen := feed.NewRecipeScreen(a.Catalog, a.Favorites, a.cfg.Catalog.RecipeLimit, a.lg.Named("recipes"))

	var (
		g       errgroup.Group
		loadErr error
		outcome feed.Outcome
	)
	g.Go(func() error {
		loadErr = a.loadFavorites(ctx)
		return nil
	})
	g.Go(func() error {
		outcome = screen.Load(ctx)
		return nil
	})
	_ = g.Wait()

	return screen, outcome, loadErr
}

// Checks returns the dependency checks run by the doctor command.
func (a *App) Checks() *health.Checker {
	c := health.New()
	c.Add("storage:"+a.cfg.Storage.Backend, checkTimeout, a.KV.Ping)
	c.Add("catalog", checkTimeout, a.Catalog.Ping)
	return c
}

// Close waits for pending writes, stops the stores and releases the storage
// backend. It returns the first write error.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for _, s := range []interface {
		Flush(context.Context) error
		Close() error
	}{a.Saved, a.Favorites} {
		if err := s.Flush(ctx); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "flush")
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "close store")
		}
	}
	a.closePool()
	return firstErr
}

func (a *App) closePool() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
