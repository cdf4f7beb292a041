package app

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/catalog-feed/internal/catalog"
	"github.com/xenking/catalog-feed/internal/storage"
)

// Config holds the complete application configuration, loadable from
// environment variables (FEED_ prefix) or YAML config files. Command line
// flags are applied on top by the caller.
type Config struct {
	Storage StorageConfig
	Catalog CatalogConfig
}

// StorageConfig selects and configures the durable key-value backend.
type StorageConfig struct {
	Backend     string `default:"file" usage:"Storage backend: memory, file or postgres"`
	Dir         string `usage:"Data directory for the file backend (default $XDG_DATA_HOME/feed)"`
	DatabaseURL string `usage:"PostgreSQL connection URL for the postgres backend (FEED_STORAGE_DATABASE_URL or DATABASE_URL)"`
}

// CatalogConfig controls the catalog fetcher.
type CatalogConfig struct {
	ProductsURL string        `default:"https://fakestoreapi.com/products" usage:"Products endpoint"`
	RecipesURL  string        `default:"https://dummyjson.com/recipes" usage:"Recipes endpoint"`
	Timeout     time.Duration `default:"10s" usage:"Request timeout, 0 disables it"`
	UserAgent   string        `default:"catalog-feed" usage:"User-Agent header of catalog requests"`
	Limit       int           `default:"0" usage:"Maximum number of products, 0 means all"`
	RecipeLimit int           `default:"30" usage:"Number of recipes in the alternate feed"`
}

// ConfigFiles returns the YAML files consulted by LoadConfig, in order.
func ConfigFiles() []string {
	files := []string{"feed.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, "feed", "config.yaml"))
	}
	return files
}

// LoadConfig loads configuration from environment variables and YAML config
// files. A non-empty path replaces the default file list.
func LoadConfig(path string) (*Config, error) {
	files := ConfigFiles()
	if path != "" {
		files = []string{path}
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags:          true,
		EnvPrefix:          "FEED",
		Files:              files,
		FailOnFileNotFound: path != "",
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
			".yml":  aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPlatformDefaults fills values that have a conventional source outside
// the FEED_ namespace.
func (c *Config) applyPlatformDefaults() {
	if c.Storage.DatabaseURL == "" {
		c.Storage.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = defaultDataDir()
	}
	if c.Catalog.ProductsURL == "" {
		c.Catalog.ProductsURL = catalog.DefaultProductsURL
	}
	if c.Catalog.RecipesURL == "" {
		c.Catalog.RecipesURL = catalog.DefaultRecipesURL
	}
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "feed")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "feed")
	}
	return ".feed"
}

var backends = []string{storage.BackendMemory, storage.BackendFile, storage.BackendPostgres}

// Validate checks settings that cannot be fixed by defaults.
func (c *Config) Validate() error {
	if !slices.Contains(backends, c.Storage.Backend) {
		return errors.Errorf("unknown storage backend %q: want one of %v", c.Storage.Backend, backends)
	}
	if c.Storage.Backend == storage.BackendPostgres && c.Storage.DatabaseURL == "" {
		return errors.New("database URL is required for the postgres backend: set FEED_STORAGE_DATABASE_URL or DATABASE_URL")
	}
	if c.Storage.Backend == storage.BackendFile && c.Storage.Dir == "" {
		return errors.New("data directory is required for the file backend")
	}
	if c.Catalog.Timeout < 0 {
		return errors.Errorf("catalog timeout must not be negative, got %s", c.Catalog.Timeout)
	}
	if c.Catalog.Limit < 0 {
		return errors.Errorf("catalog limit must not be negative, got %d", c.Catalog.Limit)
	}
	return nil
}
