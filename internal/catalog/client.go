// Package catalog fetches products and recipes from the remote catalog
// endpoints over HTTP.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/catalog-feed/internal/domain/product"
	"github.com/xenking/catalog-feed/pkg/httptransport"
)

// Default endpoints.
const (
	DefaultProductsURL = "https://fakestoreapi.com/products"
	DefaultRecipesURL  = "https://dummyjson.com/recipes"
)

// maxBodySize caps response bodies read from the catalog.
const maxBodySize = 8 << 20

var _ product.Fetcher = (*Client)(nil)

// HTTPStatusError is returned when the catalog answers with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Config holds Client settings.
type Config struct {
	ProductsURL string
	RecipesURL  string
	// Timeout bounds a whole request including the body read. Zero disables it.
	Timeout   time.Duration
	UserAgent string

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// Transport is the base transport; http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// Client talks to the catalog endpoints.
type Client struct {
	http        *http.Client
	productsURL *url.URL
	recipesURL  *url.URL
	lg          *zap.Logger
}

// New creates a Client. Empty endpoint URLs fall back to the defaults.
func New(cfg Config, lg *zap.Logger) (*Client, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	if cfg.ProductsURL == "" {
		cfg.ProductsURL = DefaultProductsURL
	}
	if cfg.RecipesURL == "" {
		cfg.RecipesURL = DefaultRecipesURL
	}

	productsURL, err := parseEndpoint(cfg.ProductsURL)
	if err != nil {
		return nil, errors.Wrap(err, "products url")
	}
	recipesURL, err := parseEndpoint(cfg.RecipesURL)
	if err != nil {
		return nil, errors.Wrap(err, "recipes url")
	}

	var otelOpts []otelhttp.Option
	if cfg.TracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.MeterProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithMeterProvider(cfg.MeterProvider))
	}

	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	transport := httptransport.Wrap(otelhttp.NewTransport(base, otelOpts...),
		httptransport.RequestID(),
		httptransport.UserAgent(cfg.UserAgent),
		httptransport.LogRequests(lg),
	)

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		productsURL: productsURL,
		recipesURL:  recipesURL,
		lg:          lg,
	}, nil
}

func parseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	return u, nil
}

// withLimit returns a copy of u with ?limit=n when n > 0.
func withLimit(u *url.URL, limit int) string {
	if limit <= 0 {
		return u.String()
	}
	out := *u
	q := out.Query()
	q.Set("limit", strconv.Itoa(limit))
	out.RawQuery = q.Encode()
	return out.String()
}

// get performs a GET and returns the response body of a 2xx response.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, &HTTPStatusError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if len(body) > maxBodySize {
		return nil, errors.Errorf("response body exceeds %d bytes", maxBodySize)
	}
	return body, nil
}

// Ping checks that the products endpoint answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, withLimit(c.productsURL, 1))
	return err
}
