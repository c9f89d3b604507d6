// Package client is a thin Go client for the cache gateway HTTP API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nulzo/cache-gateway-api/internal/httpclient"
	"github.com/nulzo/cache-gateway-api/pkg/api"
)

// ErrNotFound reports that the requested key is not in the cache. It wraps
// the gateway's 404 so callers can branch with errors.Is instead of parsing
// status codes.
var ErrNotFound = errors.New("key not found in cache")

// Client talks to one cache gateway instance.
type Client struct {
	apiURL string
	http   httpclient.HTTPClient
}

// New creates a client for the gateway at baseURL, e.g. "http://localhost:8000".
func New(baseURL string) *Client {
	return &Client{
		apiURL: baseURL + "/api/v1",
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient allows injecting the underlying HTTP client.
func NewWithHTTPClient(baseURL string, hc httpclient.HTTPClient) *Client {
	return &Client{apiURL: baseURL + "/api/v1", http: hc}
}

// Store writes data under key. A ttlSeconds of 0 lets the server apply its
// default expiry.
func (c *Client) Store(ctx context.Context, key string, data map[string]interface{}, ttlSeconds int) (*api.StoreResponse, error) {
	item := api.CacheItem{Key: key, Data: data}
	if ttlSeconds > 0 {
		item.TTLSeconds = &ttlSeconds
	}

	var resp api.StoreResponse
	if err := httpclient.SendRequest(ctx, c.http, http.MethodPost, c.apiURL+"/cache", nil, item, &resp); err != nil {
		return nil, fmt.Errorf("store %q: %w", key, err)
	}
	return &resp, nil
}

// Get retrieves the entry stored under key.
func (c *Client) Get(ctx context.Context, key string) (*api.CacheResponse, error) {
	var resp api.CacheResponse
	if err := httpclient.SendRequest(ctx, c.http, http.MethodGet, c.keyURL(key), nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("get %q: %w", key, translate(err))
	}
	return &resp, nil
}

// Delete removes the entry stored under key. Deleting an absent key returns
// an error wrapping ErrNotFound.
func (c *Client) Delete(ctx context.Context, key string) (*api.DeleteResponse, error) {
	var resp api.DeleteResponse
	if err := httpclient.SendRequest(ctx, c.http, http.MethodDelete, c.keyURL(key), nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("delete %q: %w", key, translate(err))
	}
	return &resp, nil
}

// Exists probes for key without retrieving its value.
func (c *Client) Exists(ctx context.Context, key string) (*api.ExistsResponse, error) {
	var resp api.ExistsResponse
	if err := httpclient.SendRequest(ctx, c.http, http.MethodGet, c.keyURL(key)+"/exists", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("exists %q: %w", key, err)
	}
	return &resp, nil
}

// List returns keys matching the glob pattern. An empty pattern matches all.
func (c *Client) List(ctx context.Context, pattern string) (*api.ListResponse, error) {
	endpoint := c.apiURL + "/cache"
	if pattern != "" {
		endpoint += "?pattern=" + url.QueryEscape(pattern)
	}

	var resp api.ListResponse
	if err := httpclient.SendRequest(ctx, c.http, http.MethodGet, endpoint, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list %q: %w", pattern, err)
	}
	return &resp, nil
}

// StoreBulk writes a batch of items in one request.
func (c *Client) StoreBulk(ctx context.Context, items []api.CacheItem) (*api.BulkResponse, error) {
	var resp api.BulkResponse
	if err := httpclient.SendRequest(ctx, c.http, http.MethodPost, c.apiURL+"/cache/bulk", nil, items, &resp); err != nil {
		return nil, fmt.Errorf("store bulk: %w", err)
	}
	return &resp, nil
}

// Health reports the gateway's own view of its store connectivity. The
// endpoint answers 200 even when the store is down; inspect Status and Redis.
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := httpclient.SendRequest(ctx, c.http, http.MethodGet, c.apiURL+"/health", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	return &resp, nil
}

func (c *Client) keyURL(key string) string {
	return c.apiURL + "/cache/" + url.PathEscape(key)
}

// translate maps gateway 404s onto ErrNotFound, keeping the upstream error
// in the chain for diagnostics.
func translate(err error) error {
	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, upstream.Error())
	}
	return err
}
