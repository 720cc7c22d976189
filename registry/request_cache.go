package registry

import (
	"context"
	"sync"

	model "mini-app-gateway/models"
)

type cacheEntry struct {
	app *model.AppMetadata
	err error
}

// RequestCache memoises lookups for the lifetime of one request.
// Not-found and errors are memoised too.
type RequestCache struct {
	gw      Gateway
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewRequestCache wraps gw
func NewRequestCache(gw Gateway) *RequestCache {
	return &RequestCache{
		gw:      gw,
		entries: make(map[string]cacheEntry),
	}
}

// GetApp implements Gateway
func (c *RequestCache) GetApp(ctx context.Context, appID string) (*model.AppMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[appID]; ok {
		return e.app, e.err
	}
	app, err := c.gw.GetApp(ctx, appID)
	c.entries[appID] = cacheEntry{app: app, err: err}
	return app, err
}

type cacheKey struct{}

// WithRequestCache attaches cache to ctx
func WithRequestCache(ctx context.Context, cache *RequestCache) context.Context {
	return context.WithValue(ctx, cacheKey{}, cache)
}

// FromContext returns the request cache attached to ctx, or fallback when there is none
func FromContext(ctx context.Context, fallback Gateway) Gateway {
	if cache, ok := ctx.Value(cacheKey{}).(*RequestCache); ok {
		return cache
	}
	return fallback
}
