package nodelink

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/framegraph/pkg/cache"
	"github.com/matzehuels/framegraph/pkg/observability"
)

// Named is implemented by layouters that report an engine name.
type Named interface {
	Name() string
}

// Cached serves layouts from a cache before asking the wrapped layouter.
// Cache failures are logged and treated as misses.
type Cached struct {
	inner  Layouter
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewCached wraps inner. A nil keyer uses [cache.NewDefaultKeyer]; a nil
// logger discards.
func NewCached(inner Layouter, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Cached{inner: inner, cache: c, keyer: keyer, ttl: ttl, logger: logger}
}

// Name returns the wrapped engine name.
func (c *Cached) Name() string { return EngineName(c.inner) }

// Layout returns the cached SVG for req, computing and storing it on a miss.
func (c *Cached) Layout(ctx context.Context, req Request) ([]byte, error) {
	hash, err := cache.HashJSON(req)
	if err != nil {
		return c.inner.Layout(ctx, req)
	}
	key := c.keyer.LayoutKey(hash, cache.LayoutKeyOpts{Engine: c.Name()})

	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("layout cache read failed", "error", err)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "layout")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	data, err = c.inner.Layout(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("layout cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}
	return data, nil
}

// EngineName returns the name of l, or "custom".
func EngineName(l Layouter) string {
	if n, ok := l.(Named); ok {
		return n.Name()
	}
	return "custom"
}
