// Package observability provides hooks for metrics and tracing.
//
// Libraries call hooks; the application decides what they do. This keeps
// the engine free of any metrics backend: the CLI leaves the no-op
// defaults in place, the preview server registers Prometheus collectors
// (internal/metrics).
//
// # Usage
//
// Register hooks at startup:
//
//	func main() {
//	    observability.SetFrameHooks(metrics.NewFrameHooks(reg))
//	    observability.SetCacheHooks(metrics.NewCacheHooks(reg))
//	}
//
// Libraries emit events:
//
//	observability.Frame().OnFrameStart(ctx, n)
//	// ... produce the frame ...
//	observability.Frame().OnFrameComplete(ctx, n, stats, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Frame Hooks
// =============================================================================

// FrameStats summarizes one emitted frame.
type FrameStats struct {
	Appear    int // nodes and edges faded in
	Disappear int // nodes and edges faded out
	Moves     int // nodes sliding to a new position
	Bytes     int // serialized frame size
}

// FrameHooks receives events from frame production.
type FrameHooks interface {
	OnFrameStart(ctx context.Context, frame int)
	OnFrameComplete(ctx context.Context, frame int, stats FrameStats, duration time.Duration, err error)

	// Layout events, once per frame.
	OnLayoutStart(ctx context.Context, engine string, nodeCount int)
	OnLayoutComplete(ctx context.Context, engine string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFrameHooks is a no-op implementation of FrameHooks.
type NoopFrameHooks struct{}

func (NoopFrameHooks) OnFrameStart(context.Context, int) {}
func (NoopFrameHooks) OnFrameComplete(context.Context, int, FrameStats, time.Duration, error) {
}
func (NoopFrameHooks) OnLayoutStart(context.Context, string, int)                     {}
func (NoopFrameHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	frameHooks FrameHooks = NoopFrameHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetFrameHooks registers custom frame hooks.
// This should be called once at startup before any engine is created.
func SetFrameHooks(h FrameHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		frameHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Frame returns the registered frame hooks.
func Frame() FrameHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return frameHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	frameHooks = NoopFrameHooks{}
	cacheHooks = NoopCacheHooks{}
}
