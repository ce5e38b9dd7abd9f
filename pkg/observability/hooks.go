// Package observability provides hooks for metrics and event tracking.
//
// Libraries emit events through hook interfaces; the binary decides what
// receives them. The defaults are no-ops, so packages can call hooks
// unconditionally:
//
//	observability.Backfill().OnPairComplete(ctx, "react", "redux", true, elapsed, nil)
//
// Register a backend once at startup:
//
//	rec := observability.NewPrometheusRecorder(reg)
//	rec.Install()
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Backfill Hooks
// =============================================================================

// BackfillHooks receives events from the notebook backfill job.
type BackfillHooks interface {
	// OnRunStart fires after the map is loaded and pairs are enumerated.
	OnRunStart(ctx context.Context, pairs int, recovered bool)

	// OnPairComplete fires after each upsert and save. created reports
	// whether no id existed for the pair beforehand.
	OnPairComplete(ctx context.Context, a, b string, created bool, duration time.Duration, err error)

	// OnRunComplete fires once when the run ends, successfully or not.
	OnRunComplete(ctx context.Context, processed int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, namespace string)
	OnCacheMiss(ctx context.Context, namespace string)
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Event Hooks
// =============================================================================

// EventHooks receives user interaction events logged by the web views.
type EventHooks interface {
	OnEvent(ctx context.Context, event, page string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBackfillHooks is a no-op implementation of BackfillHooks.
type NoopBackfillHooks struct{}

func (NoopBackfillHooks) OnRunStart(context.Context, int, bool) {}
func (NoopBackfillHooks) OnPairComplete(context.Context, string, string, bool, time.Duration, error) {
}
func (NoopBackfillHooks) OnRunComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopEventHooks is a no-op implementation of EventHooks.
type NoopEventHooks struct{}

func (NoopEventHooks) OnEvent(context.Context, string, string) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	backfillHooks BackfillHooks = NoopBackfillHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	eventHooks    EventHooks    = NoopEventHooks{}
	hooksMu       sync.RWMutex
)

// SetBackfillHooks registers custom backfill hooks. Nil is ignored.
func SetBackfillHooks(h BackfillHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		backfillHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetEventHooks registers custom event hooks. Nil is ignored.
func SetEventHooks(h EventHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		eventHooks = h
	}
}

// Backfill returns the registered backfill hooks.
func Backfill() BackfillHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return backfillHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Events returns the registered event hooks.
func Events() EventHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return eventHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	backfillHooks = NoopBackfillHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
	eventHooks = NoopEventHooks{}
}
