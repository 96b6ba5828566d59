// Package observability provides hooks for instrumenting the atlas
// pipeline without hard dependencies on any metrics or tracing backend.
//
// The package follows a simple pattern: hook interfaces per event
// category, no-op defaults, and a registry that main (or the CLI) fills
// at startup. Library code calls the accessors unconditionally:
//
//	observability.Pipeline().OnDecodeStart(ctx, path)
//	// ... decode ...
//	observability.Pipeline().OnDecodeComplete(ctx, path, w, h, elapsed, err)
//
// With nothing registered the calls cost a mutex read and nothing else,
// so the combine path stays free of conditional instrumentation.
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the decode, compose and encode
// stages of an atlas run.
type PipelineHooks interface {
	// Decode events, one pair per input image.
	OnDecodeStart(ctx context.Context, path string)
	OnDecodeComplete(ctx context.Context, path string, width, height int, duration time.Duration, err error)

	// Compose events for the combine step itself.
	OnComposeStart(ctx context.Context, width, height int)
	OnComposeComplete(ctx context.Context, glyphs int, duration time.Duration, err error)

	// Encode events for the output write.
	OnEncodeStart(ctx context.Context, path string)
	OnEncodeComplete(ctx context.Context, path string, duration time.Duration, err error)
}

// CacheHooks receives events from response cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from asset downloads.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP transport error.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDecodeStart(context.Context, string) {}
func (NoopPipelineHooks) OnDecodeComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnComposeStart(context.Context, int, int)                      {}
func (NoopPipelineHooks) OnComposeComplete(context.Context, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnEncodeStart(context.Context, string)                         {}
func (NoopPipelineHooks) OnEncodeComplete(context.Context, string, time.Duration, error) {}

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

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Call once at startup
// before running any atlas operation; nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks; nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks; nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
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

// Reset restores all hooks to their no-op defaults. Primarily for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
