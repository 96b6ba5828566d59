package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/robinei/atlastool/pkg/observability"
)

// loggingHooks emits every observability event as a debug log line.
// Registered only in verbose mode, so the default run stays silent.
type loggingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	observability.NoopHTTPHooks

	logger *log.Logger
}

// registerLoggingHooks routes pipeline, cache and HTTP events to logger.
func registerLoggingHooks(logger *log.Logger) {
	h := &loggingHooks{logger: logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *loggingHooks) OnDecodeComplete(_ context.Context, path string, width, height int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("decode failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("decoded image", "path", path, "size", fmt.Sprintf("%dx%d", width, height), "duration", duration.Round(time.Microsecond))
}

func (h *loggingHooks) OnComposeComplete(_ context.Context, glyphs int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("compose failed", "err", err)
		return
	}
	h.logger.Debug("composed atlas", "glyphs", glyphs, "duration", duration.Round(time.Microsecond))
}

func (h *loggingHooks) OnEncodeComplete(_ context.Context, path string, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("encode failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("encoded output", "path", path, "duration", duration.Round(time.Microsecond))
}

func (h *loggingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *loggingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *loggingHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *loggingHooks) OnResponse(_ context.Context, method, host, path string, status int, duration time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", duration.Round(time.Millisecond))
}

func (h *loggingHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
