// Package fetch downloads the source atlas images over HTTP.
//
// Downloads go through a response cache keyed by URL, so a fresh checkout
// can populate its input files without hitting the asset host twice.
// Transient failures (network errors, 5xx, 429) are retried with
// exponential backoff; client errors are not. A broken cache never fails
// a fetch, it only costs the network round trip.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/robinei/atlastool/pkg/cache"
	apperrors "github.com/robinei/atlastool/pkg/errors"
	"github.com/robinei/atlastool/pkg/observability"
)

// Fetcher downloads URLs with retry and response caching.
type Fetcher struct {
	client        *http.Client
	cache         cache.Cache
	ttl           time.Duration
	logger        *log.Logger
	retryAttempts int
	retryDelay    time.Duration
}

// New creates a Fetcher backed by the given response cache. Cached bodies
// live for ttl; a ttl of 0 caches forever. A nil logger discards log
// output.
func New(c cache.Cache, ttl time.Duration, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fetcher{
		client:        &http.Client{Timeout: 30 * time.Second},
		cache:         c,
		ttl:           ttl,
		logger:        logger,
		retryAttempts: 3,
		retryDelay:    time.Second,
	}
}

// Fetch returns the body at rawURL, consulting the response cache first.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := apperrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	key := cache.Key("http", rawURL)
	data, ok, err := f.cache.Get(ctx, key)
	switch {
	case err != nil:
		// A broken cache is a warning, not a failure.
		f.logger.Warn("response cache read failed", "url", rawURL, "err", err)
		observability.Cache().OnCacheMiss(ctx, "http")
	case ok:
		f.logger.Debug("response cache hit", "url", rawURL, "bytes", len(data))
		observability.Cache().OnCacheHit(ctx, "http")
		return data, nil
	default:
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var body []byte
	err = Retry(ctx, f.retryAttempts, f.retryDelay, func() error {
		b, err := f.download(ctx, rawURL)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, key, body, f.ttl); err != nil {
		f.logger.Warn("response cache write failed", "url", rawURL, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "http", len(body))
	}
	return body, nil
}

// FetchFile downloads rawURL into dest. An existing dest is left alone
// unless force is set. Reports whether a download happened.
func (f *Fetcher) FetchFile(ctx context.Context, rawURL, dest string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(dest); err == nil {
			f.logger.Debug("destination exists, skipping", "path", dest)
			return false, nil
		}
	}

	body, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return false, err
	}

	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return false, apperrors.Wrap(apperrors.ErrCodeWriteFailed, err, "write %s", dest)
	}
	return true, nil
}

// download performs a single GET attempt, classifying failures as
// retryable or fatal.
func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse %s", rawURL)
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, u.Host, u.Path)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "build request for %s", rawURL)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, u.Host, u.Path, err)
		return nil, &RetryableError{Err: apperrors.Wrap(apperrors.ErrCodeNetwork, err, "get %s", rawURL)}
	}
	defer resp.Body.Close()

	observability.HTTP().OnResponse(ctx, http.MethodGet, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= 500:
		return nil, &RetryableError{Err: apperrors.New(apperrors.ErrCodeNetwork, "server error %d for %s", resp.StatusCode, rawURL)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RetryableError{Err: apperrors.New(apperrors.ErrCodeNetwork, "rate limited fetching %s", rawURL)}
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.New(apperrors.ErrCodeNetwork, "unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, u.Host, u.Path, err)
		return nil, &RetryableError{Err: apperrors.Wrap(apperrors.ErrCodeNetwork, err, "read body of %s", rawURL)}
	}
	return body, nil
}
