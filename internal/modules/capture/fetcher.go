package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/second-brain/core/internal/pkg/apperr"
)

const (
	// DefaultUserAgent is a desktop browser string; many sites refuse bare clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	fetchFailedMessage = "Failed to fetch URL content"
)

// Fetcher downloads a page and returns its body decoded to UTF-8.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type FetcherOptions struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// HTTPFetcher issues a single GET per call; redirects are followed by the
// client, nothing is retried.
type HTTPFetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		maxBytes:  opts.MaxBytes,
		userAgent: ua,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperr.UpstreamFetchFailed(fetchFailedMessage, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", apperr.UpstreamFetchFailed(fetchFailedMessage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", apperr.UpstreamFetchFailed(fetchFailedMessage, fmt.Errorf("GET %s: status %d", url, resp.StatusCode))
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes)
	}
	decoded, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", apperr.UpstreamFetchFailed(fetchFailedMessage, fmt.Errorf("decode %s: %w", url, err))
	}
	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", apperr.UpstreamFetchFailed(fetchFailedMessage, fmt.Errorf("read %s: %w", url, err))
	}
	return string(data), nil
}
