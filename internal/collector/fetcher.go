package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"BreakoutRadar/internal/model"
)

// Fetcher defines the interface for fetching daily market history.
type Fetcher interface {
	FetchDailyHistory(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error)
	Name() string
}

var (
	// ErrNoData means the source answered but had no bars for the symbol.
	ErrNoData = errors.New("no data returned")
	// ErrMalformed means the payload was missing columns or held invalid values.
	ErrMalformed = errors.New("malformed series")
	// ErrUpstream means the provider itself failed: transport error, 5xx or 429.
	// Only these errors count against the circuit breaker.
	ErrUpstream = errors.New("upstream unavailable")
)

// transportError classifies a failed client.Do. Context expiry belongs to
// the caller's symbol and is returned unwrapped.
func transportError(ctx context.Context, source string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s fetch: %w", source, ctxErr)
	}
	return fmt.Errorf("%s fetch: %w: %w", source, ErrUpstream, err)
}

// statusError maps a non-200 response that is not a no-data answer.
func statusError(source string, status int, body []byte) error {
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
		return fmt.Errorf("%s: status %d: %w", source, status, ErrUpstream)
	}
	return fmt.Errorf("%s: status %d, body: %s", source, status, string(body))
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
