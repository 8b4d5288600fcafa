package datasource

import (
	"context"
	"fmt"
)

// Fetcher performs a single upstream call for a prepared request
type Fetcher interface {
	// Fetch returns the response body of a 2xx reply. Any other reply is
	// reported as a *StatusError; transport problems as a plain error.
	Fetch(ctx context.Context, req UpstreamRequest) ([]byte, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface
type FetcherFunc func(ctx context.Context, req UpstreamRequest) ([]byte, error)

// Fetch calls f(ctx, req)
func (f FetcherFunc) Fetch(ctx context.Context, req UpstreamRequest) ([]byte, error) {
	return f(ctx, req)
}

// StatusError is returned when the upstream replied with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, string(e.Body))
}
