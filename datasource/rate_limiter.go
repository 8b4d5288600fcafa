package datasource

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedFetcher wraps a Fetcher with an outbound rate limit
type RateLimitedFetcher struct {
	fetcher Fetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher creates a new rate limited fetcher
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedFetcher(fetcher Fetcher, rps float64, burst int) *RateLimitedFetcher {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedFetcher{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Fetch waits for a token, bounded by the request deadline, then forwards
func (r *RateLimitedFetcher) Fetch(ctx context.Context, req UpstreamRequest) ([]byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.fetcher.Fetch(ctx, req)
}

// Verify that the rate limited type implements Fetcher
var _ Fetcher = (*RateLimitedFetcher)(nil)
