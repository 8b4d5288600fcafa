package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxBodyBytes caps how much of an upstream reply is read into memory
const maxBodyBytes = 4 << 20

// ErrBodyTooLarge is returned when an upstream reply exceeds the body cap
var ErrBodyTooLarge = errors.New("upstream response body too large")

// OpenWeatherMapProvider fetches raw JSON from the OpenWeatherMap API
type OpenWeatherMapProvider struct {
	httpClient *http.Client
	maxBody    int64
}

// Ensure OpenWeatherMapProvider implements Fetcher
var _ Fetcher = (*OpenWeatherMapProvider)(nil)

// NewOpenWeatherMapProvider creates a new OpenWeatherMap provider
func NewOpenWeatherMapProvider() *OpenWeatherMapProvider {
	return NewOpenWeatherMapProviderWithClient(&http.Client{
		Timeout: DefaultTimeout,
	})
}

// NewOpenWeatherMapProviderWithClient uses the given client for all calls
func NewOpenWeatherMapProviderWithClient(client *http.Client) *OpenWeatherMapProvider {
	return &OpenWeatherMapProvider{httpClient: client, maxBody: maxBodyBytes}
}

// Fetch issues exactly one GET for req
func (p *OpenWeatherMapProvider) Fetch(ctx context.Context, req UpstreamRequest) ([]byte, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", scrub(err))
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", scrub(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", scrub(err))
	}
	if int64(len(body)) > p.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, p.maxBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

// scrub strips the request URL (and with it the credential) from net/http errors
func scrub(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return &url.Error{Op: ue.Op, URL: redactURL(ue.URL), Err: ue.Err}
	}
	return err
}
