package datasource

import (
	"net/url"
	"strings"
	"time"

	"weather-proxy/models"
)

// DefaultBaseURL is the OpenWeatherMap data API root
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// DefaultTimeout bounds every upstream call
const DefaultTimeout = 10 * time.Second

const redactedKey = "REDACTED"

// UpstreamRequest is a fully resolved call to the weather provider
type UpstreamRequest struct {
	Kind    models.EndpointKind
	URL     string
	Timeout time.Duration
}

// BuildRequest resolves the upstream URL for a lookup. The result depends only
// on its arguments; query parameters are emitted in sorted key order.
func BuildRequest(baseURL, apiKey string, kind models.EndpointKind, loc models.LocationQuery, units models.Units) UpstreamRequest {
	params := url.Values{}
	if city, ok := loc.City(); ok && kind.AcceptsCity() {
		params.Set("q", city)
	} else {
		lat, lon, _ := loc.Coordinates()
		params.Set("lat", models.FormatCoordinate(lat))
		params.Set("lon", models.FormatCoordinate(lon))
	}
	if kind.AcceptsUnits() {
		if units == "" {
			units = models.DefaultUnits
		}
		params.Set("units", string(units))
	}
	params.Set("appid", apiKey)

	return UpstreamRequest{
		Kind:    kind,
		URL:     strings.TrimRight(baseURL, "/") + kind.Path() + "?" + params.Encode(),
		Timeout: DefaultTimeout,
	}
}

// Redacted returns the URL with the credential masked
func (r UpstreamRequest) Redacted() string {
	return redactURL(r.URL)
}

// String implements fmt.Stringer without exposing the credential
func (r UpstreamRequest) String() string {
	return r.Kind.String() + " " + r.Redacted()
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("appid") {
		q.Set("appid", redactedKey)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
