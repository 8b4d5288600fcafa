// Package gateway turns a raw location lookup into a normalized response by
// validating it, calling the upstream weather provider once and mapping the
// outcome. It holds no mutable state and is safe for concurrent use.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"weather-proxy/datasource"
	"weather-proxy/models"
)

const (
	msgNoAPIKey        = "API key not configured"
	msgCityOrCoords    = "City or coordinates required"
	msgCoordsRequired  = "Coordinates required"
	msgInternalFailure = "Internal server error"
)

// Gateway proxies lookups to the upstream provider
type Gateway struct {
	apiKey  string
	baseURL string
	fetcher datasource.Fetcher
	timeout time.Duration
	logger  *slog.Logger
}

// Option customizes a Gateway
type Option func(*Gateway)

// WithBaseURL points the gateway at a different upstream root
func WithBaseURL(u string) Option {
	return func(g *Gateway) { g.baseURL = u }
}

// WithTimeout overrides the upstream deadline
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// New creates a gateway. An empty apiKey is allowed; every lookup then fails
// with a 500 without reaching the fetcher.
func New(apiKey string, fetcher datasource.Fetcher, opts ...Option) *Gateway {
	g := &Gateway{
		apiKey:  apiKey,
		baseURL: datasource.DefaultBaseURL,
		fetcher: fetcher,
		timeout: datasource.DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Configured reports whether a credential is present
func (g *Gateway) Configured() bool {
	return g.apiKey != ""
}

// Handle runs one lookup of the given kind
func (g *Gateway) Handle(ctx context.Context, kind models.EndpointKind, raw models.RawQuery) models.NormalizedResponse {
	if !g.Configured() {
		g.logger.Error("API key not found", "kind", kind.String())
		return models.Failure(http.StatusInternalServerError, msgNoAPIKey)
	}

	loc, failure, ok := resolveLocation(kind, raw)
	if !ok {
		g.logger.Warn("rejected lookup", "kind", kind.String(), "error", failure.Error)
		return failure
	}

	req := datasource.BuildRequest(g.baseURL, g.apiKey, kind, loc, models.ParseUnits(raw.Units))
	req.Timeout = g.timeout
	g.logger.Info("fetching upstream data", "kind", kind.String(), "location", loc.String())

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	body, err := g.fetcher.Fetch(ctx, req)
	if err != nil {
		return g.failure(kind, loc, err)
	}
	return models.Success(body)
}

func (g *Gateway) failure(kind models.EndpointKind, loc models.LocationQuery, err error) models.NormalizedResponse {
	var se *datasource.StatusError
	if errors.As(err, &se) {
		msg := upstreamMessage(se.Body)
		if msg == "" {
			msg = kind.FailureMessage()
		}
		g.logger.Error("upstream rejected lookup",
			"kind", kind.String(), "location", loc.String(), "status", se.StatusCode, "error", msg)
		var details any
		if json.Valid(se.Body) {
			details = json.RawMessage(se.Body)
		}
		return models.FailureWithDetails(se.StatusCode, msg, details)
	}

	detail := redact(err.Error(), g.apiKey)
	g.logger.Error("upstream call failed", "kind", kind.String(), "location", loc.String(), "error", detail)
	return models.FailureWithDetails(http.StatusInternalServerError, msgInternalFailure, detail)
}

// resolveLocation validates raw and picks the location variant. City wins
// when both a city and coordinates are present.
func resolveLocation(kind models.EndpointKind, raw models.RawQuery) (models.LocationQuery, models.NormalizedResponse, bool) {
	missing := msgCityOrCoords
	if !kind.AcceptsCity() {
		missing = msgCoordsRequired
	}

	if kind.AcceptsCity() && raw.HasCity() {
		return models.CityQuery(strings.TrimSpace(raw.City)), models.NormalizedResponse{}, true
	}
	if !raw.HasCoordinates() {
		return models.LocationQuery{}, models.Failure(http.StatusBadRequest, missing), false
	}

	lat, err := parseCoordinate(raw.Lat)
	if err != nil {
		return models.LocationQuery{}, models.FailureWithDetails(http.StatusBadRequest, missing, "invalid lat parameter"), false
	}
	lon, err := parseCoordinate(raw.Lon)
	if err != nil {
		return models.LocationQuery{}, models.FailureWithDetails(http.StatusBadRequest, missing, "invalid lon parameter"), false
	}
	return models.CoordinatesQuery(lat, lon), models.NormalizedResponse{}, true
}

func parseCoordinate(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}

// upstreamMessage extracts the provider's "message" field, if any
func upstreamMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Message.(string); ok {
		return s
	}
	return ""
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "REDACTED")
}
