package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"weather-proxy/models"
)

// Proxy is the lookup service behind the HTTP routes
type Proxy interface {
	Handle(ctx context.Context, kind models.EndpointKind, raw models.RawQuery) models.NormalizedResponse
	Configured() bool
}

// AllowedHeaders mirrors the headers browsers may send to the weather routes
var AllowedHeaders = []string{
	"X-CSRF-Token", "X-Requested-With", "Accept", "Accept-Version", "Content-Length",
	"Content-MD5", "Content-Type", "Date", "X-Api-Version", requestIDHeader,
}

// Options configures the HTTP server
type Options struct {
	Addr string

	// RateLimiter, when set, guards every path under RateLimitPrefix
	RateLimiter     *ClientLimiter
	RateLimitPrefix string

	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool

	// Metrics, when set, is served on /metrics
	Metrics http.Handler
}

// Server represents the API server
type Server struct {
	proxy  Proxy
	router chi.Router
	server *http.Server
}

// NewServer creates a new API server
func NewServer(proxy Proxy, opts Options) *Server {
	s := &Server{proxy: proxy}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestID)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   AllowedHeaders,
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.RateLimiter != nil {
		prefix := opts.RateLimitPrefix
		if prefix == "" {
			prefix = "/api/"
		}
		r.Use(opts.RateLimiter.Middleware(prefix))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/api/health", s.handleHealthCheck)
	r.Route("/api/weather", func(r chi.Router) {
		s.registerKind(r, "/current", models.Current)
		s.registerKind(r, "/forecast", models.Forecast)
		s.registerKind(r, "/air", models.AirQuality)
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	s.router = r
	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) registerKind(r chi.Router, path string, kind models.EndpointKind) {
	r.Get(path, s.lookupHandler(kind))
	r.Options(path, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server
func (s *Server) Start() error {
	slog.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// lookupHandler adapts one endpoint kind to an HTTP route
func (s *Server) lookupHandler(kind models.EndpointKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := s.proxy.Handle(r.Context(), kind, models.RawQueryFromValues(r.URL.Query()))
		WriteResponse(w, resp)
	}
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "OK",
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"apiKeyConfigured": s.proxy.Configured(),
	})
}

// WriteResponse serializes a normalized response with its status code
func WriteResponse(w http.ResponseWriter, resp models.NormalizedResponse) {
	body, err := resp.JSON()
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorBody{Error: msg})
}
