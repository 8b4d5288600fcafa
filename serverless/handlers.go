// Package serverless exposes one http.HandlerFunc per endpoint kind for
// function hosts that invoke a handler per request instead of running the
// long-lived server. The gateway is built lazily from the environment.
package serverless

import (
	"net/http"
	"strings"
	"sync"

	"weather-proxy/api"
	"weather-proxy/config"
	"weather-proxy/datasource"
	"weather-proxy/gateway"
	"weather-proxy/models"
)

var (
	once    sync.Once
	shared  api.Proxy
	factory = defaultProxy
)

func defaultProxy() api.Proxy {
	cfg := config.FromEnv()
	return gateway.New(cfg.APIKey, datasource.NewOpenWeatherMapProvider(), gateway.WithBaseURL(cfg.BaseURL))
}

func proxy() api.Proxy {
	once.Do(func() { shared = factory() })
	return shared
}

// Current serves current conditions
func Current(w http.ResponseWriter, r *http.Request) { serve(w, r, models.Current) }

// Forecast serves the multi-day forecast
func Forecast(w http.ResponseWriter, r *http.Request) { serve(w, r, models.Forecast) }

// Air serves the air quality index
func Air(w http.ResponseWriter, r *http.Request) { serve(w, r, models.AirQuality) }

// Handler returns the function for kind
func Handler(kind models.EndpointKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { serve(w, r, kind) }
}

func serve(w http.ResponseWriter, r *http.Request, kind models.EndpointKind) {
	setCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
	default:
		api.WriteResponse(w, models.Failure(http.StatusMethodNotAllowed, "Method not allowed"))
		return
	}

	resp := proxy().Handle(r.Context(), kind, models.RawQueryFromValues(r.URL.Query()))
	api.WriteResponse(w, resp)
}

func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET,OPTIONS")
	h.Set("Access-Control-Allow-Headers", strings.Join(api.AllowedHeaders, ", "))
}
