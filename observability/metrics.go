package observability

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"weather-proxy/datasource"
)

const tracerName = "weather-proxy/upstream"

// Metrics holds the upstream call collectors
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_upstream_requests_total",
				Help: "Upstream provider calls by endpoint kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weather_upstream_request_duration_seconds",
				Help:    "Upstream provider call latency.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

// InstrumentedFetcher records metrics and a trace span around every call
type InstrumentedFetcher struct {
	fetcher datasource.Fetcher
	metrics *Metrics
	tracer  oteltrace.Tracer
}

var _ datasource.Fetcher = (*InstrumentedFetcher)(nil)

// Instrument wraps f. Spans go to the global tracer provider.
func Instrument(f datasource.Fetcher, m *Metrics) *InstrumentedFetcher {
	return &InstrumentedFetcher{fetcher: f, metrics: m, tracer: otel.Tracer(tracerName)}
}

// Fetch forwards to the wrapped fetcher
func (i *InstrumentedFetcher) Fetch(ctx context.Context, req datasource.UpstreamRequest) ([]byte, error) {
	kind := req.Kind.String()
	ctx, span := i.tracer.Start(ctx, "upstream "+kind, oteltrace.WithSpanKind(oteltrace.SpanKindClient))
	span.SetAttributes(
		attribute.String("weather.kind", kind),
		attribute.String("http.url", req.Redacted()),
	)
	defer span.End()

	start := time.Now()
	body, err := i.fetcher.Fetch(ctx, req)
	i.metrics.latency.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	outcome := Outcome(err)
	i.metrics.requests.WithLabelValues(kind, outcome).Inc()
	span.SetAttributes(attribute.String("weather.outcome", outcome))
	if err != nil {
		var se *datasource.StatusError
		if errors.As(err, &se) {
			span.SetAttributes(attribute.Int("http.status_code", se.StatusCode))
			span.SetStatus(codes.Error, "upstream status "+strconv.Itoa(se.StatusCode))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, "transport failure")
		}
	}
	return body, err
}

// Outcome classifies a fetch result for the outcome label
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	var se *datasource.StatusError
	if errors.As(err, &se) {
		return "status_" + strconv.Itoa(se.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "transport_error"
}
