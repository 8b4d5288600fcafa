package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"weather-proxy/datasource"
	"weather-proxy/models"
)

func TestInstrumentedFetcherCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	results := []error{
		nil,
		&datasource.StatusError{StatusCode: 404},
		context.DeadlineExceeded,
		errors.New("connection refused"),
	}
	i := 0
	f := Instrument(datasource.FetcherFunc(func(context.Context, datasource.UpstreamRequest) ([]byte, error) {
		err := results[i]
		i++
		return nil, err
	}), m)

	req := datasource.UpstreamRequest{Kind: models.Forecast}
	for range results {
		_, _ = f.Fetch(context.Background(), req)
	}

	for outcome, want := range map[string]float64{
		"success":         1,
		"status_404":      1,
		"timeout":         1,
		"transport_error": 1,
	} {
		got := testutil.ToFloat64(m.requests.WithLabelValues("forecast", outcome))
		if got != want {
			t.Errorf("%s: got %v, want %v", outcome, got, want)
		}
	}
	if n := testutil.CollectAndCount(m.latency); n != 1 {
		t.Fatalf("expected one latency series, got %d", n)
	}
}

func TestInstrumentedFetcherPassesThrough(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	want := &datasource.StatusError{StatusCode: 401}
	f := Instrument(datasource.FetcherFunc(func(context.Context, datasource.UpstreamRequest) ([]byte, error) {
		return []byte("x"), want
	}), m)

	body, err := f.Fetch(context.Background(), datasource.UpstreamRequest{Kind: models.Current})
	if string(body) != "x" || !errors.Is(err, want) {
		t.Fatalf("unexpected result %q %v", body, err)
	}
}

func TestNewLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "warn", "json")
	l.Info("hidden")
	l.Warn("shown", "kind", "current")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("expected json output: %s", out)
	}
}
