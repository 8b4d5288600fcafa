package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weather-proxy/api"
	"weather-proxy/config"
	"weather-proxy/datasource"
	"weather-proxy/gateway"
	"weather-proxy/observability"
)

func main() {
	cfg := config.Load()

	// Parse command line arguments
	port := flag.String("port", cfg.Port, "Port to run the server on")
	enableRateLimiting := flag.Bool("rate-limit", cfg.RateLimit.Enabled, "Enable inbound rate limiting")
	trustProxy := flag.Bool("trust-proxy", cfg.TrustProxy, "Identify clients by X-Forwarded-For/X-Real-IP")
	verifyKey := flag.Bool("verify-key", true, "Check the API key against the provider on startup")
	flag.Parse()

	logger := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("refusing to start", "error", err)
		os.Exit(1)
	}
	slog.Info("API key loaded")

	shutdownTracing, err := observability.SetupTracing(context.Background(), "weather-proxy")
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	var fetcher datasource.Fetcher = datasource.NewOpenWeatherMapProvider()
	if cfg.UpstreamRPS > 0 {
		fetcher = datasource.NewRateLimitedFetcher(fetcher, cfg.UpstreamRPS, cfg.UpstreamBurst)
		slog.Info("applied rate limiting to upstream calls", "rps", cfg.UpstreamRPS, "burst", cfg.UpstreamBurst)
	}
	fetcher = observability.Instrument(fetcher, metrics)

	gw := gateway.New(cfg.APIKey, fetcher, gateway.WithBaseURL(cfg.BaseURL), gateway.WithLogger(logger))

	opts := api.Options{
		Addr:       ":" + *port,
		Metrics:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		TrustProxy: *trustProxy,
	}
	if *enableRateLimiting {
		opts.RateLimiter = api.NewClientLimiter(cfg.RateLimit.Window, cfg.RateLimit.Max)
		opts.RateLimitPrefix = cfg.RateLimit.Prefix
		slog.Info("applied inbound rate limiting",
			"prefix", cfg.RateLimit.Prefix, "window", cfg.RateLimit.Window, "max", cfg.RateLimit.Max)
	}
	server := api.NewServer(gw, opts)

	// Set up channel for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	// Start the API server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if *verifyKey {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), datasource.DefaultTimeout+time.Second)
			defer cancel()
			_ = gw.VerifyKey(ctx)
		}()
	}

	exitCode := 0
	select {
	case sig := <-shutdownChan:
		slog.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server stopped", "error", err)
		exitCode = 1
	}

	if err := shutdown(server, shutdownTracing); err != nil {
		slog.Error("shutdown error", "error", err)
		exitCode = 1
	}

	slog.Info("shutdown complete")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// shutdown drains the server and flushes traces within five seconds
func shutdown(server *api.Server, shutdownTracing func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := server.Shutdown(ctx)
	if terr := shutdownTracing(ctx); terr != nil {
		slog.Warn("tracing shutdown error", "error", terr)
	}
	return err
}
