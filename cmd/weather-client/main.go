package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"weather-proxy/models"
)

func main() {
	baseURL := flag.String("base", "http://localhost:3000", "Base URL of the weather gateway")
	kindName := flag.String("kind", "current", "Endpoint kind: current, forecast or air")
	city := flag.String("city", "", "City name, e.g. \"London,UK\"")
	lat := flag.String("lat", "", "Latitude")
	lon := flag.String("lon", "", "Longitude")
	units := flag.String("units", "", "Units: metric or imperial")
	timeout := flag.Duration("timeout", 15*time.Second, "Request timeout")
	flag.Parse()

	kind, err := models.ParseEndpointKind(*kindName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	target, err := lookupURL(*baseURL, kind, models.RawQuery{City: *city, Lat: *lat, Lon: *lon, Units: *units})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	status, body, err := get(ctx, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching %s data: %v\n", kind, err)
		os.Exit(1)
	}

	// Pretty print the result
	var pretty bytes.Buffer
	if json.Indent(&pretty, body, "", "  ") == nil {
		body = pretty.Bytes()
	}
	fmt.Printf("%s\n", body)

	if status < 200 || status > 299 {
		os.Exit(1)
	}
}

// lookupURL builds the gateway route for kind with the non-empty parameters
func lookupURL(base string, kind models.EndpointKind, q models.RawQuery) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/api/weather/" + kind.String())
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	params := url.Values{}
	for k, v := range map[string]string{"city": q.City, "lat": q.Lat, "lon": q.Lon, "units": q.Units} {
		if v != "" {
			params.Set(k, v)
		}
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func get(ctx context.Context, target string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
