package models

import (
	"fmt"
	"strings"
)

// EndpointKind selects which upstream data set a request targets
type EndpointKind int

const (
	Current EndpointKind = iota
	Forecast
	AirQuality
)

// Kinds lists every supported endpoint kind
var Kinds = []EndpointKind{Current, Forecast, AirQuality}

// String returns the short name used in routes and logs
func (k EndpointKind) String() string {
	switch k {
	case Current:
		return "current"
	case Forecast:
		return "forecast"
	case AirQuality:
		return "air"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Path returns the upstream path for the kind
func (k EndpointKind) Path() string {
	switch k {
	case Forecast:
		return "/forecast"
	case AirQuality:
		return "/air_pollution"
	default:
		return "/weather"
	}
}

// FailureMessage is the fallback error text when upstream gives no message
func (k EndpointKind) FailureMessage() string {
	switch k {
	case Forecast:
		return "Failed to fetch forecast data"
	case AirQuality:
		return "Failed to fetch air quality data"
	default:
		return "Failed to fetch weather data"
	}
}

// AcceptsCity reports whether a city name can locate this kind.
// Air quality is looked up by coordinates only.
func (k EndpointKind) AcceptsCity() bool {
	return k != AirQuality
}

// AcceptsUnits reports whether the units selector is forwarded upstream
func (k EndpointKind) AcceptsUnits() bool {
	return k != AirQuality
}

// ParseEndpointKind maps a name such as "current" or "air" to its kind
func ParseEndpointKind(s string) (EndpointKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current", "weather":
		return Current, nil
	case "forecast":
		return Forecast, nil
	case "air", "air_quality", "air_pollution":
		return AirQuality, nil
	}
	return 0, fmt.Errorf("unknown endpoint kind %q", s)
}

// Units selects the measurement system for temperature and wind speed
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// DefaultUnits is used when the caller does not ask for a system
const DefaultUnits = Metric

// ParseUnits returns the default for an empty value. Any other value is kept
// verbatim so the upstream provider decides how to treat it.
func ParseUnits(s string) Units {
	if s == "" {
		return DefaultUnits
	}
	return Units(s)
}
