package models

import (
	"net/url"
	"strconv"
	"strings"
)

// RawQuery holds the location parameters exactly as received from the caller
type RawQuery struct {
	City  string
	Lat   string
	Lon   string
	Units string
}

// RawQueryFromValues extracts the recognised parameters from a query string
func RawQueryFromValues(v url.Values) RawQuery {
	return RawQuery{
		City:  v.Get("city"),
		Lat:   v.Get("lat"),
		Lon:   v.Get("lon"),
		Units: v.Get("units"),
	}
}

// HasCity reports whether a non-blank city was supplied
func (q RawQuery) HasCity() bool {
	return strings.TrimSpace(q.City) != ""
}

// HasCoordinates reports whether both lat and lon were supplied
func (q RawQuery) HasCoordinates() bool {
	return q.Lat != "" && q.Lon != ""
}

// LocationQuery identifies a place either by city name or by coordinates
type LocationQuery struct {
	city     string
	lat, lon float64
	byCoords bool
}

// CityQuery creates a location query for a city name
func CityQuery(city string) LocationQuery {
	return LocationQuery{city: city}
}

// CoordinatesQuery creates a location query for a latitude/longitude pair
func CoordinatesQuery(lat, lon float64) LocationQuery {
	return LocationQuery{lat: lat, lon: lon, byCoords: true}
}

// City returns the city name and whether the query is city based
func (l LocationQuery) City() (string, bool) {
	return l.city, !l.byCoords
}

// Coordinates returns the lat/lon pair and whether the query is coordinate based
func (l LocationQuery) Coordinates() (lat, lon float64, ok bool) {
	return l.lat, l.lon, l.byCoords
}

// String describes the location for log lines
func (l LocationQuery) String() string {
	if l.byCoords {
		return FormatCoordinate(l.lat) + "," + FormatCoordinate(l.lon)
	}
	return l.city
}

// FormatCoordinate renders a coordinate using the shortest exact representation
func FormatCoordinate(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
