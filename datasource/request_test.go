package datasource

import (
	"net/url"
	"strings"
	"testing"

	"weather-proxy/models"
)

const testKey = "secret-key-123"

func TestBuildRequestIsDeterministic(t *testing.T) {
	for _, kind := range models.Kinds {
		loc := models.CoordinatesQuery(51.5074, -0.1278)
		a := BuildRequest(DefaultBaseURL, testKey, kind, loc, models.Imperial)
		b := BuildRequest(DefaultBaseURL, testKey, kind, loc, models.Imperial)
		if a.URL != b.URL {
			t.Fatalf("%s: urls differ: %q vs %q", kind, a.URL, b.URL)
		}
	}
}

func TestBuildRequestPaths(t *testing.T) {
	cases := []struct {
		kind models.EndpointKind
		loc  models.LocationQuery
		want string
	}{
		{models.Current, models.CityQuery("London"), DefaultBaseURL + "/weather?appid=" + testKey + "&q=London&units=metric"},
		{models.Forecast, models.CoordinatesQuery(10.5, -20), DefaultBaseURL + "/forecast?appid=" + testKey + "&lat=10.5&lon=-20&units=metric"},
		{models.AirQuality, models.CoordinatesQuery(1, 2), DefaultBaseURL + "/air_pollution?appid=" + testKey + "&lat=1&lon=2"},
	}
	for _, tc := range cases {
		got := BuildRequest(DefaultBaseURL, testKey, tc.kind, tc.loc, "").URL
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestBuildRequestAirIgnoresCityAndUnits(t *testing.T) {
	req := BuildRequest(DefaultBaseURL, testKey, models.AirQuality, models.CoordinatesQuery(3, 4), models.Imperial)
	u, err := url.Parse(req.URL)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Has("units") || q.Has("q") {
		t.Fatalf("unexpected params in %q", req.URL)
	}
}

func TestBuildRequestEscapesCity(t *testing.T) {
	for _, city := range []string{"São Paulo", "New York, US", "a&b=c", "100% sure"} {
		req := BuildRequest(DefaultBaseURL, testKey, models.Current, models.CityQuery(city), models.Metric)
		u, err := url.Parse(req.URL)
		if err != nil {
			t.Fatalf("parse %q: %v", req.URL, err)
		}
		if got := u.Query().Get("q"); got != city {
			t.Errorf("round trip: got %q, want %q", got, city)
		}
		if strings.Contains(u.RawQuery, " ") {
			t.Errorf("raw query not escaped: %q", u.RawQuery)
		}
	}
}

func TestBuildRequestPassesUnknownUnits(t *testing.T) {
	req := BuildRequest(DefaultBaseURL, testKey, models.Current, models.CityQuery("Oslo"), models.Units("standard"))
	if !strings.Contains(req.URL, "units=standard") {
		t.Fatalf("expected units passthrough in %q", req.URL)
	}
}

func TestBuildRequestTrimsBaseSlash(t *testing.T) {
	req := BuildRequest("http://example.test/data/", testKey, models.Current, models.CityQuery("Rome"), models.Metric)
	if !strings.HasPrefix(req.URL, "http://example.test/data/weather?") {
		t.Fatalf("unexpected url %q", req.URL)
	}
}

func TestRedactedHidesKey(t *testing.T) {
	req := BuildRequest(DefaultBaseURL, testKey, models.Current, models.CityQuery("Paris"), models.Metric)
	for _, s := range []string{req.Redacted(), req.String()} {
		if strings.Contains(s, testKey) {
			t.Fatalf("credential leaked: %q", s)
		}
		if !strings.Contains(s, "appid=REDACTED") {
			t.Fatalf("expected masked appid in %q", s)
		}
	}
}
