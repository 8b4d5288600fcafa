package models

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
)

func TestParseEndpointKind(t *testing.T) {
	for in, want := range map[string]EndpointKind{"current": Current, "Forecast": Forecast, " air ": AirQuality} {
		got, err := ParseEndpointKind(in)
		if err != nil || got != want {
			t.Errorf("%q: got %v %v", in, got, err)
		}
	}
	if _, err := ParseEndpointKind("tides"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestParseUnits(t *testing.T) {
	if ParseUnits("") != Metric {
		t.Error("empty units should default to metric")
	}
	if u := ParseUnits("kelvin"); u != "kelvin" {
		t.Errorf("unknown units should pass through, got %q", u)
	}
	if ParseUnits("imperial") != Imperial {
		t.Error("imperial should parse")
	}
}

func TestRawQueryFromValues(t *testing.T) {
	v, _ := url.ParseQuery("city=S%C3%A3o+Paulo&lat=1&units=imperial")
	q := RawQueryFromValues(v)
	if q.City != "São Paulo" || q.Lat != "1" || q.Lon != "" || q.Units != "imperial" {
		t.Fatalf("unexpected query %+v", q)
	}
	if !q.HasCity() || q.HasCoordinates() {
		t.Fatalf("unexpected presence flags for %+v", q)
	}
}

func TestLocationQueryString(t *testing.T) {
	if s := CoordinatesQuery(51.5074, -0.1278).String(); s != "51.5074,-0.1278" {
		t.Errorf("got %q", s)
	}
	if s := CityQuery("Lisbon").String(); s != "Lisbon" {
		t.Errorf("got %q", s)
	}
}

func TestResponseJSON(t *testing.T) {
	ok := Success([]byte(`{"a":1}`))
	b, _ := ok.JSON()
	if string(b) != `{"a":1}` {
		t.Fatalf("success body changed: %s", b)
	}

	fail := FailureWithDetails(http.StatusInternalServerError, "Internal server error", "timeout")
	b, err := fail.JSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var body ErrorBody
	_ = json.Unmarshal(b, &body)
	if fail.OK() || body.Error != "Internal server error" || body.Details != "timeout" {
		t.Fatalf("unexpected failure body %s", b)
	}
}
