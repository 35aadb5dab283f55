package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRecordUnmarshalLocationShapes(t *testing.T) {
	// build test data
	payload := `{
		"_id": "rw-1",
		"title": "B1 resurfacing",
		"status": "Planned  Works",
		"expectedDelayMinutes": "45",
		"startDate": "2026-03-01",
		"coordinates": {"latitude": -22.5, "longitude": null},
		"location": {"type": "Point", "coordinates": ["17.1", -22.6], "latitude": -22.7, "longitude": 17.2}
	}`

	// call the method under test
	var rec RoadConditionRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.ID != "rw-1" {
		t.Fatalf("expected id from _id, got %q", rec.ID)
	}
	if rec.Status != StatusPlannedWorks {
		t.Fatalf("expected normalized status, got %q", rec.Status)
	}
	if rec.ExpectedDelayMinutes == nil || *rec.ExpectedDelayMinutes != 45 {
		t.Fatalf("expected delay 45, got %v", rec.ExpectedDelayMinutes)
	}
	if rec.StartDate == nil || rec.StartDate.Month() != 3 {
		t.Fatalf("expected start date in March, got %v", rec.StartDate)
	}
	if _, ok := rec.Coordinates.Complete(); ok {
		t.Fatalf("expected partial explicit coordinates to be incomplete")
	}
	if rec.Location == nil || len(rec.Location.Coordinates) != 2 || rec.Location.Coordinates[0] != 17.1 {
		t.Fatalf("expected geojson coordinates [17.1 -22.6], got %+v", rec.Location)
	}
	if c, ok := rec.Location.Legacy.Complete(); !ok || c.Lat != -22.7 {
		t.Fatalf("expected legacy coordinates, got %+v", rec.Location.Legacy)
	}
}

func TestRecordUnmarshalMalformedLocation(t *testing.T) {
	var rec RoadConditionRecord
	err := json.Unmarshal([]byte(`{"id":"x","location":{"coordinates":"nowhere"},"startDate":"soon"}`), &rec)
	if err != nil {
		t.Fatalf("malformed location must not fail decoding: %v", err)
	}
	if rec.Location == nil || !rec.Location.Malformed {
		t.Fatalf("expected location flagged malformed, got %+v", rec.Location)
	}
	if !errors.Is(rec.LocationErr(), ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", rec.LocationErr())
	}

	var ok RoadConditionRecord
	_ = json.Unmarshal([]byte(`{"id":"y","location":{"type":"Point","coordinates":[17.08,-22.56]}}`), &ok)
	if err := ok.LocationErr(); err != nil {
		t.Fatalf("expected readable location, got %v", err)
	}
	if rec.StartDate != nil {
		t.Fatalf("expected unparseable date dropped, got %v", rec.StartDate)
	}
}

func TestCoordinatesValid(t *testing.T) {
	tests := []struct {
		name string
		c    Coordinates
		want bool
	}{
		{"windhoek", DefaultCenter, true},
		{"lat out of range", Coordinates{Lat: 91, Lon: 0}, false},
		{"lon out of range", Coordinates{Lat: 0, Lon: -181}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Fatalf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
