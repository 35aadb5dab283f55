package geo

import (
	"math"
	"road-status-service/internal/domain"
	"testing"
)

func TestHaversineDistanceKm(t *testing.T) {
	windhoek := domain.Coordinates{Lat: -22.5597, Lon: 17.0832}

	tests := []struct {
		name string
		a, b domain.Coordinates
		want float64
		tol  float64
	}{
		{"identical points", windhoek, windhoek, 0, 1e-9},
		{"one degree of latitude", domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 1, Lon: 0}, 111.195, 0.01},
		{"antipodal", domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 0, Lon: 180}, math.Pi * EarthRadiusKm, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Fatalf("expected %.4f km, got %.4f km", tt.want, got)
			}
			if back := HaversineDistanceKm(tt.b, tt.a); math.Abs(back-got) > 1e-9 {
				t.Fatalf("distance not symmetric: %.6f vs %.6f", got, back)
			}
		})
	}
}

func TestDistanceToSegmentKm(t *testing.T) {
	start := domain.Coordinates{Lat: -22.0, Lon: 17.0}
	end := domain.Coordinates{Lat: -22.0, Lon: 18.0}

	// midpoint lies on the segment
	if d := DistanceToSegmentKm(domain.Coordinates{Lat: -22.0, Lon: 17.5}, start, end); d > 1e-6 {
		t.Fatalf("expected 0 km for point on segment, got %.6f", d)
	}

	// beyond the end the projection clamps to the endpoint
	beyond := domain.Coordinates{Lat: -22.0, Lon: 19.0}
	want := HaversineDistanceKm(beyond, end)
	if d := DistanceToSegmentKm(beyond, start, end); math.Abs(d-want) > 1e-9 {
		t.Fatalf("expected clamp to end (%.4f km), got %.4f", want, d)
	}

	// zero-length segment measures to the point itself
	p := domain.Coordinates{Lat: -23.0, Lon: 17.0}
	if d := DistanceToSegmentKm(p, start, start); math.Abs(d-HaversineDistanceKm(p, start)) > 1e-9 {
		t.Fatalf("expected point distance for degenerate segment, got %.4f", d)
	}
}

func TestDistanceToPolylineKm(t *testing.T) {
	if d := DistanceToPolylineKm(domain.Coordinates{}, nil); !math.IsInf(d, 1) {
		t.Fatalf("expected +Inf for empty line, got %v", d)
	}

	line := []domain.Coordinates{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}
	if d := DistanceToPolylineKm(domain.Coordinates{Lat: 0.5, Lon: 1}, line); d > 1e-6 {
		t.Fatalf("expected point on second segment, got %.6f", d)
	}
}
