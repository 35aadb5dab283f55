// Package geo holds the small set of spherical and planar helpers the
// services build on. Distances are kilometres on a sphere of radius 6371 km.
package geo

import (
	"math"
	"road-status-service/internal/domain"
)

const EarthRadiusKm = 6371.0

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

// HaversineDistanceKm returns the great-circle distance between a and b.
func HaversineDistanceKm(a, b domain.Coordinates) float64 {
	phi1 := toRad(a.Lat)
	phi2 := toRad(b.Lat)
	deltaPhi := toRad(b.Lat - a.Lat)
	deltaLambda := toRad(b.Lon - a.Lon)

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	// rounding can push h just outside [0, 1] for antipodal points
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Interpolate linearly interpolates in degree space.
func Interpolate(start, end domain.Coordinates, fraction float64) domain.Coordinates {
	return domain.Coordinates{
		Lat: start.Lat + (end.Lat-start.Lat)*fraction,
		Lon: start.Lon + (end.Lon-start.Lon)*fraction,
	}
}

// DistanceToSegmentKm projects p onto segment [start, end] treating degrees as
// planar, clamps the projection to the segment and measures the haversine
// distance from p to it. Accurate at corridor scale (tens of km); not valid
// near the poles or across the antimeridian.
func DistanceToSegmentKm(p, start, end domain.Coordinates) float64 {
	dLat := end.Lat - start.Lat
	dLon := end.Lon - start.Lon
	lenSq := dLat*dLat + dLon*dLon

	t := 0.0
	if lenSq > 0 {
		t = ((p.Lat-start.Lat)*dLat + (p.Lon-start.Lon)*dLon) / lenSq
		t = math.Min(1, math.Max(0, t))
	}

	return HaversineDistanceKm(p, Interpolate(start, end, t))
}

// DistanceToPolylineKm returns the smallest segment distance from p to line.
// A single-point line degenerates to point distance; an empty line yields +Inf.
func DistanceToPolylineKm(p domain.Coordinates, line []domain.Coordinates) float64 {
	switch len(line) {
	case 0:
		return math.Inf(1)
	case 1:
		return HaversineDistanceKm(p, line[0])
	}

	best := math.Inf(1)
	for i := 1; i < len(line); i++ {
		if d := DistanceToSegmentKm(p, line[i-1], line[i]); d < best {
			best = d
		}
	}
	return best
}
