package services

import (
	"fmt"
	"road-status-service/internal/domain"
	"road-status-service/internal/geo"
	"slices"
)

const (
	DefaultCorridorSteps       = 50
	DefaultCorridorToleranceKm = 5.0
)

type CorridorOptions struct {
	Steps       int
	ToleranceKm float64
}

func DefaultCorridorOptions() CorridorOptions {
	return CorridorOptions{Steps: DefaultCorridorSteps, ToleranceKm: DefaultCorridorToleranceKm}
}

// BuildCorridor returns steps+1 points evenly spaced in degree space, the
// first equal to start and the last equal to end. steps < 1 is a caller bug.
func BuildCorridor(start, end domain.Coordinates, steps int) []domain.Coordinates {
	if steps < 1 {
		panic(fmt.Sprintf("services: BuildCorridor steps must be >= 1, got %d", steps))
	}

	out := make([]domain.Coordinates, steps+1)
	for i := 0; i <= steps; i++ {
		out[i] = geo.Interpolate(start, end, float64(i)/float64(steps))
	}
	// exact endpoints regardless of float rounding
	out[0], out[steps] = start, end
	return out
}

// IsNearCorridor reports whether p lies within toleranceKm of any corridor
// segment.
func IsNearCorridor(p domain.Coordinates, corridor []domain.Coordinates, toleranceKm float64) bool {
	return geo.DistanceToPolylineKm(p, corridor) <= toleranceKm
}

// RecordsOnCorridor keeps records whose resolved coordinate is within
// toleranceKm of the corridor, in input order. Records without coordinates
// never match. A negative tolerance is a caller bug.
func RecordsOnCorridor(recs []domain.AnnotatedRecord, corridor []domain.Coordinates, toleranceKm float64) []domain.AnnotatedRecord {
	if toleranceKm < 0 {
		panic(fmt.Sprintf("services: RecordsOnCorridor tolerance must be >= 0, got %g", toleranceKm))
	}

	out := make([]domain.AnnotatedRecord, 0)
	if len(corridor) == 0 {
		return out
	}
	for _, a := range recs {
		if a.Coordinates == nil {
			continue
		}
		if IsNearCorridor(*a.Coordinates, corridor, toleranceKm) {
			out = append(out, a)
		}
	}
	return out
}

// ApprovedRouteOptions returns the record's approved alternate routes,
// recommended ones first, otherwise in stored order.
func ApprovedRouteOptions(rec *domain.RoadConditionRecord) []domain.RouteOption {
	if rec == nil {
		return nil
	}

	out := make([]domain.RouteOption, 0, len(rec.AlternateRoutes))
	for _, o := range rec.AlternateRoutes {
		if o.Approved {
			out = append(out, o)
		}
	}

	slices.SortStableFunc(out, func(a, b domain.RouteOption) int {
		switch {
		case a.IsRecommended == b.IsRecommended:
			return 0
		case a.IsRecommended:
			return -1
		default:
			return 1
		}
	})
	return out
}

// DefaultRouteOption is the option a user gets without choosing.
func DefaultRouteOption(rec *domain.RoadConditionRecord) (domain.RouteOption, bool) {
	opts := ApprovedRouteOptions(rec)
	if len(opts) == 0 {
		return domain.RouteOption{}, false
	}
	return opts[0], true
}
