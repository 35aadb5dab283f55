package services

import (
	"context"
	"road-status-service/internal/domain"
	"road-status-service/internal/platform/obs"
)

// PlanRoute builds the straight-line corridor between start and end and
// collects the records lying on it, critical ones counted separately.
// recs must already carry resolved coordinates.
func PlanRoute(
	ctx context.Context,
	start, end *domain.NamedPoint,
	recs []domain.AnnotatedRecord,
	opts CorridorOptions,
	criticalDelayMinutes int,
) (_ domain.RouteResult, err error) {
	defer obs.Time(ctx, "services.PlanRoute")(&err)

	if start == nil || end == nil || !start.Valid() || !end.Valid() {
		return domain.RouteResult{}, domain.ErrInvalidRouteEndpoints
	}

	if opts.Steps == 0 {
		opts.Steps = DefaultCorridorSteps
	}

	corridor := BuildCorridor(start.Coordinates, end.Coordinates, opts.Steps)
	matches := RecordsOnCorridor(recs, corridor, opts.ToleranceKm)

	// distance from the route start is the natural reading order
	matches = AnnotateDistance(matches, &start.Coordinates)

	critical := 0
	for _, m := range matches {
		if IsCritical(m.Record, criticalDelayMinutes) {
			critical++
		}
	}

	return domain.RouteResult{
		Plan: domain.RoutePlan{
			Start:       *start,
			End:         *end,
			Corridor:    corridor,
			ToleranceKm: opts.ToleranceKm,
		},
		Matches:       matches,
		CriticalCount: critical,
	}, nil
}
