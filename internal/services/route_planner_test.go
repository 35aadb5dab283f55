package services

import (
	"context"
	"errors"
	"road-status-service/internal/domain"
	"testing"
)

func annotated(id string, c *domain.Coordinates, status domain.Status) domain.AnnotatedRecord {
	return domain.AnnotatedRecord{
		Record:      &domain.RoadConditionRecord{ID: id, Title: id, Status: status},
		Coordinates: c,
	}
}

func TestPlanRouteMatchesCorridor(t *testing.T) {
	// build test data
	start := &domain.NamedPoint{Coordinates: domain.Coordinates{Lat: -22.0, Lon: 17.0}, Name: "A"}
	end := &domain.NamedPoint{Coordinates: domain.Coordinates{Lat: -22.0, Lon: 18.0}, Name: "B"}

	recs := []domain.AnnotatedRecord{
		annotated("far", &domain.Coordinates{Lat: -22.45, Lon: 17.5}, domain.StatusClosed),
		annotated("mid", &domain.Coordinates{Lat: -22.0, Lon: 17.5}, domain.StatusClosed),
		annotated("none", nil, domain.StatusClosed),
		annotated("near-start", &domain.Coordinates{Lat: -22.01, Lon: 17.05}, domain.StatusOpen),
	}

	// call the method under test
	res, err := PlanRoute(context.Background(), start, end, recs, DefaultCorridorOptions(), DefaultCriticalDelayMinutes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Plan.Corridor) != DefaultCorridorSteps+1 {
		t.Fatalf("expected %d corridor points, got %d", DefaultCorridorSteps+1, len(res.Plan.Corridor))
	}
	if len(res.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(res.Matches))
	}
	if res.Matches[0].Record.ID != "mid" || res.Matches[1].Record.ID != "near-start" {
		t.Fatalf("expected input order [mid near-start], got [%s %s]", res.Matches[0].Record.ID, res.Matches[1].Record.ID)
	}
	if res.CriticalCount != 1 {
		t.Fatalf("expected 1 critical match, got %d", res.CriticalCount)
	}
	if res.Matches[0].DistanceKm == nil {
		t.Fatalf("expected distance from route start on matches")
	}
}

func TestPlanRouteRequiresBothEndpoints(t *testing.T) {
	start := &domain.NamedPoint{Coordinates: domain.DefaultCenter}

	_, err := PlanRoute(context.Background(), start, nil, nil, DefaultCorridorOptions(), DefaultCriticalDelayMinutes)
	if !errors.Is(err, domain.ErrInvalidRouteEndpoints) {
		t.Fatalf("expected ErrInvalidRouteEndpoints, got %v", err)
	}
}

func TestBuildCorridor(t *testing.T) {
	start := domain.Coordinates{Lat: -22.5597, Lon: 17.0832}
	end := domain.Coordinates{Lat: -22.6784, Lon: 14.5266}

	tests := []struct {
		name  string
		steps int
	}{
		{"single step", 1},
		{"default", 50},
		{"odd", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := BuildCorridor(start, end, tt.steps)
			if len(c) != tt.steps+1 {
				t.Fatalf("expected %d points, got %d", tt.steps+1, len(c))
			}
			if c[0] != start || c[len(c)-1] != end {
				t.Fatalf("expected exact endpoints, got %v .. %v", c[0], c[len(c)-1])
			}
		})
	}
}

func TestBuildCorridorPanicsOnZeroSteps(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for steps < 1")
		}
	}()
	BuildCorridor(domain.Coordinates{}, domain.Coordinates{Lat: 1}, 0)
}

func TestRecordsOnCorridorPanicsOnNegativeTolerance(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for negative tolerance")
		}
	}()
	RecordsOnCorridor(nil, []domain.Coordinates{{}}, -1)
}

func TestRecordsOnCorridorEmptyCorridor(t *testing.T) {
	recs := []domain.AnnotatedRecord{annotated("a", &domain.Coordinates{}, domain.StatusOpen)}
	if got := RecordsOnCorridor(recs, nil, 5); len(got) != 0 {
		t.Fatalf("expected no matches for empty corridor, got %d", len(got))
	}
}

func TestApprovedRouteOptions(t *testing.T) {
	rec := &domain.RoadConditionRecord{
		AlternateRoutes: []domain.RouteOption{
			{RouteName: "unapproved", Approved: false, IsRecommended: true},
			{RouteName: "first", Approved: true},
			{RouteName: "recommended", Approved: true, IsRecommended: true},
			{RouteName: "second", Approved: true},
		},
	}

	got := ApprovedRouteOptions(rec)
	want := []string{"recommended", "first", "second"}
	if len(got) != len(want) {
		t.Fatalf("expected %d options, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].RouteName != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, got[i].RouteName)
		}
	}

	def, ok := DefaultRouteOption(rec)
	if !ok || def.RouteName != "recommended" {
		t.Fatalf("expected recommended default, got %+v ok=%v", def, ok)
	}

	if _, ok := DefaultRouteOption(&domain.RoadConditionRecord{}); ok {
		t.Fatalf("expected no default without approved options")
	}
}

func TestRouteSession(t *testing.T) {
	s := NewRouteSession(DefaultCorridorOptions(), DefaultCriticalDelayMinutes)
	ctx := context.Background()
	recs := []domain.AnnotatedRecord{annotated("mid", &domain.Coordinates{Lat: -22.0, Lon: 17.5}, domain.StatusOpen)}

	s.SetStartFromUserLocation(domain.Coordinates{Lat: -22.0, Lon: 17.0})
	if _, err := s.Plan(ctx, recs); !errors.Is(err, domain.ErrInvalidRouteEndpoints) {
		t.Fatalf("expected ErrInvalidRouteEndpoints with only a start point, got %v", err)
	}

	s.SetEnd(domain.NamedPoint{Coordinates: domain.Coordinates{Lat: -22.0, Lon: 18.0}, Name: "East"})
	res, err := s.Plan(ctx, recs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Plan.Start.Name != MyLocationName || len(res.Matches) != 1 {
		t.Fatalf("unexpected plan %+v", res)
	}

	// moving the end away drops the match
	s.SetEnd(domain.NamedPoint{Coordinates: domain.Coordinates{Lat: -20.0, Lon: 17.0}})
	res, _ = s.Plan(ctx, recs)
	if len(res.Matches) != 0 {
		t.Fatalf("expected recomputed plan without matches, got %d", len(res.Matches))
	}

	s.Clear()
	res, err = s.Plan(ctx, recs)
	if !errors.Is(err, domain.ErrInvalidRouteEndpoints) || len(res.Plan.Corridor) != 0 || len(res.Matches) != 0 {
		t.Fatalf("expected cleared session to have no plan, got %+v err=%v", res, err)
	}
}
