package services

import (
	"context"
	"road-status-service/internal/domain"
	"sync"
)

const MyLocationName = "My Location"

// RouteSession holds one user's in-progress route. Changing an endpoint
// discards the previous result. Safe for concurrent use.
type RouteSession struct {
	mu     sync.Mutex
	start  *domain.NamedPoint
	end    *domain.NamedPoint
	result *domain.RouteResult

	opts                 CorridorOptions
	criticalDelayMinutes int
}

func NewRouteSession(opts CorridorOptions, criticalDelayMinutes int) *RouteSession {
	return &RouteSession{opts: opts, criticalDelayMinutes: criticalDelayMinutes}
}

func (s *RouteSession) SetStart(p domain.NamedPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = &p
	s.result = nil
}

// SetStartFromUserLocation uses the device position as the start point.
func (s *RouteSession) SetStartFromUserLocation(c domain.Coordinates) {
	s.SetStart(domain.NamedPoint{Coordinates: c, Name: MyLocationName})
}

func (s *RouteSession) SetEnd(p domain.NamedPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.end = &p
	s.result = nil
}

// Clear drops both endpoints and the cached result.
func (s *RouteSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start, s.end, s.result = nil, nil, nil
}

// Plan returns the cached result or computes a new one from recs. While an
// endpoint is missing it returns domain.ErrInvalidRouteEndpoints and an
// empty result.
func (s *RouteSession) Plan(ctx context.Context, recs []domain.AnnotatedRecord) (domain.RouteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.start == nil || s.end == nil {
		return domain.RouteResult{}, domain.ErrInvalidRouteEndpoints
	}
	if s.result != nil {
		return *s.result, nil
	}

	res, err := PlanRoute(ctx, s.start, s.end, recs, s.opts, s.criticalDelayMinutes)
	if err != nil {
		return domain.RouteResult{}, err
	}
	s.result = &res
	return res, nil
}
