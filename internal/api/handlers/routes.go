package handlers

import (
	"errors"
	"log"
	"net/http"
	"road-status-service/internal/api/dto"
	"road-status-service/internal/domain"
	"road-status-service/internal/geo"
	"road-status-service/internal/platform/obs"
	"road-status-service/internal/services"
)

type RouteHandler struct {
	Roadworks *RoadworkHandler
	Corridor  services.CorridorOptions
}

// Plan matches roadworks against the straight-line corridor between the
// requested start and end points.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	opts := h.Corridor
	if req.ToleranceKm != nil {
		if *req.ToleranceKm < 0 || *req.ToleranceKm > 100 {
			writeError(w, r, http.StatusBadRequest, "tolerance_km must be between 0 and 100")
			return
		}
		opts.ToleranceKm = *req.ToleranceKm
	}
	if req.Steps != 0 {
		if req.Steps < 1 || req.Steps > 1000 {
			writeError(w, r, http.StatusBadRequest, "steps must be between 1 and 1000")
			return
		}
		opts.Steps = req.Steps
	}

	recs, err := h.Roadworks.annotatedRecords(r.Context())
	if err != nil {
		log.Printf("req_id=%s plan route failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res, err := services.PlanRoute(r.Context(), req.Start.Point(), req.End.Point(), recs, opts, h.Roadworks.CriticalDelayMinutes)
	if errors.Is(err, domain.ErrInvalidRouteEndpoints) {
		writeError(w, r, http.StatusBadRequest, "start and end must both have latitude and longitude")
		return
	}
	if err != nil {
		log.Printf("req_id=%s plan route failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	intent := services.IntentForPlan(res.Plan)
	nav := make(map[string]string, len(services.Platforms))
	for _, p := range services.Platforms {
		nav[string(p)] = intent.URL(p)
	}

	out := dto.RouteResponse{
		Start:    res.Plan.Start,
		End:      res.Plan.End,
		Corridor: dto.NewCorridorGeometry(res.Plan.Corridor),
		Summary: dto.RouteSummary{
			Matched:        len(res.Matches),
			Critical:       res.CriticalCount,
			ToleranceKm:    res.Plan.ToleranceKm,
			StraightLineKm: geo.HaversineDistanceKm(res.Plan.Start.Coordinates, res.Plan.End.Coordinates),
		},
		Roadworks:  make([]dto.RoadworkResponse, 0, len(res.Matches)),
		Navigation: nav,
	}
	for _, a := range res.Matches {
		out.Roadworks = append(out.Roadworks, h.Roadworks.roadwork(a))
	}

	writeJSON(w, r, http.StatusOK, out)
}
