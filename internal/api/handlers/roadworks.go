package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"road-status-service/internal/api/dto"
	"road-status-service/internal/domain"
	"road-status-service/internal/platform/obs"
	"road-status-service/internal/ports"
	"road-status-service/internal/services"
	"strings"

	"github.com/go-chi/chi/v5"
)

type RoadworkHandler struct {
	Repo                 ports.RecordRepository
	Resolver             *services.LocationResolver
	Classifier           *services.RegionClassifier
	Parser               *services.AlternateRouteParser
	CriticalDelayMinutes int
}

// annotatedRecords loads every record and resolves its location.
func (h *RoadworkHandler) annotatedRecords(ctx context.Context) (_ []domain.AnnotatedRecord, err error) {
	defer obs.Time(ctx, "roadworks.annotate")(&err)

	recs, err := h.Repo.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	return h.Resolver.ResolveAll(ctx, recs), nil
}

// rankQuery builds the ranking query from request parameters. region=auto
// selects the region of the reference point.
func (h *RoadworkHandler) rankQuery(r *http.Request) (services.RankQuery, error) {
	q := r.URL.Query()

	strategy, err := services.ParseSortStrategy(q.Get("sort"))
	if err != nil {
		return services.RankQuery{}, err
	}

	rq := services.RankQuery{
		Status:               domain.Status(q.Get("status")),
		Region:               q.Get("region"),
		Search:               q.Get("q"),
		Sort:                 strategy,
		CriticalDelayMinutes: h.CriticalDelayMinutes,
	}

	ref, ok, err := queryCoordinates(r, "lat", "lon")
	if err != nil {
		return services.RankQuery{}, err
	}
	if ok {
		rq.Reference = &ref
	}

	if strings.EqualFold(rq.Region, "auto") {
		rq.Region = ""
		if rq.Reference != nil {
			rq.Region, _ = h.Classifier.Classify(r.Context(), *rq.Reference)
		}
	}

	return rq, nil
}

func (h *RoadworkHandler) isCritical(a domain.AnnotatedRecord) bool {
	return services.IsCritical(a.Record, h.CriticalDelayMinutes)
}

// roadwork renders a record with its approved options. Free-text advice is
// parsed only for records without any approved option.
func (h *RoadworkHandler) roadwork(a domain.AnnotatedRecord) dto.RoadworkResponse {
	res := dto.NewRoadwork(a, h.isCritical(a))
	if opts := services.ApprovedRouteOptions(a.Record); len(opts) > 0 {
		res.AlternateRoutes = opts
		return res
	}
	if text := strings.TrimSpace(a.Record.AlternativeRoute); text != "" && h.Parser != nil {
		p := h.Parser.Parse(text)
		res.ParsedAlternative = &dto.ParsedRoute{Roads: p.Roads, Towns: p.Towns}
	}
	return res
}

func (h *RoadworkHandler) prepare(w http.ResponseWriter, r *http.Request) ([]domain.AnnotatedRecord, bool) {
	rq, err := h.rankQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}

	recs, err := h.annotatedRecords(r.Context())
	if err != nil {
		log.Printf("req_id=%s list roadworks failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	if r.URL.Query().Get("with_regions") == "true" {
		recs = h.Classifier.AttachRegions(r.Context(), recs)
	}

	return services.Rank(recs, rq), true
}

// List returns filtered and ordered roadworks, as JSON or GeoJSON.
func (h *RoadworkHandler) List(w http.ResponseWriter, r *http.Request) {
	ranked, ok := h.prepare(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("format") == "geojson" {
		writeJSON(w, r, http.StatusOK, dto.NewRoadworkFeatures(ranked, h.isCritical))
		return
	}

	res := dto.ListRoadworksResponse{Count: len(ranked), Roadworks: make([]dto.RoadworkResponse, 0, len(ranked))}
	for _, a := range ranked {
		res.Roadworks = append(res.Roadworks, h.roadwork(a))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Critical splits the ranked roadworks into critical and other.
func (h *RoadworkHandler) Critical(w http.ResponseWriter, r *http.Request) {
	ranked, ok := h.prepare(w, r)
	if !ok {
		return
	}

	critical, other := services.SplitCritical(ranked, h.CriticalDelayMinutes)
	res := dto.CriticalRoadworksResponse{
		Critical: make([]dto.RoadworkResponse, 0, len(critical)),
		Other:    make([]dto.RoadworkResponse, 0, len(other)),
	}
	for _, a := range critical {
		res.Critical = append(res.Critical, h.roadwork(a))
	}
	for _, a := range other {
		res.Other = append(res.Other, h.roadwork(a))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Navigation returns a deep link to the record and to its default
// alternate route when one is available.
func (h *RoadworkHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	platform, err := services.ParsePlatform(r.URL.Query().Get("platform"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := h.Repo.GetRecord(r.Context(), id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		writeError(w, r, http.StatusNotFound, "roadwork not found")
		return
	}
	if err != nil {
		log.Printf("req_id=%s get roadwork failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	a := domain.AnnotatedRecord{Record: rec, Source: domain.SourceUnresolved}
	if c, src, ok := h.Resolver.Resolve(r.Context(), rec); ok {
		a.Coordinates, a.Source = &c, src
	}

	intent, ok := services.IntentForRecord(a)
	if !ok {
		writeError(w, r, http.StatusUnprocessableEntity, "location unavailable")
		return
	}

	res := dto.NavigationResponse{
		RecordID:    rec.ID,
		Destination: domain.NamedPoint{Coordinates: intent.Destination, Name: intent.Label},
		URL:         intent.URL(platform),
		Platform:    string(platform),
		ShareURL:    services.ShareLocationURL(intent.Destination),
		Alternate:   h.alternateNav(r.Context(), rec, platform),
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RoadworkHandler) alternateNav(ctx context.Context, rec *domain.RoadConditionRecord, platform services.Platform) *dto.AlternateNav {
	// legacy text only stands in when no approved option exists
	if opt, ok := services.DefaultRouteOption(rec); ok {
		intent, err := services.IntentForRouteOption(opt)
		if err != nil {
			return nil
		}
		return &dto.AlternateNav{Name: opt.RouteName, URL: intent.URL(platform)}
	}

	if strings.TrimSpace(rec.AlternativeRoute) == "" {
		return nil
	}
	pt, ok := h.Resolver.ResolveAlternateRoute(ctx, h.Parser, rec.AlternativeRoute)
	if !ok {
		return nil
	}
	intent := services.NavigationIntent{Destination: pt.Coordinates, Label: pt.Name}
	return &dto.AlternateNav{Name: pt.Name, URL: intent.URL(platform)}
}
