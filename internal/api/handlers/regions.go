package handlers

import (
	"net/http"
	"road-status-service/internal/api/dto"
	"road-status-service/internal/domain"
	"road-status-service/internal/services"
)

type RegionHandler struct {
	Classifier *services.RegionClassifier
}

func (h *RegionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.RegionsResponse{Regions: domain.Regions})
}

// Lookup classifies lat/lon; an unknown region is a normal answer.
func (h *RegionHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	c, ok, err := queryCoordinates(r, "lat", "lon")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !ok {
		writeError(w, r, http.StatusBadRequest, "lat and lon are required")
		return
	}

	region, src := h.Classifier.Classify(r.Context(), c)
	if region == domain.UnknownRegion {
		region = "unknown"
	}

	writeJSON(w, r, http.StatusOK, dto.RegionLookupResponse{
		Latitude:  c.Lat,
		Longitude: c.Lon,
		Region:    region,
		Source:    string(src),
	})
}
