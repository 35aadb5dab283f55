package handlers

import (
	"net/http"
	"road-status-service/internal/api/dto"
	"road-status-service/internal/services"
)

type AlternateRouteHandler struct {
	Parser  *services.AlternateRouteParser
	Country string
}

func (h *AlternateRouteHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req dto.ParseAlternateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	parsed := h.Parser.Parse(req.Text)
	query, _ := h.Parser.GeocodeQuery(req.Text, h.Country)

	writeJSON(w, r, http.StatusOK, dto.ParseAlternateResponse{
		Roads: parsed.Roads,
		Towns: parsed.Towns,
		Query: query,
	})
}
