package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"road-status-service/internal/domain"
	"road-status-service/internal/platform/obs"
	"strconv"
	"strings"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: req_id=%s method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// readJSON decodes exactly one JSON object from the body, rejecting unknown
// fields.
func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// queryCoordinates reads lat/lon query parameters. ok is false when both are
// absent; err is set when they are present but unusable.
func queryCoordinates(r *http.Request, latKey, lonKey string) (c domain.Coordinates, ok bool, err error) {
	latStr := strings.TrimSpace(r.URL.Query().Get(latKey))
	lonStr := strings.TrimSpace(r.URL.Query().Get(lonKey))
	if latStr == "" && lonStr == "" {
		return domain.Coordinates{}, false, nil
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	c = domain.Coordinates{Lat: lat, Lon: lon}
	if errLat != nil || errLon != nil || !c.Valid() {
		return domain.Coordinates{}, false, errors.New(latKey + " and " + lonKey + " must be valid coordinates")
	}
	return c, true, nil
}
