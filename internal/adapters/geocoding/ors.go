package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"road-status-service/internal/domain"
	"road-status-service/internal/platform/obs"
	"road-status-service/internal/ports"
	"strconv"
	"strings"
)

const DefaultORSURL = "https://api.openrouteservice.org"

// ORS implements ports.Geocoder using the OpenRouteService Pelias endpoints
// (/geocode/search and /geocode/reverse).
type ORS struct {
	http    *client
	baseURL string
	country string
}

type ORSOptions struct {
	APIKey        string
	BaseURL       string
	Country       string
	RatePerSecond float64
	HTTPClient    *http.Client
}

func NewORS(opts ORSOptions) (*ORS, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultORSURL
	}

	return &ORS{
		http:    newClient(opts.HTTPClient, "", opts.APIKey, opts.RatePerSecond),
		baseURL: baseURL,
		country: strings.ToUpper(opts.Country),
	}, nil
}

type orsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label       string `json:"label"`
			Region      string `json:"region"`
			MacroRegion string `json:"macroregion"`
			County      string `json:"county"`
			Country     string `json:"country"`
		} `json:"properties"`
	} `json:"features"`
}

func (o *ORS) fetch(ctx context.Context, path string, params map[string]string) (orsResponse, error) {
	var decoded orsResponse

	resp, err := o.http.getWithRetry(ctx, o.baseURL+path, params)
	if err != nil {
		return decoded, fmt.Errorf("%w: %w", domain.ErrGeocodingUnavailable, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return decoded, fmt.Errorf("decode response: %w", err)
	}

	return decoded, nil
}

func (o *ORS) Search(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Search")(&err)

	query = normalize(query)
	if query == "" {
		return domain.Coordinates{}, fmt.Errorf("ors search: %w", domain.ErrNoResult)
	}

	params := map[string]string{"text": query, "size": "1"}
	if o.country != "" {
		params["boundary.country"] = o.country
	}

	decoded, err := o.fetch(ctx, "/geocode/search", params)
	if err != nil {
		record("ors", "search", "error")
		return domain.Coordinates{}, fmt.Errorf("ors search %q: %w", query, err)
	}

	if len(decoded.Features) == 0 {
		record("ors", "search", "empty")
		return domain.Coordinates{}, fmt.Errorf("ors search %q: %w", query, domain.ErrNoResult)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		record("ors", "search", "error")
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", query)
	}

	record("ors", "search", "ok")
	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}

func (o *ORS) Reverse(ctx context.Context, c domain.Coordinates) (_ ports.Address, err error) {
	defer obs.Time(ctx, "ors.Reverse")(&err)

	params := map[string]string{
		"point.lat": strconv.FormatFloat(c.Lat, 'f', -1, 64),
		"point.lon": strconv.FormatFloat(c.Lon, 'f', -1, 64),
		"size":      "1",
	}

	decoded, err := o.fetch(ctx, "/geocode/reverse", params)
	if err != nil {
		record("ors", "reverse", "error")
		return ports.Address{}, fmt.Errorf("ors reverse %s: %w", c, err)
	}

	if len(decoded.Features) == 0 {
		record("ors", "reverse", "empty")
		return ports.Address{}, fmt.Errorf("ors reverse %s: %w", c, domain.ErrNoResult)
	}

	p := decoded.Features[0].Properties
	record("ors", "reverse", "ok")
	return ports.Address{
		Region:      p.Region,
		Province:    p.MacroRegion,
		County:      p.County,
		Country:     p.Country,
		DisplayName: p.Label,
	}, nil
}
