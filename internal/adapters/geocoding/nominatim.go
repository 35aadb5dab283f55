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

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim implements ports.Geocoder against an OpenStreetMap Nominatim
// instance. The public instance allows one request per second and requires
// an identifying User-Agent.
type Nominatim struct {
	http         *client
	baseURL      string
	countryCodes string
}

type NominatimOptions struct {
	BaseURL       string
	UserAgent     string
	CountryCodes  string
	RatePerSecond float64
	HTTPClient    *http.Client
}

func NewNominatim(opts NominatimOptions) (*Nominatim, error) {
	if strings.TrimSpace(opts.UserAgent) == "" {
		return nil, errors.New("nominatim: user agent is required")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}

	return &Nominatim{
		http:         newClient(opts.HTTPClient, opts.UserAgent, "", opts.RatePerSecond),
		baseURL:      baseURL,
		countryCodes: strings.ToLower(opts.CountryCodes),
	}, nil
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type nominatimReverse struct {
	Error       string `json:"error"`
	DisplayName string `json:"display_name"`
	Address     struct {
		State    string `json:"state"`
		Region   string `json:"region"`
		Province string `json:"province"`
		County   string `json:"county"`
		Country  string `json:"country"`
	} `json:"address"`
}

func (n *Nominatim) Search(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Search")(&err)

	query = normalize(query)
	if query == "" {
		return domain.Coordinates{}, fmt.Errorf("nominatim search: %w", domain.ErrNoResult)
	}

	params := map[string]string{
		"q":              query,
		"format":         "json",
		"limit":          "1",
		"addressdetails": "1",
	}
	if n.countryCodes != "" {
		params["countrycodes"] = n.countryCodes
	}

	resp, err := n.http.getWithRetry(ctx, n.baseURL+"/search", params)
	if err != nil {
		record("nominatim", "search", "error")
		return domain.Coordinates{}, fmt.Errorf("nominatim search %q: %w: %w", query, domain.ErrGeocodingUnavailable, err)
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		record("nominatim", "search", "error")
		return domain.Coordinates{}, fmt.Errorf("nominatim search %q: decode response: %w", query, err)
	}

	if len(places) == 0 {
		record("nominatim", "search", "empty")
		return domain.Coordinates{}, fmt.Errorf("nominatim search %q: %w", query, domain.ErrNoResult)
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	c := domain.Coordinates{Lat: lat, Lon: lon}
	if errLat != nil || errLon != nil || !c.Valid() {
		record("nominatim", "search", "error")
		return domain.Coordinates{}, fmt.Errorf("nominatim search %q: invalid coordinates %q,%q", query, places[0].Lat, places[0].Lon)
	}

	record("nominatim", "search", "ok")
	return c, nil
}

func (n *Nominatim) Reverse(ctx context.Context, c domain.Coordinates) (_ ports.Address, err error) {
	defer obs.Time(ctx, "nominatim.Reverse")(&err)

	params := map[string]string{
		"lat":            strconv.FormatFloat(c.Lat, 'f', -1, 64),
		"lon":            strconv.FormatFloat(c.Lon, 'f', -1, 64),
		"format":         "json",
		"addressdetails": "1",
	}

	resp, err := n.http.getWithRetry(ctx, n.baseURL+"/reverse", params)
	if err != nil {
		record("nominatim", "reverse", "error")
		return ports.Address{}, fmt.Errorf("nominatim reverse %s: %w: %w", c, domain.ErrGeocodingUnavailable, err)
	}
	defer resp.Body.Close()

	var decoded nominatimReverse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		record("nominatim", "reverse", "error")
		return ports.Address{}, fmt.Errorf("nominatim reverse %s: decode response: %w", c, err)
	}

	if decoded.Error != "" {
		record("nominatim", "reverse", "empty")
		return ports.Address{}, fmt.Errorf("nominatim reverse %s: %s: %w", c, decoded.Error, domain.ErrNoResult)
	}

	record("nominatim", "reverse", "ok")
	return ports.Address{
		State:       decoded.Address.State,
		Region:      decoded.Address.Region,
		Province:    decoded.Address.Province,
		County:      decoded.Address.County,
		Country:     decoded.Address.Country,
		DisplayName: decoded.DisplayName,
	}, nil
}
