// Package geocoding holds the ports.Geocoder adapters: Nominatim and
// OpenRouteService over HTTP, plus null and mock implementations.
package geocoding

import (
	"fmt"
	"road-status-service/internal/config"
	"road-status-service/internal/ports"
)

// New builds the geocoder named by cfg.Geocoder.
func New(cfg config.Config) (ports.Geocoder, error) {
	switch cfg.Geocoder {
	case "", "nominatim":
		return NewNominatim(NominatimOptions{
			BaseURL:       cfg.NominatimURL,
			UserAgent:     cfg.UserAgent,
			CountryCodes:  cfg.CountryCode,
			RatePerSecond: cfg.GeocoderRatePerS,
		})
	case "ors":
		return NewORS(ORSOptions{
			APIKey:        cfg.ORSAPIKey,
			BaseURL:       cfg.ORSURL,
			Country:       cfg.CountryCode,
			RatePerSecond: cfg.GeocoderRatePerS,
		})
	case "none":
		return Null{}, nil
	default:
		return nil, fmt.Errorf("unknown geocoder %q", cfg.Geocoder)
	}
}
