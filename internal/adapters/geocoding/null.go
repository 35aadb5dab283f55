package geocoding

import (
	"context"
	"road-status-service/internal/domain"
	"road-status-service/internal/ports"
)

// Null is the geocoder used when lookups are disabled. Every call reports
// the service as unavailable so callers fall back to local rules.
type Null struct{}

func (Null) Search(context.Context, string) (domain.Coordinates, error) {
	return domain.Coordinates{}, domain.ErrGeocodingUnavailable
}

func (Null) Reverse(context.Context, domain.Coordinates) (ports.Address, error) {
	return ports.Address{}, domain.ErrGeocodingUnavailable
}
