package ports

import (
	"context"
	"road-status-service/internal/domain"
)

// Administrative breakdown returned by a reverse lookup.
type Address struct {
	State       string
	Region      string
	Province    string
	County      string
	Country     string
	DisplayName string
}

// AdministrativeName returns the first populated of state, region, province.
func (a Address) AdministrativeName() string {
	for _, s := range []string{a.State, a.Region, a.Province} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Contract for forward and reverse geocoding.
// Implementations return domain.ErrNoResult when the service answered with
// nothing, and domain.ErrGeocodingUnavailable (wrapped) on transport failure.
type Geocoder interface {
	// Resolve a free-text query to a single coordinate.
	Search(ctx context.Context, query string) (domain.Coordinates, error)
	// Resolve a coordinate to its administrative address.
	Reverse(ctx context.Context, c domain.Coordinates) (Address, error)
}
