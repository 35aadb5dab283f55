package ports

import (
	"context"
	"road-status-service/internal/domain"
)

// Persistent cache of forward-geocoding answers keyed by query text.
type GeocodeCache interface {
	// Return the cached coordinates for the queries that have an entry.
	GetMany(ctx context.Context, queries []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, entries map[string]domain.Coordinates) error
}

// Persistent cache of reverse-lookup region names keyed by grid cell.
type RegionCache interface {
	GetRegion(ctx context.Context, cell string) (region string, ok bool, err error)
	PutRegion(ctx context.Context, cell string, region string) error
}
