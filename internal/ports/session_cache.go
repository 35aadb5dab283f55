package ports

import (
	"context"
	"road-status-service/internal/domain"
)

// Outcome of a geocoding attempt for one record. Unresolved entries are
// remembered so a failing record is not retried within the session.
type SessionEntry struct {
	Coordinates domain.Coordinates
	Unresolved  bool
}

// Session-scoped memo of geocoding outcomes keyed by record id.
type SessionCache interface {
	Get(ctx context.Context, key string) (SessionEntry, bool, error)
	Put(ctx context.Context, key string, entry SessionEntry) error
}
