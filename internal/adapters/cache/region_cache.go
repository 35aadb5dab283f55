package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"road-status-service/internal/platform/obs"
	"strings"
)

// SQLRegionCache stores reverse-lookup region names per coordinate grid
// cell. An empty region is a valid, cached "unknown".
type SQLRegionCache struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLRegionCache(db *sql.DB, dialect Dialect) *SQLRegionCache {
	return &SQLRegionCache{DB: db, Dialect: dialect}
}

func (s *SQLRegionCache) GetRegion(ctx context.Context, cell string) (string, bool, error) {
	if s.DB == nil {
		return "", false, errors.New("region cache: db is nil")
	}

	q := fmt.Sprintf(`SELECT region FROM region_cache WHERE cell = %s;`, s.Dialect.Placeholder(1))

	var region string
	err := s.DB.QueryRowContext(ctx, q, cell).Scan(&region)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		obs.CacheLookupsTotal.WithLabelValues("region_sql", "miss").Inc()
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("get region cache cell=%q: %w", cell, err)
	}

	obs.CacheLookupsTotal.WithLabelValues("region_sql", "hit").Inc()
	return region, true, nil
}

func (s *SQLRegionCache) PutRegion(ctx context.Context, cell string, region string) error {
	if s.DB == nil {
		return errors.New("region cache: db is nil")
	}
	if strings.TrimSpace(cell) == "" {
		return errors.New("insert region cache: empty cell key")
	}

	q := `INSERT OR REPLACE INTO region_cache (cell, region) VALUES (?, ?);`
	if s.Dialect == Postgres {
		q = `
		INSERT INTO region_cache (cell, region)
		VALUES ($1, $2)
		ON CONFLICT (cell) DO UPDATE
		SET region = EXCLUDED.region;
		`
	}

	if _, err := s.DB.ExecContext(ctx, q, cell, region); err != nil {
		return fmt.Errorf("insert region cache cell=%q: %w", cell, err)
	}
	return nil
}
