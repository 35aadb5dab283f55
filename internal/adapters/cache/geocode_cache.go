package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"road-status-service/internal/domain"
	"road-status-service/internal/platform/obs"
	"strings"
)

// SQLGeocodeCache maps normalized geocoding queries to coordinates.
// Query keys are expected to be normalized by the caller.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLGeocodeCache(db *sql.DB, dialect Dialect) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, Dialect: dialect}
}

// Fetch cached coordinates for the given queries.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	queries []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(queries)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	var (
		q    string
		args []any
	)
	switch s.Dialect {
	case Postgres:
		q = `SELECT query, lat, lon FROM geocode_cache WHERE query = ANY($1::text[]);`
		args = []any{uniq}
	default:
		// SQLite cannot bind a slice; only the placeholder list is interpolated.
		ph := strings.TrimSuffix(strings.Repeat("?,", len(uniq)), ",")
		q = fmt.Sprintf(`SELECT query, lat, lon FROM geocode_cache WHERE query IN (%s);`, ph)
		for _, k := range uniq {
			args = append(args, k)
		}
	}

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var query string
		var c domain.Coordinates
		if err := rows.Scan(&query, &c.Lat, &c.Lon); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[query] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	obs.CacheLookupsTotal.WithLabelValues("geocode_sql", "hit").Add(float64(len(out)))
	obs.CacheLookupsTotal.WithLabelValues("geocode_sql", "miss").Add(float64(len(uniq) - len(out)))

	return out, nil
}

// Store query -> coordinate mappings, replacing existing entries.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, entries map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if len(entries) == 0 {
		return nil
	}

	stmtText := `INSERT OR REPLACE INTO geocode_cache (query, lat, lon) VALUES (?, ?, ?);`
	if s.Dialect == Postgres {
		stmtText = `
		INSERT INTO geocode_cache (query, lat, lon)
		VALUES ($1, $2, $3)
		ON CONFLICT (query) DO UPDATE
		SET lat = EXCLUDED.lat,
			lon = EXCLUDED.lon;
		`
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, stmtText)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for query, c := range entries {
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("insert geocode cache: empty query key")
		}
		if _, err := stmt.ExecContext(ctx, query, c.Lat, c.Lon); err != nil {
			return fmt.Errorf("insert geocode cache query=%q: %w", query, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}
