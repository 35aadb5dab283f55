package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"road-status-service/internal/adapters/cache"
	"road-status-service/internal/domain"
	"strings"
)

// InitSchema creates the record and cache tables for the given dialect.
func InitSchema(ctx context.Context, db *sql.DB, dialect cache.Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	floatType := "REAL"
	if dialect == cache.Postgres {
		floatType = "DOUBLE PRECISION"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRecordsQuery := `
	CREATE TABLE IF NOT EXISTS road_conditions (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		payload TEXT NOT NULL
	);
	`

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		query TEXT PRIMARY KEY,
		lat %[1]s NOT NULL,
		lon %[1]s NOT NULL
	);
	`, floatType)

	createRegionCacheQuery := `
	CREATE TABLE IF NOT EXISTS region_cache (
		cell TEXT PRIMARY KEY,
		region TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_road_conditions_position
	ON road_conditions(position);
	`

	statements := []string{
		createRecordsQuery,
		createGeocodeCacheQuery,
		createRegionCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type recordSeed struct {
	ID      string
	Payload []byte
}

// SeedFromJSON loads a JSON array of road condition records, replacing
// records with the same id. Store order follows the file.
func SeedFromJSON(ctx context.Context, db *sql.DB, dialect cache.Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed records: read %q: %w", jsonPath, err)
	}

	var data []json.RawMessage
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed records: parse json: %w", err)
	}

	rows := make([]recordSeed, 0, len(data))
	for i, raw := range data {
		var rec domain.RoadConditionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("seed records: item at index %d: %w", i+1, err)
		}

		id := strings.TrimSpace(rec.ID)
		if id == "" {
			return fmt.Errorf("seed records: item at index %d: id cannot be empty", i+1)
		}
		rows = append(rows, recordSeed{ID: id, Payload: raw})
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed records: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT OR REPLACE INTO road_conditions (id, position, payload) VALUES (?, ?, ?);`
	if dialect == cache.Postgres {
		query = `
		INSERT INTO road_conditions (id, position, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET position = EXCLUDED.position,
			payload = EXCLUDED.payload;
		`
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed records: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.ID, i, string(r.Payload)); err != nil {
			return fmt.Errorf("seed records: insert id=%q: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed records: commit tx: %w", err)
	}

	return nil
}
