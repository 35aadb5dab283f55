package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"road-status-service/internal/adapters/cache"
	"road-status-service/internal/domain"
	"road-status-service/internal/platform/obs"
)

// SQL-backed implementation of the RecordRepository port. Records are kept
// as their original JSON payload so unknown fields survive a round trip.
type SQLRecordRepository struct {
	DB      *sql.DB
	Dialect cache.Dialect
}

func NewSQLRecordRepository(db *sql.DB, dialect cache.Dialect) *SQLRecordRepository {
	return &SQLRecordRepository{DB: db, Dialect: dialect}
}

// Return all records in store order. Rows whose payload cannot be decoded
// are logged and skipped.
func (s *SQLRecordRepository) ListRecords(ctx context.Context) (_ []*domain.RoadConditionRecord, err error) {
	defer obs.Time(ctx, "records.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql record repository: DB is nil")
	}

	query := `
	SELECT
		id,
		payload
	FROM road_conditions
	ORDER BY position, id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list records: query road_conditions table: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.RoadConditionRecord, 0, 64)
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("list records: scan row: %w", err)
		}

		rec, err := decodeRecord(id, payload)
		if err != nil {
			log.Printf("req_id=%s op=records.List id=%s err=%v", obs.RequestID(ctx), id, err)
			continue
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: row iteration: %w", err)
	}

	return records, nil
}

func (s *SQLRecordRepository) GetRecord(ctx context.Context, id string) (*domain.RoadConditionRecord, error) {
	if s.DB == nil {
		return nil, errors.New("sql record repository: DB is nil")
	}

	query := fmt.Sprintf(`SELECT payload FROM road_conditions WHERE id = %s;`, s.Dialect.Placeholder(1))

	var payload string
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get record %q: %w", id, domain.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record %q: %w", id, err)
	}

	return decodeRecord(id, payload)
}

func decodeRecord(id, payload string) (*domain.RoadConditionRecord, error) {
	var rec domain.RoadConditionRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("decode record %q: %w", id, err)
	}
	// the column is authoritative when the payload used another id field
	rec.ID = id
	return &rec, nil
}
