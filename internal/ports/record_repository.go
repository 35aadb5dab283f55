package ports

import (
	"context"
	"road-status-service/internal/domain"
)

// Port: a boundary for retrieving road condition records from a data source.
type RecordRepository interface {
	// Retrieve all records in store order.
	ListRecords(ctx context.Context) ([]*domain.RoadConditionRecord, error)
	// Retrieve one record; domain.ErrRecordNotFound when absent.
	GetRecord(ctx context.Context, id string) (*domain.RoadConditionRecord, error)
}
