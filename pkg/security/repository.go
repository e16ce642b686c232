package security

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventStore persists audit events to the security_events table.
type EventStore struct {
	db *pgxpool.Pool
}

func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{db: db}
}

// Persist matches SecurityLogger.SetPersistFunc.
func (r *EventStore) Persist(ctx context.Context, event SecurityEvent) error {
	query := `
		INSERT INTO security_events (event_type, level, subject_type, subject_value, ip_address, request_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var details []byte
	if len(event.Details) > 0 {
		details, _ = json.Marshal(event.Details)
	}

	var ip interface{}
	if event.IP != "" {
		ip = event.IP
	}

	_, err := r.db.Exec(ctx, query,
		string(event.Event), event.Level, event.SubjectType, event.SubjectValue,
		ip, event.RequestID, details, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("persist security event: %w", err)
	}
	return nil
}
