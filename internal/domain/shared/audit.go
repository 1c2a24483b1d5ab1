package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditRecord captures a before/after snapshot of an aggregate each time
// a state transition is recorded. Snapshots are stored as raw JSON so the
// audit trail survives later schema changes to the aggregate itself.
type AuditRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AggregateID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"aggregate_id"`
	AggregateType string          `gorm:"size:100;not null" json:"aggregate_type"`
	ActorID       *uuid.UUID      `gorm:"type:uuid" json:"actor_id,omitempty"`
	DataBefore    json.RawMessage `gorm:"type:jsonb" json:"data_before,omitempty"`
	DataAfter     json.RawMessage `gorm:"type:jsonb;not null" json:"data_after"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

// NewAuditRecord builds an audit record from JSON snapshots of the
// aggregate before and after a mutation. before may be nil on creation.
func NewAuditRecord(aggregateType string, aggregateID uuid.UUID, actorID *uuid.UUID, before, after json.RawMessage) *AuditRecord {
	return &AuditRecord{
		ID:            uuid.New(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		ActorID:       actorID,
		DataBefore:    before,
		DataAfter:     after,
		CreatedAt:     time.Now().UTC(),
	}
}

// Snapshot serializes an aggregate for audit storage.
func Snapshot(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}
