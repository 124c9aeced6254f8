package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one append-only audit record. Entries are never updated or
// deleted.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	ActorID    int64     `json:"actor_id"`
	Action     string    `json:"action"` // e.g. payment.confirmed, payment.failed
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}
