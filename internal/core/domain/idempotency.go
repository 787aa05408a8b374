package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog caches a submission outcome so a retried reference returns
// the original result instead of double-submitting.
type IdempotencyLog struct {
	Key          string    `json:"key"` // Format: "user_id:reference_id"
	TransferID   uuid.UUID `json:"transfer_id"`
	ResponseJSON []byte    `json:"response_json"`
	CreatedAt    time.Time `json:"created_at"`
}
