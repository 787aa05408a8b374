package domain

import (
	"time"

	"github.com/google/uuid"
)

// Beneficiary is a saved recipient in the user's contact book. Selecting one
// pre-fills the destination step of a transfer draft.
type Beneficiary struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"account_number"`
	Country       string    `json:"country"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
}
