package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a user's funding account in a single currency.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CanCover returns true if the balance covers amount plus fee.
func (a *Account) CanCover(amount, fee decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount.Add(fee))
}
