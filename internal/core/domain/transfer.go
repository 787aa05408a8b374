package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus is the single explicit outcome discriminant for a transfer.
type TransferStatus string

const (
	TransferStatusPending TransferStatus = "PENDING"
	TransferStatusSuccess TransferStatus = "SUCCESS"
	TransferStatusFailed  TransferStatus = "FAILED"
)

// Transfer is the immutable ledger record of a submitted send-money request.
type Transfer struct {
	ID          uuid.UUID `json:"id"`
	ReferenceID string    `json:"reference_id"`
	UserID      uuid.UUID `json:"user_id"`
	AccountID   uuid.UUID `json:"account_id"`

	SourceCurrency      string `json:"source_currency"`
	DestinationCountry  string `json:"destination_country"`
	DestinationCurrency string `json:"destination_currency"`

	SendAmount      decimal.Decimal `json:"send_amount"`
	FeeAmount       decimal.Decimal `json:"fee_amount"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`

	Method       TransferMethod    `json:"method"`
	MethodFields map[string]string `json:"method_fields,omitempty"`

	Status        TransferStatus `json:"status"`
	FailureReason *string        `json:"failure_reason,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// IsTerminal returns true if the transfer reached a final state.
func (t *Transfer) IsTerminal() bool {
	return t.Status == TransferStatusSuccess || t.Status == TransferStatusFailed
}

// BuildIdempotencyKey constructs the submission idempotency key.
func BuildIdempotencyKey(userID uuid.UUID, referenceID string) string {
	return userID.String() + ":" + referenceID
}
