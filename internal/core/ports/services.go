package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"remitflow/internal/core/domain"
)

// TokenClaims is the payload carried in an access token.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

// TokenService issues and validates access tokens.
type TokenService interface {
	Generate(userID uuid.UUID, email string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// HashService hashes and verifies user passwords.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// RateProvider fetches a live exchange rate for one unit of the source
// currency.
type RateProvider interface {
	GetRate(ctx context.Context, from, to string) (*domain.FXQuote, error)
}

// DraftStore persists in-progress transfer drafts with a TTL. A missing
// draft returns (nil, nil).
type DraftStore interface {
	Save(ctx context.Context, draft *domain.TransferDraft, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (*domain.TransferDraft, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RateCache caches fetched exchange rates for a short window.
type RateCache interface {
	Get(ctx context.Context, from, to string) (*domain.FXQuote, error)
	Set(ctx context.Context, quote *domain.FXQuote, ttl time.Duration) error
}

// IdempotencyCache is the fast-path replay check in front of the
// authoritative log.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// TransferEvent is published when a transfer reaches a new status.
type TransferEvent struct {
	TransferID  uuid.UUID             `json:"transfer_id"`
	UserID      uuid.UUID             `json:"user_id"`
	Status      domain.TransferStatus `json:"status"`
	Amount      decimal.Decimal       `json:"amount"`
	Currency    string                `json:"currency"`
	Method      domain.TransferMethod `json:"method"`
	OccurredAt  time.Time             `json:"occurred_at"`
	ReferenceID string                `json:"reference_id"`
}

// EventPublisher emits transfer status events. Implementations must not
// block transfer processing on broker failures.
type EventPublisher interface {
	PublishTransferStatus(ctx context.Context, event TransferEvent) error
	Close() error
}

// RegisterRequest carries signup input.
type RegisterRequest struct {
	Email    string
	Password string
	FullName string
}

// AuthResult is returned on successful register or login.
type AuthResult struct {
	User        *domain.User
	AccessToken string
	ExpiresAt   time.Time
}

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// QuoteResult is a priced transfer: fee, rate and converted amount for a
// given send amount and corridor.
type QuoteResult struct {
	SendAmount      decimal.Decimal
	FeeAmount       decimal.Decimal
	TotalDebit      decimal.Decimal
	ExchangeRate    decimal.Decimal
	ConvertedAmount decimal.Decimal
	SourceCurrency  string
	TargetCurrency  string
	QuotedAt        time.Time
}

// QuoteService prices transfers.
type QuoteService interface {
	Quote(ctx context.Context, from, to string, amount decimal.Decimal) (*QuoteResult, error)
}

// SetDestinationInput selects where the money goes.
type SetDestinationInput struct {
	Country       string
	Currency      string
	BeneficiaryID *uuid.UUID
}

// SetAmountInput sets how much to send.
type SetAmountInput struct {
	Amount  decimal.Decimal
	Version int64
}

// SetMethodInput selects the transfer rail and its required fields.
type SetMethodInput struct {
	Method string
	Fields map[string]string
}

// WizardService drives the step-by-step transfer draft.
type WizardService interface {
	StartDraft(ctx context.Context, userID, sourceAccountID uuid.UUID) (*domain.TransferDraft, error)
	GetDraft(ctx context.Context, userID, draftID uuid.UUID) (*domain.TransferDraft, error)
	SetDestination(ctx context.Context, userID, draftID uuid.UUID, input SetDestinationInput) (*domain.TransferDraft, error)
	SetAmount(ctx context.Context, userID, draftID uuid.UUID, input SetAmountInput) (*domain.TransferDraft, error)
	SetMethod(ctx context.Context, userID, draftID uuid.UUID, input SetMethodInput) (*domain.TransferDraft, error)
	Advance(ctx context.Context, userID, draftID uuid.UUID) (*domain.TransferDraft, error)
	Back(ctx context.Context, userID, draftID uuid.UUID) (*domain.TransferDraft, error)
}

// ConfirmRequest submits a reviewed draft for execution.
type ConfirmRequest struct {
	DraftID     uuid.UUID
	ReferenceID string
}

// TransferService executes confirmed drafts and exposes transfer history.
type TransferService interface {
	Confirm(ctx context.Context, userID uuid.UUID, req ConfirmRequest) (*domain.Transfer, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transfer, error)
	List(ctx context.Context, params TransferListParams) ([]*domain.Transfer, int64, error)
}

// AccountService exposes the caller's funding accounts.
type AccountService interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Account, error)
}

// CreateBeneficiaryRequest carries new recipient input.
type CreateBeneficiaryRequest struct {
	Name          string
	AccountNumber string
	Country       string
	Currency      string
}

// BeneficiaryService manages saved recipients.
type BeneficiaryService interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateBeneficiaryRequest) (*domain.Beneficiary, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Beneficiary, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Beneficiary, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// DirectoryService exposes static reference data: supported currencies and
// transfer method schemas.
type DirectoryService interface {
	Currencies() []domain.Currency
	MethodsFor(currency string) ([]domain.MethodSchema, error)
}
