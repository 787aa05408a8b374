package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"remitflow/internal/core/domain"
)

// UserRepository manages user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AccountRepository manages funding accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error)

	// GetByIDForUpdate acquires a row lock on the account. Must be called
	// within a transaction.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, newBalance decimal.Decimal) error
}

// BeneficiaryRepository manages saved transfer recipients.
type BeneficiaryRepository interface {
	Create(ctx context.Context, b *domain.Beneficiary) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Beneficiary, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Beneficiary, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// TransferListParams filters and pages transfer history queries.
type TransferListParams struct {
	UserID   uuid.UUID
	Status   *domain.TransferStatus
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// TransferRepository manages completed and in-flight transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transfer *domain.Transfer) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransferStatus, failureReason *string) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error)
	GetByReference(ctx context.Context, userID uuid.UUID, referenceID string) (*domain.Transfer, error)
	List(ctx context.Context, params TransferListParams) ([]*domain.Transfer, int64, error)
}

// IdempotencyRepository is the authoritative store for submission replay
// detection. The cache layer in front of it is best-effort only.
type IdempotencyRepository interface {
	Save(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// DBTransactor abstracts transaction lifecycle so services can compose
// repository calls atomically.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
