package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"remitflow/internal/core/domain"
	"remitflow/internal/core/ports"
	"remitflow/pkg/apperror"
	"remitflow/pkg/metrics"
)

const idempotencyCacheTTL = 24 * time.Hour

// TransferServiceImpl implements ports.TransferService. Confirm is
// idempotent per (user, reference): a replayed reference returns the
// original transfer without touching balances again.
type TransferServiceImpl struct {
	transactor   ports.DBTransactor
	accountRepo  ports.AccountRepository
	transferRepo ports.TransferRepository
	idemRepo     ports.IdempotencyRepository
	idemCache    ports.IdempotencyCache
	draftStore   ports.DraftStore
	publisher    ports.EventPublisher
	metrics      *metrics.Collector
	log          zerolog.Logger
}

func NewTransferService(
	transactor ports.DBTransactor,
	accountRepo ports.AccountRepository,
	transferRepo ports.TransferRepository,
	idemRepo ports.IdempotencyRepository,
	idemCache ports.IdempotencyCache,
	draftStore ports.DraftStore,
	publisher ports.EventPublisher,
	collector *metrics.Collector,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		transactor:   transactor,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		idemRepo:     idemRepo,
		idemCache:    idemCache,
		draftStore:   draftStore,
		publisher:    publisher,
		metrics:      collector,
		log:          log,
	}
}

// Confirm executes a reviewed draft: debits the funding account under a row
// lock, records the transfer, then settles it. The draft is deleted only
// after the transfer is durably recorded.
func (s *TransferServiceImpl) Confirm(ctx context.Context, userID uuid.UUID, req ports.ConfirmRequest) (*domain.Transfer, error) {
	key := domain.BuildIdempotencyKey(userID, req.ReferenceID)

	// Fast path: response already cached
	if cached, err := s.idemCache.Get(ctx, key); err == nil && cached != nil {
		var t domain.Transfer
		if err := json.Unmarshal(cached, &t); err == nil {
			s.log.Info().Str("reference_id", req.ReferenceID).Msg("idempotent replay served from cache")
			return &t, nil
		}
	}

	// Authoritative replay check
	if logEntry, err := s.idemRepo.Get(ctx, key); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	} else if logEntry != nil {
		transfer, err := s.transferRepo.GetByID(ctx, logEntry.TransferID)
		if err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
		if transfer == nil {
			return nil, apperror.InternalError(fmt.Errorf("idempotency log points to missing transfer %s", logEntry.TransferID))
		}
		return transfer, nil
	}

	draft, err := s.draftStore.Get(ctx, req.DraftID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load draft: %w", err))
	}
	if draft == nil {
		return nil, apperror.ErrDraftExpired()
	}
	if draft.UserID != userID {
		return nil, apperror.ErrNotFound("draft")
	}
	if err := draft.Confirmable(); err != nil {
		return nil, apperror.ErrDraftNotConfirmable()
	}

	transfer, err := s.executeDebit(ctx, userID, key, draft, req.ReferenceID)
	if err != nil {
		// A concurrent confirm with the same reference may have won between
		// the replay check and our insert. Serve its transfer instead of 409.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == "XFER_003" {
			if winner, lookupErr := s.transferRepo.GetByReference(ctx, userID, req.ReferenceID); lookupErr == nil && winner != nil {
				s.log.Info().Str("reference_id", req.ReferenceID).Msg("idempotent replay resolved after insert race")
				return winner, nil
			}
		}
		s.metrics.RecordTransferSubmitted("rejected")
		return nil, err
	}

	// Draft is spent once the transfer exists
	if err := s.draftStore.Delete(ctx, draft.ID); err != nil {
		s.log.Warn().Err(err).Str("draft_id", draft.ID.String()).Msg("draft cleanup failed")
	}

	s.settle(ctx, transfer)
	s.metrics.RecordTransferSubmitted(string(transfer.Status))

	if data, err := json.Marshal(transfer); err == nil {
		if err := s.idemCache.Set(ctx, key, data, idempotencyCacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("idempotency cache write failed")
		}
	}

	s.log.Info().
		Str("transfer_id", transfer.ID.String()).
		Str("reference_id", transfer.ReferenceID).
		Str("status", string(transfer.Status)).
		Str("amount", transfer.SendAmount.String()).
		Msg("transfer confirmed")
	return transfer, nil
}

// executeDebit runs the balance movement and transfer insert in one
// transaction with the account row locked.
func (s *TransferServiceImpl) executeDebit(ctx context.Context, userID uuid.UUID, key string, draft *domain.TransferDraft, referenceID string) (*domain.Transfer, error) {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	account, err := s.accountRepo.GetByIDForUpdate(ctx, tx, draft.SourceAccountID)
	if err != nil {
		return nil, apperror.ErrLockTimeout(err)
	}
	if account == nil || account.UserID != userID {
		return nil, apperror.ErrNotFound("account")
	}
	if !account.CanCover(draft.SendAmount, draft.FeeAmount) {
		return nil, apperror.ErrInsufficientBalance()
	}

	newBalance := account.Balance.Sub(draft.SendAmount).Sub(draft.FeeAmount)
	if err := s.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	now := time.Now().UTC()
	transfer := &domain.Transfer{
		ID:                  uuid.New(),
		ReferenceID:         referenceID,
		UserID:              userID,
		AccountID:           account.ID,
		SourceCurrency:      draft.SourceCurrency,
		DestinationCountry:  draft.DestinationCountry,
		DestinationCurrency: draft.DestinationCurrency,
		SendAmount:          draft.SendAmount,
		FeeAmount:           draft.FeeAmount,
		ExchangeRate:        draft.ExchangeRate,
		ConvertedAmount:     draft.ConvertedAmount,
		Method:              draft.Method,
		MethodFields:        draft.MethodFields,
		Status:              domain.TransferStatusPending,
		CreatedAt:           now,
	}

	if err := s.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	if err := s.idemRepo.Save(ctx, tx, &domain.IdempotencyLog{
		Key:        key,
		TransferID: transfer.ID,
		CreatedAt:  now,
	}); err != nil {
		return nil, apperror.ErrDuplicateReference()
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return transfer, nil
}

// settle drives the transfer to its terminal status. Settlement here is
// synchronous; a failed status write leaves the transfer PENDING for the
// polling endpoint.
func (s *TransferServiceImpl) settle(ctx context.Context, transfer *domain.Transfer) {
	if err := s.transferRepo.UpdateStatus(ctx, transfer.ID, domain.TransferStatusSuccess, nil); err != nil {
		s.log.Error().Err(err).Str("transfer_id", transfer.ID.String()).Msg("settlement status write failed")
		s.publishStatus(ctx, transfer)
		return
	}
	now := time.Now().UTC()
	transfer.Status = domain.TransferStatusSuccess
	transfer.ProcessedAt = &now
	s.publishStatus(ctx, transfer)
}

func (s *TransferServiceImpl) publishStatus(ctx context.Context, transfer *domain.Transfer) {
	event := ports.TransferEvent{
		TransferID:  transfer.ID,
		UserID:      transfer.UserID,
		Status:      transfer.Status,
		Amount:      transfer.SendAmount,
		Currency:    transfer.SourceCurrency,
		Method:      transfer.Method,
		OccurredAt:  time.Now().UTC(),
		ReferenceID: transfer.ReferenceID,
	}
	if err := s.publisher.PublishTransferStatus(ctx, event); err != nil {
		// Events are best-effort; the transfer record is the source of truth
		s.log.Warn().Err(err).Str("transfer_id", transfer.ID.String()).Msg("transfer event publish failed")
	}
}

// GetByID returns a transfer owned by the caller.
func (s *TransferServiceImpl) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if transfer == nil || transfer.UserID != userID {
		return nil, apperror.ErrNotFound("transfer")
	}
	return transfer, nil
}

// List returns the caller's transfer history, newest first.
func (s *TransferServiceImpl) List(ctx context.Context, params ports.TransferListParams) ([]*domain.Transfer, int64, error) {
	transfers, total, err := s.transferRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(err)
	}
	return transfers, total, nil
}
