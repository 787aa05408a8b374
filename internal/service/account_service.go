package service

import (
	"context"

	"github.com/google/uuid"

	"remitflow/internal/core/domain"
	"remitflow/internal/core/ports"
	"remitflow/pkg/apperror"
)

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	accountRepo ports.AccountRepository
}

func NewAccountService(accountRepo ports.AccountRepository) *AccountServiceImpl {
	return &AccountServiceImpl{accountRepo: accountRepo}
}

func (s *AccountServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return accounts, nil
}

func (s *AccountServiceImpl) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if account == nil || account.UserID != userID {
		return nil, apperror.ErrNotFound("account")
	}
	return account, nil
}
