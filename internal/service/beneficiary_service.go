package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"remitflow/internal/core/domain"
	"remitflow/internal/core/ports"
	"remitflow/pkg/apperror"
)

// BeneficiaryServiceImpl implements ports.BeneficiaryService.
type BeneficiaryServiceImpl struct {
	beneficiaryRepo ports.BeneficiaryRepository
}

func NewBeneficiaryService(beneficiaryRepo ports.BeneficiaryRepository) *BeneficiaryServiceImpl {
	return &BeneficiaryServiceImpl{beneficiaryRepo: beneficiaryRepo}
}

func (s *BeneficiaryServiceImpl) Create(ctx context.Context, userID uuid.UUID, req ports.CreateBeneficiaryRequest) (*domain.Beneficiary, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if !domain.IsSupportedCurrency(currency) {
		return nil, apperror.ErrUnsupportedCurrency(currency)
	}

	b := &domain.Beneficiary{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          strings.TrimSpace(req.Name),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		Country:       strings.ToUpper(strings.TrimSpace(req.Country)),
		Currency:      currency,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.beneficiaryRepo.Create(ctx, b); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return b, nil
}

func (s *BeneficiaryServiceImpl) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Beneficiary, error) {
	b, err := s.beneficiaryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if b == nil || b.UserID != userID {
		return nil, apperror.ErrNotFound("beneficiary")
	}
	return b, nil
}

func (s *BeneficiaryServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Beneficiary, error) {
	list, err := s.beneficiaryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return list, nil
}

func (s *BeneficiaryServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.beneficiaryRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.ErrNotFound("beneficiary")
		}
		return apperror.ErrDatabaseError(err)
	}
	return nil
}
