package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"remitflow/internal/core/domain"
)

// BeneficiaryRepo implements ports.BeneficiaryRepository.
type BeneficiaryRepo struct {
	db Pool
}

func NewBeneficiaryRepo(db Pool) *BeneficiaryRepo {
	return &BeneficiaryRepo{db: db}
}

func (r *BeneficiaryRepo) Create(ctx context.Context, b *domain.Beneficiary) error {
	query := `
		INSERT INTO beneficiaries (id, user_id, name, account_number, country, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		b.ID, b.UserID, b.Name, b.AccountNumber, b.Country, b.Currency, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert beneficiary: %w", err)
	}
	return nil
}

func (r *BeneficiaryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Beneficiary, error) {
	query := `
		SELECT id, user_id, name, account_number, country, currency, created_at
		FROM beneficiaries
		WHERE id = $1`

	var b domain.Beneficiary
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.Name, &b.AccountNumber, &b.Country, &b.Currency, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan beneficiary: %w", err)
	}
	return &b, nil
}

func (r *BeneficiaryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Beneficiary, error) {
	query := `
		SELECT id, user_id, name, account_number, country, currency, created_at
		FROM beneficiaries
		WHERE user_id = $1
		ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query beneficiaries: %w", err)
	}
	defer rows.Close()

	var list []*domain.Beneficiary
	for rows.Next() {
		var b domain.Beneficiary
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.AccountNumber,
			&b.Country, &b.Currency, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan beneficiary: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (r *BeneficiaryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM beneficiaries WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete beneficiary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
