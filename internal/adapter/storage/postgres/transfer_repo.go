package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"remitflow/internal/core/domain"
	"remitflow/internal/core/ports"
)

// TransferRepo implements ports.TransferRepository. Method fields are stored
// as JSONB; monetary columns are NUMERIC moved as text.
type TransferRepo struct {
	db Pool
}

func NewTransferRepo(db Pool) *TransferRepo {
	return &TransferRepo{db: db}
}

const transferColumns = `
	id, reference_id, user_id, account_id,
	source_currency, destination_country, destination_currency,
	send_amount::text, fee_amount::text, exchange_rate::text, converted_amount::text,
	method, method_fields, status, failure_reason, created_at, processed_at`

func (r *TransferRepo) Create(ctx context.Context, tx pgx.Tx, transfer *domain.Transfer) error {
	fields, err := json.Marshal(transfer.MethodFields)
	if err != nil {
		return fmt.Errorf("marshal method fields: %w", err)
	}

	query := `
		INSERT INTO transfers (
			id, reference_id, user_id, account_id,
			source_currency, destination_country, destination_currency,
			send_amount, fee_amount, exchange_rate, converted_amount,
			method, method_fields, status, failure_reason, created_at, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = tx.Exec(ctx, query,
		transfer.ID, transfer.ReferenceID, transfer.UserID, transfer.AccountID,
		transfer.SourceCurrency, transfer.DestinationCountry, transfer.DestinationCurrency,
		transfer.SendAmount.String(), transfer.FeeAmount.String(),
		transfer.ExchangeRate.String(), transfer.ConvertedAmount.String(),
		transfer.Method, fields, transfer.Status, transfer.FailureReason,
		transfer.CreatedAt, transfer.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

func (r *TransferRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransferStatus, failureReason *string) error {
	query := `
		UPDATE transfers
		SET status = $1, failure_reason = $2, processed_at = $3
		WHERE id = $4`

	tag, err := r.db.Exec(ctx, query, status, failureReason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update transfer status: transfer %s not found", id)
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	return scanTransfer(r.db.QueryRow(ctx, query, id))
}

func (r *TransferRepo) GetByReference(ctx context.Context, userID uuid.UUID, referenceID string) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE user_id = $1 AND reference_id = $2`
	return scanTransfer(r.db.QueryRow(ctx, query, userID, referenceID))
}

func (r *TransferRepo) List(ctx context.Context, params ports.TransferListParams) ([]*domain.Transfer, int64, error) {
	where := `WHERE user_id = $1`
	args := []any{params.UserID}

	if params.Status != nil {
		args = append(args, *params.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if params.FromDate != nil {
		args = append(args, *params.FromDate)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if params.ToDate != nil {
		args = append(args, *params.ToDate)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM transfers ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transfers: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	limitClause := fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, params.Offset)
	limitClause += fmt.Sprintf(" OFFSET $%d", len(args))

	query := `SELECT ` + transferColumns + ` FROM transfers ` + where +
		` ORDER BY created_at DESC` + limitClause

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, 0, err
		}
		transfers = append(transfers, t)
	}
	return transfers, total, rows.Err()
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		t                                   domain.Transfer
		sendAmt, feeAmt, rate, convertedAmt string
		fields                              []byte
	)
	err := row.Scan(
		&t.ID, &t.ReferenceID, &t.UserID, &t.AccountID,
		&t.SourceCurrency, &t.DestinationCountry, &t.DestinationCurrency,
		&sendAmt, &feeAmt, &rate, &convertedAmt,
		&t.Method, &fields, &t.Status, &t.FailureReason, &t.CreatedAt, &t.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transfer: %w", err)
	}

	if t.SendAmount, err = decimal.NewFromString(sendAmt); err != nil {
		return nil, fmt.Errorf("parse send amount %q: %w", sendAmt, err)
	}
	if t.FeeAmount, err = decimal.NewFromString(feeAmt); err != nil {
		return nil, fmt.Errorf("parse fee amount %q: %w", feeAmt, err)
	}
	if t.ExchangeRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("parse exchange rate %q: %w", rate, err)
	}
	if t.ConvertedAmount, err = decimal.NewFromString(convertedAmt); err != nil {
		return nil, fmt.Errorf("parse converted amount %q: %w", convertedAmt, err)
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &t.MethodFields); err != nil {
			return nil, fmt.Errorf("unmarshal method fields: %w", err)
		}
	}
	return &t, nil
}
