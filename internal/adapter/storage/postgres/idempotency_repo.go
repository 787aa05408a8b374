package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"remitflow/internal/core/domain"
)

// IdempotencyRepo implements ports.IdempotencyRepository. Saved in the same
// transaction as the transfer so a replayed reference always finds the log.
type IdempotencyRepo struct {
	db Pool
}

func NewIdempotencyRepo(db Pool) *IdempotencyRepo {
	return &IdempotencyRepo{db: db}
}

func (r *IdempotencyRepo) Save(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	query := `
		INSERT INTO idempotency_logs (key, transfer_id, response_json, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := tx.Exec(ctx, query, log.Key, log.TransferID, log.ResponseJSON, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert idempotency log: %w", err)
	}
	return nil
}

func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	query := `
		SELECT key, transfer_id, response_json, created_at
		FROM idempotency_logs
		WHERE key = $1`

	var log domain.IdempotencyLog
	err := r.db.QueryRow(ctx, query, key).Scan(
		&log.Key, &log.TransferID, &log.ResponseJSON, &log.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan idempotency log: %w", err)
	}
	return &log, nil
}
