package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.DBTransactor on top of the connection pool.
type Transactor struct {
	db Pool
}

func NewTransactor(db Pool) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.db.Begin(ctx)
}
