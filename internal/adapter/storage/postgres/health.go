package postgres

import (
	"context"
	"fmt"
	"time"
)

// HealthChecker verifies database connectivity.
type HealthChecker struct {
	db Pool
}

func NewHealthChecker(db Pool) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) Name() string { return "postgres" }

func (h *HealthChecker) CheckHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return fmt.Errorf("postgres unreachable: %w", err)
	}
	return nil
}
