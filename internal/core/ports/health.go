package ports

import "context"

// HealthChecker reports whether a named dependency is reachable.
type HealthChecker interface {
	Name() string
	CheckHealth(ctx context.Context) error
}
