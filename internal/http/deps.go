// Package http exposes the collections, the dashboard figures and the admin
// operations as a JSON API on a chi router.
package http

import (
	"context"
	"time"

	"finboard/internal/analytics"
	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/services"
	"finboard/internal/storage"
)

// CollectionService is the CRUD surface of one collection.
type CollectionService[T core.Entity] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (T, bool, error)
	Add(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

type DashboardService interface {
	Summary(ctx context.Context) services.Summary
	MonthlyTrend(ctx context.Context, months int) ([]analytics.MonthlyPoint, error)
	Categories(ctx context.Context, typ core.TransactionType) ([]analytics.CategoryTotal, error)
	Statement(ctx context.Context, cardID string) (analytics.Statement, error)
}

type MigrationService interface {
	Migrate(ctx context.Context, p services.MigrationPayload) (services.MigrationCounts, error)
}

type Deps struct {
	Log          *log.Logger
	Store        storage.Provider
	Transactions CollectionService[core.Transaction]
	CreditCards  CollectionService[core.CreditCard]
	Receivables  CollectionService[core.ReceivableAmount]
	Dashboard    DashboardService
	Migrator     MigrationService

	// RateLimiter throttles mutating requests when set.
	RateLimiter *ratelimit.Limiter

	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
