package repository

import (
	"context"
	"time"

	"gymapi/internal/model"
)

// PaymentRepository defines data access for payments and lesson counters.
type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) (*model.Payment, error)
	FindByID(ctx context.Context, id string) (*model.Payment, error)

	// HasReversal reports whether a reversal row already references id.
	HasReversal(ctx context.Context, id string) (bool, error)

	List(ctx context.Context, f model.PaymentFilter, pq PageQuery) (*PageResult[model.Payment], error)

	// Stats sums non-reversal payments created in [from, to).
	Stats(ctx context.Context, orgID string, from, to time.Time) (*model.PaymentStats, error)

	// AddLessons increments the athlete's purchased lesson total.
	AddLessons(ctx context.Context, athleteID string, lessons int) error
}
