package repository

import (
	"context"
	"time"
)

// StatisticsRepository runs the aggregate queries behind the admin dashboard.
// Empty orgID means every organization.
type StatisticsRepository interface {
	CountProfiles(ctx context.Context, orgID string, from, to time.Time) (int, error)

	// Revenue sums non-reversal payment amounts in [from, to).
	Revenue(ctx context.Context, orgID string, from, to time.Time) (float64, error)
	PaymentMethods(ctx context.Context, orgID string) (map[string]int, error)

	CountAppointments(ctx context.Context, orgID string, from, to time.Time) (int, error)
	AppointmentsByStatus(ctx context.Context, orgID string) (map[string]int, error)

	DocumentsByStatus(ctx context.Context, orgID string) (map[string]int, error)

	// CountExpiredUnmarked counts documents past expiry whose status is not yet expired.
	CountExpiredUnmarked(ctx context.Context, orgID string, today time.Time) (int, error)
}
