package postgres

import (
	"context"
	"time"

	"gymapi/internal/database"
	"gymapi/internal/repository"
)

// StatisticsPostgres is a PostgreSQL implementation of repository.StatisticsRepository.
type StatisticsPostgres struct {
	db database.DBTX
}

// NewStatisticsPostgres creates a new StatisticsPostgres repository.
func NewStatisticsPostgres(db database.DBTX) *StatisticsPostgres {
	return &StatisticsPostgres{db: db}
}

var _ repository.StatisticsRepository = (*StatisticsPostgres)(nil)

// CountProfiles counts profiles created in [from, to). A zero from counts from the beginning.
func (r *StatisticsPostgres) CountProfiles(ctx context.Context, orgID string, from, to time.Time) (int, error) {
	const q = `
		SELECT COUNT(*) FROM profiles
		WHERE ($1::uuid IS NULL OR org_id = $1::uuid)
		  AND created_at >= $2 AND created_at < $3
	`
	var n int
	err := r.db.QueryRowContext(ctx, q, nullable(orgID), from, to).Scan(&n)
	return n, err
}

func (r *StatisticsPostgres) Revenue(ctx context.Context, orgID string, from, to time.Time) (float64, error) {
	const q = `
		SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE NOT is_reversal
		  AND ($1::uuid IS NULL OR org_id = $1::uuid)
		  AND created_at >= $2 AND created_at < $3
	`
	var total float64
	err := r.db.QueryRowContext(ctx, q, nullable(orgID), from, to).Scan(&total)
	return total, err
}

// PaymentMethods counts non-reversal payments per method. Blank methods are grouped as "other".
func (r *StatisticsPostgres) PaymentMethods(ctx context.Context, orgID string) (map[string]int, error) {
	const q = `
		SELECT COALESCE(NULLIF(btrim(method_text), ''), 'other') AS method, COUNT(*)
		FROM payments
		WHERE NOT is_reversal
		  AND ($1::uuid IS NULL OR org_id = $1::uuid)
		GROUP BY method
	`
	return scanCounts(ctx, r.db, q, nullable(orgID))
}

func (r *StatisticsPostgres) CountAppointments(ctx context.Context, orgID string, from, to time.Time) (int, error) {
	const q = `
		SELECT COUNT(*) FROM appointments
		WHERE ($1::uuid IS NULL OR org_id = $1::uuid)
		  AND starts_at >= $2 AND starts_at < $3
	`
	var n int
	err := r.db.QueryRowContext(ctx, q, nullable(orgID), from, to).Scan(&n)
	return n, err
}

func (r *StatisticsPostgres) AppointmentsByStatus(ctx context.Context, orgID string) (map[string]int, error) {
	const q = `
		SELECT status, COUNT(*) FROM appointments
		WHERE ($1::uuid IS NULL OR org_id = $1::uuid)
		GROUP BY status
	`
	return scanCounts(ctx, r.db, q, nullable(orgID))
}

func (r *StatisticsPostgres) DocumentsByStatus(ctx context.Context, orgID string) (map[string]int, error) {
	const q = `
		SELECT status, COUNT(*) FROM documents
		WHERE ($1::uuid IS NULL OR org_id = $1::uuid)
		GROUP BY status
	`
	return scanCounts(ctx, r.db, q, nullable(orgID))
}

func (r *StatisticsPostgres) CountExpiredUnmarked(ctx context.Context, orgID string, today time.Time) (int, error) {
	const q = `
		SELECT COUNT(*) FROM documents
		WHERE ($1::uuid IS NULL OR org_id = $1::uuid)
		  AND expires_at IS NOT NULL AND expires_at < $2
		  AND status <> 'expired'
	`
	var n int
	err := r.db.QueryRowContext(ctx, q, nullable(orgID), today).Scan(&n)
	return n, err
}
