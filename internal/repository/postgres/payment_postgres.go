package postgres

import (
	"context"
	"database/sql"
	"time"

	"gymapi/internal/database"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// PaymentPostgres is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentPostgres struct {
	db database.DBTX
}

// NewPaymentPostgres creates a new PaymentPostgres repository.
func NewPaymentPostgres(db database.DBTX) *PaymentPostgres {
	return &PaymentPostgres{db: db}
}

var _ repository.PaymentRepository = (*PaymentPostgres)(nil)

// PaymentTx returns a runner that hands fn a repository bound to a single
// transaction on db.
func PaymentTx(db *sql.DB) func(ctx context.Context, fn func(repository.PaymentRepository) error) error {
	return func(ctx context.Context, fn func(repository.PaymentRepository) error) error {
		return database.WithTx(ctx, db, nil, func(ctx context.Context, tx database.DBTX) error {
			return fn(NewPaymentPostgres(tx))
		})
	}
}

const paymentColumns = `id, org_id, athlete_id, amount, method_text, lessons, status, is_reversal, ref_payment_id, notes, created_by, created_at`

func scanPayment(s scanner) (*model.Payment, error) {
	var p model.Payment
	if err := s.Scan(
		&p.ID,
		&p.OrgID,
		&p.AthleteID,
		&p.Amount,
		&p.MethodText,
		&p.Lessons,
		&p.Status,
		&p.IsReversal,
		&p.RefPaymentID,
		&p.Notes,
		&p.CreatedBy,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentPostgres) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	const q = `
		INSERT INTO payments (id, org_id, athlete_id, amount, method_text, lessons, status, is_reversal, ref_payment_id, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + paymentColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID, p.OrgID, p.AthleteID, p.Amount, p.MethodText, p.Lessons,
		p.Status, p.IsReversal, p.RefPaymentID, p.Notes, p.CreatedBy,
	)
	return scanPayment(row)
}

func (r *PaymentPostgres) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.db.QueryRowContext(ctx, q, id))
}

func (r *PaymentPostgres) HasReversal(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM payments WHERE ref_payment_id = $1 AND is_reversal)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, id).Scan(&ok)
	return ok, err
}

// List returns payments newest first with a total count.
func (r *PaymentPostgres) List(ctx context.Context, f model.PaymentFilter, pq repository.PageQuery) (*repository.PageResult[model.Payment], error) {
	const where = `
		WHERE ($1::uuid IS NULL OR org_id = $1::uuid)
		  AND ($2::uuid IS NULL OR athlete_id = $2::uuid)
		  AND ($3::uuid IS NULL OR created_by = $3::uuid)
	`
	args := []any{nullable(f.OrgID), nullable(f.AthleteID), nullable(f.CreatedBy)}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + paymentColumns + ` FROM payments` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.QueryContext(ctx, qList, append(args, limitArg(pq.Limit), pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Payment]{Items: items, Total: total}, nil
}

// Stats sums completed, non-reversal payments in [from, to).
func (r *PaymentPostgres) Stats(ctx context.Context, orgID string, from, to time.Time) (*model.PaymentStats, error) {
	const q = `
		SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(lessons), 0), COUNT(*)
		FROM payments
		WHERE NOT is_reversal
		  AND status = 'completed'
		  AND ($1::uuid IS NULL OR org_id = $1::uuid)
		  AND created_at >= $2 AND created_at < $3
	`
	var st model.PaymentStats
	if err := r.db.QueryRowContext(ctx, q, nullable(orgID), from, to).Scan(&st.Revenue, &st.Lessons, &st.Count); err != nil {
		return nil, err
	}
	return &st, nil
}

// AddLessons upserts the athlete's lesson counter.
func (r *PaymentPostgres) AddLessons(ctx context.Context, athleteID string, lessons int) error {
	const q = `
		INSERT INTO lesson_counters (athlete_id, lessons_total)
		VALUES ($1, $2)
		ON CONFLICT (athlete_id) DO UPDATE
		SET lessons_total = lesson_counters.lessons_total + EXCLUDED.lessons_total,
		    updated_at = now()
	`
	_, err := r.db.ExecContext(ctx, q, athleteID, lessons)
	return err
}
