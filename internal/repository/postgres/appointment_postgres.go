package postgres

import (
	"context"
	"time"

	"gymapi/internal/database"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// AppointmentPostgres is a PostgreSQL implementation of repository.AppointmentRepository.
type AppointmentPostgres struct {
	db database.DBTX
}

// NewAppointmentPostgres creates a new AppointmentPostgres repository.
func NewAppointmentPostgres(db database.DBTX) *AppointmentPostgres {
	return &AppointmentPostgres{db: db}
}

var _ repository.AppointmentRepository = (*AppointmentPostgres)(nil)

const appointmentColumns = `id, org_id, athlete_id, staff_id, starts_at, ends_at, type, status, location, notes, cancelled_at, created_by, created_at, updated_at`

func scanAppointment(s scanner) (*model.Appointment, error) {
	var a model.Appointment
	if err := s.Scan(
		&a.ID,
		&a.OrgID,
		&a.AthleteID,
		&a.StaffID,
		&a.StartsAt,
		&a.EndsAt,
		&a.Type,
		&a.Status,
		&a.Location,
		&a.Notes,
		&a.CancelledAt,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentPostgres) Create(ctx context.Context, a *model.Appointment) (*model.Appointment, error) {
	const q = `
		INSERT INTO appointments (id, org_id, athlete_id, staff_id, starts_at, ends_at, type, status, location, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + appointmentColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID, a.OrgID, a.AthleteID, a.StaffID, a.StartsAt, a.EndsAt,
		a.Type, a.Status, a.Location, a.Notes, a.CreatedBy,
	)
	return scanAppointment(row)
}

func (r *AppointmentPostgres) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	const q = `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	return scanAppointment(r.db.QueryRowContext(ctx, q, id))
}

// Update overwrites the mutable fields of an appointment.
func (r *AppointmentPostgres) Update(ctx context.Context, a *model.Appointment) (*model.Appointment, error) {
	const q = `
		UPDATE appointments SET
			athlete_id = $2,
			staff_id   = $3,
			starts_at  = $4,
			ends_at    = $5,
			type       = $6,
			status     = $7,
			location   = $8,
			notes      = $9,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + appointmentColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID, a.AthleteID, a.StaffID, a.StartsAt, a.EndsAt, a.Type, a.Status, a.Location, a.Notes,
	)
	return scanAppointment(row)
}

// Cancel marks an appointment cancelled. It returns sql.ErrNoRows when id is unknown.
func (r *AppointmentPostgres) Cancel(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE appointments SET status = 'cancelled', cancelled_at = $2, updated_at = now() WHERE id = $1`
	return execOne(ctx, r.db, q, id, at)
}

// Delete removes an appointment. It returns sql.ErrNoRows when id is unknown.
func (r *AppointmentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM appointments WHERE id = $1`
	return execOne(ctx, r.db, q, id)
}

// List returns appointments ordered by start time.
func (r *AppointmentPostgres) List(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	const q = `
		SELECT ` + appointmentColumns + ` FROM appointments
		WHERE ($1::uuid IS NULL OR org_id = $1::uuid)
		  AND ($2::uuid IS NULL OR athlete_id = $2::uuid)
		  AND ($3::uuid IS NULL OR staff_id = $3::uuid)
		  AND ($4::timestamptz IS NULL OR starts_at >= $4::timestamptz)
		  AND ($5::timestamptz IS NULL OR starts_at < $5::timestamptz)
		ORDER BY starts_at, id
	`
	rows, err := r.db.QueryContext(ctx, q,
		nullable(f.OrgID), nullable(f.AthleteID), nullable(f.StaffID), f.From, f.To,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// HasOverlap asks the database whether the staff member is already booked.
func (r *AppointmentPostgres) HasOverlap(ctx context.Context, staffID string, startsAt, endsAt time.Time, excludeID string) (bool, error) {
	const q = `SELECT check_appointment_overlap($1, $2, $3, $4)`
	var overlap bool
	err := r.db.QueryRowContext(ctx, q, staffID, startsAt, endsAt, nullable(excludeID)).Scan(&overlap)
	return overlap, err
}
