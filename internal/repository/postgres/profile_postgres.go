package postgres

import (
	"context"
	"strings"

	"gymapi/internal/database"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

const profileColumns = `id, user_id, org_id, first_name, last_name, email, phone, role, status, notes, enrollment_date, created_at, updated_at`

const profileColumnsP = `p.id, p.user_id, p.org_id, p.first_name, p.last_name, p.email, p.phone, p.role, p.status, p.notes, p.enrollment_date, p.created_at, p.updated_at`

// ProfilePostgres is a PostgreSQL implementation of repository.ProfileRepository.
type ProfilePostgres struct {
	db database.DBTX
}

// NewProfilePostgres creates a new ProfilePostgres repository.
func NewProfilePostgres(db database.DBTX) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

var _ repository.ProfileRepository = (*ProfilePostgres)(nil)

func scanProfile(s scanner) (*model.Profile, error) {
	var p model.Profile
	if err := s.Scan(
		&p.ID,
		&p.UserID,
		&p.OrgID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Phone,
		&p.Role,
		&p.Status,
		&p.Notes,
		&p.EnrollmentDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a profile and returns the stored row.
func (r *ProfilePostgres) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	const q = `
		INSERT INTO profiles (id, user_id, org_id, first_name, last_name, email, phone, role, status, notes, enrollment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + profileColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.UserID,
		p.OrgID,
		p.FirstName,
		p.LastName,
		p.Email,
		p.Phone,
		p.Role,
		p.Status,
		p.Notes,
		p.EnrollmentDate,
	)
	return scanProfile(row)
}

// FindByID fetches a profile by its ID.
func (r *ProfilePostgres) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, q, id))
}

// FindByUserID fetches the profile owned by an auth user.
func (r *ProfilePostgres) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, q, userID))
}

// List returns profiles newest first with a total count.
func (r *ProfilePostgres) List(ctx context.Context, orgID, role string, pq repository.PageQuery) (*repository.PageResult[model.Profile], error) {
	const qCount = `
		SELECT COUNT(*) FROM profiles
		WHERE ($1::uuid IS NULL OR org_id = $1::uuid)
		  AND ($2::text IS NULL OR role = $2::text)
	`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, nullable(orgID), nullable(role)).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + profileColumns + ` FROM profiles
		WHERE ($1::uuid IS NULL OR org_id = $1::uuid)
		  AND ($2::text IS NULL OR role = $2::text)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, qList, nullable(orgID), nullable(role), limitArg(pq.Limit), pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Profile]{Items: items, Total: total}, nil
}

// ListByTrainer returns the athletes linked to a trainer, by last name.
func (r *ProfilePostgres) ListByTrainer(ctx context.Context, trainerID string) ([]model.Profile, error) {
	const q = `
		SELECT ` + profileColumnsP + `
		FROM trainer_athletes ta
		JOIN profiles p ON p.id = ta.athlete_id
		WHERE ta.trainer_id = $1
		ORDER BY p.last_name, p.first_name
	`
	rows, err := r.db.QueryContext(ctx, q, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Update applies a partial update. Nil patch fields keep their stored value.
func (r *ProfilePostgres) Update(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error) {
	const q = `
		UPDATE profiles SET
			first_name      = COALESCE($2, first_name),
			last_name       = COALESCE($3, last_name),
			email           = COALESCE($4, email),
			phone           = COALESCE($5, phone),
			role            = COALESCE($6, role),
			status          = COALESCE($7, status),
			notes           = COALESCE($8, notes),
			enrollment_date = COALESCE($9, enrollment_date),
			updated_at      = now()
		WHERE id = $1
		RETURNING ` + profileColumns
	row := r.db.QueryRowContext(ctx, q,
		id,
		patch.FirstName,
		patch.LastName,
		patch.Email,
		patch.Phone,
		patch.Role,
		patch.Status,
		patch.Notes,
		patch.EnrollmentDate,
	)
	return scanProfile(row)
}

// Delete removes a profile row. Dependent rows are the caller's concern.
func (r *ProfilePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM profiles WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// FindStaffByEmail resolves a pt or trainer by email, case-insensitively.
func (r *ProfilePostgres) FindStaffByEmail(ctx context.Context, email string) (*model.Profile, error) {
	const q = `
		SELECT ` + profileColumns + ` FROM profiles
		WHERE lower(email) = lower($1) AND role IN ('pt', 'trainer')
		ORDER BY created_at
		LIMIT 1
	`
	return scanProfile(r.db.QueryRowContext(ctx, q, email))
}

// FindStaffByName resolves a pt or trainer by first and last name, case-insensitively.
func (r *ProfilePostgres) FindStaffByName(ctx context.Context, firstName, lastName string) (*model.Profile, error) {
	const q = `
		SELECT ` + profileColumns + ` FROM profiles
		WHERE first_name ILIKE $1 AND last_name ILIKE $2 AND role IN ('pt', 'trainer')
		ORDER BY created_at
		LIMIT 1
	`
	return scanProfile(r.db.QueryRowContext(ctx, q, firstName, lastName))
}

// AssignedTrainers maps each athlete to the trainer linked first.
func (r *ProfilePostgres) AssignedTrainers(ctx context.Context, athleteIDs []string) (map[string]model.Profile, error) {
	out := make(map[string]model.Profile, len(athleteIDs))
	if len(athleteIDs) == 0 {
		return out, nil
	}

	const q = `
		SELECT DISTINCT ON (ta.athlete_id) ta.athlete_id, ` + profileColumnsP + `
		FROM trainer_athletes ta
		JOIN profiles p ON p.id = ta.trainer_id
		WHERE ta.athlete_id = ANY($1::uuid[])
		ORDER BY ta.athlete_id, ta.created_at
	`
	rows, err := r.db.QueryContext(ctx, q, "{"+strings.Join(athleteIDs, ",")+"}")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var athleteID string
		var p model.Profile
		if err := rows.Scan(
			&athleteID,
			&p.ID, &p.UserID, &p.OrgID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
			&p.Role, &p.Status, &p.Notes, &p.EnrollmentDate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out[athleteID] = p
	}
	return out, rows.Err()
}

// LinkTrainer inserts the trainer/athlete link, ignoring duplicates.
func (r *ProfilePostgres) LinkTrainer(ctx context.Context, trainerID, athleteID string) error {
	const q = `
		INSERT INTO trainer_athletes (trainer_id, athlete_id)
		VALUES ($1, $2)
		ON CONFLICT (trainer_id, athlete_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q, trainerID, athleteID)
	return err
}

// IsTrainerOf reports whether the link exists.
func (r *ProfilePostgres) IsTrainerOf(ctx context.Context, trainerID, athleteID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM trainer_athletes WHERE trainer_id = $1 AND athlete_id = $2)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, trainerID, athleteID).Scan(&ok)
	return ok, err
}

// CountByRole groups profiles by role.
func (r *ProfilePostgres) CountByRole(ctx context.Context, orgID string) (map[string]int, error) {
	const q = `
		SELECT role, COUNT(*) FROM profiles
		WHERE ($1::uuid IS NULL OR org_id = $1::uuid)
		GROUP BY role
	`
	return scanCounts(ctx, r.db, q, nullable(orgID))
}

func scanCounts(ctx context.Context, db database.DBTX, q string, args ...any) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}
