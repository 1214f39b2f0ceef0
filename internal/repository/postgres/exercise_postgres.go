package postgres

import (
	"context"

	"gymapi/internal/database"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// ExercisePostgres is a PostgreSQL implementation of repository.ExerciseRepository.
type ExercisePostgres struct {
	db database.DBTX
}

// NewExercisePostgres creates a new ExercisePostgres repository.
func NewExercisePostgres(db database.DBTX) *ExercisePostgres {
	return &ExercisePostgres{db: db}
}

var _ repository.ExerciseRepository = (*ExercisePostgres)(nil)

const exerciseColumns = `id, org_id, name, category, muscle_group, equipment, difficulty, description, video_url, thumb_url, image_url, duration_seconds, created_by, created_at, updated_at`

func scanExercise(s scanner) (*model.Exercise, error) {
	var e model.Exercise
	if err := s.Scan(
		&e.ID,
		&e.OrgID,
		&e.Name,
		&e.Category,
		&e.MuscleGroup,
		&e.Equipment,
		&e.Difficulty,
		&e.Description,
		&e.VideoURL,
		&e.ThumbURL,
		&e.ImageURL,
		&e.DurationSeconds,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExercisePostgres) Create(ctx context.Context, e *model.Exercise) (*model.Exercise, error) {
	const q = `
		INSERT INTO exercises (id, org_id, name, category, muscle_group, equipment, difficulty, description, video_url, thumb_url, image_url, duration_seconds, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + exerciseColumns
	return scanExercise(r.db.QueryRowContext(ctx, q,
		e.ID, e.OrgID, e.Name, e.Category, e.MuscleGroup, e.Equipment, e.Difficulty,
		e.Description, e.VideoURL, e.ThumbURL, e.ImageURL, e.DurationSeconds, e.CreatedBy,
	))
}

func (r *ExercisePostgres) FindByID(ctx context.Context, id string) (*model.Exercise, error) {
	const q = `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = $1`
	return scanExercise(r.db.QueryRowContext(ctx, q, id))
}

// List includes rows without an organization, which are shared by every tenant.
func (r *ExercisePostgres) List(ctx context.Context, orgID string) ([]model.Exercise, error) {
	const q = `
		SELECT ` + exerciseColumns + ` FROM exercises
		WHERE ($1::uuid IS NULL OR org_id = $1 OR org_id IS NULL)
		ORDER BY name, id
	`
	rows, err := r.db.QueryContext(ctx, q, nullable(orgID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Exercise, 0)
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// Update applies patch. Required columns use COALESCE; optional text columns
// are cleared by an empty string.
func (r *ExercisePostgres) Update(ctx context.Context, id string, p model.ExercisePatch) (*model.Exercise, error) {
	const q = `
		UPDATE exercises SET
			name             = COALESCE($2, name),
			category         = CASE WHEN $3::text IS NULL THEN category ELSE NULLIF($3, '') END,
			muscle_group     = COALESCE(NULLIF($4, ''), muscle_group),
			equipment        = CASE WHEN $5::text IS NULL THEN equipment ELSE NULLIF($5, '') END,
			difficulty       = COALESCE($6, difficulty),
			description      = CASE WHEN $7::text IS NULL THEN description ELSE NULLIF($7, '') END,
			video_url        = CASE WHEN $8::text IS NULL THEN video_url ELSE NULLIF($8, '') END,
			thumb_url        = CASE WHEN $9::text IS NULL THEN thumb_url ELSE NULLIF($9, '') END,
			image_url        = CASE WHEN $10::text IS NULL THEN image_url ELSE NULLIF($10, '') END,
			duration_seconds = COALESCE($11, duration_seconds),
			updated_at       = now()
		WHERE id = $1
		RETURNING ` + exerciseColumns
	return scanExercise(r.db.QueryRowContext(ctx, q,
		id, p.Name, p.Category, p.MuscleGroup, p.Equipment, p.Difficulty,
		p.Description, p.VideoURL, p.ThumbURL, p.ImageURL, p.DurationSeconds,
	))
}

func (r *ExercisePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM exercises WHERE id = $1`
	return execOne(ctx, r.db, q, id)
}

func (r *ExercisePostgres) UsageCount(ctx context.Context, id string) (int, error) {
	const q = `SELECT COUNT(*) FROM workout_day_exercises WHERE exercise_id = $1`
	var n int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&n)
	return n, err
}
