package postgres

import (
	"context"
	"time"

	"gymapi/internal/database"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// ProgressPostgres is a PostgreSQL implementation of repository.ProgressRepository.
type ProgressPostgres struct {
	db database.DBTX
}

// NewProgressPostgres creates a new ProgressPostgres repository.
func NewProgressPostgres(db database.DBTX) *ProgressPostgres {
	return &ProgressPostgres{db: db}
}

var _ repository.ProgressRepository = (*ProgressPostgres)(nil)

const progressLogColumns = `id, athlete_id, date, weight_kg, max_bench_kg, max_squat_kg, max_deadlift_kg, fat_pct, fat_kg, lean_kg, muscle_kg, skeletal_muscle_kg, circumferences, notes, created_at`

const workoutPlanColumns = `id, athlete_id, trainer_id, name, description, is_active, completed_at, created_at`

func scanProgressLog(s scanner) (*model.ProgressLog, error) {
	var l model.ProgressLog
	var circ []byte
	if err := s.Scan(
		&l.ID,
		&l.AthleteID,
		&l.Date,
		&l.WeightKg,
		&l.MaxBenchKg,
		&l.MaxSquatKg,
		&l.MaxDeadliftKg,
		&l.FatPct,
		&l.FatKg,
		&l.LeanKg,
		&l.MuscleKg,
		&l.SkeletalMuscleKg,
		&circ,
		&l.Notes,
		&l.CreatedAt,
	); err != nil {
		return nil, err
	}
	l.Circumferences = map[string]float64{}
	if err := unmarshalJSON(circ, &l.Circumferences); err != nil {
		return nil, err
	}
	return &l, nil
}

func scanWorkoutPlan(s scanner) (*model.WorkoutPlan, error) {
	var p model.WorkoutPlan
	if err := s.Scan(&p.ID, &p.AthleteID, &p.TrainerID, &p.Name, &p.Description, &p.IsActive, &p.CompletedAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressPostgres) CreateLog(ctx context.Context, l *model.ProgressLog) (*model.ProgressLog, error) {
	circ, err := marshalJSON(l.Circumferences)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO progress_logs (id, athlete_id, date, weight_kg, max_bench_kg, max_squat_kg, max_deadlift_kg,
			fat_pct, fat_kg, lean_kg, muscle_kg, skeletal_muscle_kg, circumferences, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::jsonb, $14)
		RETURNING ` + progressLogColumns
	row := r.db.QueryRowContext(ctx, q,
		l.ID, l.AthleteID, l.Date, l.WeightKg, l.MaxBenchKg, l.MaxSquatKg, l.MaxDeadliftKg,
		l.FatPct, l.FatKg, l.LeanKg, l.MuscleKg, l.SkeletalMuscleKg, circ, l.Notes,
	)
	return scanProgressLog(row)
}

func (r *ProgressPostgres) ListLogs(ctx context.Context, athleteID string, limit int) ([]model.ProgressLog, error) {
	const q = `
		SELECT ` + progressLogColumns + ` FROM progress_logs
		WHERE athlete_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, athleteID, limitArg(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ProgressLog, 0)
	for rows.Next() {
		l, err := scanProgressLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

func (r *ProgressPostgres) CreatePlan(ctx context.Context, p *model.WorkoutPlan) (*model.WorkoutPlan, error) {
	const q = `
		INSERT INTO workout_plans (id, athlete_id, trainer_id, name, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + workoutPlanColumns
	return scanWorkoutPlan(r.db.QueryRowContext(ctx, q, p.ID, p.AthleteID, p.TrainerID, p.Name, p.Description, p.IsActive))
}

// CompletePlan deactivates a plan. It returns sql.ErrNoRows when id is unknown.
func (r *ProgressPostgres) CompletePlan(ctx context.Context, id string, at time.Time) (*model.WorkoutPlan, error) {
	const q = `
		UPDATE workout_plans SET is_active = false, completed_at = COALESCE(completed_at, $2)
		WHERE id = $1
		RETURNING ` + workoutPlanColumns
	return scanWorkoutPlan(r.db.QueryRowContext(ctx, q, id, at))
}

func (r *ProgressPostgres) ListPlansSince(ctx context.Context, athleteID string, since time.Time, limit int) ([]model.WorkoutPlan, error) {
	const q = `
		SELECT ` + workoutPlanColumns + ` FROM workout_plans
		WHERE athlete_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, q, athleteID, since, limitArg(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.WorkoutPlan, 0)
	for rows.Next() {
		p, err := scanWorkoutPlan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
