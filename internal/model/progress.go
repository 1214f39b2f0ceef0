package model

import "time"

// ProgressLog is one measurement session for an athlete. Nil pointers mean
// the value was not recorded.
type ProgressLog struct {
	ID               string             `json:"id"`
	AthleteID        string             `json:"athlete_id"`
	Date             time.Time          `json:"date"`
	WeightKg         *float64           `json:"weight_kg"`
	MaxBenchKg       *float64           `json:"max_bench_kg"`
	MaxSquatKg       *float64           `json:"max_squat_kg"`
	MaxDeadliftKg    *float64           `json:"max_deadlift_kg"`
	FatPct           *float64           `json:"fat_pct"`
	FatKg            *float64           `json:"fat_kg"`
	LeanKg           *float64           `json:"lean_kg"`
	MuscleKg         *float64           `json:"muscle_kg"`
	SkeletalMuscleKg *float64           `json:"skeletal_muscle_kg"`
	Circumferences   map[string]float64 `json:"circumferences"`
	Notes            *string            `json:"notes"`
	CreatedAt        time.Time          `json:"created_at"`
}

// WorkoutPlan is a training plan. A plan that is no longer active counts as completed.
type WorkoutPlan struct {
	ID          string     `json:"id"`
	AthleteID   string     `json:"athlete_id"`
	TrainerID   *string    `json:"trainer_id,omitempty"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	IsActive    bool       `json:"is_active"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
