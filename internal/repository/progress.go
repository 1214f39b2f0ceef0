package repository

import (
	"context"
	"time"

	"gymapi/internal/model"
)

// ProgressRepository defines data access for progress logs and workout plans.
type ProgressRepository interface {
	CreateLog(ctx context.Context, l *model.ProgressLog) (*model.ProgressLog, error)

	// ListLogs returns up to limit logs, newest first by date then created_at.
	ListLogs(ctx context.Context, athleteID string, limit int) ([]model.ProgressLog, error)

	CreatePlan(ctx context.Context, p *model.WorkoutPlan) (*model.WorkoutPlan, error)
	CompletePlan(ctx context.Context, id string, at time.Time) (*model.WorkoutPlan, error)

	// ListPlansSince returns up to limit plans created at or after since.
	ListPlansSince(ctx context.Context, athleteID string, since time.Time, limit int) ([]model.WorkoutPlan, error)
}
