package repository

import (
	"context"

	"gymapi/internal/model"
)

// ExerciseRepository defines data access for the exercise catalogue.
type ExerciseRepository interface {
	Create(ctx context.Context, e *model.Exercise) (*model.Exercise, error)
	FindByID(ctx context.Context, id string) (*model.Exercise, error)

	// List returns exercises of orgID by name. An empty orgID lists every row.
	List(ctx context.Context, orgID string) ([]model.Exercise, error)
	Update(ctx context.Context, id string, patch model.ExercisePatch) (*model.Exercise, error)
	Delete(ctx context.Context, id string) error

	// UsageCount returns how many workout day entries reference the exercise.
	UsageCount(ctx context.Context, id string) (int, error)
}

// SettingsRepository stores per-login preferences.
type SettingsRepository interface {
	// GetOrCreate returns the settings row of userID, inserting defaults first when missing.
	GetOrCreate(ctx context.Context, userID string) (*model.UserSettings, error)

	// UpdateSection replaces one JSON section (notifications, privacy or account).
	UpdateSection(ctx context.Context, userID, section string, value any) (*model.UserSettings, error)
	UpdateTwoFactor(ctx context.Context, userID string, tf model.TwoFactorSettings) (*model.UserSettings, error)
}
