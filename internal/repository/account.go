package repository

import (
	"context"

	"gymapi/internal/model"
)

// AuthUserRepository stores login identities.
type AuthUserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*model.AuthUser, error)
	FindByID(ctx context.Context, id string) (*model.AuthUser, error)
	FindByEmail(ctx context.Context, email string) (*model.AuthUser, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateEmail(ctx context.Context, id, email string) error
	Delete(ctx context.Context, id string) error
}

// ProfileRepository stores profiles and trainer/athlete links.
type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) (*model.Profile, error)
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)

	// List returns profiles newest first. Empty orgID or role means no filter.
	List(ctx context.Context, orgID, role string, pq PageQuery) (*PageResult[model.Profile], error)

	// ListByTrainer returns the athletes linked to trainerID.
	ListByTrainer(ctx context.Context, trainerID string) ([]model.Profile, error)

	Update(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error)
	Delete(ctx context.Context, id string) error

	// FindStaffByEmail and FindStaffByName resolve pt/trainer profiles.
	FindStaffByEmail(ctx context.Context, email string) (*model.Profile, error)
	FindStaffByName(ctx context.Context, firstName, lastName string) (*model.Profile, error)

	// AssignedTrainers maps athlete IDs to their first linked trainer.
	AssignedTrainers(ctx context.Context, athleteIDs []string) (map[string]model.Profile, error)

	// LinkTrainer creates the trainer/athlete link if missing.
	LinkTrainer(ctx context.Context, trainerID, athleteID string) error
	IsTrainerOf(ctx context.Context, trainerID, athleteID string) (bool, error)

	// CountByRole returns the number of profiles per role name.
	CountByRole(ctx context.Context, orgID string) (map[string]int, error)
}

// RoleRepository stores role definitions and their permissions.
type RoleRepository interface {
	List(ctx context.Context) ([]model.RoleDefinition, error)
	Update(ctx context.Context, id string, description *string, permissions map[string]bool) (*model.RoleDefinition, error)
}

// AuditRepository appends audit events.
type AuditRepository interface {
	Record(ctx context.Context, ev model.AuditEvent) error
}
