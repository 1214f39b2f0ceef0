package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gymapi/internal/auth"
	"gymapi/internal/config"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// AccountInput describes a login identity plus its profile.
type AccountInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Phone          *string
	Role           string
	Status         string
	Notes          *string
	EnrollmentDate *time.Time
	OrgID          string
}

// accounts provisions auth users together with their profiles. It is shared
// by the admin user and athlete services.
type accounts struct {
	users    repository.AuthUserRepository
	profiles repository.ProfileRepository
	audit    repository.AuditRepository
	cfg      config.AuthConfig
	validate *validator.Validate
	log      *logger.Logger
}

func newAccounts(users repository.AuthUserRepository, profiles repository.ProfileRepository, audit repository.AuditRepository, cfg config.AuthConfig, log *logger.Logger) accounts {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 6
	}
	return accounts{
		users:    users,
		profiles: profiles,
		audit:    audit,
		cfg:      cfg,
		validate: validator.New(),
		log:      log,
	}
}

func (a accounts) normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", invalid("email is required")
	}
	if err := a.validate.Var(email, "email"); err != nil {
		return "", invalid("email is not valid")
	}
	return email, nil
}

func (a accounts) checkPassword(password string) error {
	if len(password) < a.cfg.MinPasswordLength {
		return invalid("password must be at least %d characters", a.cfg.MinPasswordLength)
	}
	return nil
}

func checkRole(role string) (string, error) {
	role = model.NormalizeRole(role)
	if role == "" {
		return model.RoleAthlete, nil
	}
	if !model.IsValidRole(role) {
		return "", invalid("role %q is not valid", role)
	}
	return role, nil
}

func checkStatus(status string) (string, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "":
		return model.StatusActive, nil
	case model.StatusActive, model.StatusInactive, model.StatusSuspended:
		return status, nil
	}
	return "", invalid("status %q is not valid", status)
}

// provision creates the auth user and profile. An email already owned by an
// auth user without a profile gets its password reset and a new profile;
// one that already has a profile is a conflict. A freshly created auth user
// is removed again when the profile insert fails.
func (a accounts) provision(ctx context.Context, in AccountInput) (*model.Profile, error) {
	email, err := a.normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := a.checkPassword(in.Password); err != nil {
		return nil, err
	}
	role, err := checkRole(in.Role)
	if err != nil {
		return nil, err
	}
	status, err := checkStatus(in.Status)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	fresh := false
	user, err := a.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if _, perr := a.profiles.FindByUserID(ctx, user.ID); perr == nil {
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		} else if !errors.Is(perr, sql.ErrNoRows) {
			return nil, fmt.Errorf("find profile: %w", perr)
		}
		if err := a.users.UpdatePassword(ctx, user.ID, hash); err != nil {
			return nil, fmt.Errorf("reset password: %w", err)
		}
		a.log.Info("auth_user_reused", logger.Fields{"user_id": user.ID})
	case errors.Is(err, sql.ErrNoRows):
		user, err = a.users.Create(ctx, email, hash)
		if err != nil {
			return nil, conflictOn("email already registered", err)
		}
		fresh = true
	default:
		return nil, fmt.Errorf("find auth user: %w", err)
	}

	p := &model.Profile{
		ID:             uuid.New().String(),
		UserID:         &user.ID,
		OrgID:          optional(in.OrgID),
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          email,
		Phone:          in.Phone,
		Role:           role,
		Status:         status,
		Notes:          in.Notes,
		EnrollmentDate: in.EnrollmentDate,
	}
	stored, err := a.profiles.Create(ctx, p)
	if err != nil {
		if fresh {
			if delErr := a.users.Delete(ctx, user.ID); delErr != nil {
				a.log.Error("auth_user_compensation_failed", delErr, logger.Fields{"user_id": user.ID})
				return nil, fmt.Errorf("create profile: %v; remove auth user: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("create profile: %w", conflictOn("profile already exists", err))
	}
	return stored, nil
}

// record writes an audit event. Failures are logged only.
func (a accounts) record(ctx context.Context, actor auth.Principal, action, table, recordID string, details map[string]any) {
	if a.audit == nil {
		return
	}
	ev := model.AuditEvent{
		OrgID:     optional(actor.OrgID),
		ActorID:   optional(actor.ProfileID),
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		Details:   details,
	}
	if err := a.audit.Record(ctx, ev); err != nil {
		a.log.Warn("audit_record_failed", logger.Fields{"action": action, "record_id": recordID, "error_message": err.Error()})
	}
}

// optional turns an empty string into nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
