package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymapi/internal/auth"
	"gymapi/internal/cascade"
	"gymapi/internal/config"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// AthleteInput creates or replaces an athlete's editable fields.
// EnrollmentDate accepts RFC3339 or YYYY-MM-DD.
type AthleteInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Phone          *string
	Status         string
	Notes          *string
	EnrollmentDate string
}

// AthleteService is the staff-facing athlete roster.
type AthleteService interface {
	Create(ctx context.Context, actor auth.Principal, in AthleteInput) (*model.Profile, error)
	Update(ctx context.Context, actor auth.Principal, id string, in AthleteInput) (*model.Profile, error)
	Get(ctx context.Context, actor auth.Principal, id string) (*model.Profile, error)
	List(ctx context.Context, actor auth.Principal) ([]model.Profile, error)
	Delete(ctx context.Context, actor auth.Principal, id string) (*cascade.Result, error)
}

type athleteService struct {
	accounts
	access  athleteAccess
	deleter ProfileDeleter
}

func NewAthleteService(users repository.AuthUserRepository, profiles repository.ProfileRepository, audit repository.AuditRepository, deleter ProfileDeleter, cfg config.AuthConfig, log *logger.Logger) AthleteService {
	if log == nil {
		log = logger.Nop()
	}
	return &athleteService{
		accounts: newAccounts(users, profiles, audit, cfg, log.Component("athletes")),
		access:   athleteAccess{profiles: profiles},
		deleter:  deleter,
	}
}

func (s *athleteService) Create(ctx context.Context, actor auth.Principal, in AthleteInput) (*model.Profile, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if err := requireNames(in); err != nil {
		return nil, err
	}
	enrolled, err := parseDate(in.EnrollmentDate)
	if err != nil {
		return nil, err
	}

	password := in.Password
	if password == "" {
		password = s.cfg.DefaultImportPassword
	}

	p, err := s.provision(ctx, AccountInput{
		Email:          in.Email,
		Password:       password,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Phone:          in.Phone,
		Role:           model.RoleAthlete,
		Status:         in.Status,
		Notes:          in.Notes,
		EnrollmentDate: enrolled,
		OrgID:          actor.OrgID,
	})
	if err != nil {
		return nil, err
	}

	if actor.HasRole(model.RolePT, model.RoleTrainer) {
		if err := s.profiles.LinkTrainer(ctx, actor.ProfileID, p.ID); err != nil {
			s.log.Warn("trainer_link_failed", logger.Fields{"trainer_id": actor.ProfileID, "athlete_id": p.ID, "error_message": err.Error()})
		}
	}
	s.record(ctx, actor, "create", "profiles", p.ID, map[string]any{"role": model.RoleAthlete})
	return p, nil
}

func (s *athleteService) Update(ctx context.Context, actor auth.Principal, id string, in AthleteInput) (*model.Profile, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	current, err := s.access.check(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := requireNames(in); err != nil {
		return nil, err
	}
	email, err := s.normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	status, err := checkStatus(in.Status)
	if err != nil {
		return nil, err
	}
	enrolled, err := parseDate(in.EnrollmentDate)
	if err != nil {
		return nil, err
	}

	if current.UserID != nil && email != current.Email {
		if err := s.users.UpdateEmail(ctx, *current.UserID, email); err != nil {
			return nil, fmt.Errorf("update auth email: %w", conflictOn("email already registered", err))
		}
	}

	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	updated, err := s.profiles.Update(ctx, id, model.ProfilePatch{
		FirstName:      &first,
		LastName:       &last,
		Email:          &email,
		Phone:          in.Phone,
		Status:         &status,
		Notes:          in.Notes,
		EnrollmentDate: enrolled,
	})
	if err != nil {
		return nil, notFound("athlete", err)
	}
	s.record(ctx, actor, "update", "profiles", id, nil)
	return updated, nil
}

func (s *athleteService) Get(ctx context.Context, actor auth.Principal, id string) (*model.Profile, error) {
	return s.access.check(ctx, actor, id)
}

func (s *athleteService) List(ctx context.Context, actor auth.Principal) ([]model.Profile, error) {
	switch {
	case actor.IsAdmin():
		res, err := s.profiles.List(ctx, actor.OrgID, model.RoleAthlete, repository.PageQuery{})
		if err != nil {
			return nil, err
		}
		return res.Items, nil
	case actor.IsStaff():
		return s.profiles.ListByTrainer(ctx, actor.ProfileID)
	}
	return nil, ErrForbidden
}

func (s *athleteService) Delete(ctx context.Context, actor auth.Principal, id string) (*cascade.Result, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if _, err := s.access.check(ctx, actor, id); err != nil {
		return nil, err
	}

	res, err := s.deleter.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, cascade.ErrProfileNotFound) {
			return nil, fmt.Errorf("athlete %w", ErrNotFound)
		}
		return nil, err
	}
	s.record(ctx, actor, "delete", "profiles", id, map[string]any{"strategy": res.Strategy})
	return res, nil
}

func requireNames(in AthleteInput) error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return invalid("first name and last name are required")
	}
	return nil
}

// parseDate accepts RFC3339 or YYYY-MM-DD. Empty input yields nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	return nil, invalid("date %q must be RFC3339 or YYYY-MM-DD", s)
}

// athleteAccess decides whether a caller may see an athlete's data. Athletes
// see themselves, admins see their organization, trainers their linked athletes.
type athleteAccess struct {
	profiles repository.ProfileRepository
}

func (a athleteAccess) check(ctx context.Context, actor auth.Principal, athleteID string) (*model.Profile, error) {
	if athleteID == "" {
		return nil, ErrIDRequired
	}
	p, err := a.profiles.FindByID(ctx, athleteID)
	if err != nil {
		return nil, notFound("athlete", err)
	}
	if p.Role != model.RoleAthlete {
		return nil, fmt.Errorf("athlete %w", ErrNotFound)
	}

	switch {
	case actor.ProfileID == p.ID:
		return p, nil
	case actor.IsAdmin():
		if !actor.InOrg(p.OrgID) {
			return nil, fmt.Errorf("athlete %w", ErrNotFound)
		}
		return p, nil
	case actor.IsStaff():
		ok, err := a.profiles.IsTrainerOf(ctx, actor.ProfileID, p.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrForbidden
		}
		return p, nil
	}
	return nil, ErrForbidden
}
