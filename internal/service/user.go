package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gymapi/internal/auth"
	"gymapi/internal/cascade"
	"gymapi/internal/config"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

const maxPageLimit = 100

// ProfileDeleter removes a profile with its dependent rows.
type ProfileDeleter interface {
	Delete(ctx context.Context, profileID string) (*cascade.Result, error)
}

// UserListResult is a page of profiles.
type UserListResult struct {
	Items []model.Profile `json:"data"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// UpdateUserInput is a partial update. Nil fields are left untouched.
type UpdateUserInput struct {
	model.ProfilePatch
	Password *string
}

// DeleteUserResult describes a completed deletion. Warning is set when the
// profile was removed but the login identity could not be.
type DeleteUserResult struct {
	ProfileID string `json:"profile_id"`
	UserID    string `json:"user_id,omitempty"`
	Orphan    bool   `json:"orphan"`
	Strategy  string `json:"strategy,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// ImportUserInput is one row of a bulk import. AssignedTrainer is an email
// or "first last" of a pt/trainer.
type ImportUserInput struct {
	Email           string
	Password        string
	FirstName       string
	LastName        string
	Phone           string
	Role            string
	Status          string
	AssignedTrainer string
}

type ImportRowResult struct {
	Index   int    `json:"index"`
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ImportResult struct {
	Total        int               `json:"total"`
	SuccessCount int               `json:"success_count"`
	ErrorCount   int               `json:"error_count"`
	Results      []ImportRowResult `json:"results"`
}

// UserService is the admin user management use case set.
type UserService interface {
	List(ctx context.Context, actor auth.Principal, page, limit int) (*UserListResult, error)
	Create(ctx context.Context, actor auth.Principal, in AccountInput) (*model.Profile, error)
	Update(ctx context.Context, actor auth.Principal, id string, in UpdateUserInput) (*model.Profile, error)

	// Delete accepts a profile id or an auth user id.
	Delete(ctx context.Context, actor auth.Principal, id string) (*DeleteUserResult, error)
	ResetPassword(ctx context.Context, actor auth.Principal, id, password string) error
	Import(ctx context.Context, actor auth.Principal, rows []ImportUserInput) (*ImportResult, error)
}

type userService struct {
	accounts
	deleter ProfileDeleter
	imp     config.ImportConfig
	wait    func(ctx context.Context, d time.Duration) error
}

func NewUserService(users repository.AuthUserRepository, profiles repository.ProfileRepository, audit repository.AuditRepository, deleter ProfileDeleter, authCfg config.AuthConfig, impCfg config.ImportConfig, log *logger.Logger) UserService {
	if log == nil {
		log = logger.Nop()
	}
	if impCfg.BatchSize <= 0 {
		impCfg.BatchSize = 5
	}
	if impCfg.MaxUsers <= 0 {
		impCfg.MaxUsers = 100
	}
	return &userService{
		accounts: newAccounts(users, profiles, audit, authCfg, log.Component("users")),
		deleter:  deleter,
		imp:      impCfg,
		wait:     sleepCtx,
	}
}

func (s *userService) List(ctx context.Context, actor auth.Principal, page, limit int) (*UserListResult, error) {
	if page < 1 {
		page = 1
	}
	pq := repository.PageQuery{}
	if limit != 0 {
		limit = clamp(limit, 1, maxPageLimit)
		pq = repository.PageQuery{Limit: limit, Offset: (page - 1) * limit}
	}

	res, err := s.profiles.List(ctx, actor.OrgID, "", pq)
	if err != nil {
		return nil, err
	}

	var athleteIDs []string
	for _, p := range res.Items {
		if p.Role == model.RoleAthlete {
			athleteIDs = append(athleteIDs, p.ID)
		}
	}
	if len(athleteIDs) > 0 {
		trainers, err := s.profiles.AssignedTrainers(ctx, athleteIDs)
		if err != nil {
			s.log.Warn("assigned_trainers_failed", logger.Fields{"error_message": err.Error()})
		}
		for i := range res.Items {
			if t, ok := trainers[res.Items[i].ID]; ok {
				t := t
				res.Items[i].AssignedTrainer = &t
			}
		}
	}

	return &UserListResult{Items: res.Items, Total: res.Total, Page: page, Limit: limit}, nil
}

func (s *userService) Create(ctx context.Context, actor auth.Principal, in AccountInput) (*model.Profile, error) {
	if in.OrgID == "" {
		in.OrgID = actor.OrgID
	}
	p, err := s.provision(ctx, in)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, "create", "profiles", p.ID, map[string]any{"email": p.Email, "role": p.Role})
	return p, nil
}

func (s *userService) Update(ctx context.Context, actor auth.Principal, id string, in UpdateUserInput) (*model.Profile, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	current, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("user", err)
	}
	if !actor.InOrg(current.OrgID) {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}

	patch := in.ProfilePatch
	if patch.Email != nil {
		email, err := s.normalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	if patch.Role != nil {
		role, err := checkRole(*patch.Role)
		if err != nil {
			return nil, err
		}
		patch.Role = &role
	}
	if patch.Status != nil {
		status, err := checkStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		patch.Status = &status
	}
	var hash string
	if in.Password != nil {
		if err := s.checkPassword(*in.Password); err != nil {
			return nil, err
		}
		if hash, err = auth.HashPassword(*in.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if current.UserID != nil {
		if patch.Email != nil && *patch.Email != current.Email {
			if err := s.users.UpdateEmail(ctx, *current.UserID, *patch.Email); err != nil {
				return nil, fmt.Errorf("update auth email: %w", conflictOn("email already registered", err))
			}
		}
		if hash != "" {
			if err := s.users.UpdatePassword(ctx, *current.UserID, hash); err != nil {
				return nil, fmt.Errorf("update auth password: %w", err)
			}
		}
	}

	updated, err := s.profiles.Update(ctx, id, patch)
	if err != nil {
		return nil, notFound("user", err)
	}
	s.record(ctx, actor, "update", "profiles", id, map[string]any{"password_changed": hash != ""})
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, actor auth.Principal, id string) (*DeleteUserResult, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	p, err := s.profiles.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		p, err = s.profiles.FindByUserID(ctx, id)
	}
	if err != nil {
		return nil, notFound("user", err)
	}
	if !actor.InOrg(p.OrgID) {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}

	res := &DeleteUserResult{ProfileID: p.ID}

	authExists := false
	if p.UserID != nil {
		res.UserID = *p.UserID
		if _, err := s.users.FindByID(ctx, *p.UserID); err == nil {
			authExists = true
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find auth user: %w", err)
		}
	}
	res.Orphan = !authExists

	cr, err := s.deleter.Delete(ctx, p.ID)
	if err != nil {
		if errors.Is(err, cascade.ErrProfileNotFound) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, err
	}
	res.Strategy = cr.Strategy

	if authExists {
		if err := s.users.Delete(ctx, res.UserID); err != nil {
			s.log.Error("auth_user_delete_failed", err, logger.Fields{"profile_id": p.ID, "user_id": res.UserID})
			res.Warning = "profile deleted but the login could not be removed"
		}
	}

	s.record(ctx, actor, "delete", "profiles", p.ID, map[string]any{"orphan": res.Orphan, "strategy": res.Strategy, "partial": res.Warning != ""})
	return res, nil
}

func (s *userService) ResetPassword(ctx context.Context, actor auth.Principal, id, password string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.checkPassword(password); err != nil {
		return err
	}
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return notFound("user", err)
	}
	if !actor.InOrg(p.OrgID) {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	if p.UserID == nil {
		return fmt.Errorf("login for user %w", ErrNotFound)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, *p.UserID, hash); err != nil {
		return notFound("login for user", err)
	}
	s.record(ctx, actor, "reset_password", "auth_users", *p.UserID, nil)
	return nil
}

func (s *userService) Import(ctx context.Context, actor auth.Principal, rows []ImportUserInput) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, invalid("at least one user is required")
	}
	if len(rows) > s.imp.MaxUsers {
		return nil, invalid("at most %d users per import", s.imp.MaxUsers)
	}

	results := make([]ImportRowResult, len(rows))
	for start := 0; start < len(rows); start += s.imp.BatchSize {
		if start > 0 {
			if err := s.wait(ctx, s.imp.BatchDelay); err != nil {
				for i := start; i < len(rows); i++ {
					results[i] = ImportRowResult{Index: i, Email: rows[i].Email, Message: "import cancelled"}
				}
				s.log.Warn("user_import_cancelled", logger.Fields{"processed": start, "total": len(rows)})
				return summarize(results), err
			}
		}

		end := min(start+s.imp.BatchSize, len(rows))
		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = s.importRow(ctx, actor, i, rows[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	res := summarize(results)
	s.log.Info("user_import_done", logger.Fields{"total": res.Total, "success_count": res.SuccessCount, "error_count": res.ErrorCount})
	s.record(ctx, actor, "import", "profiles", "", map[string]any{"total": res.Total, "success_count": res.SuccessCount})
	return res, nil
}

func (s *userService) importRow(ctx context.Context, actor auth.Principal, idx int, row ImportUserInput) ImportRowResult {
	out := ImportRowResult{Index: idx, Email: strings.TrimSpace(row.Email)}

	password := row.Password
	if len(password) < s.cfg.MinPasswordLength {
		password = s.cfg.DefaultImportPassword
	}
	var phone *string
	if row.Phone != "" {
		phone = &row.Phone
	}

	p, err := s.provision(ctx, AccountInput{
		Email:     row.Email,
		Password:  password,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Phone:     phone,
		Role:      row.Role,
		Status:    row.Status,
		OrgID:     actor.OrgID,
	})
	if err != nil {
		out.Message = publicMessage(err)
		s.log.Warn("user_import_row_failed", logger.Fields{"index": idx, "error_message": err.Error()})
		return out
	}

	out.Success = true
	out.Message = "user created"

	if row.AssignedTrainer != "" && p.Role == model.RoleAthlete {
		trainer, err := s.findTrainer(ctx, row.AssignedTrainer)
		switch {
		case err != nil:
			s.log.Warn("import_trainer_not_found", logger.Fields{"index": idx, "trainer": row.AssignedTrainer})
			out.Message = "user created; trainer not found"
		default:
			if err := s.profiles.LinkTrainer(ctx, trainer.ID, p.ID); err != nil {
				s.log.Warn("import_trainer_link_failed", logger.Fields{"index": idx, "error_message": err.Error()})
				out.Message = "user created; trainer link failed"
			}
		}
	}
	return out
}

func (s *userService) findTrainer(ctx context.Context, identifier string) (*model.Profile, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return s.profiles.FindStaffByEmail(ctx, strings.ToLower(identifier))
	}
	parts := strings.Fields(identifier)
	if len(parts) < 2 {
		return nil, sql.ErrNoRows
	}
	return s.profiles.FindStaffByName(ctx, parts[0], strings.Join(parts[1:], " "))
}

func summarize(results []ImportRowResult) *ImportResult {
	res := &ImportResult{Total: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			res.SuccessCount++
		} else {
			res.ErrorCount++
		}
	}
	return res
}

// publicMessage returns err's text for validation and conflict errors and a
// generic message otherwise.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict):
		return err.Error()
	default:
		return "internal error"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
