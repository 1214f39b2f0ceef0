package service

import (
	"context"

	"gymapi/internal/auth"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// RoleService manages role definitions and their permission flags.
// Definitions are shared by every organization; holder counts are not.
type RoleService interface {
	List(ctx context.Context, actor auth.Principal) ([]model.RoleDefinition, error)
	Update(ctx context.Context, actor auth.Principal, id string, description *string, permissions map[string]bool) (*model.RoleDefinition, error)
}

type roleService struct {
	roles    repository.RoleRepository
	profiles repository.ProfileRepository
	audit    accounts
}

func NewRoleService(roles repository.RoleRepository, profiles repository.ProfileRepository, audit repository.AuditRepository, log *logger.Logger) RoleService {
	if log == nil {
		log = logger.Nop()
	}
	return &roleService{
		roles:    roles,
		profiles: profiles,
		audit:    accounts{audit: audit, log: log.Component("roles")},
	}
}

// List returns roles by name with the number of profiles holding each.
func (s *roleService) List(ctx context.Context, actor auth.Principal) ([]model.RoleDefinition, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.profiles.CountByRole(ctx, actor.OrgID)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		roles[i].UserCount = counts[roles[i].Name]
	}
	return roles, nil
}

func (s *roleService) Update(ctx context.Context, actor auth.Principal, id string, description *string, permissions map[string]bool) (*model.RoleDefinition, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	if description == nil && permissions == nil {
		return nil, invalid("nothing to update")
	}

	rd, err := s.roles.Update(ctx, id, description, permissions)
	if err != nil {
		return nil, notFound("role", err)
	}
	// The change reaches every tenant, so the audit row says so.
	s.audit.record(ctx, actor, "update", "roles", id, map[string]any{"permissions_changed": permissions != nil, "scope": "global"})
	return rd, nil
}
