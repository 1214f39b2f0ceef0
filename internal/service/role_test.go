package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymapi/internal/model"
	repoMocks "gymapi/internal/repository/mocks"
)

func TestRoleService_List(t *testing.T) {
	ctx := context.Background()
	roles := new(repoMocks.MockRoleRepository)
	profiles := new(repoMocks.MockProfileRepository)
	svc := NewRoleService(roles, profiles, nil, nil)

	roles.On("List", ctx).Return([]model.RoleDefinition{{ID: "r1", Name: "admin"}, {ID: "r2", Name: "athlete"}, {ID: "r3", Name: "trainer"}}, nil)
	profiles.On("CountByRole", ctx, "").Return(map[string]int{"admin": 1, "athlete": 12}, nil)

	res, err := svc.List(ctx, adminActor)
	require.NoError(t, err)
	assert.Equal(t, 1, res[0].UserCount)
	assert.Equal(t, 12, res[1].UserCount)
	assert.Equal(t, 0, res[2].UserCount)

	_, err = svc.List(ctx, trainerActor)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRoleService_Update(t *testing.T) {
	ctx := context.Background()
	roles := new(repoMocks.MockRoleRepository)
	audit := new(repoMocks.MockAuditRepository)
	svc := NewRoleService(roles, nil, audit, nil)

	perms := map[string]bool{"payments.write": true}
	roles.On("Update", ctx, "r1", (*string)(nil), perms).Return(&model.RoleDefinition{ID: "r1", Permissions: perms}, nil)
	roles.On("Update", ctx, "missing", (*string)(nil), perms).Return(nil, sql.ErrNoRows)
	audit.On("Record", ctx, mock.MatchedBy(func(ev model.AuditEvent) bool { return ev.TableName == "roles" })).Return(nil)

	rd, err := svc.Update(ctx, adminActor, "r1", nil, perms)
	require.NoError(t, err)
	assert.True(t, rd.Permissions["payments.write"])
	audit.AssertExpectations(t)

	_, err = svc.Update(ctx, adminActor, "missing", nil, perms)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, adminActor, "r1", nil, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRoleService_SharedDefinitions(t *testing.T) {
	ctx := context.Background()
	roles := new(repoMocks.MockRoleRepository)
	profiles := new(repoMocks.MockProfileRepository)
	audit := new(repoMocks.MockAuditRepository)
	svc := NewRoleService(roles, profiles, audit, nil)
	actor := orgAdmin("org-1")

	roles.On("List", ctx).Return([]model.RoleDefinition{{ID: "r1", Name: "athlete"}}, nil)
	profiles.On("CountByRole", ctx, "org-1").Return(map[string]int{"athlete": 4}, nil)

	res, err := svc.List(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 4, res[0].UserCount)

	desc := "Cliente"
	roles.On("Update", ctx, "r1", &desc, (map[string]bool)(nil)).Return(&model.RoleDefinition{ID: "r1"}, nil)
	audit.On("Record", ctx, mock.MatchedBy(func(ev model.AuditEvent) bool {
		return ev.OrgID != nil && *ev.OrgID == "org-1" && ev.Details["scope"] == "global"
	})).Return(nil)

	_, err = svc.Update(ctx, actor, "r1", &desc, nil)
	require.NoError(t, err)
	audit.AssertExpectations(t)
	profiles.AssertExpectations(t)
}
