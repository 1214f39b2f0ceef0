package postgres

import (
	"context"
	"database/sql"

	"gymapi/internal/database"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// AuthUserPostgres is a PostgreSQL implementation of repository.AuthUserRepository.
type AuthUserPostgres struct {
	db database.DBTX
}

// NewAuthUserPostgres creates a new AuthUserPostgres repository.
func NewAuthUserPostgres(db database.DBTX) *AuthUserPostgres {
	return &AuthUserPostgres{db: db}
}

var _ repository.AuthUserRepository = (*AuthUserPostgres)(nil)

const authUserColumns = `id, email, password_hash, email_confirmed_at, created_at`

func scanAuthUser(s scanner) (*model.AuthUser, error) {
	var u model.AuthUser
	if err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.EmailConfirmedAt, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a confirmed identity. Accounts are provisioned by staff, so
// there is no separate confirmation step.
func (r *AuthUserPostgres) Create(ctx context.Context, email, passwordHash string) (*model.AuthUser, error) {
	const q = `
		INSERT INTO auth_users (email, password_hash, email_confirmed_at)
		VALUES ($1, $2, now())
		RETURNING ` + authUserColumns
	return scanAuthUser(r.db.QueryRowContext(ctx, q, email, passwordHash))
}

func (r *AuthUserPostgres) FindByID(ctx context.Context, id string) (*model.AuthUser, error) {
	const q = `SELECT ` + authUserColumns + ` FROM auth_users WHERE id = $1`
	return scanAuthUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *AuthUserPostgres) FindByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	const q = `SELECT ` + authUserColumns + ` FROM auth_users WHERE lower(email) = lower($1)`
	return scanAuthUser(r.db.QueryRowContext(ctx, q, email))
}

func (r *AuthUserPostgres) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE auth_users SET password_hash = $2, updated_at = now() WHERE id = $1`
	return execOne(ctx, r.db, q, id, passwordHash)
}

func (r *AuthUserPostgres) UpdateEmail(ctx context.Context, id, email string) error {
	const q = `UPDATE auth_users SET email = $2, updated_at = now() WHERE id = $1`
	return execOne(ctx, r.db, q, id, email)
}

// Delete removes an identity. It returns sql.ErrNoRows when nothing was deleted.
func (r *AuthUserPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM auth_users WHERE id = $1`
	return execOne(ctx, r.db, q, id)
}

// execOne runs a statement expected to touch a row and reports sql.ErrNoRows otherwise.
func execOne(ctx context.Context, db database.DBTX, q string, args ...any) error {
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RolePostgres is a PostgreSQL implementation of repository.RoleRepository.
type RolePostgres struct {
	db database.DBTX
}

// NewRolePostgres creates a new RolePostgres repository.
func NewRolePostgres(db database.DBTX) *RolePostgres {
	return &RolePostgres{db: db}
}

var _ repository.RoleRepository = (*RolePostgres)(nil)

const roleColumns = `id, name, description, permissions, created_at, updated_at`

func scanRole(s scanner) (*model.RoleDefinition, error) {
	var rd model.RoleDefinition
	var perms []byte
	if err := s.Scan(&rd.ID, &rd.Name, &rd.Description, &perms, &rd.CreatedAt, &rd.UpdatedAt); err != nil {
		return nil, err
	}
	rd.Permissions = map[string]bool{}
	if err := unmarshalJSON(perms, &rd.Permissions); err != nil {
		return nil, err
	}
	return &rd, nil
}

// List returns every role ordered by name.
func (r *RolePostgres) List(ctx context.Context) ([]model.RoleDefinition, error) {
	const q = `SELECT ` + roleColumns + ` FROM roles ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.RoleDefinition, 0)
	for rows.Next() {
		rd, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rd)
	}
	return items, rows.Err()
}

// Update sets description and/or permissions. Nil arguments keep stored values.
func (r *RolePostgres) Update(ctx context.Context, id string, description *string, permissions map[string]bool) (*model.RoleDefinition, error) {
	var perms any
	if permissions != nil {
		s, err := marshalJSON(permissions)
		if err != nil {
			return nil, err
		}
		perms = s
	}

	const q = `
		UPDATE roles SET
			description = COALESCE($2, description),
			permissions = COALESCE($3::jsonb, permissions),
			updated_at  = now()
		WHERE id = $1
		RETURNING ` + roleColumns
	return scanRole(r.db.QueryRowContext(ctx, q, id, description, perms))
}

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
type AuditPostgres struct {
	db database.DBTX
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db database.DBTX) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Record appends an audit event.
func (r *AuditPostgres) Record(ctx context.Context, ev model.AuditEvent) error {
	details, err := marshalJSON(ev.Details)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO audit_logs (org_id, actor_id, action, table_name, record_id, details)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
	`
	_, err = r.db.ExecContext(ctx, q, ev.OrgID, ev.ActorID, ev.Action, ev.TableName, ev.RecordID, details)
	return err
}
