package model

import "time"

// AuthUser is a login identity. Passwords are stored as bcrypt hashes.
type AuthUser struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Profile is the application-level user record, one per auth user.
type Profile struct {
	ID              string     `json:"id"`
	UserID          *string    `json:"user_id,omitempty"`
	OrgID           *string    `json:"org_id,omitempty"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone,omitempty"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	Notes           *string    `json:"notes,omitempty"`
	EnrollmentDate  *time.Time `json:"enrollment_date,omitempty"`
	AssignedTrainer *Profile   `json:"assigned_trainer,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FullName joins first and last name.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// ProfilePatch carries a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Role           *string
	Status         *string
	Notes          *string
	EnrollmentDate *time.Time
}

// RoleDefinition describes a role and its permission flags.
type RoleDefinition struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Permissions map[string]bool `json:"permissions"`
	UserCount   int             `json:"user_count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AuditEvent is an append-only record of an administrative action.
type AuditEvent struct {
	OrgID     *string        `json:"org_id,omitempty"`
	ActorID   *string        `json:"actor_id,omitempty"`
	Action    string         `json:"action"`
	TableName string         `json:"table_name"`
	RecordID  string         `json:"record_id"`
	Details   map[string]any `json:"details,omitempty"`
}
