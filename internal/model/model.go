// Package model contains the domain types shared across layers.
// Types carry JSON tags only; persistence details live in the repositories.
package model

import "strings"

// Role names stored on profiles.
const (
	RoleAdmin            = "admin"
	RolePT               = "pt"
	RoleTrainer          = "trainer"
	RoleAthlete          = "athlete"
	RoleNutritionist     = "nutritionist"
	RoleMassageTherapist = "massage_therapist"
)

// Profile status values.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// StaffRoles may manage athletes, appointments, payments and documents.
var StaffRoles = []string{RoleAdmin, RolePT, RoleTrainer}

// AllRoles lists every assignable role.
var AllRoles = []string{RoleAdmin, RolePT, RoleTrainer, RoleAthlete, RoleNutritionist, RoleMassageTherapist}

// IsStaff reports whether role belongs to the staff group.
func IsStaff(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidRole reports whether role is one of AllRoles.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// NormalizeRole maps accepted input aliases onto stored role names.
func NormalizeRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	switch r {
	case "atleta":
		return RoleAthlete
	case "nutrizionista":
		return RoleNutritionist
	case "massaggiatore":
		return RoleMassageTherapist
	case "":
		return ""
	}
	return r
}
