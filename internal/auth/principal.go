package auth

import "gymapi/internal/model"

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID    string
	ProfileID string
	OrgID     string
	Role      string
}

// IsAdmin reports whether the caller holds the admin role.
func (p Principal) IsAdmin() bool { return p.Role == model.RoleAdmin }

// IsStaff reports whether the caller may manage athletes.
func (p Principal) IsStaff() bool { return model.IsStaff(p.Role) }

// InOrg reports whether a row owned by org is visible to the caller. Callers
// or rows without an organization are not restricted.
func (p Principal) InOrg(org *string) bool {
	return p.OrgID == "" || org == nil || *org == p.OrgID
}

// HasRole reports whether the caller's role is one of roles.
func (p Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// FromProfile builds a principal for the given profile.
func FromProfile(p *model.Profile) Principal {
	pr := Principal{ProfileID: p.ID, Role: p.Role}
	if p.UserID != nil {
		pr.UserID = *p.UserID
	}
	if p.OrgID != nil {
		pr.OrgID = *p.OrgID
	}
	return pr
}
