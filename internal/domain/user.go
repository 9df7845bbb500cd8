package domain

import "time"

// Role enumerates the fixed set of actor roles.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// Permits reports whether a holder of r may act where any of allowed is required.
// Admin satisfies every volunteer gate; a volunteer never satisfies an admin-only gate.
func (r Role) Permits(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
		if r == RoleAdmin && a == RoleVolunteer {
			return true
		}
	}
	return false
}

// UserStatus represents account state.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusBlocked
}

// User is a registered member of the platform.
type User struct {
	ID         string
	Email      string
	Name       string
	BloodGroup string
	District   string
	Upazila    string
	Avatar     string
	Role       Role
	Status     UserStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsBlocked reports whether the account has been blocked by an admin.
func (u *User) IsBlocked() bool {
	return u.Status == UserStatusBlocked
}

// ProfilePatch carries the self-editable profile fields. Nil means unchanged.
type ProfilePatch struct {
	Name       *string
	BloodGroup *string
	District   *string
	Upazila    *string
	Avatar     *string
}

// Apply merges the patch into u.
func (p ProfilePatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.BloodGroup != nil {
		u.BloodGroup = *p.BloodGroup
	}
	if p.District != nil {
		u.District = *p.District
	}
	if p.Upazila != nil {
		u.Upazila = *p.Upazila
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
}
