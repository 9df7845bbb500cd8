package auth

import (
	"github.com/spec-kit/donation-service/internal/domain"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

// Subject is the caller as seen by a single guarded call: the verified
// identity plus the user record loaded for that call. User is nil when the
// identity has no account.
type Subject struct {
	Identity domain.Identity
	User     *domain.User
}

// Role returns the subject's current role, or "" when unregistered.
func (s *Subject) Role() domain.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Check is one predicate in a guard pipeline.
type Check func(*Subject) error

// RequireRole admits subjects whose role permits any of allowed.
func RequireRole(allowed ...domain.Role) Check {
	return func(s *Subject) error {
		if s.User == nil || !s.User.Role.Permits(allowed...) {
			return apperrors.NewForbidden("forbidden access")
		}
		return nil
	}
}

// RequireAdmin admits admins only.
func RequireAdmin() Check {
	return RequireRole(domain.RoleAdmin)
}

// RequireVolunteer admits volunteers and admins.
func RequireVolunteer() Check {
	return RequireRole(domain.RoleVolunteer)
}

// RequireSelf admits the subject only when acting on its own email.
func RequireSelf(targetEmail string) Check {
	return func(s *Subject) error {
		target := domain.NormalizeEmail(targetEmail)
		if target == "" || s.Identity.Email != target {
			return apperrors.NewForbidden("forbidden")
		}
		return nil
	}
}

// RequireRegistered admits identities that have an account.
func RequireRegistered() Check {
	return func(s *Subject) error {
		if s.User == nil {
			return apperrors.NewNotFound("user", map[string]any{"email": s.Identity.Email})
		}
		return nil
	}
}

// RequireActive admits registered, non-blocked accounts.
func RequireActive() Check {
	return func(s *Subject) error {
		if err := RequireRegistered()(s); err != nil {
			return err
		}
		if s.User.IsBlocked() {
			return apperrors.NewForbidden("blocked user")
		}
		return nil
	}
}

// RequireOwnerOrRole admits the owner of a record, or anyone whose role permits allowed.
func RequireOwnerOrRole(ownerEmail string, allowed ...domain.Role) Check {
	return func(s *Subject) error {
		if owner := domain.NormalizeEmail(ownerEmail); owner != "" && s.Identity.Email == owner {
			return nil
		}
		return RequireRole(allowed...)(s)
	}
}
