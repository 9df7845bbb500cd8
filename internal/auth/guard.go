package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/donation-service/internal/domain"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

// UserLookup is the slice of the user directory the guard reads.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Guard evaluates authorization against the currently persisted user state.
// Nothing is cached between calls, so demotions and blocks apply to the very
// next request of an existing session.
type Guard struct {
	users UserLookup
}

// NewGuard constructs a guard.
func NewGuard(users UserLookup) *Guard {
	return &Guard{users: users}
}

// ResolveRole loads the identity's current role and status.
func (g *Guard) ResolveRole(ctx context.Context, identity domain.Identity) (domain.Role, domain.UserStatus, error) {
	user, err := g.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", apperrors.NewNotFound("user", map[string]any{"email": identity.Email})
		}
		return "", "", err
	}
	return user.Role, user.Status, nil
}

// Enforce loads the subject and runs checks in order. The first failing check
// is returned and later checks are not evaluated.
func (g *Guard) Enforce(ctx context.Context, identity domain.Identity, checks ...Check) (*Subject, error) {
	if identity.Email == "" {
		return nil, errUnauthenticated()
	}

	subject := &Subject{Identity: identity}
	user, err := g.users.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		subject.User = user
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, err
	}

	for _, check := range checks {
		if err := check(subject); err != nil {
			return nil, err
		}
	}
	return subject, nil
}
