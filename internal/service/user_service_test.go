package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/donation-service/internal/domain"
	"github.com/spec-kit/donation-service/internal/events"
	"github.com/spec-kit/donation-service/internal/service"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, created, err := h.users.Register(ctx, service.RegisterInput{Email: "Donor@Example.com", Name: "Donor"})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "donor@example.com", first.Email)
	require.Equal(t, domain.RoleDonor, first.Role)
	require.Equal(t, domain.UserStatusActive, first.Status)

	second, created, err := h.users.Register(ctx, service.RegisterInput{Email: "donor@example.com", Name: "Someone Else"})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "Donor", second.Name)

	count, err := h.users.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.users.Register(context.Background(), service.RegisterInput{Email: "not-an-email"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetProfileIsSelfOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, donor := h.register(t, "donor@example.com", domain.RoleDonor, domain.UserStatusActive)
	_, admin := h.register(t, "admin@example.com", domain.RoleAdmin, domain.UserStatusActive)

	user, err := h.users.Get(ctx, donor, "donor@example.com")
	require.NoError(t, err)
	require.Equal(t, "donor@example.com", user.Email)

	_, err = h.users.Get(ctx, admin, "donor@example.com")
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdateProfileLeavesRoleAndStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, donor := h.register(t, "donor@example.com", domain.RoleDonor, domain.UserStatusActive)

	name := "New Name"
	district := "Chattogram"
	user, err := h.users.UpdateProfile(ctx, donor, "donor@example.com", domain.ProfilePatch{Name: &name, District: &district})
	require.NoError(t, err)
	require.Equal(t, "New Name", user.Name)
	require.Equal(t, "Chattogram", user.District)
	require.Equal(t, domain.RoleDonor, user.Role)
	require.Equal(t, domain.UserStatusActive, user.Status)

	_, other := h.register(t, "other@example.com", domain.RoleDonor, domain.UserStatusActive)
	_, err = h.users.UpdateProfile(ctx, other, "donor@example.com", domain.ProfilePatch{Name: &name})
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestListUsersIsAdminOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, admin := h.register(t, "admin@example.com", domain.RoleAdmin, domain.UserStatusActive)
	_, vol := h.register(t, "vol@example.com", domain.RoleVolunteer, domain.UserStatusActive)
	h.register(t, "blocked@example.com", domain.RoleDonor, domain.UserStatusBlocked)

	all, err := h.users.List(ctx, admin, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	blocked, err := h.users.List(ctx, admin, "blocked")
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	require.Equal(t, "blocked@example.com", blocked[0].Email)

	_, err = h.users.List(ctx, admin, "suspended")
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = h.users.List(ctx, vol, "")
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSetRoleAndStatusRequireAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, admin := h.register(t, "admin@example.com", domain.RoleAdmin, domain.UserStatusActive)
	_, vol := h.register(t, "vol@example.com", domain.RoleVolunteer, domain.UserStatusActive)
	target, donor := h.register(t, "donor@example.com", domain.RoleDonor, domain.UserStatusActive)

	for _, actor := range []domain.Identity{vol, donor} {
		_, err := h.users.SetRole(ctx, actor, target.ID, domain.RoleAdmin)
		require.ErrorIs(t, err, apperrors.ErrForbidden)
		_, err = h.users.SetStatus(ctx, actor, target.ID, domain.UserStatusBlocked)
		require.ErrorIs(t, err, apperrors.ErrForbidden)
	}

	stored, err := h.store.Users().GetByID(ctx, target.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleDonor, stored.Role)
	require.Equal(t, domain.UserStatusActive, stored.Status)

	updated, err := h.users.SetRole(ctx, admin, target.ID, domain.RoleVolunteer)
	require.NoError(t, err)
	require.Equal(t, domain.RoleVolunteer, updated.Role)

	updated, err = h.users.SetStatus(ctx, admin, target.ID, domain.UserStatusBlocked)
	require.NoError(t, err)
	require.Equal(t, domain.UserStatusBlocked, updated.Status)

	_, err = h.users.SetRole(ctx, admin, target.ID, domain.RoleDonor)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = h.users.SetStatus(ctx, admin, target.ID, domain.UserStatus("banned"))
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = h.users.SetRole(ctx, admin, "missing-id", domain.RoleAdmin)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.Contains(t, h.recorder.types(), events.EventUserRoleChanged)
	require.Contains(t, h.recorder.types(), events.EventUserStatusChanged)
}

func TestDemotionAppliesToNextCall(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, admin := h.register(t, "admin@example.com", domain.RoleAdmin, domain.UserStatusActive)
	second, secondIdentity := h.register(t, "second@example.com", domain.RoleAdmin, domain.UserStatusActive)

	_, err := h.users.List(ctx, secondIdentity, "")
	require.NoError(t, err)

	_, err = h.users.SetRole(ctx, admin, second.ID, domain.RoleVolunteer)
	require.NoError(t, err)

	_, err = h.users.List(ctx, secondIdentity, "")
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSetRoleAndStatusMalformedID(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, admin := h.register(t, "admin@example.com", domain.RoleAdmin, domain.UserStatusActive)

	_, err := h.users.SetRole(ctx, admin, "not-a-uuid", domain.RoleVolunteer)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = h.users.SetStatus(ctx, admin, "not-a-uuid", domain.UserStatusBlocked)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
