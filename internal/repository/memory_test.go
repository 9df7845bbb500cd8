package repository_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/donation-service/internal/domain"
	"github.com/spec-kit/donation-service/internal/repository"
)

func TestMemoryUsersCreateIfAbsent(t *testing.T) {
	users := repository.NewMemoryStore().Users()
	ctx := context.Background()

	first := &domain.User{ID: "u1", Email: "a@example.com", Name: "A", Role: domain.RoleDonor, Status: domain.UserStatusActive}
	created, err := users.CreateIfAbsent(ctx, first)
	require.NoError(t, err)
	require.True(t, created)

	dup := &domain.User{ID: "u2", Email: "a@example.com", Name: "B"}
	created, err = users.CreateIfAbsent(ctx, dup)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "u1", dup.ID)
	require.Equal(t, "A", dup.Name)

	_, err = users.GetByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryRequestsListFilters(t *testing.T) {
	requests := repository.NewMemoryStore().DonationRequests()
	ctx := context.Background()

	for _, r := range []domain.DonationRequest{
		{ID: domain.NewSortableID(), RequesterEmail: "a@example.com", Status: domain.DonationStatusPending},
		{ID: domain.NewSortableID(), RequesterEmail: "b@example.com", Status: domain.DonationStatusDone},
		{ID: domain.NewSortableID(), RequesterEmail: "a@example.com", Status: domain.DonationStatusDone},
	} {
		req := r
		require.NoError(t, requests.Create(ctx, &req))
	}

	requester := "a@example.com"
	mine, err := requests.List(ctx, repository.DonationRequestFilter{RequesterEmail: &requester})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Less(t, mine[0].ID, mine[1].ID)

	done := domain.DonationStatusDone
	finished, err := requests.List(ctx, repository.DonationRequestFilter{Status: &done, Limit: 1})
	require.NoError(t, err)
	require.Len(t, finished, 1)
	require.Equal(t, "b@example.com", finished[0].RequesterEmail)

	require.ErrorIs(t, requests.Delete(ctx, "missing"), pgx.ErrNoRows)
}

func TestMemoryRequestsAreCopied(t *testing.T) {
	requests := repository.NewMemoryStore().DonationRequests()
	ctx := context.Background()

	req := &domain.DonationRequest{ID: "r1", Extra: map[string]any{"units": 1}}
	require.NoError(t, requests.Create(ctx, req))
	req.Extra["units"] = 9

	stored, err := requests.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, 1, stored.Extra["units"])
}

func TestMemoryFundingsNewestFirst(t *testing.T) {
	fundings := repository.NewMemoryStore().Fundings()
	ctx := context.Background()

	require.NoError(t, fundings.Create(ctx, &domain.Funding{ID: "f1", Amount: 10}))
	require.NoError(t, fundings.Create(ctx, &domain.Funding{ID: "f2", Amount: 2.5}))

	list, err := fundings.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "f2", list[0].ID)

	total, err := fundings.Total(ctx)
	require.NoError(t, err)
	require.InDelta(t, 12.5, total, 1e-9)
}
