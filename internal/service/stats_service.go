package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/donation-service/internal/auth"
	"github.com/spec-kit/donation-service/internal/domain"
)

// StatsService aggregates dashboard figures for admins.
type StatsService struct {
	users    *UserService
	requests *DonationService
	fundings *FundingService
	guard    *auth.Guard
}

// NewStatsService constructs the service.
func NewStatsService(guard *auth.Guard, users *UserService, requests *DonationService, fundings *FundingService) *StatsService {
	return &StatsService{users: users, requests: requests, fundings: fundings, guard: guard}
}

// ComputeStats runs three independent reads. There is no common snapshot, so
// writes landing during the call may or may not be reflected.
func (s *StatsService) ComputeStats(ctx context.Context, identity domain.Identity) (*domain.Stats, error) {
	if _, err := s.guard.Enforce(ctx, identity, auth.RequireAdmin()); err != nil {
		return nil, err
	}

	var stats domain.Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Users, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Requests, err = s.requests.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalFunds, err = s.fundings.Total(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
