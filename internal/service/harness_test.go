package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/donation-service/internal/auth"
	"github.com/spec-kit/donation-service/internal/domain"
	"github.com/spec-kit/donation-service/internal/events"
	"github.com/spec-kit/donation-service/internal/repository"
	"github.com/spec-kit/donation-service/internal/service"
)

type fakeGateway struct {
	amounts  []int64
	currency string
	err      error
}

func (g *fakeGateway) CreateChargeIntent(_ context.Context, amountMinor int64, currency string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.amounts = append(g.amounts, amountMinor)
	g.currency = currency
	return "pi_secret_123", nil
}

type fakeUploader struct {
	url string
	err error
}

func (u fakeUploader) Upload(context.Context, string) (string, error) {
	return u.url, u.err
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type harness struct {
	store     *repository.MemoryStore
	users     *service.UserService
	donations *service.DonationService
	fundings  *service.FundingService
	stats     *service.StatsService
	media     *service.MediaService
	gateway   *fakeGateway
	recorder  *eventRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := repository.NewMemoryStore()
	guard := auth.NewGuard(store.Users())
	dispatcher := events.NewInMemoryDispatcher(nil)
	recorder := &eventRecorder{}
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, recorder.handle)
	}
	gateway := &fakeGateway{}

	users := service.NewUserService(service.UserDependencies{UserRepo: store.Users(), Guard: guard, Dispatcher: dispatcher})
	donations := service.NewDonationService(service.DonationDependencies{RequestRepo: store.DonationRequests(), Guard: guard, Dispatcher: dispatcher})
	fundings := service.NewFundingService(service.FundingDependencies{
		FundingRepo: store.Fundings(),
		Guard:       guard,
		Gateway:     gateway,
		Currency:    "USD",
		Dispatcher:  dispatcher,
	})
	return &harness{
		store:     store,
		users:     users,
		donations: donations,
		fundings:  fundings,
		stats:     service.NewStatsService(guard, users, donations, fundings),
		media:     service.NewMediaService(guard, fakeUploader{url: "https://i.ibb.co/x.png"}, nil),
		gateway:   gateway,
		recorder:  recorder,
	}
}

// register creates an account and sets its role and status directly in storage.
func (h *harness) register(t *testing.T, email string, role domain.Role, status domain.UserStatus) (*domain.User, domain.Identity) {
	t.Helper()
	ctx := context.Background()
	user, created, err := h.users.Register(ctx, service.RegisterInput{Email: email, Name: "Name of " + email})
	require.NoError(t, err)
	require.True(t, created)
	user.Role = role
	user.Status = status
	require.NoError(t, h.store.Users().Update(ctx, user))
	return user, domain.Identity{Email: user.Email}
}

func (h *harness) createRequest(t *testing.T, identity domain.Identity) *domain.DonationRequest {
	t.Helper()
	req, err := h.donations.Create(context.Background(), identity, service.DonationRequestInput{
		RecipientName: "Rahim",
		BloodGroup:    "A+",
		District:      "Dhaka",
		Upazila:       "Dhanmondi",
		Hospital:      "Dhaka Medical College",
	})
	require.NoError(t, err)
	return req
}

func (h *harness) setStatus(t *testing.T, id string, status domain.DonationStatus) {
	t.Helper()
	ctx := context.Background()
	req, err := h.store.DonationRequests().GetByID(ctx, id)
	require.NoError(t, err)
	req.Status = status
	require.NoError(t, h.store.DonationRequests().Update(ctx, req))
}

var errProcessor = errors.New("processor down")
