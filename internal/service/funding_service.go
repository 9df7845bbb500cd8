package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/donation-service/internal/auth"
	"github.com/spec-kit/donation-service/internal/domain"
	"github.com/spec-kit/donation-service/internal/events"
	"github.com/spec-kit/donation-service/internal/repository"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

// PaymentGateway creates charge intents with an external card processor.
type PaymentGateway interface {
	CreateChargeIntent(ctx context.Context, amountMinor int64, currency string) (clientSecret string, err error)
}

// FundingService is the append-only contribution ledger.
type FundingService struct {
	fundings   repository.FundingRepository
	guard      *auth.Guard
	gateway    PaymentGateway
	currency   string
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// FundingDependencies bundles collaborators for the funding service.
type FundingDependencies struct {
	FundingRepo repository.FundingRepository
	Guard       *auth.Guard
	Gateway     PaymentGateway
	Currency    string
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// FundingInput is a completed contribution reported by the client.
type FundingInput struct {
	Amount        float64
	DonorName     string
	TransactionID string
}

// NewFundingService constructs the service.
func NewFundingService(deps FundingDependencies) *FundingService {
	currency := strings.ToLower(strings.TrimSpace(deps.Currency))
	if currency == "" {
		currency = "usd"
	}
	return &FundingService{
		fundings:   deps.FundingRepo,
		guard:      deps.Guard,
		gateway:    deps.Gateway,
		currency:   currency,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
		now:        time.Now,
	}
}

func validAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return apperrors.NewValidationError("amount must be a positive number", map[string]any{"amount": amount})
	}
	if domain.MinorUnits(amount) < 1 {
		return apperrors.NewValidationError("amount is below the smallest currency unit", map[string]any{"amount": amount})
	}
	return nil
}

// RecordFunding appends a contribution by the caller. Authentication is the only gate.
// The amount is stored rounded to whole cents, matching the ledger column.
func (s *FundingService) RecordFunding(ctx context.Context, identity domain.Identity, in FundingInput) (*domain.Funding, error) {
	subject, err := s.guard.Enforce(ctx, identity)
	if err != nil {
		return nil, err
	}
	if err := validAmount(in.Amount); err != nil {
		return nil, err
	}

	funding := &domain.Funding{
		ID:            domain.NewSortableID(),
		DonorEmail:    identity.Email,
		DonorName:     strings.TrimSpace(in.DonorName),
		Amount:        domain.FromMinorUnits(domain.MinorUnits(in.Amount)),
		Currency:      s.currency,
		TransactionID: strings.TrimSpace(in.TransactionID),
		Timestamp:     s.now().UTC(),
	}
	if funding.DonorName == "" && subject.User != nil {
		funding.DonorName = subject.User.Name
	}
	if err := s.fundings.Create(ctx, funding); err != nil {
		return nil, err
	}

	s.logger.Info("funding recorded",
		zap.String("funding_id", funding.ID),
		zap.String("donor", funding.DonorEmail),
		zap.Float64("amount", funding.Amount))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventFundingRecorded,
		EntityID:   funding.ID,
		ActorEmail: identity.Email,
		Payload:    events.FundingRecordedPayload{Amount: funding.Amount, Currency: funding.Currency},
	})
	return funding, nil
}

// CreateChargeIntent asks the payment processor for a client secret for amount
// (major units). Processor failures are not retried.
func (s *FundingService) CreateChargeIntent(ctx context.Context, identity domain.Identity, amount float64) (string, error) {
	if _, err := s.guard.Enforce(ctx, identity); err != nil {
		return "", err
	}
	if err := validAmount(amount); err != nil {
		return "", err
	}
	minor := domain.MinorUnits(amount)
	if s.gateway == nil {
		return "", apperrors.NewExternalServiceFailure("payment processor unavailable", nil)
	}

	secret, err := s.gateway.CreateChargeIntent(ctx, minor, s.currency)
	if err != nil {
		s.logger.Error("create charge intent failed", zap.Int64("amount_minor", minor), zap.Error(err))
		return "", apperrors.NewExternalServiceFailure("payment intent creation failed", err)
	}
	return secret, nil
}

// List returns recorded contributions, newest first.
func (s *FundingService) List(ctx context.Context, identity domain.Identity, limit, offset int) ([]domain.Funding, error) {
	if _, err := s.guard.Enforce(ctx, identity); err != nil {
		return nil, err
	}
	return s.fundings.List(ctx, limit, offset)
}

// Total returns the sum of every recorded amount.
func (s *FundingService) Total(ctx context.Context) (float64, error) {
	return s.fundings.Total(ctx)
}
