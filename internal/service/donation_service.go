package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/donation-service/internal/auth"
	"github.com/spec-kit/donation-service/internal/domain"
	"github.com/spec-kit/donation-service/internal/events"
	"github.com/spec-kit/donation-service/internal/repository"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

// DonationService owns donation requests and their lifecycle.
type DonationService struct {
	requests   repository.DonationRequestRepository
	guard      *auth.Guard
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// DonationDependencies bundles collaborators for the donation service.
type DonationDependencies struct {
	RequestRepo repository.DonationRequestRepository
	Guard       *auth.Guard
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// DonationRequestInput describes a new request. Any client supplied status is ignored.
type DonationRequestInput struct {
	RequesterEmail string
	RequesterName  string
	RecipientName  string
	BloodGroup     string
	District       string
	Upazila        string
	Hospital       string
	Address        string
	DonationDate   string
	DonationTime   string
	Message        string
	Extra          map[string]any
}

// NewDonationService constructs the service.
func NewDonationService(deps DonationDependencies) *DonationService {
	return &DonationService{
		requests:   deps.RequestRepo,
		guard:      deps.Guard,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// Create stores a new pending request on behalf of the caller.
func (s *DonationService) Create(ctx context.Context, identity domain.Identity, in DonationRequestInput) (*domain.DonationRequest, error) {
	requester := domain.NormalizeEmail(in.RequesterEmail)
	if requester == "" {
		requester = identity.Email
	}
	subject, err := s.guard.Enforce(ctx, identity, auth.RequireSelf(requester), auth.RequireActive())
	if err != nil {
		return nil, err
	}

	req := &domain.DonationRequest{
		ID:             domain.NewSortableID(),
		RequesterEmail: requester,
		RequesterName:  strings.TrimSpace(in.RequesterName),
		RecipientName:  strings.TrimSpace(in.RecipientName),
		BloodGroup:     strings.TrimSpace(in.BloodGroup),
		District:       strings.TrimSpace(in.District),
		Upazila:        strings.TrimSpace(in.Upazila),
		Hospital:       strings.TrimSpace(in.Hospital),
		Address:        strings.TrimSpace(in.Address),
		DonationDate:   strings.TrimSpace(in.DonationDate),
		DonationTime:   strings.TrimSpace(in.DonationTime),
		Message:        strings.TrimSpace(in.Message),
		Status:         domain.DonationStatusPending,
		Extra:          in.Extra,
	}
	if req.RequesterName == "" {
		req.RequesterName = subject.User.Name
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("donation request created",
		zap.String("request_id", req.ID),
		zap.String("requester", req.RequesterEmail))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventDonationRequestCreated,
		EntityID:   req.ID,
		ActorEmail: identity.Email,
		Payload: events.DonationRequestCreatedPayload{
			RequesterEmail: req.RequesterEmail,
			BloodGroup:     req.BloodGroup,
			District:       req.District,
			Upazila:        req.Upazila,
		},
	})
	return req, nil
}

// ListPublicPending returns every pending request in storage order. No authentication.
func (s *DonationService) ListPublicPending(ctx context.Context) ([]domain.DonationRequest, error) {
	status := domain.DonationStatusPending
	return s.requests.List(ctx, repository.DonationRequestFilter{Status: &status})
}

// ListMine returns the requests created by email, which must be the caller.
func (s *DonationService) ListMine(ctx context.Context, identity domain.Identity, email string) ([]domain.DonationRequest, error) {
	if _, err := s.guard.Enforce(ctx, identity, auth.RequireSelf(email)); err != nil {
		return nil, err
	}
	requester := domain.NormalizeEmail(email)
	return s.requests.List(ctx, repository.DonationRequestFilter{RequesterEmail: &requester})
}

// ListAll returns all requests, optionally only those in status. Volunteers and admins only.
func (s *DonationService) ListAll(ctx context.Context, identity domain.Identity, status string) ([]domain.DonationRequest, error) {
	if _, err := s.guard.Enforce(ctx, identity, auth.RequireVolunteer()); err != nil {
		return nil, err
	}
	filter := repository.DonationRequestFilter{}
	if status != "" {
		st := domain.DonationStatus(status)
		if !st.Valid() {
			return nil, apperrors.NewValidationError("unknown donation status", map[string]any{"status": status})
		}
		filter.Status = &st
	}
	return s.requests.List(ctx, filter)
}

// Get returns a single request to any authenticated caller.
func (s *DonationService) Get(ctx context.Context, identity domain.Identity, id string) (*domain.DonationRequest, error) {
	if _, err := s.guard.Enforce(ctx, identity); err != nil {
		return nil, err
	}
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "donation request", map[string]any{"id": id})
	}
	return req, nil
}

// Update merges patch into the request. The requester, volunteers and admins
// may update; a status change must be a valid transition.
func (s *DonationService) Update(ctx context.Context, identity domain.Identity, id string, patch domain.DonationRequestPatch) (*domain.DonationRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "donation request", map[string]any{"id": id})
	}
	if _, err := s.guard.Enforce(ctx, identity, auth.RequireOwnerOrRole(req.RequesterEmail, domain.RoleVolunteer)); err != nil {
		return nil, err
	}

	oldStatus := req.Status
	if patch.Status != nil && !domain.CanTransition(oldStatus, *patch.Status) {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"from": oldStatus,
			"to":   *patch.Status,
		})
	}

	patch.Apply(req)
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, notFound(err, "donation request", map[string]any{"id": id})
	}

	s.publishUpdate(ctx, identity, req, oldStatus)
	return req, nil
}

// Commit records the caller as the donor for a pending request and moves it to inprogress.
func (s *DonationService) Commit(ctx context.Context, identity domain.Identity, id string) (*domain.DonationRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "donation request", map[string]any{"id": id})
	}
	subject, err := s.guard.Enforce(ctx, identity, auth.RequireActive())
	if err != nil {
		return nil, err
	}
	if req.OwnedBy(identity.Email) {
		return nil, apperrors.NewForbidden("cannot donate to own request")
	}
	if req.Status != domain.DonationStatusPending {
		return nil, apperrors.NewValidationError("donation request is not pending", map[string]any{"status": req.Status})
	}

	oldStatus := req.Status
	req.Status = domain.DonationStatusInProgress
	req.DonorInfo = &domain.DonorInfo{Name: subject.User.Name, Email: subject.User.Email}
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, notFound(err, "donation request", map[string]any{"id": id})
	}

	s.publishUpdate(ctx, identity, req, oldStatus)
	return req, nil
}

// Delete removes the request. Same authorization as Update.
func (s *DonationService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "donation request", map[string]any{"id": id})
	}
	if _, err := s.guard.Enforce(ctx, identity, auth.RequireOwnerOrRole(req.RequesterEmail, domain.RoleVolunteer)); err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		return notFound(err, "donation request", map[string]any{"id": id})
	}

	s.logger.Info("donation request deleted", zap.String("request_id", id), zap.String("actor", identity.Email))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventDonationRequestDeleted,
		EntityID:   id,
		ActorEmail: identity.Email,
	})
	return nil
}

// Count returns the number of stored requests.
func (s *DonationService) Count(ctx context.Context) (int64, error) {
	return s.requests.Count(ctx)
}

func (s *DonationService) publishUpdate(ctx context.Context, identity domain.Identity, req *domain.DonationRequest, oldStatus domain.DonationStatus) {
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventDonationRequestUpdated,
		EntityID:   req.ID,
		ActorEmail: identity.Email,
	})
	if oldStatus == req.Status {
		return
	}
	s.logger.Info("donation status changed",
		zap.String("request_id", req.ID),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(req.Status)))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventDonationRequestStatusChanged,
		EntityID:   req.ID,
		ActorEmail: identity.Email,
		Payload:    events.DonationStatusChangedPayload{OldStatus: oldStatus, NewStatus: req.Status},
	})
}
