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

// UserService is the user directory: registration, profiles and moderation.
type UserService struct {
	users      repository.UserRepository
	guard      *auth.Guard
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Guard      *auth.Guard
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput is the self-registration payload. Role and status are not
// accepted from clients.
type RegisterInput struct {
	Email      string
	Name       string
	BloodGroup string
	District   string
	Upazila    string
	Avatar     string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:      deps.UserRepo,
		guard:      deps.Guard,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// Register creates the account for in.Email, or returns the existing one
// unchanged. created reports which happened.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (user *domain.User, created bool, err error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, false, apperrors.NewValidationError("valid email is required", nil)
	}

	user = &domain.User{
		ID:         domain.NewUserID(),
		Email:      email,
		Name:       strings.TrimSpace(in.Name),
		BloodGroup: strings.TrimSpace(in.BloodGroup),
		District:   strings.TrimSpace(in.District),
		Upazila:    strings.TrimSpace(in.Upazila),
		Avatar:     strings.TrimSpace(in.Avatar),
		Role:       domain.RoleDonor,
		Status:     domain.UserStatusActive,
	}
	created, err = s.users.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info("user registered", zap.String("email", email))
	}
	return user, created, nil
}

// Get returns the caller's own record.
func (s *UserService) Get(ctx context.Context, identity domain.Identity, email string) (*domain.User, error) {
	if _, err := s.guard.Enforce(ctx, identity, auth.RequireSelf(email)); err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, notFound(err, "user", map[string]any{"email": email})
	}
	return user, nil
}

// List returns all users, optionally narrowed to one status. Admin only.
func (s *UserService) List(ctx context.Context, identity domain.Identity, status string) ([]domain.User, error) {
	if _, err := s.guard.Enforce(ctx, identity, auth.RequireAdmin()); err != nil {
		return nil, err
	}
	filter := repository.UserFilter{}
	if status != "" {
		st := domain.UserStatus(status)
		if !st.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": status})
		}
		filter.Status = &st
	}
	return s.users.List(ctx, filter)
}

// UpdateProfile edits the caller's own profile fields. Role and status are never touched.
func (s *UserService) UpdateProfile(ctx context.Context, identity domain.Identity, email string, patch domain.ProfilePatch) (*domain.User, error) {
	if _, err := s.guard.Enforce(ctx, identity, auth.RequireSelf(email)); err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, notFound(err, "user", map[string]any{"email": email})
	}
	patch.Apply(user)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFound(err, "user", map[string]any{"email": email})
	}
	return user, nil
}

// SetRole promotes the user with the given id. Only volunteer and admin are
// assignable; demotion to donor is not offered.
func (s *UserService) SetRole(ctx context.Context, identity domain.Identity, id string, role domain.Role) (*domain.User, error) {
	if _, err := s.guard.Enforce(ctx, identity, auth.RequireAdmin()); err != nil {
		return nil, err
	}
	if role != domain.RoleVolunteer && role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("role must be volunteer or admin", map[string]any{"role": role})
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", map[string]any{"id": id})
	}
	oldRole := user.Role
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFound(err, "user", map[string]any{"id": id})
	}

	s.logger.Info("user role changed",
		zap.String("actor", identity.Email),
		zap.String("user_id", id),
		zap.String("role", string(role)))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventUserRoleChanged,
		EntityID:   user.ID,
		ActorEmail: identity.Email,
		Payload:    events.UserRoleChangedPayload{Email: user.Email, OldRole: oldRole, NewRole: role},
	})
	return user, nil
}

// SetStatus blocks or unblocks the user with the given id. Admin only.
func (s *UserService) SetStatus(ctx context.Context, identity domain.Identity, id string, status domain.UserStatus) (*domain.User, error) {
	if _, err := s.guard.Enforce(ctx, identity, auth.RequireAdmin()); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status must be active or blocked", map[string]any{"status": status})
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", map[string]any{"id": id})
	}
	oldStatus := user.Status
	user.Status = status
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFound(err, "user", map[string]any{"id": id})
	}

	s.logger.Info("user status changed",
		zap.String("actor", identity.Email),
		zap.String("user_id", id),
		zap.String("status", string(status)))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventUserStatusChanged,
		EntityID:   user.ID,
		ActorEmail: identity.Email,
		Payload:    events.UserStatusChangedPayload{Email: user.Email, OldStatus: oldStatus, NewStatus: status},
	})
	return user, nil
}

// Count returns the number of registered users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}
