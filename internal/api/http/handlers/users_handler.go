package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/donation-service/internal/api/dto"
	"github.com/spec-kit/donation-service/internal/domain"
	"github.com/spec-kit/donation-service/internal/service"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

// UsersHandler exposes the user directory.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, created, err := h.users.Register(c.UserContext(), service.RegisterInput{
		Email:      req.Email,
		Name:       req.Name,
		BloodGroup: req.BloodGroup,
		District:   req.District,
		Upazila:    req.Upazila,
		Avatar:     req.Avatar,
	})
	if err != nil {
		return err
	}
	if !created {
		return c.JSON(fiber.Map{"message": "user already exists"})
	}
	return c.JSON(dto.NewUserResponse(user))
}

// List handles GET /users?status=.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	users, err := h.users.List(c.UserContext(), identity, c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponses(users))
}

// Get handles GET /users/:email.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), identity, c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// UpdateProfile handles PATCH /users/:email.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.UpdateProfile(c.UserContext(), identity, c.Params("email"), req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// MakeAdmin handles PATCH /users/admin/:id.
func (h *UsersHandler) MakeAdmin(c *fiber.Ctx) error {
	return h.setRole(c, domain.RoleAdmin)
}

// MakeVolunteer handles PATCH /users/volunteer/:id.
func (h *UsersHandler) MakeVolunteer(c *fiber.Ctx) error {
	return h.setRole(c, domain.RoleVolunteer)
}

func (h *UsersHandler) setRole(c *fiber.Ctx, role domain.Role) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.SetRole(c.UserContext(), identity, c.Params("id"), role)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// SetStatus handles PATCH /users/status/:id.
func (h *UsersHandler) SetStatus(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.SetStatus(c.UserContext(), identity, c.Params("id"), domain.UserStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
