package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/donation-service/internal/auth"
	"github.com/spec-kit/donation-service/internal/domain"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

func requireIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthorized("unauthorized access")
	}
	return identity, nil
}
