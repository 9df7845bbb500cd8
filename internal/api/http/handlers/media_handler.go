package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/donation-service/internal/api/dto"
	"github.com/spec-kit/donation-service/internal/service"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

// MediaHandler proxies image uploads.
type MediaHandler struct {
	media *service.MediaService
}

// NewMediaHandler constructs handler.
func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadImage handles POST /upload-image. Upload failures keep the
// {success,message} shape clients already parse.
func (h *MediaHandler) UploadImage(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.ImageUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	url, err := h.media.UploadImage(c.UserContext(), identity, req.Image)
	if errors.Is(err, apperrors.ErrExternalFailure) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ImageUploadResponse{
			Success: false,
			Message: "Image upload failed",
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(dto.ImageUploadResponse{Success: true, ImageURL: url})
}
