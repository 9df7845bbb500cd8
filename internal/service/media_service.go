package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/donation-service/internal/auth"
	"github.com/spec-kit/donation-service/internal/domain"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

// ImageUploader stores an image with an external host and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, image string) (url string, err error)
}

// MediaService proxies avatar and request image uploads.
type MediaService struct {
	uploader ImageUploader
	guard    *auth.Guard
	logger   *zap.Logger
}

// NewMediaService constructs the service.
func NewMediaService(guard *auth.Guard, uploader ImageUploader, logger *zap.Logger) *MediaService {
	return &MediaService{uploader: uploader, guard: guard, logger: loggerOrNop(logger)}
}

// UploadImage forwards a base64 encoded image (or image URL) to the host.
func (s *MediaService) UploadImage(ctx context.Context, identity domain.Identity, image string) (string, error) {
	if _, err := s.guard.Enforce(ctx, identity); err != nil {
		return "", err
	}
	image = strings.TrimSpace(image)
	if image == "" {
		return "", apperrors.NewValidationError("image is required", nil)
	}
	if s.uploader == nil {
		return "", apperrors.NewExternalServiceFailure("Image upload failed", nil)
	}
	url, err := s.uploader.Upload(ctx, image)
	if err != nil {
		s.logger.Error("image upload failed", zap.String("actor", identity.Email), zap.Error(err))
		return "", apperrors.NewExternalServiceFailure("Image upload failed", err)
	}
	return url, nil
}
