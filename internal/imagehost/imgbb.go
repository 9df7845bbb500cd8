package imagehost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ImgBB uploads images to imgbb.com.
type ImgBB struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
}

// NewImgBB returns nil when no API key is configured.
func NewImgBB(endpoint, apiKey string, timeout time.Duration) *ImgBB {
	if apiKey == "" {
		return nil
	}
	return &ImgBB{endpoint: endpoint, apiKey: apiKey, timeout: timeout}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Upload sends image (base64 payload or remote URL) and returns the hosted URL.
func (h *ImgBB) Upload(ctx context.Context, image string) (string, error) {
	timeout := h.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout || timeout <= 0 {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("image", image)

	agent := fiber.Post(h.endpoint + "?key=" + url.QueryEscape(h.apiKey))
	agent.Timeout(timeout)
	agent.Form(args)
	if err := agent.Parse(); err != nil {
		return "", fmt.Errorf("build imgbb request: %w", err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	if status != fiber.StatusOK {
		return "", fmt.Errorf("imgbb responded %d", status)
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode imgbb response: %w", err)
	}
	if !resp.Success || resp.Data.URL == "" {
		return "", errors.New("imgbb rejected upload")
	}
	return resp.Data.URL, nil
}
