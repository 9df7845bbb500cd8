package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/donation-service/internal/api/dto"
	"github.com/spec-kit/donation-service/internal/service"
)

// StatsHandler serves the admin dashboard.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// AdminStats handles GET /admin-stats.
func (h *StatsHandler) AdminStats(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	stats, err := h.stats.ComputeStats(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.StatsResponse{
		Users:      stats.Users,
		Requests:   stats.Requests,
		TotalFunds: stats.TotalFunds,
	})
}
