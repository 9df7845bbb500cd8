package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/donation-service/internal/api/dto"
	"github.com/spec-kit/donation-service/internal/service"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

// FundingsHandler exposes the funding ledger and payment intents.
type FundingsHandler struct {
	fundings *service.FundingService
}

// NewFundingsHandler constructs handler.
func NewFundingsHandler(fundings *service.FundingService) *FundingsHandler {
	return &FundingsHandler{fundings: fundings}
}

// CreatePaymentIntent handles POST /create-payment-intent.
func (h *FundingsHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	secret, err := h.fundings.CreateChargeIntent(c.UserContext(), identity, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(dto.PaymentIntentResponse{ClientSecret: secret})
}

// Record handles POST /fundings.
func (h *FundingsHandler) Record(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.FundingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	funding, err := h.fundings.RecordFunding(c.UserContext(), identity, service.FundingInput{
		Amount:        req.Amount,
		DonorName:     req.DonorName,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFundingResponse(funding))
}

// List handles GET /fundings?limit=&offset=.
func (h *FundingsHandler) List(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	fundings, err := h.fundings.List(c.UserContext(), identity, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.FundingResponse, 0, len(fundings))
	for i := range fundings {
		resp = append(resp, dto.NewFundingResponse(&fundings[i]))
	}
	return c.JSON(resp)
}
