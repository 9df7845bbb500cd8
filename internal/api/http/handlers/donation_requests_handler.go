package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/donation-service/internal/api/dto"
	"github.com/spec-kit/donation-service/internal/service"
	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

// DonationRequestsHandler manages donation request endpoints.
type DonationRequestsHandler struct {
	requests *service.DonationService
}

// NewDonationRequestsHandler constructs handler.
func NewDonationRequestsHandler(requests *service.DonationService) *DonationRequestsHandler {
	return &DonationRequestsHandler{requests: requests}
}

func decodeDonationBody(c *fiber.Ctx) (*dto.DonationRequestBody, error) {
	body := c.Body()
	if len(body) == 0 {
		body = []byte("{}")
	}
	parsed, err := dto.DecodeDonationRequestBody(body)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	return parsed, nil
}

// Create handles POST /donation-requests.
func (h *DonationRequestsHandler) Create(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	body, err := decodeDonationBody(c)
	if err != nil {
		return err
	}
	req, err := h.requests.Create(c.UserContext(), identity, service.DonationRequestInput{
		RequesterEmail: deref(body.RequesterEmail),
		RequesterName:  deref(body.RequesterName),
		RecipientName:  deref(body.RecipientName),
		BloodGroup:     deref(body.BloodGroup),
		District:       deref(body.District),
		Upazila:        deref(body.Upazila),
		Hospital:       deref(body.Hospital),
		Address:        deref(body.Address),
		DonationDate:   deref(body.DonationDate),
		DonationTime:   deref(body.DonationTime),
		Message:        deref(body.Message),
		Extra:          body.Extra,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDonationRequestResponse(req))
}

// ListPublic handles GET /donation-requests/public.
func (h *DonationRequestsHandler) ListPublic(c *fiber.Ctx) error {
	reqs, err := h.requests.ListPublicPending(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDonationRequestResponses(reqs))
}

// ListMine handles GET /donation-requests?email=.
func (h *DonationRequestsHandler) ListMine(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	reqs, err := h.requests.ListMine(c.UserContext(), identity, c.Query("email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDonationRequestResponses(reqs))
}

// ListAll handles GET /donation-requests/all?status=.
func (h *DonationRequestsHandler) ListAll(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	reqs, err := h.requests.ListAll(c.UserContext(), identity, c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDonationRequestResponses(reqs))
}

// Get handles GET /donation-requests/:id.
func (h *DonationRequestsHandler) Get(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	req, err := h.requests.Get(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDonationRequestResponse(req))
}

// Update handles PATCH /donation-requests/:id.
func (h *DonationRequestsHandler) Update(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	body, err := decodeDonationBody(c)
	if err != nil {
		return err
	}
	req, err := h.requests.Update(c.UserContext(), identity, c.Params("id"), body.Patch())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDonationRequestResponse(req))
}

// Donate handles POST /donation-requests/:id/donate.
func (h *DonationRequestsHandler) Donate(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	req, err := h.requests.Commit(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDonationRequestResponse(req))
}

// Delete handles DELETE /donation-requests/:id.
func (h *DonationRequestsHandler) Delete(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	if err := h.requests.Delete(c.UserContext(), identity, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": true, "_id": id})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
