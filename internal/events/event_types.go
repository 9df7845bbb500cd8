package events

import (
	"time"

	"github.com/spec-kit/donation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDonationRequestCreated       EventType = "donation_request_created"
	EventDonationRequestUpdated       EventType = "donation_request_updated"
	EventDonationRequestStatusChanged EventType = "donation_request_status_changed"
	EventDonationRequestDeleted       EventType = "donation_request_deleted"
	EventUserRoleChanged              EventType = "user_role_changed"
	EventUserStatusChanged            EventType = "user_status_changed"
	EventFundingRecorded              EventType = "funding_recorded"
)

// AllEventTypes lists every event the service emits.
var AllEventTypes = []EventType{
	EventDonationRequestCreated,
	EventDonationRequestUpdated,
	EventDonationRequestStatusChanged,
	EventDonationRequestDeleted,
	EventUserRoleChanged,
	EventUserStatusChanged,
	EventFundingRecorded,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EntityID   string      `json:"entity_id"`
	ActorEmail string      `json:"actor_email"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// DonationRequestCreatedPayload payload.
type DonationRequestCreatedPayload struct {
	RequesterEmail string `json:"requester_email"`
	BloodGroup     string `json:"blood_group"`
	District       string `json:"district"`
	Upazila        string `json:"upazila"`
}

// DonationStatusChangedPayload payload.
type DonationStatusChangedPayload struct {
	OldStatus domain.DonationStatus `json:"old_status"`
	NewStatus domain.DonationStatus `json:"new_status"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	Email   string      `json:"email"`
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	Email     string            `json:"email"`
	OldStatus domain.UserStatus `json:"old_status"`
	NewStatus domain.UserStatus `json:"new_status"`
}

// FundingRecordedPayload payload.
type FundingRecordedPayload struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}
