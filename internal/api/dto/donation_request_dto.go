package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/donation-service/internal/domain"
)

// Keys interpreted by the service. Everything else in a request body is kept
// as free-form attributes.
var donationRequestFields = map[string]struct{}{
	"_id":            {},
	"id":             {},
	"requesterEmail": {},
	"requesterName":  {},
	"recipientName":  {},
	"bloodGroup":     {},
	"district":       {},
	"upazila":        {},
	"hospital":       {},
	"address":        {},
	"donationDate":   {},
	"donationTime":   {},
	"message":        {},
	"donationStatus": {},
	"donorInfo":      {},
	"createdAt":      {},
	"updatedAt":      {},
}

// DonorInfoDTO identifies the committed donor.
type DonorInfoDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DonationRequestBody is used for both creation and patches. Absent keys decode to nil.
type DonationRequestBody struct {
	RequesterEmail *string        `json:"requesterEmail"`
	RequesterName  *string        `json:"requesterName"`
	RecipientName  *string        `json:"recipientName"`
	BloodGroup     *string        `json:"bloodGroup"`
	District       *string        `json:"district"`
	Upazila        *string        `json:"upazila"`
	Hospital       *string        `json:"hospital"`
	Address        *string        `json:"address"`
	DonationDate   *string        `json:"donationDate"`
	DonationTime   *string        `json:"donationTime"`
	Message        *string        `json:"message"`
	DonationStatus *string        `json:"donationStatus"`
	DonorInfo      *DonorInfoDTO  `json:"donorInfo"`
	Extra          map[string]any `json:"-"`
}

// DecodeDonationRequestBody parses a JSON object, separating known fields from extras.
func DecodeDonationRequestBody(body []byte) (*DonationRequestBody, error) {
	var parsed DonationRequestBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	for key, value := range raw {
		if _, known := donationRequestFields[key]; known {
			continue
		}
		if parsed.Extra == nil {
			parsed.Extra = make(map[string]any)
		}
		parsed.Extra[key] = value
	}
	return &parsed, nil
}

// Patch converts the body into a field-level merge.
func (b *DonationRequestBody) Patch() domain.DonationRequestPatch {
	patch := domain.DonationRequestPatch{
		RequesterName: b.RequesterName,
		RecipientName: b.RecipientName,
		BloodGroup:    b.BloodGroup,
		District:      b.District,
		Upazila:       b.Upazila,
		Hospital:      b.Hospital,
		Address:       b.Address,
		DonationDate:  b.DonationDate,
		DonationTime:  b.DonationTime,
		Message:       b.Message,
		Extra:         b.Extra,
	}
	if b.DonationStatus != nil {
		status := domain.DonationStatus(*b.DonationStatus)
		patch.Status = &status
	}
	if b.DonorInfo != nil {
		patch.DonorInfo = &domain.DonorInfo{Name: b.DonorInfo.Name, Email: domain.NormalizeEmail(b.DonorInfo.Email)}
	}
	return patch
}

// DonationRequestResponse mirrors a stored request, with free-form attributes flattened in.
type DonationRequestResponse struct {
	ID             string         `json:"_id"`
	RequesterEmail string         `json:"requesterEmail"`
	RequesterName  string         `json:"requesterName"`
	RecipientName  string         `json:"recipientName"`
	BloodGroup     string         `json:"bloodGroup"`
	District       string         `json:"district"`
	Upazila        string         `json:"upazila"`
	Hospital       string         `json:"hospital"`
	Address        string         `json:"address"`
	DonationDate   string         `json:"donationDate"`
	DonationTime   string         `json:"donationTime"`
	Message        string         `json:"message"`
	DonationStatus string         `json:"donationStatus"`
	DonorInfo      *DonorInfoDTO  `json:"donorInfo,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Extra          map[string]any `json:"-"`
}

// MarshalJSON writes extras alongside the known fields; known fields win on collision.
func (r DonationRequestResponse) MarshalJSON() ([]byte, error) {
	type plain DonationRequestResponse
	known, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return known, nil
	}
	merged := make(map[string]any, len(r.Extra)+16)
	for k, v := range r.Extra {
		merged[k] = v
	}
	var fields map[string]any
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// NewDonationRequestResponse maps a domain request.
func NewDonationRequestResponse(r *domain.DonationRequest) DonationRequestResponse {
	resp := DonationRequestResponse{
		ID:             r.ID,
		RequesterEmail: r.RequesterEmail,
		RequesterName:  r.RequesterName,
		RecipientName:  r.RecipientName,
		BloodGroup:     r.BloodGroup,
		District:       r.District,
		Upazila:        r.Upazila,
		Hospital:       r.Hospital,
		Address:        r.Address,
		DonationDate:   r.DonationDate,
		DonationTime:   r.DonationTime,
		Message:        r.Message,
		DonationStatus: string(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Extra:          r.Extra,
	}
	if r.DonorInfo != nil {
		resp.DonorInfo = &DonorInfoDTO{Name: r.DonorInfo.Name, Email: r.DonorInfo.Email}
	}
	return resp
}

// NewDonationRequestResponses maps a slice of requests.
func NewDonationRequestResponses(reqs []domain.DonationRequest) []DonationRequestResponse {
	resp := make([]DonationRequestResponse, 0, len(reqs))
	for i := range reqs {
		resp = append(resp, NewDonationRequestResponse(&reqs[i]))
	}
	return resp
}
