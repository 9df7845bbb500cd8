package dto

import (
	"time"

	"github.com/spec-kit/donation-service/internal/domain"
)

// AmountRequest is the body of POST /create-payment-intent.
type AmountRequest struct {
	Amount float64 `json:"amount"`
}

// PaymentIntentResponse carries the processor client secret.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// FundingRequest is the body of POST /fundings.
type FundingRequest struct {
	Amount        float64 `json:"amount"`
	DonorName     string  `json:"donorName"`
	TransactionID string  `json:"transactionId"`
}

// FundingResponse mirrors a stored funding.
type FundingResponse struct {
	ID            string    `json:"_id"`
	DonorEmail    string    `json:"donorEmail"`
	DonorName     string    `json:"donorName"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transactionId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewFundingResponse maps a domain funding.
func NewFundingResponse(f *domain.Funding) FundingResponse {
	return FundingResponse{
		ID:            f.ID,
		DonorEmail:    f.DonorEmail,
		DonorName:     f.DonorName,
		Amount:        f.Amount,
		Currency:      f.Currency,
		TransactionID: f.TransactionID,
		Timestamp:     f.Timestamp,
	}
}

// StatsResponse is the admin dashboard payload.
type StatsResponse struct {
	Users      int64   `json:"users"`
	Requests   int64   `json:"requests"`
	TotalFunds float64 `json:"totalFunds"`
}

// ImageUploadRequest is the body of POST /upload-image.
type ImageUploadRequest struct {
	Image string `json:"image"`
}

// ImageUploadResponse reports the hosted URL.
type ImageUploadResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Message  string `json:"message,omitempty"`
}
