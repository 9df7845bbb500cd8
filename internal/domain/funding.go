package domain

import (
	"math"
	"time"
)

// Funding is an append-only record of a monetary contribution.
type Funding struct {
	ID            string
	DonorEmail    string
	DonorName     string
	Amount        float64
	Currency      string
	TransactionID string
	Timestamp     time.Time
}

// MinorUnits converts a major-unit amount (e.g. dollars) into the smallest
// currency unit expected by the payment processor.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromMinorUnits converts back to major units.
func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	Users      int64
	Requests   int64
	TotalFunds float64
}
