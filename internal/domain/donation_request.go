package domain

import "time"

// DonationStatus enumerates lifecycle states for donation requests.
type DonationStatus string

const (
	DonationStatusPending    DonationStatus = "pending"
	DonationStatusInProgress DonationStatus = "inprogress"
	DonationStatusDone       DonationStatus = "done"
	DonationStatusCanceled   DonationStatus = "canceled"
)

// Valid reports whether s is a known donation status.
func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusPending, DonationStatusInProgress, DonationStatusDone, DonationStatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further status change may originate from s.
func (s DonationStatus) Terminal() bool {
	return s == DonationStatusDone || s == DonationStatusCanceled
}

// CanTransition reports whether a request in status from may move to status to.
// Re-applying the current status is always accepted so repeated patches stay harmless.
func CanTransition(from, to DonationStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	return to != DonationStatusPending
}

// DonorInfo identifies the donor who committed to a request.
type DonorInfo struct {
	Name  string
	Email string
}

// DonationRequest is a requester's call for a blood donor.
type DonationRequest struct {
	ID             string
	RequesterEmail string
	RequesterName  string
	RecipientName  string
	BloodGroup     string
	District       string
	Upazila        string
	Hospital       string
	Address        string
	DonationDate   string
	DonationTime   string
	Message        string
	Status         DonationStatus
	DonorInfo      *DonorInfo
	Extra          map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OwnedBy reports whether email is the requester of r.
func (r *DonationRequest) OwnedBy(email string) bool {
	return r.RequesterEmail != "" && r.RequesterEmail == email
}

// DonationRequestPatch is a field-level merge. Nil fields are left untouched and
// Extra keys are merged into the free-form attributes.
type DonationRequestPatch struct {
	RequesterName *string
	RecipientName *string
	BloodGroup    *string
	District      *string
	Upazila       *string
	Hospital      *string
	Address       *string
	DonationDate  *string
	DonationTime  *string
	Message       *string
	Status        *DonationStatus
	DonorInfo     *DonorInfo
	Extra         map[string]any
}

// Apply merges the patch into r. Status is assigned as given; callers validate the transition first.
func (p DonationRequestPatch) Apply(r *DonationRequest) {
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&r.RequesterName, p.RequesterName)
	assign(&r.RecipientName, p.RecipientName)
	assign(&r.BloodGroup, p.BloodGroup)
	assign(&r.District, p.District)
	assign(&r.Upazila, p.Upazila)
	assign(&r.Hospital, p.Hospital)
	assign(&r.Address, p.Address)
	assign(&r.DonationDate, p.DonationDate)
	assign(&r.DonationTime, p.DonationTime)
	assign(&r.Message, p.Message)
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.DonorInfo != nil {
		info := *p.DonorInfo
		r.DonorInfo = &info
	}
	if len(p.Extra) > 0 {
		if r.Extra == nil {
			r.Extra = make(map[string]any, len(p.Extra))
		}
		for k, v := range p.Extra {
			r.Extra[k] = v
		}
	}
}
