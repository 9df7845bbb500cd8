package dto

import (
	"time"

	"github.com/spec-kit/donation-service/internal/domain"
)

// TokenRequest carries the identity claim to sign.
type TokenRequest struct {
	Email string `json:"email"`
}

// TokenResponse is returned by POST /jwt.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserRegisterRequest payload for new users. Role and status are not accepted.
type UserRegisterRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	BloodGroup string `json:"bloodGroup"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
	Avatar     string `json:"avatar"`
}

// ProfileUpdateRequest carries the self-editable profile fields.
type ProfileUpdateRequest struct {
	Name       *string `json:"name"`
	BloodGroup *string `json:"bloodGroup"`
	District   *string `json:"district"`
	Upazila    *string `json:"upazila"`
	Avatar     *string `json:"avatar"`
}

// Patch converts the request into a domain patch.
func (r ProfileUpdateRequest) Patch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Name:       r.Name,
		BloodGroup: r.BloodGroup,
		District:   r.District,
		Upazila:    r.Upazila,
		Avatar:     r.Avatar,
	}
}

// UserStatusRequest is the body of PATCH /users/status/:id.
type UserStatusRequest struct {
	Status string `json:"status"`
}

// UserResponse mirrors a stored user.
type UserResponse struct {
	ID         string    `json:"_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	BloodGroup string    `json:"bloodGroup"`
	District   string    `json:"district"`
	Upazila    string    `json:"upazila"`
	Avatar     string    `json:"avatar"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		BloodGroup: u.BloodGroup,
		District:   u.District,
		Upazila:    u.Upazila,
		Avatar:     u.Avatar,
		Role:       string(u.Role),
		Status:     string(u.Status),
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []domain.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, NewUserResponse(&users[i]))
	}
	return resp
}
