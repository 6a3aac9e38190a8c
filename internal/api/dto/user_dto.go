package dto

import (
	"time"

	"github.com/connect4change/platform/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	Phone     string         `json:"phone"`
	Role      domain.Role    `json:"role"`
	Profile   domain.Profile `json:"profile"`
	Location  domain.Point   `json:"location"`
	Skills    []string       `json:"skills"`
	Interests []string       `json:"interests"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is a profile without the credential hash.
type UserResponse struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Role      domain.Role    `json:"role"`
	Profile   domain.Profile `json:"profile"`
	Location  domain.Point   `json:"location"`
	Skills    []string       `json:"skills,omitempty"`
	Interests []string       `json:"interests,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// UpdateProfileRequest is a partial merge; omitted fields keep their value.
type UpdateProfileRequest struct {
	Username  *string         `json:"username"`
	Email     *string         `json:"email"`
	Phone     *string         `json:"phone"`
	Profile   *domain.Profile `json:"profile"`
	Location  *domain.Point   `json:"location"`
	Skills    []string        `json:"skills"`
	Interests []string        `json:"interests"`
}

// NewUserResponse maps a domain user to its public shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		Profile:   user.Profile,
		Location:  user.Location,
		Skills:    user.Skills,
		Interests: user.Interests,
		CreatedAt: user.CreatedAt,
	}
}
