package handler

import "github.com/contacthub/backend/internal/application/identity"

// =====================
// Auth Request DTOs
// =====================

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200" example:"ada@example.com"`
	Password string `json:"password" binding:"required,min=8,max=128" example:"s3cretpass"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=200" example:"ada@example.com"`
	Password string `json:"password" binding:"required,min=8,max=128" example:"s3cretpass"`
}

// =====================
// Auth Response DTOs
// =====================

// UserResponse represents user data in auth responses
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Active    bool   `json:"active"`
	Verified  bool   `json:"verified"`
}

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type" example:"bearer"`
	ExpiresIn   int64        `json:"expires_in" example:"1800"`
	User        UserResponse `json:"user"`
}

// LogoutResponse represents the response body for logout
type LogoutResponse struct {
	Message string `json:"message"`
}

// VerifyEmailResponse represents the response body for email verification
type VerifyEmailResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

func toUserResponse(u identity.UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Active:    u.Active,
		Verified:  u.Verified,
	}
}
