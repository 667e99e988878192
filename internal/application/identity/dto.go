package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/contacthub/backend/internal/domain/identity"
)

// RegisterInput contains the input for user registration
type RegisterInput struct {
	Email    string
	Password string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
	User        UserInfo
}

// UserInfo contains user information returned by the API
type UserInfo struct {
	ID        uuid.UUID
	Email     string
	AvatarURL string
	Active    bool
	Verified  bool
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID         uuid.UUID
	TokenJTI       string
	TokenExpiresAt time.Time
}

// GetCurrentUserInput contains the input for getting current user info
type GetCurrentUserInput struct {
	UserID uuid.UUID
}

// VerifyEmailInput contains the input for email verification
type VerifyEmailInput struct {
	Token string
}

// UpdateAvatarInput contains the input for an avatar upload
type UpdateAvatarInput struct {
	UserID      uuid.UUID
	Filename    string
	ContentType string
	Data        []byte
}

// ToUserInfo maps a domain user to the outward user representation
func ToUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Active:    user.IsActive(),
		Verified:  user.Verified,
	}
}
