package identity

import (
	"time"

	"github.com/contacthub/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserRegistered      = "UserRegistered"
	EventTypeUserVerified        = "UserVerified"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
	EventTypeUserAvatarChanged   = "UserAvatarChanged"
	EventTypeUserStatusChanged   = "UserStatusChanged"
)

// UserRegisteredEvent is published when a new account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email  string     `json:"email"`
	Status UserStatus `json:"status"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Status:          user.Status,
	}
}

// UserVerifiedEvent is published when an account confirms its verification token
type UserVerifiedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserVerifiedEvent creates a new UserVerifiedEvent
func NewUserVerifiedEvent(user *User) *UserVerifiedEvent {
	return &UserVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserVerified, AggregateTypeUser, user.ID),
		Email:           user.Email,
	}
}

// UserPasswordChangedEvent is published when a user's password is changed
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Email     string    `json:"email"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	changedAt := time.Now()
	if user.PasswordChangedAt != nil {
		changedAt = *user.PasswordChangedAt
	}
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, user.ID),
		Email:           user.Email,
		ChangedAt:       changedAt,
	}
}

// UserAvatarChangedEvent is published when a user's avatar is replaced
type UserAvatarChangedEvent struct {
	shared.BaseDomainEvent
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// NewUserAvatarChangedEvent creates a new UserAvatarChangedEvent
func NewUserAvatarChangedEvent(user *User) *UserAvatarChangedEvent {
	return &UserAvatarChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserAvatarChanged, AggregateTypeUser, user.ID),
		Email:           user.Email,
		AvatarURL:       user.AvatarURL,
	}
}

// UserStatusChangedEvent is published when a user's status changes
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	Email     string     `json:"email"`
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

// NewUserStatusChangedEvent creates a new UserStatusChangedEvent
func NewUserStatusChangedEvent(user *User, oldStatus, newStatus UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserStatusChanged, AggregateTypeUser, user.ID),
		Email:           user.Email,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
