package models

import (
	"time"

	"github.com/contacthub/backend/internal/domain/identity"
	"github.com/contacthub/backend/internal/domain/shared"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email             string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash      string              `gorm:"type:varchar(255);not null"`
	AvatarURL         string              `gorm:"type:varchar(500)"`
	Status            identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Verified          bool                `gorm:"not null;default:false"`
	VerificationToken string              `gorm:"type:varchar(100);index"`
	LastLoginAt       *time.Time          `gorm:"index"`
	LastLoginIP       string              `gorm:"type:varchar(45)"`
	PasswordChangedAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		AvatarURL:         m.AvatarURL,
		Status:            m.Status,
		Verified:          m.Verified,
		VerificationToken: m.VerificationToken,
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
		PasswordChangedAt: m.PasswordChangedAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.AvatarURL = u.AvatarURL
	m.Status = u.Status
	m.Verified = u.Verified
	m.VerificationToken = u.VerificationToken
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.PasswordChangedAt = u.PasswordChangedAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
