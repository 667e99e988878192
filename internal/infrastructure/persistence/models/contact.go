package models

import (
	"time"

	"github.com/contacthub/backend/internal/domain/contacts"
)

// ContactModel is the persistence model for the Contact domain entity.
type ContactModel struct {
	OwnedAggregateModel
	FirstName   string     `gorm:"type:varchar(50);not null;index"`
	LastName    string     `gorm:"type:varchar(50);not null;index"`
	Email       string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_contact_owner_email,priority:2"`
	PhoneNumber string     `gorm:"type:varchar(30);not null"`
	Birthday    *time.Time `gorm:"type:date;index"`
	Notes       string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *ContactModel) ToDomain() *contacts.Contact {
	contact := &contacts.Contact{
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Birthday:    m.Birthday,
		Notes:       m.Notes,
	}
	m.PopulateOwnedAggregateRoot(&contact.OwnedAggregateRoot)
	return contact
}

// FromDomain populates the persistence model from a domain Contact entity.
func (m *ContactModel) FromDomain(c *contacts.Contact) {
	m.FromDomainOwnedAggregateRoot(c.OwnedAggregateRoot)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
	m.PhoneNumber = c.PhoneNumber
	m.Birthday = c.Birthday
	m.Notes = c.Notes
}

// ContactModelFromDomain creates a new persistence model from a domain Contact entity.
func ContactModelFromDomain(c *contacts.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}
