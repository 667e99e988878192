package contacts

import (
	"github.com/contacthub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Contact
const AggregateTypeContact = "Contact"

// Contact domain event types
const (
	EventTypeContactCreated = "ContactCreated"
	EventTypeContactUpdated = "ContactUpdated"
	EventTypeContactDeleted = "ContactDeleted"
)

// ContactCreatedEvent is published when a contact is created
type ContactCreatedEvent struct {
	shared.BaseDomainEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Email   string    `json:"email"`
}

// NewContactCreatedEvent creates a new ContactCreatedEvent
func NewContactCreatedEvent(contact *Contact) *ContactCreatedEvent {
	return &ContactCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactCreated, AggregateTypeContact, contact.ID),
		OwnerID:         contact.OwnerID,
		Email:           contact.Email,
	}
}

// ContactUpdatedEvent is published when a contact is modified
type ContactUpdatedEvent struct {
	shared.BaseDomainEvent
	OwnerID uuid.UUID `json:"owner_id"`
}

// NewContactUpdatedEvent creates a new ContactUpdatedEvent
func NewContactUpdatedEvent(contact *Contact) *ContactUpdatedEvent {
	return &ContactUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactUpdated, AggregateTypeContact, contact.ID),
		OwnerID:         contact.OwnerID,
	}
}

// ContactDeletedEvent is published when a contact is removed
type ContactDeletedEvent struct {
	shared.BaseDomainEvent
	OwnerID uuid.UUID `json:"owner_id"`
}

// NewContactDeletedEvent creates a new ContactDeletedEvent
func NewContactDeletedEvent(contactID, ownerID uuid.UUID) *ContactDeletedEvent {
	return &ContactDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactDeleted, AggregateTypeContact, contactID),
		OwnerID:         ownerID,
	}
}
