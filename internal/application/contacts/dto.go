package contacts

import (
	"time"

	"github.com/google/uuid"

	"github.com/contacthub/backend/internal/domain/contacts"
)

// CreateContactInput contains the input for creating a contact
type CreateContactInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Birthday    *time.Time
	Notes       string
}

// UpdateContactInput contains the input for a partial contact update.
// Nil fields keep their current values.
type UpdateContactInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Birthday    *time.Time
	Notes       *string
}

// ListContactsInput contains pagination and per-column filters for listing
type ListContactsInput struct {
	Skip      int
	Limit     int
	FirstName string
	LastName  string
	Email     string
}

// SearchContactsInput contains a free-text query matched across
// first name, last name, and email
type SearchContactsInput struct {
	Query string
	Skip  int
	Limit int
}

// UpcomingBirthdaysInput selects contacts whose birthday falls in the
// next Days calendar days
type UpcomingBirthdaysInput struct {
	Days  int
	Skip  int
	Limit int
}

// ContactResponse is the outward representation of a contact
type ContactResponse struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	Birthday    *time.Time `json:"birthday,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ContactListResult is the pagination envelope for contact listings
type ContactListResult struct {
	TotalCount int64             `json:"total_count"`
	Skip       int               `json:"skip"`
	Limit      int               `json:"limit"`
	Contacts   []ContactResponse `json:"contacts"`
}

// ToContactResponse maps a domain contact to its outward representation
func ToContactResponse(contact *contacts.Contact) ContactResponse {
	return ContactResponse{
		ID:          contact.ID,
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		Email:       contact.Email,
		PhoneNumber: contact.PhoneNumber,
		Birthday:    contact.Birthday,
		Notes:       contact.Notes,
		CreatedAt:   contact.CreatedAt,
		UpdatedAt:   contact.UpdatedAt,
	}
}

// ToContactResponses maps a slice of domain contacts
func ToContactResponses(items []contacts.Contact) []ContactResponse {
	responses := make([]ContactResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToContactResponse(&items[i]))
	}
	return responses
}
