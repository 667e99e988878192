package contacts

import (
	"regexp"
	"strings"
	"time"

	"github.com/contacthub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Contact represents a single address-book entry.
// It is the aggregate root for contact operations and is always owned by
// exactly one user; only the owner can read or mutate it.
type Contact struct {
	shared.OwnedAggregateRoot
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Birthday    *time.Time // date only, time-of-day ignored
	Notes       string
}

// NewContact creates a new contact for the given owner
func NewContact(ownerID uuid.UUID, firstName, lastName, email, phoneNumber string) (*Contact, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if err := validateName(firstName, "First name"); err != nil {
		return nil, err
	}
	if err := validateName(lastName, "Last name"); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateContactEmail(email); err != nil {
		return nil, err
	}
	if err := validatePhone(phoneNumber); err != nil {
		return nil, err
	}

	contact := &Contact{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		FirstName:          strings.TrimSpace(firstName),
		LastName:           strings.TrimSpace(lastName),
		Email:              email,
		PhoneNumber:        strings.TrimSpace(phoneNumber),
	}

	contact.AddDomainEvent(NewContactCreatedEvent(contact))

	return contact, nil
}

// Rename changes the contact's first and last name
func (c *Contact) Rename(firstName, lastName string) error {
	if err := validateName(firstName, "First name"); err != nil {
		return err
	}
	if err := validateName(lastName, "Last name"); err != nil {
		return err
	}

	c.FirstName = strings.TrimSpace(firstName)
	c.LastName = strings.TrimSpace(lastName)
	c.touch()

	c.AddDomainEvent(NewContactUpdatedEvent(c))

	return nil
}

// SetEmail changes the contact's email address
func (c *Contact) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateContactEmail(email); err != nil {
		return err
	}

	c.Email = email
	c.touch()

	c.AddDomainEvent(NewContactUpdatedEvent(c))

	return nil
}

// SetPhoneNumber changes the contact's phone number
func (c *Contact) SetPhoneNumber(phone string) error {
	if err := validatePhone(phone); err != nil {
		return err
	}

	c.PhoneNumber = strings.TrimSpace(phone)
	c.touch()

	c.AddDomainEvent(NewContactUpdatedEvent(c))

	return nil
}

// SetBirthday sets or clears the contact's birthday.
// Only the calendar date is kept; any time-of-day component is dropped.
func (c *Contact) SetBirthday(birthday *time.Time) error {
	if birthday != nil {
		if birthday.After(time.Now()) {
			return shared.NewDomainError("INVALID_BIRTHDAY", "Birthday cannot be in the future")
		}
		d := time.Date(birthday.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
		birthday = &d
	}

	c.Birthday = birthday
	c.touch()

	c.AddDomainEvent(NewContactUpdatedEvent(c))

	return nil
}

// SetNotes sets free-form additional information
func (c *Contact) SetNotes(notes string) {
	c.Notes = notes
	c.touch()
}

// FullName returns the contact's display name
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasBirthdayWithin reports whether the contact's birthday (month and day,
// year ignored) falls on any of the next `days` calendar days starting from
// `from` inclusive. The comparison wraps across year end.
func (c *Contact) HasBirthdayWithin(from time.Time, days int) bool {
	if c.Birthday == nil || days <= 0 {
		return false
	}

	bm, bd := c.Birthday.Month(), c.Birthday.Day()
	for i := 0; i < days; i++ {
		d := from.AddDate(0, 0, i)
		if d.Month() == bm && d.Day() == bd {
			return true
		}
	}
	return false
}

// touch marks the contact as modified. The version column advances once per
// persisted save, not per mutator, so several field changes in one update
// still form a single version transition.
func (c *Contact) touch() {
	c.UpdatedAt = time.Now()
}

// Validation functions

const maxNameLength = 50

func validateName(name, label string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", label+" cannot be empty")
	}
	if len(name) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", label+" cannot exceed 50 characters")
	}
	return nil
}

func validateContactEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if len(phone) > 30 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 30 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}
