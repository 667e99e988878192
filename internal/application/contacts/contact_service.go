package contacts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contacthub/backend/internal/domain/contacts"
	"github.com/contacthub/backend/internal/domain/shared"
	"github.com/contacthub/backend/internal/infrastructure/telemetry"
)

// DefaultBirthdayWindowDays is the lookahead used when the birthdays
// endpoint is called without an explicit day count.
const DefaultBirthdayWindowDays = 7

// MaxBirthdayWindowDays caps the birthday lookahead at one full year.
const MaxBirthdayWindowDays = 366

// ContactService handles the owner-scoped contact operations.
// Every method takes the owner ID from the authenticated caller; contacts
// belonging to other users are indistinguishable from missing ones.
type ContactService struct {
	contactRepo     contacts.ContactRepository
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo contacts.ContactRepository, logger *zap.Logger) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ContactService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *ContactService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new contact for the owner
func (s *ContactService) Create(ctx context.Context, ownerID uuid.UUID, input CreateContactInput) (*ContactResponse, error) {
	exists, err := s.contactRepo.ExistsByEmail(ctx, ownerID, input.Email)
	if err != nil {
		s.logger.Error("Failed to check contact email", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check contact email")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A contact with this email already exists")
	}

	contact, err := contacts.NewContact(ownerID, input.FirstName, input.LastName, input.Email, input.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if input.Birthday != nil {
		if err := contact.SetBirthday(input.Birthday); err != nil {
			return nil, err
		}
	}
	if input.Notes != "" {
		contact.SetNotes(input.Notes)
	}

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		s.logger.Error("Failed to save contact", zap.Error(err))
		if err == shared.ErrAlreadyExists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A contact with this email already exists")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create contact")
	}

	s.publishEvents(ctx, contact)
	if s.businessMetrics != nil {
		s.businessMetrics.RecordContactCreated(ctx)
	}

	s.logger.Info("Contact created",
		zap.String("contact_id", contact.ID.String()),
		zap.String("owner_id", ownerID.String()))

	response := ToContactResponse(contact)
	return &response, nil
}

// Get retrieves one of the owner's contacts by ID
func (s *ContactService) Get(ctx context.Context, ownerID, contactID uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForOwner(ctx, ownerID, contactID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Contact not found")
	}
	response := ToContactResponse(contact)
	return &response, nil
}

// List returns a page of the owner's contacts, optionally narrowed by
// case-insensitive substring filters on name and email columns.
func (s *ContactService) List(ctx context.Context, ownerID uuid.UUID, input ListContactsInput) (*ContactListResult, error) {
	filter := shared.DefaultFilter()
	filter.Skip = input.Skip
	filter.Limit = input.Limit
	filter.Normalize()

	if input.FirstName != "" {
		filter.Filters["first_name"] = input.FirstName
	}
	if input.LastName != "" {
		filter.Filters["last_name"] = input.LastName
	}
	if input.Email != "" {
		filter.Filters["email"] = input.Email
	}

	return s.page(ctx, ownerID, filter)
}

// Search matches the query case-insensitively across first name, last
// name, and email.
func (s *ContactService) Search(ctx context.Context, ownerID uuid.UUID, input SearchContactsInput) (*ContactListResult, error) {
	filter := shared.DefaultFilter()
	filter.Skip = input.Skip
	filter.Limit = input.Limit
	filter.Search = input.Query
	filter.Normalize()

	return s.page(ctx, ownerID, filter)
}

// Update applies a partial update to one of the owner's contacts.
// Nil input fields keep their stored values.
func (s *ContactService) Update(ctx context.Context, ownerID, contactID uuid.UUID, input UpdateContactInput) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForOwner(ctx, ownerID, contactID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Contact not found")
	}

	if input.Email != nil {
		exists, err := s.contactRepo.ExistsByEmailExcluding(ctx, ownerID, *input.Email, contactID)
		if err != nil {
			s.logger.Error("Failed to check contact email", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check contact email")
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A contact with this email already exists")
		}
		if err := contact.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}

	if input.FirstName != nil || input.LastName != nil {
		firstName := contact.FirstName
		lastName := contact.LastName
		if input.FirstName != nil {
			firstName = *input.FirstName
		}
		if input.LastName != nil {
			lastName = *input.LastName
		}
		if err := contact.Rename(firstName, lastName); err != nil {
			return nil, err
		}
	}

	if input.PhoneNumber != nil {
		if err := contact.SetPhoneNumber(*input.PhoneNumber); err != nil {
			return nil, err
		}
	}

	if input.Birthday != nil {
		if err := contact.SetBirthday(input.Birthday); err != nil {
			return nil, err
		}
	}

	if input.Notes != nil {
		contact.SetNotes(*input.Notes)
	}

	if err := s.contactRepo.SaveWithLock(ctx, contact); err != nil {
		s.logger.Error("Failed to update contact", zap.Error(err))
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update contact")
	}

	s.publishEvents(ctx, contact)

	response := ToContactResponse(contact)
	return &response, nil
}

// Delete removes one of the owner's contacts
func (s *ContactService) Delete(ctx context.Context, ownerID, contactID uuid.UUID) error {
	contact, err := s.contactRepo.FindByIDForOwner(ctx, ownerID, contactID)
	if err != nil {
		return shared.NewDomainError("NOT_FOUND", "Contact not found")
	}

	if err := s.contactRepo.Delete(ctx, contact.ID); err != nil {
		s.logger.Error("Failed to delete contact", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete contact")
	}

	contact.AddDomainEvent(contacts.NewContactDeletedEvent(contact.ID, ownerID))
	s.publishEvents(ctx, contact)
	if s.businessMetrics != nil {
		s.businessMetrics.RecordContactDeleted(ctx)
	}

	s.logger.Info("Contact deleted",
		zap.String("contact_id", contactID.String()),
		zap.String("owner_id", ownerID.String()))

	return nil
}

// UpcomingBirthdays returns the owner's contacts whose birthday
// (month/day, year ignored) falls within the next N days, wrapping
// across year end. N defaults to 7 and is clamped to 1..366.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, ownerID uuid.UUID, input UpcomingBirthdaysInput) (*ContactListResult, error) {
	days := input.Days
	if days == 0 {
		days = DefaultBirthdayWindowDays
	}
	if days < 1 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Days must be at least 1")
	}
	if days > MaxBirthdayWindowDays {
		days = MaxBirthdayWindowDays
	}

	filter := shared.DefaultFilter()
	filter.Skip = input.Skip
	filter.Limit = input.Limit
	filter.Normalize()

	from := time.Now().UTC()

	items, err := s.contactRepo.FindWithUpcomingBirthdays(ctx, ownerID, from, days, filter)
	if err != nil {
		s.logger.Error("Failed to query upcoming birthdays", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list upcoming birthdays")
	}
	total, err := s.contactRepo.CountWithUpcomingBirthdays(ctx, ownerID, from, days)
	if err != nil {
		s.logger.Error("Failed to count upcoming birthdays", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list upcoming birthdays")
	}

	return &ContactListResult{
		TotalCount: total,
		Skip:       filter.Skip,
		Limit:      filter.Limit,
		Contacts:   ToContactResponses(items),
	}, nil
}

func (s *ContactService) page(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (*ContactListResult, error) {
	items, err := s.contactRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		s.logger.Error("Failed to list contacts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list contacts")
	}
	total, err := s.contactRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		s.logger.Error("Failed to count contacts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list contacts")
	}

	return &ContactListResult{
		TotalCount: total,
		Skip:       filter.Skip,
		Limit:      filter.Limit,
		Contacts:   ToContactResponses(items),
	}, nil
}

func (s *ContactService) publishEvents(ctx context.Context, contact *contacts.Contact) {
	if s.eventPublisher == nil {
		return
	}
	events := contact.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	contact.ClearDomainEvents()
}
