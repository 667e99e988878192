package contacts

import (
	"context"
	"time"

	"github.com/contacthub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactRepository defines the persistence interface for contacts.
// All reads other than FindByID are owner-scoped; FindByID exists for
// administrative tooling and must not back user-facing endpoints.
type ContactRepository interface {
	// FindByID finds a contact by ID regardless of owner
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)

	// FindByIDForOwner finds a contact by ID scoped to an owner
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Contact, error)

	// FindAllForOwner returns the owner's contacts matching the filter
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Contact, error)

	// CountForOwner counts the owner's contacts matching the filter
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)

	// FindWithUpcomingBirthdays returns the owner's contacts whose birthday
	// (month/day) falls within the next `days` days starting at `from`
	FindWithUpcomingBirthdays(ctx context.Context, ownerID uuid.UUID, from time.Time, days int, filter shared.Filter) ([]Contact, error)

	// CountWithUpcomingBirthdays counts contacts in the same window
	CountWithUpcomingBirthdays(ctx context.Context, ownerID uuid.UUID, from time.Time, days int) (int64, error)

	// ExistsByEmail checks whether the owner already has a contact with this email
	ExistsByEmail(ctx context.Context, ownerID uuid.UUID, email string) (bool, error)

	// ExistsByEmailExcluding is ExistsByEmail ignoring one contact ID (for updates)
	ExistsByEmailExcluding(ctx context.Context, ownerID uuid.UUID, email string, excludeID uuid.UUID) (bool, error)

	// Save inserts or updates a contact
	Save(ctx context.Context, contact *Contact) error

	// SaveWithLock updates a contact with optimistic lock version checking
	SaveWithLock(ctx context.Context, contact *Contact) error

	// Delete removes a contact by ID
	Delete(ctx context.Context, id uuid.UUID) error
}
