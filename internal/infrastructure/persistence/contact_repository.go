package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/contacthub/backend/internal/domain/contacts"
	"github.com/contacthub/backend/internal/domain/shared"
	"github.com/contacthub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact by its ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contacts.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOwner finds a contact by ID scoped to an owner
func (r *GormContactRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*contacts.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOwner finds all contacts for an owner matching the filter
func (r *GormContactRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]contacts.Contact, error) {
	var contactModels []models.ContactModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContactModel{}).Where("owner_id = ?", ownerID), filter)

	if err := query.Find(&contactModels).Error; err != nil {
		return nil, err
	}

	return toDomainContacts(contactModels), nil
}

// CountForOwner counts an owner's contacts matching the filter
func (r *GormContactRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ContactModel{}).Where("owner_id = ?", ownerID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count returns the total number of contacts across all owners.
// Used by telemetry gauge collection, not part of the domain repository.
func (r *GormContactRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ContactModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindWithUpcomingBirthdays finds contacts whose birthday (month/day) falls
// within the next `days` days starting at `from`. Years are ignored, so the
// window wraps correctly across year end.
func (r *GormContactRepository) FindWithUpcomingBirthdays(ctx context.Context, ownerID uuid.UUID, from time.Time, days int, filter shared.Filter) ([]contacts.Contact, error) {
	var contactModels []models.ContactModel
	query := r.db.WithContext(ctx).Model(&models.ContactModel{}).Where("owner_id = ?", ownerID)
	query = applyBirthdayWindow(query, from, days)

	if filter.Limit > 0 {
		query = query.Offset(filter.Skip).Limit(filter.Limit)
	}
	query = query.Order("EXTRACT(MONTH FROM birthday) ASC, EXTRACT(DAY FROM birthday) ASC")

	if err := query.Find(&contactModels).Error; err != nil {
		return nil, err
	}

	return toDomainContacts(contactModels), nil
}

// CountWithUpcomingBirthdays counts contacts in the birthday window
func (r *GormContactRepository) CountWithUpcomingBirthdays(ctx context.Context, ownerID uuid.UUID, from time.Time, days int) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ContactModel{}).Where("owner_id = ?", ownerID)
	query = applyBirthdayWindow(query, from, days)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks if the owner already has a contact with the given email
func (r *GormContactRepository) ExistsByEmail(ctx context.Context, ownerID uuid.UUID, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ContactModel{}).
		Where("owner_id = ? AND email = ?", ownerID, strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByEmailExcluding checks email uniqueness ignoring one contact ID
func (r *GormContactRepository) ExistsByEmailExcluding(ctx context.Context, ownerID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ContactModel{}).
		Where("owner_id = ? AND email = ? AND id <> ?", ownerID, strings.ToLower(email), excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, contact *contacts.Contact) error {
	model := models.ContactModelFromDomain(contact)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a contact with optimistic locking (version check).
// The row must still hold the version the aggregate was loaded with; the
// update advances it by one. A missed match means a concurrent writer won
// and the caller gets shared.ErrConcurrencyConflict.
func (r *GormContactRepository) SaveWithLock(ctx context.Context, contact *contacts.Contact) error {
	model := models.ContactModelFromDomain(contact)
	model.Version = contact.Version + 1
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", contact.ID, contact.Version).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	contact.IncrementVersion()
	return nil
}

// Delete deletes a contact
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContactModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormContactRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Limit > 0 {
		query = query.Offset(filter.Skip).Limit(filter.Limit)
	}

	if field := ValidateSortField(filter.OrderBy, ContactSortFields, ""); field != "" {
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("last_name ASC, first_name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination.
// LOWER(...) LIKE is used instead of ILIKE so the same queries run against
// the sqlite driver used in tests.
func (r *GormContactRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "first_name":
			query = query.Where("LOWER(first_name) LIKE ?", "%"+strings.ToLower(toString(value))+"%")
		case "last_name":
			query = query.Where("LOWER(last_name) LIKE ?", "%"+strings.ToLower(toString(value))+"%")
		case "email":
			query = query.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(toString(value))+"%")
		}
	}

	return query
}

// applyBirthdayWindow constrains the query to contacts whose birthday
// month/day pair matches one of the next `days` calendar days.
func applyBirthdayWindow(query *gorm.DB, from time.Time, days int) *gorm.DB {
	query = query.Where("birthday IS NOT NULL")

	if days <= 0 {
		days = 1
	}
	if days > 366 {
		days = 366
	}

	cond := make([]string, 0, days)
	args := make([]interface{}, 0, days*2)
	for i := 0; i < days; i++ {
		d := from.AddDate(0, 0, i)
		cond = append(cond, "(EXTRACT(MONTH FROM birthday) = ? AND EXTRACT(DAY FROM birthday) = ?)")
		args = append(args, int(d.Month()), d.Day())
	}

	return query.Where(strings.Join(cond, " OR "), args...)
}

func toDomainContacts(contactModels []models.ContactModel) []contacts.Contact {
	result := make([]contacts.Contact, len(contactModels))
	for i, model := range contactModels {
		result[i] = *model.ToDomain()
	}
	return result
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// Ensure GormContactRepository implements ContactRepository
var _ contacts.ContactRepository = (*GormContactRepository)(nil)
