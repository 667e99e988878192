package contacts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/contacthub/backend/internal/domain/contacts"
	"github.com/contacthub/backend/internal/domain/shared"
)

// MockContactRepository is a mock implementation of contacts.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contacts.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contacts.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*contacts.Contact, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contacts.Contact), args.Error(1)
}

func (m *MockContactRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]contacts.Contact, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contacts.Contact), args.Error(1)
}

func (m *MockContactRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) FindWithUpcomingBirthdays(ctx context.Context, ownerID uuid.UUID, from time.Time, days int, filter shared.Filter) ([]contacts.Contact, error) {
	args := m.Called(ctx, ownerID, from, days, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contacts.Contact), args.Error(1)
}

func (m *MockContactRepository) CountWithUpcomingBirthdays(ctx context.Context, ownerID uuid.UUID, from time.Time, days int) (int64, error) {
	args := m.Called(ctx, ownerID, from, days)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) ExistsByEmail(ctx context.Context, ownerID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, ownerID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockContactRepository) ExistsByEmailExcluding(ctx context.Context, ownerID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, contact *contacts.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) SaveWithLock(ctx context.Context, contact *contacts.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestContact(t *testing.T, ownerID uuid.UUID) *contacts.Contact {
	t.Helper()
	contact, err := contacts.NewContact(ownerID, "Ada", "Lovelace", "ada@example.com", "+44 20 7946 0001")
	require.NoError(t, err)
	contact.ClearDomainEvents()
	return contact
}

func strPtr(s string) *string { return &s }

func TestContactService_Create(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()

	repo.On("ExistsByEmail", mock.Anything, ownerID, "ada@example.com").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*contacts.Contact")).Return(nil)

	birthday := time.Date(1990, 12, 10, 15, 4, 5, 0, time.UTC)
	response, err := svc.Create(context.Background(), ownerID, CreateContactInput{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "Ada@Example.com",
		PhoneNumber: "+44 20 7946 0001",
		Birthday:    &birthday,
		Notes:       "met at the symposium",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ada", response.FirstName)
	assert.Equal(t, "ada@example.com", response.Email)
	require.NotNil(t, response.Birthday)
	// Time-of-day is dropped, only the date survives
	assert.Equal(t, time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC), *response.Birthday)
	assert.Equal(t, "met at the symposium", response.Notes)
	repo.AssertExpectations(t)
}

func TestContactService_Create_DuplicateEmail(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()

	repo.On("ExistsByEmail", mock.Anything, ownerID, "ada@example.com").Return(true, nil)

	response, err := svc.Create(context.Background(), ownerID, CreateContactInput{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: "+44 20 7946 0001",
	})

	assert.Nil(t, response)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestContactService_Create_InvalidName(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()

	repo.On("ExistsByEmail", mock.Anything, ownerID, "ada@example.com").Return(false, nil)

	_, err := svc.Create(context.Background(), ownerID, CreateContactInput{
		FirstName:   "",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: "+44 20 7946 0001",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_NAME", domainErr.Code)
}

func TestContactService_Get(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()
	contact := newTestContact(t, ownerID)

	repo.On("FindByIDForOwner", mock.Anything, ownerID, contact.ID).Return(contact, nil)

	response, err := svc.Get(context.Background(), ownerID, contact.ID)

	require.NoError(t, err)
	assert.Equal(t, contact.ID, response.ID)
	assert.Equal(t, "ada@example.com", response.Email)
}

func TestContactService_Get_NotFound(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()
	contactID := uuid.New()

	repo.On("FindByIDForOwner", mock.Anything, ownerID, contactID).Return(nil, shared.ErrNotFound)

	response, err := svc.Get(context.Background(), ownerID, contactID)

	assert.Nil(t, response)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestContactService_List(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()
	contact := newTestContact(t, ownerID)

	repo.On("FindAllForOwner", mock.Anything, ownerID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Skip == 0 && f.Limit == 10 && f.Filters["first_name"] == "ada"
	})).Return([]contacts.Contact{*contact}, nil)
	repo.On("CountForOwner", mock.Anything, ownerID, mock.Anything).Return(int64(1), nil)

	result, err := svc.List(context.Background(), ownerID, ListContactsInput{FirstName: "ada"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	assert.Equal(t, 0, result.Skip)
	assert.Equal(t, 10, result.Limit)
	require.Len(t, result.Contacts, 1)
	assert.Equal(t, contact.ID, result.Contacts[0].ID)
}

func TestContactService_List_ClampsLimit(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()

	repo.On("FindAllForOwner", mock.Anything, ownerID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Limit == shared.MaxPageSize && f.Skip == 0
	})).Return([]contacts.Contact{}, nil)
	repo.On("CountForOwner", mock.Anything, ownerID, mock.Anything).Return(int64(0), nil)

	result, err := svc.List(context.Background(), ownerID, ListContactsInput{Skip: -5, Limit: 1000})

	require.NoError(t, err)
	assert.Equal(t, shared.MaxPageSize, result.Limit)
	assert.Equal(t, 0, result.Skip)
	assert.Empty(t, result.Contacts)
}

func TestContactService_Search(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()
	contact := newTestContact(t, ownerID)

	repo.On("FindAllForOwner", mock.Anything, ownerID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "love"
	})).Return([]contacts.Contact{*contact}, nil)
	repo.On("CountForOwner", mock.Anything, ownerID, mock.Anything).Return(int64(1), nil)

	result, err := svc.Search(context.Background(), ownerID, SearchContactsInput{Query: "love"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	require.Len(t, result.Contacts, 1)
}

func TestContactService_Update_Partial(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()
	contact := newTestContact(t, ownerID)

	repo.On("FindByIDForOwner", mock.Anything, ownerID, contact.ID).Return(contact, nil)
	repo.On("SaveWithLock", mock.Anything, contact).Return(nil)

	response, err := svc.Update(context.Background(), ownerID, contact.ID, UpdateContactInput{
		FirstName: strPtr("Augusta"),
		Notes:     strPtr("updated notes"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Augusta", response.FirstName)
	// Omitted fields keep their values
	assert.Equal(t, "Lovelace", response.LastName)
	assert.Equal(t, "ada@example.com", response.Email)
	assert.Equal(t, "updated notes", response.Notes)
	repo.AssertNotCalled(t, "ExistsByEmailExcluding", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestContactService_Update_EmailConflict(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()
	contact := newTestContact(t, ownerID)

	repo.On("FindByIDForOwner", mock.Anything, ownerID, contact.ID).Return(contact, nil)
	repo.On("ExistsByEmailExcluding", mock.Anything, ownerID, "taken@example.com", contact.ID).Return(true, nil)

	response, err := svc.Update(context.Background(), ownerID, contact.ID, UpdateContactInput{
		Email: strPtr("taken@example.com"),
	})

	assert.Nil(t, response)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestContactService_Update_NotFound(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()
	contactID := uuid.New()

	repo.On("FindByIDForOwner", mock.Anything, ownerID, contactID).Return(nil, shared.ErrNotFound)

	_, err := svc.Update(context.Background(), ownerID, contactID, UpdateContactInput{
		FirstName: strPtr("Augusta"),
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestContactService_Update_ConcurrencyConflict(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()
	contact := newTestContact(t, ownerID)

	repo.On("FindByIDForOwner", mock.Anything, ownerID, contact.ID).Return(contact, nil)
	repo.On("SaveWithLock", mock.Anything, contact).Return(shared.ErrConcurrencyConflict)

	_, err := svc.Update(context.Background(), ownerID, contact.ID, UpdateContactInput{
		FirstName: strPtr("Augusta"),
	})

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestContactService_Delete(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()
	contact := newTestContact(t, ownerID)

	repo.On("FindByIDForOwner", mock.Anything, ownerID, contact.ID).Return(contact, nil)
	repo.On("Delete", mock.Anything, contact.ID).Return(nil)

	err := svc.Delete(context.Background(), ownerID, contact.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestContactService_Delete_NotFound(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()
	contactID := uuid.New()

	repo.On("FindByIDForOwner", mock.Anything, ownerID, contactID).Return(nil, shared.ErrNotFound)

	err := svc.Delete(context.Background(), ownerID, contactID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestContactService_UpcomingBirthdays_DefaultsDays(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()
	contact := newTestContact(t, ownerID)

	repo.On("FindWithUpcomingBirthdays", mock.Anything, ownerID, mock.Anything, DefaultBirthdayWindowDays, mock.Anything).
		Return([]contacts.Contact{*contact}, nil)
	repo.On("CountWithUpcomingBirthdays", mock.Anything, ownerID, mock.Anything, DefaultBirthdayWindowDays).
		Return(int64(1), nil)

	result, err := svc.UpcomingBirthdays(context.Background(), ownerID, UpcomingBirthdaysInput{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	require.Len(t, result.Contacts, 1)
}

func TestContactService_UpcomingBirthdays_ClampsDays(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()

	repo.On("FindWithUpcomingBirthdays", mock.Anything, ownerID, mock.Anything, MaxBirthdayWindowDays, mock.Anything).
		Return([]contacts.Contact{}, nil)
	repo.On("CountWithUpcomingBirthdays", mock.Anything, ownerID, mock.Anything, MaxBirthdayWindowDays).
		Return(int64(0), nil)

	result, err := svc.UpcomingBirthdays(context.Background(), ownerID, UpcomingBirthdaysInput{Days: 4000})

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.TotalCount)
}

func TestContactService_UpcomingBirthdays_NegativeDays(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, zap.NewNop())
	ownerID := uuid.New()

	result, err := svc.UpcomingBirthdays(context.Background(), ownerID, UpcomingBirthdaysInput{Days: -1})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}
