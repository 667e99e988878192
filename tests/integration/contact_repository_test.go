package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	contactsapp "github.com/contacthub/backend/internal/application/contacts"
	"github.com/contacthub/backend/internal/domain/contacts"
	"github.com/contacthub/backend/internal/domain/shared"
	"github.com/contacthub/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestContactRepository_Integration tests the ContactRepository against a real PostgreSQL database
func TestContactRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormContactRepository(testDB.DB)
	ctx := context.Background()

	ownerID := uuid.New()
	testDB.CreateTestUser(ownerID)

	t.Run("Save and FindByIDForOwner", func(t *testing.T) {
		contact, err := contacts.NewContact(ownerID, "Ada", "Lovelace", "ada@example.com", "+44 20 7946 0001")
		require.NoError(t, err)

		err = repo.Save(ctx, contact)
		require.NoError(t, err)

		found, err := repo.FindByIDForOwner(ctx, ownerID, contact.ID)
		require.NoError(t, err)
		assert.Equal(t, contact.ID, found.ID)
		assert.Equal(t, "Ada", found.FirstName)
		assert.Equal(t, "ada@example.com", found.Email)

		// A different owner must not see the contact
		otherOwner := uuid.New()
		testDB.CreateTestUser(otherOwner)
		_, err = repo.FindByIDForOwner(ctx, otherOwner, contact.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindAllForOwner with filters and pagination", func(t *testing.T) {
		listOwner := uuid.New()
		testDB.CreateTestUser(listOwner)

		names := []struct{ first, last string }{
			{"Alan", "Turing"},
			{"Grace", "Hopper"},
			{"Katherine", "Johnson"},
			{"Margaret", "Hamilton"},
			{"Annie", "Easley"},
		}
		for i, n := range names {
			contact, err := contacts.NewContact(listOwner, n.first, n.last,
				fmt.Sprintf("%s.%d@example.com", n.first, i), "+1 555 0100")
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, contact))
		}

		// Default ordering is last_name, first_name ascending
		all, err := repo.FindAllForOwner(ctx, listOwner, shared.Filter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, "Easley", all[0].LastName)
		assert.Equal(t, "Turing", all[4].LastName)

		// Pagination
		page, err := repo.FindAllForOwner(ctx, listOwner, shared.Filter{Skip: 2, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "Hopper", page[1].LastName)

		// first_name filter is a case-insensitive substring match
		filtered, err := repo.FindAllForOwner(ctx, listOwner, shared.Filter{
			Limit:   10,
			Filters: map[string]interface{}{"first_name": "an"},
		})
		require.NoError(t, err)
		require.Len(t, filtered, 2) // Alan, Annie

		count, err := repo.CountForOwner(ctx, listOwner, shared.Filter{
			Filters: map[string]interface{}{"first_name": "an"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		// Search spans first name, last name and email
		searched, err := repo.FindAllForOwner(ctx, listOwner, shared.Filter{
			Limit:  10,
			Search: "hamil",
		})
		require.NoError(t, err)
		require.Len(t, searched, 1)
		assert.Equal(t, "Margaret", searched[0].FirstName)
	})

	t.Run("ExistsByEmail and ExistsByEmailExcluding", func(t *testing.T) {
		emailOwner := uuid.New()
		testDB.CreateTestUser(emailOwner)

		contact, err := contacts.NewContact(emailOwner, "Edsger", "Dijkstra", "edsger@example.com", "+31 20 555 0100")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, contact))

		exists, err := repo.ExistsByEmail(ctx, emailOwner, "EDSGER@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		// Uniqueness is scoped per owner
		exists, err = repo.ExistsByEmail(ctx, ownerID, "edsger@example.com")
		require.NoError(t, err)
		assert.False(t, exists)

		// Excluding the contact itself reports no conflict
		exists, err = repo.ExistsByEmailExcluding(ctx, emailOwner, "edsger@example.com", contact.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsByEmailExcluding(ctx, emailOwner, "edsger@example.com", uuid.New())
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("SaveWithLock detects concurrent modification", func(t *testing.T) {
		contact, err := contacts.NewContact(ownerID, "Barbara", "Liskov", "barbara@example.com", "+1 555 0101")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, contact))

		// Two readers load the same version; the first write wins
		stale := *contact
		contact.SetNotes("Substitution principle")
		require.NoError(t, repo.SaveWithLock(ctx, contact))

		stale.SetNotes("Stale write")
		err = repo.SaveWithLock(ctx, &stale)
		require.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		found, err := repo.FindByIDForOwner(ctx, ownerID, contact.ID)
		require.NoError(t, err)
		assert.Equal(t, "Substitution principle", found.Notes)
	})

	t.Run("partial update through the service changes several fields at once", func(t *testing.T) {
		service := contactsapp.NewContactService(repo, zap.NewNop())

		contact, err := contacts.NewContact(ownerID, "Katherine", "Johnson", "katherine@example.com", "+1 555 0103")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, contact))
		loadedVersion := contact.Version

		firstName := "Kathy"
		phone := "+1 555 0104"
		notes := "Trajectory analysis"
		updated, err := service.Update(ctx, ownerID, contact.ID, contactsapp.UpdateContactInput{
			FirstName:   &firstName,
			PhoneNumber: &phone,
			Notes:       &notes,
		})
		require.NoError(t, err)
		assert.Equal(t, "Kathy", updated.FirstName)

		found, err := repo.FindByIDForOwner(ctx, ownerID, contact.ID)
		require.NoError(t, err)
		assert.Equal(t, "Kathy", found.FirstName)
		assert.Equal(t, "+1 555 0104", found.PhoneNumber)
		assert.Equal(t, "Trajectory analysis", found.Notes)
		assert.Equal(t, loadedVersion+1, found.Version)

		// An update with no fields set is a no-op save, not an error
		_, err = service.Update(ctx, ownerID, contact.ID, contactsapp.UpdateContactInput{})
		require.NoError(t, err)
	})

	t.Run("FindWithUpcomingBirthdays wraps across year end", func(t *testing.T) {
		bdayOwner := uuid.New()
		testDB.CreateTestUser(bdayOwner)

		addContact := func(first string, birthday *time.Time) {
			contact, err := contacts.NewContact(bdayOwner, first, "Person",
				fmt.Sprintf("%s@example.com", first), "+1 555 0102")
			require.NoError(t, err)
			require.NoError(t, contact.SetBirthday(birthday))
			require.NoError(t, repo.Save(ctx, contact))
		}

		date := func(y int, m time.Month, d int) *time.Time {
			v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			return &v
		}

		addContact("december", date(1990, time.December, 30))
		addContact("january", date(1985, time.January, 2))
		addContact("outside", date(1992, time.January, 10))
		addContact("nobirthday", nil)

		// Window Dec 28 .. Jan 3 crosses the year boundary
		from := time.Date(2025, time.December, 28, 0, 0, 0, 0, time.UTC)

		found, err := repo.FindWithUpcomingBirthdays(ctx, bdayOwner, from, 7, shared.Filter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, found, 2)

		// Ordered by birthday month then day, ignoring year
		assert.Equal(t, "january", found[0].FirstName)
		assert.Equal(t, "december", found[1].FirstName)

		count, err := repo.CountWithUpcomingBirthdays(ctx, bdayOwner, from, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Delete", func(t *testing.T) {
		contact, err := contacts.NewContact(ownerID, "Donald", "Knuth", "donald@example.com", "+1 555 0103")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, contact))

		require.NoError(t, repo.Delete(ctx, contact.ID))

		_, err = repo.FindByID(ctx, contact.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		err = repo.Delete(ctx, contact.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
