package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with valid email and password", func(t *testing.T) {
		user, err := NewUser("test@example.com", "Password123")

		require.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "test@example.com", user.Email)
		assert.NotEmpty(t, user.PasswordHash)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.False(t, user.Verified)
		assert.NotEmpty(t, user.VerificationToken)
		assert.NotNil(t, user.PasswordChangedAt)

		// Should have domain event
		events := user.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*UserRegisteredEvent)
		assert.True(t, ok)
	})

	t.Run("normalizes email to lowercase", func(t *testing.T) {
		user, err := NewUser("Test@Example.COM", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("trims email whitespace", func(t *testing.T) {
		user, err := NewUser("  test@example.com  ", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("does not store plaintext password", func(t *testing.T) {
		user, err := NewUser("test@example.com", "Password123")

		require.NoError(t, err)
		assert.NotContains(t, user.PasswordHash, "Password123")
	})

	t.Run("fails with empty email", func(t *testing.T) {
		_, err := NewUser("", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with malformed email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email format")
	})

	t.Run("fails with empty password", func(t *testing.T) {
		_, err := NewUser("test@example.com", "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with short password", func(t *testing.T) {
		_, err := NewUser("test@example.com", "Pass1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("fails with password without letters", func(t *testing.T) {
		_, err := NewUser("test@example.com", "12345678")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one letter")
	})

	t.Run("fails with password without numbers", func(t *testing.T) {
		_, err := NewUser("test@example.com", "Password")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one letter and one number")
	})
}

func TestUser_VerifyPassword(t *testing.T) {
	user, _ := NewUser("test@example.com", "Password123")

	t.Run("accepts correct password", func(t *testing.T) {
		assert.True(t, user.VerifyPassword("Password123"))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		assert.False(t, user.VerifyPassword("WrongPassword1"))
	})
}

func TestUser_Verify(t *testing.T) {
	t.Run("marks verified and clears token", func(t *testing.T) {
		user, _ := NewUser("test@example.com", "Password123")
		user.ClearDomainEvents()

		err := user.Verify()

		require.NoError(t, err)
		assert.True(t, user.Verified)
		assert.Empty(t, user.VerificationToken)

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*UserVerifiedEvent)
		assert.True(t, ok)
	})

	t.Run("fails when already verified", func(t *testing.T) {
		user, _ := NewUser("test@example.com", "Password123")
		require.NoError(t, user.Verify())

		err := user.Verify()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already verified")
	})
}

func TestUser_ChangePassword(t *testing.T) {
	t.Run("changes password with correct old password", func(t *testing.T) {
		user, _ := NewUser("test@example.com", "Password123")
		oldHash := user.PasswordHash

		err := user.ChangePassword("Password123", "NewPassword456")

		require.NoError(t, err)
		assert.NotEqual(t, oldHash, user.PasswordHash)
		assert.True(t, user.VerifyPassword("NewPassword456"))
	})

	t.Run("fails with incorrect old password", func(t *testing.T) {
		user, _ := NewUser("test@example.com", "Password123")

		err := user.ChangePassword("WrongPassword1", "NewPassword456")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "incorrect")
	})
}

func TestUser_SetAvatarURL(t *testing.T) {
	t.Run("sets avatar URL", func(t *testing.T) {
		user, _ := NewUser("test@example.com", "Password123")
		user.ClearDomainEvents()

		err := user.SetAvatarURL("https://cdn.example.com/avatars/a.png")

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/avatars/a.png", user.AvatarURL)
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("rejects overlong URL", func(t *testing.T) {
		user, _ := NewUser("test@example.com", "Password123")

		long := make([]byte, 501)
		for i := range long {
			long[i] = 'a'
		}
		err := user.SetAvatarURL(string(long))

		assert.Error(t, err)
	})
}

func TestUser_StatusTransitions(t *testing.T) {
	t.Run("deactivate then activate", func(t *testing.T) {
		user, _ := NewUser("test@example.com", "Password123")

		require.NoError(t, user.Deactivate())
		assert.False(t, user.IsActive())
		assert.False(t, user.CanLogin())

		require.NoError(t, user.Activate())
		assert.True(t, user.IsActive())
		assert.True(t, user.CanLogin())
	})

	t.Run("deactivate twice fails", func(t *testing.T) {
		user, _ := NewUser("test@example.com", "Password123")
		require.NoError(t, user.Deactivate())

		assert.Error(t, user.Deactivate())
	})

	t.Run("activate when already active fails", func(t *testing.T) {
		user, _ := NewUser("test@example.com", "Password123")

		assert.Error(t, user.Activate())
	})
}

func TestUser_RecordLoginSuccess(t *testing.T) {
	user, _ := NewUser("test@example.com", "Password123")
	version := user.Version

	user.RecordLoginSuccess("203.0.113.10")

	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, "203.0.113.10", user.LastLoginIP)
	assert.Equal(t, version+1, user.Version)
}
