package auth

import (
	"testing"
	"time"

	"github.com/contacthub/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Algorithm:             "HS256",
		AccessTokenExpiration: 30 * time.Minute,
		Issuer:                "test-issuer",
	}
	return NewJWTService(cfg)
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                "test-secret",
		Algorithm:             "HS256",
		AccessTokenExpiration: 30 * time.Minute,
		Issuer:                "test-issuer",
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.AccessTokenExpiration, svc.expiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestNewJWTService_FallsBackToHS256ForNonHMACAlgorithm(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:    "test-secret",
		Algorithm: "RS256",
	}

	svc := NewJWTService(cfg)

	assert.Equal(t, "HS256", svc.signingMethod.Alg())
}

func TestGenerateToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "alice@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "bearer", token.TokenType)
	assert.True(t, token.ExpiresAt.After(time.Now()))
}

func TestValidateToken_Success(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "alice@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Token)

	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.NotEmpty(t, claims.ID) // jti is required for blacklisting
}

func TestValidateToken_UniqueJTIPerToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	t1, err := svc.GenerateToken(userID, "a@example.com")
	require.NoError(t, err)
	t2, err := svc.GenerateToken(userID, "a@example.com")
	require.NoError(t, err)

	c1, err := svc.ValidateToken(t1.Token)
	require.NoError(t, err)
	c2, err := svc.ValidateToken(t2.Token)
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Algorithm:             "HS256",
		AccessTokenExpiration: -1 * time.Hour, // Already expired
		Issuer:                "test-issuer",
	}
	svc := NewJWTService(cfg)

	token, err := svc.GenerateToken(uuid.New(), "a@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.Token)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateToken("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_DifferentSecret(t *testing.T) {
	svc1 := newTestJWTService()

	token, err := svc1.GenerateToken(uuid.New(), "a@example.com")
	require.NoError(t, err)

	cfg := config.JWTConfig{
		Secret:                "different-secret-key-32-chars!",
		Algorithm:             "HS256",
		AccessTokenExpiration: 30 * time.Minute,
		Issuer:                "test-issuer",
	}
	svc2 := NewJWTService(cfg)

	_, err = svc2.ValidateToken(token.Token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_GetUserUUID(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "a@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Token)
	require.NoError(t, err)

	userUUID, err := claims.GetUserUUID()

	require.NoError(t, err)
	assert.Equal(t, userID, userUUID)
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(uuid.New(), "a@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Token)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 29*time.Minute)
	assert.LessOrEqual(t, ttl, 30*time.Minute)
}

func TestClaims_GetRemainingTTL_NoExpiry(t *testing.T) {
	claims := &Claims{}
	assert.Equal(t, time.Duration(0), claims.GetRemainingTTL())
}

func TestClaims_TimeAccessors(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(uuid.New(), "a@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Token)
	require.NoError(t, err)

	assert.False(t, claims.GetIssuedAtTime().IsZero())
	assert.False(t, claims.GetExpiresAtTime().IsZero())
	assert.True(t, claims.GetExpiresAtTime().After(claims.GetIssuedAtTime()))
}

func TestGetAccessTokenExpiration(t *testing.T) {
	svc := newTestJWTService()
	assert.Equal(t, 30*time.Minute, svc.GetAccessTokenExpiration())
}
