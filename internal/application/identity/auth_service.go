package identity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/contacthub/backend/internal/domain/identity"
	"github.com/contacthub/backend/internal/domain/shared"
	"github.com/contacthub/backend/internal/infrastructure/auth"
	"github.com/contacthub/backend/internal/infrastructure/cache"
	"github.com/contacthub/backend/internal/infrastructure/telemetry"
)

// DefaultUserCacheTTL bounds how long a cached current-user snapshot
// may be served before falling back to the database.
const DefaultUserCacheTTL = 15 * time.Minute

// AuthService handles registration, authentication, and the current-user
// profile operations backed by the Redis snapshot cache.
type AuthService struct {
	userRepo        identity.UserRepository
	jwtService      *auth.JWTService
	blacklist       auth.TokenBlacklist
	userCache       cache.UserCache
	cacheTTL        time.Duration
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	userCache cache.UserCache,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		userCache:  userCache,
		cacheTTL:   DefaultUserCacheTTL,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *AuthService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// SetUserCacheTTL overrides the current-user cache TTL
func (s *AuthService) SetUserCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// Register creates a new user account with a fresh verification token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		// The unique index can still race the existence check
		if err == shared.ErrAlreadyExists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	s.publishEvents(ctx, user)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordUserRegistered(ctx)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	info := ToUserInfo(user)
	return &info, nil
}

// Login authenticates a user and returns a signed access token.
// Unknown email, wrong password, and inactive account all map to the
// same credentials error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("Login attempt for unknown email", zap.String("email", input.Email))
		s.recordLogin(ctx, telemetry.AuthResultFailure)
		return nil, shared.ErrInvalidCredentials
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		s.recordLogin(ctx, telemetry.AuthResultFailure)
		return nil, shared.ErrInvalidCredentials
	}

	if !user.CanLogin() {
		s.logger.Warn("Login attempt for inactive account", zap.String("user_id", user.ID.String()))
		s.recordLogin(ctx, telemetry.AuthResultFailure)
		return nil, shared.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Don't fail the login - just log the error
		s.logger.Error("Failed to record login timestamp", zap.Error(err))
	}

	s.recordLogin(ctx, telemetry.AuthResultSuccess)
	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &LoginResult{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User:        ToUserInfo(user),
	}, nil
}

// Logout blacklists the presented token's JTI until its natural expiry.
// A Redis outage degrades to a client-side logout rather than an error.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	ttl := time.Until(input.TokenExpiresAt)
	if ttl <= 0 {
		// Already expired, nothing to blacklist
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Warn("Failed to blacklist token on logout",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return nil
	}

	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// GetCurrentUser returns the authenticated user's profile, served from the
// Redis snapshot when available.
func (s *AuthService) GetCurrentUser(ctx context.Context, input GetCurrentUserInput) (*UserInfo, error) {
	cached, err := s.userCache.Get(ctx, input.UserID)
	if err != nil {
		s.logger.Warn("User cache lookup failed", zap.Error(err))
	}
	if cached != nil {
		s.recordCache(ctx, telemetry.CacheResultHit)
		return &UserInfo{
			ID:        cached.ID,
			Email:     cached.Email,
			AvatarURL: cached.AvatarURL,
			Active:    cached.Active,
			Verified:  cached.Verified,
		}, nil
	}
	s.recordCache(ctx, telemetry.CacheResultMiss)

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}

	if err := s.userCache.Set(ctx, snapshotOf(user), s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache user snapshot", zap.Error(err))
	}

	info := ToUserInfo(user)
	return &info, nil
}

// VerifyEmail marks the account holding the token as verified.
func (s *AuthService) VerifyEmail(ctx context.Context, input VerifyEmailInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByVerificationToken(ctx, input.Token)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Verification token not found")
	}

	if err := user.Verify(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to persist verification", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify account")
	}

	s.publishEvents(ctx, user)
	s.invalidateCache(ctx, user)

	s.logger.Info("User verified", zap.String("user_id", user.ID.String()))

	info := ToUserInfo(user)
	return &info, nil
}

func (s *AuthService) publishEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	events := user.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	user.ClearDomainEvents()
}

func (s *AuthService) invalidateCache(ctx context.Context, user *identity.User) {
	if err := s.userCache.Invalidate(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to invalidate user cache",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}
}

func (s *AuthService) recordLogin(ctx context.Context, result telemetry.AuthResult) {
	if s.businessMetrics != nil {
		s.businessMetrics.RecordLogin(ctx, result)
	}
}

func (s *AuthService) recordCache(ctx context.Context, result telemetry.CacheResult) {
	if s.businessMetrics != nil {
		s.businessMetrics.RecordCacheLookup(ctx, result)
	}
}

func snapshotOf(user *identity.User) *cache.CachedUser {
	return &cache.CachedUser{
		ID:        user.ID,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Verified:  user.Verified,
		Active:    user.IsActive(),
		Version:   int64(user.Version),
	}
}
