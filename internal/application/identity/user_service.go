package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contacthub/backend/internal/domain/identity"
	"github.com/contacthub/backend/internal/domain/shared"
	"github.com/contacthub/backend/internal/infrastructure/cache"
	"github.com/contacthub/backend/internal/infrastructure/telemetry"
)

// AvatarStorage is the object-storage port the user service uploads
// avatar images through.
type AvatarStorage interface {
	// Upload stores the object and returns its public URL
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes the object; missing objects are not an error
	Delete(ctx context.Context, key string) error
}

// avatarExtensions maps the accepted upload content types to object key
// extensions. Anything else is rejected before touching storage.
var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UserService handles profile mutations for the authenticated user.
type UserService struct {
	userRepo        identity.UserRepository
	storage         AvatarStorage
	userCache       cache.UserCache
	maxUploadSize   int64
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewUserService creates a new user profile service
func NewUserService(
	userRepo identity.UserRepository,
	storage AvatarStorage,
	userCache cache.UserCache,
	maxUploadSize int64,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		storage:       storage,
		userCache:     userCache,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *UserService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// UpdateAvatar validates and stores a new avatar image, persists its public
// URL on the user, and deletes the previous object best-effort.
func (s *UserService) UpdateAvatar(ctx context.Context, input UpdateAvatarInput) (*UserInfo, error) {
	ext, ok := avatarExtensions[strings.ToLower(input.ContentType)]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE",
			"Avatar must be a JPEG, PNG, or WebP image")
	}
	if len(input.Data) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Avatar file is empty")
	}
	if s.maxUploadSize > 0 && int64(len(input.Data)) > s.maxUploadSize {
		return nil, shared.NewDomainError("PAYLOAD_TOO_LARGE",
			fmt.Sprintf("Avatar cannot exceed %d bytes", s.maxUploadSize))
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}

	key := fmt.Sprintf("avatars/%s/%s%s", user.ID, uuid.NewString(), ext)
	url, err := s.storage.Upload(ctx, key, input.Data, input.ContentType)
	if err != nil {
		s.logger.Error("Avatar upload failed",
			zap.String("user_id", user.ID.String()),
			zap.String("key", key),
			zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to store avatar")
	}

	previousURL := user.AvatarURL
	if err := user.SetAvatarURL(url); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to persist avatar URL", zap.Error(err))
		// Clean up the orphaned object we just wrote
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to delete orphaned avatar object",
				zap.String("key", key), zap.Error(delErr))
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update avatar")
	}

	s.deletePreviousAvatar(ctx, previousURL)
	s.publishEvents(ctx, user)
	s.invalidateCache(ctx, user.ID)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordAvatarUpload(ctx)
	}

	s.logger.Info("Avatar updated",
		zap.String("user_id", user.ID.String()),
		zap.String("key", key))

	info := ToUserInfo(user)
	return &info, nil
}

// deletePreviousAvatar removes the old avatar object. URL-to-key recovery
// relies on the avatars/ prefix in the key scheme; foreign URLs are skipped.
func (s *UserService) deletePreviousAvatar(ctx context.Context, previousURL string) {
	if previousURL == "" {
		return
	}
	idx := strings.Index(previousURL, "avatars/")
	if idx < 0 {
		return
	}
	key := previousURL[idx:]
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to delete previous avatar",
			zap.String("key", key), zap.Error(err))
	}
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
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

func (s *UserService) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if err := s.userCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("Failed to invalidate user cache",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}
