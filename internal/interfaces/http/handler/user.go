package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/contacthub/backend/internal/application/identity"
	"github.com/contacthub/backend/internal/interfaces/http/dto"
)

// UserHandler handles user profile API endpoints
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateAvatar godoc
// @ID           updateUserAvatar
// @Summary      Upload user avatar
// @Description  Replace the current user's avatar image (jpeg, png or webp, up to 5 MiB)
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Avatar image"
// @Success      200 {object} APIResponse[UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Avatar file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		h.ErrorWithCode(c, dto.ErrCodeUnsupportedMedia, "Avatar content type is required")
		return
	}

	user, err := h.userService.UpdateAvatar(c.Request.Context(), identity.UpdateAvatarInput{
		UserID:      userID,
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(*user))
}
