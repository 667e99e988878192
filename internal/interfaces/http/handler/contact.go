package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contactsapp "github.com/contacthub/backend/internal/application/contacts"
)

// ContactHandler handles contact-related API endpoints
type ContactHandler struct {
	BaseHandler
	contactService *contactsapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *contactsapp.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// CreateContactRequest represents a request to create a new contact
// @Description Request body for creating a new contact
type CreateContactRequest struct {
	FirstName   string `json:"first_name" binding:"required,min=1,max=100" example:"Ada"`
	LastName    string `json:"last_name" binding:"required,min=1,max=100" example:"Lovelace"`
	Email       string `json:"email" binding:"required,email,max=200" example:"ada@example.com"`
	PhoneNumber string `json:"phone_number" binding:"required,min=1,max=30" example:"+44 20 7946 0001"`
	Birthday    string `json:"birthday" binding:"omitempty,datetime=2006-01-02" example:"1815-12-10"`
	Notes       string `json:"notes" example:"Met at the analytical engine meetup"`
}

// UpdateContactRequest represents a request to update a contact
// @Description Request body for partially updating a contact; omitted fields keep their values
type UpdateContactRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,min=1,max=100" example:"Ada"`
	LastName    *string `json:"last_name" binding:"omitempty,min=1,max=100" example:"King"`
	Email       *string `json:"email" binding:"omitempty,email,max=200" example:"ada@example.org"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,min=1,max=30" example:"+44 20 7946 0002"`
	Birthday    *string `json:"birthday" binding:"omitempty,datetime=2006-01-02" example:"1815-12-10"`
	Notes       *string `json:"notes" example:"Updated notes"`
}

// ListContactsQuery represents the query parameters for listing contacts
type ListContactsQuery struct {
	Skip      int    `form:"skip" binding:"omitempty,min=0"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	FirstName string `form:"first_name" binding:"omitempty,max=100"`
	LastName  string `form:"last_name" binding:"omitempty,max=100"`
	Email     string `form:"email" binding:"omitempty,max=200"`
}

// SearchContactsQuery represents the query parameters for searching contacts
type SearchContactsQuery struct {
	Query string `form:"q" binding:"required,min=1,max=200"`
	Skip  int    `form:"skip" binding:"omitempty,min=0"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// BirthdaysQuery represents the query parameters for the upcoming birthdays endpoint
type BirthdaysQuery struct {
	Days  int `form:"days" binding:"omitempty,min=1,max=366"`
	Skip  int `form:"skip" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// parseBirthday parses an optional YYYY-MM-DD birthday string.
func parseBirthday(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create godoc
// @ID           createContact
// @Summary      Create a new contact
// @Description  Create a new contact owned by the current user
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        request body CreateContactRequest true "Contact creation request"
// @Success      201 {object} APIResponse[contacts.ContactResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		h.BadRequest(c, "Birthday must be formatted as YYYY-MM-DD")
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), ownerID, contactsapp.CreateContactInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Birthday:    birthday,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, contact)
}

// List godoc
// @ID           listContacts
// @Summary      List contacts
// @Description  Paginated list of the current user's contacts with optional field filters
// @Tags         contacts
// @Produce      json
// @Param        skip query int false "Number of contacts to skip" default(0)
// @Param        limit query int false "Maximum number of contacts to return" default(10)
// @Param        first_name query string false "Filter by first name (substring, case-insensitive)"
// @Param        last_name query string false "Filter by last name (substring, case-insensitive)"
// @Param        email query string false "Filter by email (substring, case-insensitive)"
// @Success      200 {object} APIResponse[contacts.ContactListResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query ListContactsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.contactService.List(c.Request.Context(), ownerID, contactsapp.ListContactsInput{
		Skip:      query.Skip,
		Limit:     query.Limit,
		FirstName: query.FirstName,
		LastName:  query.LastName,
		Email:     query.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByID godoc
// @ID           getContactById
// @Summary      Get contact by ID
// @Description  Retrieve one of the current user's contacts by its ID
// @Tags         contacts
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Success      200 {object} APIResponse[contacts.ContactResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contacts/{id} [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	contact, err := h.contactService.Get(c.Request.Context(), ownerID, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contact)
}

// Update godoc
// @ID           updateContact
// @Summary      Update a contact
// @Description  Partially update one of the current user's contacts; omitted fields keep their values
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Param        request body UpdateContactRequest true "Contact update request"
// @Success      200 {object} APIResponse[contacts.ContactResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := contactsapp.UpdateContactInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Notes:       req.Notes,
	}
	if req.Birthday != nil {
		birthday, err := parseBirthday(*req.Birthday)
		if err != nil {
			h.BadRequest(c, "Birthday must be formatted as YYYY-MM-DD")
			return
		}
		input.Birthday = birthday
	}

	contact, err := h.contactService.Update(c.Request.Context(), ownerID, contactID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contact)
}

// Delete godoc
// @ID           deleteContact
// @Summary      Delete a contact
// @Description  Delete one of the current user's contacts
// @Tags         contacts
// @Produce      json
// @Param        id path string true "Contact ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), ownerID, contactID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Search godoc
// @ID           searchContacts
// @Summary      Search contacts
// @Description  Case-insensitive substring search across first name, last name and email
// @Tags         contacts
// @Produce      json
// @Param        q query string true "Search term"
// @Param        skip query int false "Number of contacts to skip" default(0)
// @Param        limit query int false "Maximum number of contacts to return" default(10)
// @Success      200 {object} APIResponse[contacts.ContactListResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contacts/search [get]
func (h *ContactHandler) Search(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query SearchContactsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.contactService.Search(c.Request.Context(), ownerID, contactsapp.SearchContactsInput{
		Query: query.Query,
		Skip:  query.Skip,
		Limit: query.Limit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpcomingBirthdays godoc
// @ID           upcomingBirthdays
// @Summary      List upcoming birthdays
// @Description  Contacts whose birthday falls within the next N days, wrapping across year end
// @Tags         contacts
// @Produce     json
// @Param        days query int false "Window in days" default(7) minimum(1) maximum(366)
// @Param        skip query int false "Number of contacts to skip" default(0)
// @Param        limit query int false "Maximum number of contacts to return" default(10)
// @Success      200 {object} APIResponse[contacts.ContactListResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contacts/birthdays [get]
func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query BirthdaysQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.contactService.UpcomingBirthdays(c.Request.Context(), ownerID, contactsapp.UpcomingBirthdaysInput{
		Days:  query.Days,
		Skip:  query.Skip,
		Limit: query.Limit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
