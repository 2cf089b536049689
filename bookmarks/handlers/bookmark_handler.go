package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"

	"github.com/linkmark/api/bookmarks/errors"
	"github.com/linkmark/api/bookmarks/models"
	"github.com/linkmark/api/bookmarks/services"
	"github.com/linkmark/api/internal/types"
)

type BookmarkHandler struct {
	service services.Service
}

func NewBookmarkHandler(service services.Service) *BookmarkHandler {
	return &BookmarkHandler{service: service}
}

// List returns one page of the user's bookmarks.
// Endpoint: GET /bookmarks?page=...&limit=...&q=...
func (h *BookmarkHandler) List(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "invalid user context")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	query := c.Query("q")

	resp, err := h.service.List(c.Context(), user.UserID, page, limit, query)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// QuickAccess returns the user's pinned bookmarks.
// Endpoint: GET /bookmarks/quick-access
func (h *BookmarkHandler) QuickAccess(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "invalid user context")
	}

	items, err := h.service.ListQuickAccess(c.Context(), user.UserID)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"items": items})
}

// Create stores a new bookmark.
// Endpoint: POST /bookmarks
func (h *BookmarkHandler) Create(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "invalid user context")
	}

	var req models.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleValidationError(c, "invalid request body")
	}

	record, err := h.service.Create(c.Context(), user.UserID, &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(record)
}

// Update applies a partial update to a bookmark.
// Endpoint: PUT /bookmarks/:id
func (h *BookmarkHandler) Update(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "invalid user context")
	}

	id, err := uuid.FromString(c.Params("id"))
	if err != nil {
		return errors.HandleValidationError(c, "invalid bookmark id")
	}

	var req models.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleValidationError(c, "invalid request body")
	}

	record, err := h.service.Update(c.Context(), id, user.UserID, &req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(record)
}

// Delete removes a bookmark.
// Endpoint: DELETE /bookmarks/:id
func (h *BookmarkHandler) Delete(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "invalid user context")
	}

	id, err := uuid.FromString(c.Params("id"))
	if err != nil {
		return errors.HandleValidationError(c, "invalid bookmark id")
	}

	if err := h.service.Delete(c.Context(), id, user.UserID); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}
