package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/contactshub/contacts-api/internal/config"
	"github.com/contactshub/contacts-api/internal/middleware"
	"github.com/contactshub/contacts-api/internal/repository"
)

// ContactHandler bundles dependencies for the contact endpoints. The redis
// client and cache config are used to drop a user's cached listings after
// every mutation.
type ContactHandler struct {
	Contacts repository.ContactStore
	RDB      *redis.Client
	CacheCfg config.CacheConfig
}

func NewContactHandler(contacts repository.ContactStore, rdb *redis.Client, cacheCfg config.CacheConfig) *ContactHandler {
	return &ContactHandler{Contacts: contacts, RDB: rdb, CacheCfg: cacheCfg}
}

// ----- DTOs -----

type contactReq struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,usphone"`
}

type contactUpdateReq struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,usphone"`
}

type favoriteReq struct {
	Favorite *bool `json:"favorite"`
}

// List returns one page of the caller's contacts. Query parameters:
// page (default 1), limit (default 20, max 100), favorite (true|false).
func (h *ContactHandler) List(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	var favorite *bool
	if raw := c.QueryParam("favorite"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "Invalid favorite filter, must be true or false")
		}
		favorite = &b
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contacts, err := h.Contacts.List(ctx, u.ID, page, limit, favorite)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Contacts retrieved successfully",
		"data":    contacts,
	})
}

// GetByID returns one contact. Contacts of other users are reported as 404.
func (h *ContactHandler) GetByID(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}
	id, err := contactID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid contact ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contact, err := h.Contacts.GetByID(ctx, u.ID, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "Contact not found")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Contact retrieved successfully",
		"data":    contact,
	})
}

// Create adds a contact for the caller.
func (h *ContactHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}

	var req contactReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contact, err := h.Contacts.Create(ctx, u.ID, req.Name, req.Email, req.Phone)
	if err != nil {
		return internalError(c, err)
	}
	h.invalidate(ctx, u.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"status":  "success",
		"message": "Contact added successfully",
		"data":    contact,
	})
}

// Update applies a partial update; at least one field must be present.
func (h *ContactHandler) Update(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}
	id, err := contactID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid contact ID")
	}

	var req contactUpdateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == nil && req.Email == nil && req.Phone == nil {
		return fail(c, http.StatusBadRequest, "Body must have at least one field")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contact, err := h.Contacts.Update(ctx, u.ID, id, repository.ContactUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "Contact not found")
		}
		return internalError(c, err)
	}
	h.invalidate(ctx, u.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Contact updated successfully",
		"data":    contact,
	})
}

// Delete removes the caller's contact.
func (h *ContactHandler) Delete(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}
	id, err := contactID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid contact ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Contacts.Delete(ctx, u.ID, id); err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "Contact not found")
		}
		return internalError(c, err)
	}
	h.invalidate(ctx, u.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Contact deleted successfully",
	})
}

// SetFavorite toggles the favorite flag.
func (h *ContactHandler) SetFavorite(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}
	id, err := contactID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid contact ID")
	}

	var req favoriteReq
	if err := c.Bind(&req); err != nil || req.Favorite == nil {
		return fail(c, http.StatusBadRequest, "Invalid favorite status, must be true or false")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contact, err := h.Contacts.SetFavorite(ctx, u.ID, id, *req.Favorite)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "Contact not found")
		}
		return internalError(c, err)
	}
	h.invalidate(ctx, u.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Contact favorite status updated successfully",
		"data":    contact,
	})
}

func (h *ContactHandler) invalidate(ctx context.Context, userID uint64) {
	middleware.InvalidateUserCache(ctx, h.RDB, h.CacheCfg, userID)
}

func contactID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("contactId"), 10, 64)
}

func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return def
}
