// Package middleware provides reusable request processing: the bearer-token
// auth gate, redis response caching and redis rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/contactshub/contacts-api/internal/model"
	"github.com/contactshub/contacts-api/internal/utils"
)

// UserLoader is the subset of the user store the auth gate needs. The full
// repository satisfies it; tests substitute stubs.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// userContextKey is where the authenticated user is stored in echo.Context.
const userContextKey = "authUser"

// Auth returns middleware that gates protected routes. It extracts the
// bearer token, verifies the JWT signature and expiry, loads the user it
// names and requires the presented token to equal the user's stored session
// token. The stored-token comparison is what makes logout effective: after
// the token column is cleared, a signature that still verifies is rejected
// here. On success the user is bound to the request context.
func Auth(secret string, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return unauthorized(c)
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			userID, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return unauthorized(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, userID)
			if err != nil {
				return unauthorized(c)
			}
			if u.Token == nil || *u.Token != raw {
				return unauthorized(c)
			}

			c.Set(userContextKey, u)
			return next(c)
		}
	}
}

// CurrentUser retrieves the user bound by Auth. The second return value is
// false on routes that were not gated.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userContextKey).(model.User)
	return u, ok
}

// SetCurrentUser binds a user directly, bypassing token checks. Test use only.
func SetCurrentUser(c echo.Context, u model.User) {
	c.Set(userContextKey, u)
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"status":  "error",
		"message": "Not authorized",
	})
}
