// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/contactshub/contacts-api/internal/handler"
)

// RegisterRoutes registers routes that need no authentication or throttling.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterUsers registers the user endpoints under /api/users. Signup,
// login and verification resend sit behind the rate limiter; session-bound
// endpoints sit behind the auth gate. Processed avatars are served from
// avatarDir under /avatars.
func RegisterUsers(e *echo.Echo, a *handler.AuthHandler, authGate, limiter echo.MiddlewareFunc, avatarDir string) {
	g := e.Group("/api/users")
	g.POST("/signup", a.Signup, limiter)
	g.POST("/login", a.Login, limiter)
	g.GET("/verify/:verificationToken", a.VerifyEmail)
	g.POST("/verify", a.ResendVerification, limiter)

	g.GET("/logout", a.Logout, authGate)
	g.GET("/current", a.Current, authGate)
	g.PATCH("/subscription", a.UpdateSubscription, authGate)
	g.PATCH("/avatars", a.UpdateAvatar, authGate)

	e.Static("/avatars", avatarDir)
}

// RegisterContacts registers the contact endpoints under /api/contacts.
// Every route requires authentication; reads additionally go through the
// per-user response cache.
func RegisterContacts(e *echo.Echo, h *handler.ContactHandler, authGate, cache echo.MiddlewareFunc) {
	g := e.Group("/api/contacts", authGate)
	g.GET("", h.List, cache)
	g.GET("/:contactId", h.GetByID, cache)
	g.POST("", h.Create)
	g.PUT("/:contactId", h.Update)
	g.DELETE("/:contactId", h.Delete)
	g.PATCH("/:contactId/favorite", h.SetFavorite)
}
