package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/contactshub/contacts-api/internal/config"
	"github.com/contactshub/contacts-api/internal/middleware"
	"github.com/contactshub/contacts-api/internal/model"
	"github.com/contactshub/contacts-api/internal/queue"
	"github.com/contactshub/contacts-api/internal/repository"
	queue_publisher "github.com/contactshub/contacts-api/internal/service"
	"github.com/contactshub/contacts-api/internal/utils"
)

// dummyHash is a syntactically valid bcrypt digest compared against when an
// email lookup misses, so that login latency does not reveal whether the
// address exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthHandler bundles dependencies for the user endpoints. Publish sends
// verification email events to the broker; tests swap in a recorder.
type AuthHandler struct {
	Cfg     config.Config
	Users   repository.UserStore
	Publish func(ctx context.Context, event queue.VerificationEmailEvent) error
}

func NewAuthHandler(cfg config.Config, users repository.UserStore) *AuthHandler {
	return &AuthHandler{
		Cfg:     cfg,
		Users:   users,
		Publish: queue_publisher.PublishVerificationEmail,
	}
}

// ----- DTOs -----

type credentialsReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type resendReq struct {
	Email string `json:"email" validate:"required,email"`
}

type subscriptionReq struct {
	Subscription string `json:"subscription"`
}

type userPart struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
	AvatarURL    string `json:"avatarURL,omitempty"`
}

// Signup creates an unverified user and queues the verification email.
// Delivery is best effort: a broker failure is logged but never rolls back
// the created account.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	verificationToken := uuid.NewString()
	avatarURL := utils.GravatarURL(req.Email)

	id, err := h.Users.Create(ctx, req.Email, req.Password, h.Cfg.BcryptCost, verificationToken, avatarURL)
	if err != nil {
		if err == repository.ErrEmailExists {
			return fail(c, http.StatusConflict, "Email in use")
		}
		return internalError(c, err)
	}

	if err := h.publishVerification(ctx, req.Email, verificationToken); err != nil {
		c.Logger().Warnf("signup user=%d: verification email not queued: %v", id, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status": "success",
		"user": userPart{
			Email:        req.Email,
			Subscription: model.SubscriptionStarter,
			AvatarURL:    avatarURL,
		},
	})
}

// Login validates credentials on a verified account and issues the session
// token, recording it on the user row as the single active session. Under
// concurrent logins for one account the last write wins.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			// Burn a bcrypt comparison so the miss costs as much as a mismatch.
			utils.VerifyPassword(dummyHash, req.Password)
			return fail(c, http.StatusUnauthorized, "Email or password is wrong")
		}
		return internalError(c, err)
	}
	if !u.Verified {
		return fail(c, http.StatusForbidden, "Email is not verified")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Email or password is wrong")
	}

	session, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID)
	if err != nil {
		return internalError(c, err)
	}
	if err := h.Users.SetToken(ctx, u.ID, session.Token); err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": session.Token,
		"user":  userPart{Email: u.Email, Subscription: u.Subscription},
	})
}

// Logout clears the stored session token; the presented JWT stops working
// immediately even though it has not cryptographically expired.
func (h *AuthHandler) Logout(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.ClearToken(ctx, u.ID); err != nil {
		return internalError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Current returns the authenticated user's profile slice.
func (h *AuthHandler) Current(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}
	return c.JSON(http.StatusOK, userPart{Email: u.Email, Subscription: u.Subscription})
}

// UpdateSubscription changes the tier to one of starter, pro or business.
func (h *AuthHandler) UpdateSubscription(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}

	var req subscriptionReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if !model.ValidSubscription(req.Subscription) {
		return fail(c, http.StatusBadRequest,
			"Invalid subscription type. Allowed values: ['starter', 'pro', 'business']")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateSubscription(ctx, u.ID, req.Subscription); err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Subscription updated successfully",
		"data":    echo.Map{"subscription": req.Subscription},
	})
}

// VerifyEmail redeems a verification token. The token value survives
// redemption; the verified flag acts as the consumed marker, so a repeat
// redemption is AlreadyVerified rather than NotFound.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.Param("verificationToken")
	if token == "" {
		return fail(c, http.StatusBadRequest, "verification token is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByVerificationToken(ctx, token)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c, err)
	}
	if err := h.Users.MarkVerified(ctx, u.ID); err != nil {
		if err == repository.ErrAlreadyVerified {
			return fail(c, http.StatusBadRequest, "Verification has already been passed")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Verification successful",
	})
}

// ResendVerification re-delivers the existing verification token by email.
// No new token is minted; the stored one remains the single valid value
// until it is redeemed.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req resendReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, "missing required field email")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c, err)
	}
	if u.Verified {
		return fail(c, http.StatusBadRequest, "Verification has already been passed")
	}

	if err := h.publishVerification(ctx, u.Email, u.VerificationToken); err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Verification email sent",
	})
}

func (h *AuthHandler) publishVerification(ctx context.Context, email, token string) error {
	return h.Publish(ctx, queue.VerificationEmailEvent{
		Email:       email,
		VerifyLink:  strings.TrimRight(h.Cfg.BaseURL, "/") + "/api/users/verify/" + token,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
