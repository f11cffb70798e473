package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/contactshub/contacts-api/internal/middleware"
)

const (
	maxAvatarBytes = 2 << 20 // 2 MiB
	avatarSize     = 250
)

// extByContentType limits uploads to the supported image formats.
var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// UpdateAvatar accepts a multipart "avatar" file, resizes it to 250x250,
// stores it under the public avatars directory and records the new URL on
// the user. The content type is sniffed from the bytes, not trusted from
// the request.
func (h *AuthHandler) UpdateAvatar(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return fail(c, http.StatusBadRequest, "avatar file is required")
	}
	if fh.Size > maxAvatarBytes {
		return fail(c, http.StatusBadRequest, "avatar must be 2MB or smaller")
	}

	src, err := fh.Open()
	if err != nil {
		return internalError(c, err)
	}
	defer src.Close()

	// The declared size is client-controlled; re-check while reading.
	data, err := io.ReadAll(io.LimitReader(src, maxAvatarBytes+1))
	if err != nil {
		return internalError(c, err)
	}
	if len(data) > maxAvatarBytes {
		return fail(c, http.StatusBadRequest, "avatar must be 2MB or smaller")
	}

	ext, ok := extByContentType[http.DetectContentType(data)]
	if !ok {
		return fail(c, http.StatusBadRequest, "avatar must be a jpeg, png or gif image")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fail(c, http.StatusBadRequest, "cannot decode avatar image")
	}
	thumb := imaging.Resize(img, avatarSize, avatarSize, imaging.Lanczos)

	if err := os.MkdirAll(h.Cfg.AvatarDir, 0o755); err != nil {
		return internalError(c, err)
	}
	name := fmt.Sprintf("%d_%s%s", u.ID, uuid.NewString(), ext)
	if err := imaging.Save(thumb, filepath.Join(h.Cfg.AvatarDir, name)); err != nil {
		return internalError(c, err)
	}

	avatarURL := "/avatars/" + name

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateAvatar(ctx, u.ID, avatarURL); err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "success",
		"avatarURL": avatarURL,
	})
}
