package handler_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes renders a small solid image as PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (a *testApp) doMultipart(t *testing.T, path, field, filename string, content []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func TestUpdateAvatar(t *testing.T) {
	app := newTestApp(t)
	token := signupVerifyLogin(t, app, "a@x.com", "password123")

	rec := app.doMultipart(t, "/api/users/avatars", "avatar", "me.png", pngBytes(t, 640, 480), token)
	require.Equal(t, http.StatusOK, rec.Code)

	avatarURL := decodeBody(t, rec)["avatarURL"].(string)
	require.True(t, strings.HasPrefix(avatarURL, "/avatars/"))

	// The stored user now points at the uploaded file.
	stored, err := app.users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, avatarURL, stored.AvatarURL)

	// The file on disk was resized to the thumbnail dimensions.
	saved, err := imaging.Open(filepath.Join(app.cfg.AvatarDir, strings.TrimPrefix(avatarURL, "/avatars/")))
	require.NoError(t, err)
	bounds := saved.Bounds()
	assert.Equal(t, 250, bounds.Dx())
	assert.Equal(t, 250, bounds.Dy())
}

func TestUpdateAvatar_MissingFile(t *testing.T) {
	app := newTestApp(t)
	token := signupVerifyLogin(t, app, "a@x.com", "password123")

	rec := app.do(http.MethodPatch, "/api/users/avatars", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAvatar_NotAnImage(t *testing.T) {
	app := newTestApp(t)
	token := signupVerifyLogin(t, app, "a@x.com", "password123")

	rec := app.doMultipart(t, "/api/users/avatars", "avatar", "notes.txt",
		[]byte("plain text, not pixels"), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "avatar must be a jpeg, png or gif image", decodeBody(t, rec)["message"])
}

func TestUpdateAvatar_WrongField(t *testing.T) {
	app := newTestApp(t)
	token := signupVerifyLogin(t, app, "a@x.com", "password123")

	rec := app.doMultipart(t, "/api/users/avatars", "file", "me.png", pngBytes(t, 10, 10), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "avatar file is required", decodeBody(t, rec)["message"])
}
