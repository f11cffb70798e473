// Package handler contains the HTTP handlers for the contacts API.
package handler

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// phoneRe matches the accepted phone format, e.g. "(123) 456-7890".
var phoneRe = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)

// validate is the shared validator for request DTOs. The custom "usphone"
// rule backs the phone field on contact payloads.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("usphone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	return v
}

// validationMessage renders the first field error the way clients expect.
func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return "Validation error: field '" + fe.Field() + "' failed on '" + fe.Tag() + "'"
	}
	return "Validation error"
}

// fail writes the uniform error envelope.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"status": "error", "message": message})
}

// internalError logs the underlying failure and returns a fixed 500 body.
// Internal error text is never interpolated into the response.
func internalError(c echo.Context, err error) error {
	c.Logger().Errorf("internal error: %v", err)
	return fail(c, http.StatusInternalServerError, "Internal Server Error")
}
