package handlers

import (
	"errors"
	"fmt"
	"log"
	"reflect"

	"storefront/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(Response{Success: true, Data: data})
}

// respondError translates a store error into its HTTP status.
func respondError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(Response{Error: "internal server error"})
	}
	return c.Status(status).JSON(Response{Error: err.Error()})
}

func respondBadRequest(c *fiber.Ctx, message string, err error) error {
	log.Printf("Bad request on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(Response{Error: message})
}

// newValidator returns a validator that understands decimal.Decimal fields
// as numbers, so tags like gte=0 apply to prices.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// validateBody runs struct validation and writes a 400 response listing the
// failed fields. It reports whether the body was valid.
func validateBody(c *fiber.Ctx, v *validator.Validate, body interface{}) (bool, error) {
	err := v.Struct(body)
	if err == nil {
		return true, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false, respondBadRequest(c, "Validation failed", err)
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(Response{
		Error:  "Validation failed",
		Errors: errorMessages,
	})
}

// currentUserID returns the authenticated user's ID stored by
// middleware.AuthRequired.
func currentUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%w: missing user in request context", apperrors.ErrUnauthorized)
	}
	return userID, nil
}
