package middleware

import (
	"errors"
	"net/http"

	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ValidatedKey is the Locals key holding the parsed request body
const ValidatedKey = "validated"

var validate = validator.New()

// ValidateRequest parses the JSON body into a fresh T, validates it and stores a *T
// under ValidatedKey. Parse failures answer 400, validation failures 422.
func ValidateRequest[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if err := c.BodyParser(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
				"msg":   err.Error(),
			})
		}

		if err := validate.Struct(body); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return err
			}
			fields := make(map[string]string)
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}

			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fields,
			})
		}

		c.Locals(ValidatedKey, body)
		return c.Next()
	}
}

// Validated returns the body stored by ValidateRequest
func Validated[T any](c *fiber.Ctx) *T {
	body, _ := c.Locals(ValidatedKey).(*T)
	return body
}

// ErrorHandler converts errors returned by handlers into JSON responses
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	message := http.StatusText(code)
	if fe != nil && fe.Message != "" {
		message = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
