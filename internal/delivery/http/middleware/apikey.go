package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
)

const apiKeyHeader = "X-API-KEY"

// NewAPIKeyGate checks X-API-KEY against the configured secret,
// case-insensitively. A missing key is 401, a wrong one 403.
func NewAPIKeyGate(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		supplied := c.Get(apiKeyHeader)
		if supplied == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(
				entity.NewErrorResponse("UNAUTHORIZED", "API Key mancante."),
			)
		}

		if !strings.EqualFold(supplied, apiKey) {
			return c.Status(fiber.StatusForbidden).JSON(
				entity.NewErrorResponse("FORBIDDEN", "API Key non valida."),
			)
		}

		return c.Next()
	}
}
