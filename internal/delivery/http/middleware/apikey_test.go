package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatedApp(apiKey string) *fiber.App {
	app := fiber.New()
	app.Get("/protected", NewAPIKeyGate(apiKey), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAPIKeyGate(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "altra-chiave", http.StatusForbidden},
		{"exact match", "segreto-123", http.StatusOK},
		{"case insensitive match", "SEGRETO-123", http.StatusOK},
	}

	app := newGatedApp("segreto-123")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.key != "" {
				req.Header.Set("X-API-KEY", tt.key)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
