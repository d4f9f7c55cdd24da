package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayAuthMiddleware(t *testing.T) {
	t.Setenv("PROGRESSION_SERVICE_TOKEN", "gateway-secret")

	app := fiber.New()
	app.Use(GatewayAuthMiddleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"raw token without scheme", "gateway-secret", fiber.StatusUnauthorized},
		{"empty bearer token", "Bearer ", fiber.StatusUnauthorized},
		{"wrong token", "Bearer wrong", fiber.StatusUnauthorized},
		{"valid token", "Bearer gateway-secret", fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
