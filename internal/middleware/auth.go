package middleware

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/lk16/patzer/internal/config"
)

// TokenHeader carries the server token.
const TokenHeader = "x-token"

func unauthorized(c *fiber.Ctx) error {
	slog.Warn("Rejected unauthenticated request", "method", c.Method(), "path", c.Path(), "ip", c.IP())

	// This triggers the browser to show a login dialog
	c.Set("WWW-Authenticate", `Basic realm="patzer"`)

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

// BasicAuth middleware that checks for basic auth credentials. Passwords are compared in constant time.
func BasicAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg := c.Locals("config").(*config.ServerConfig) //nolint: errcheck

		handler := basicauth.New(basicauth.Config{
			Realm: "patzer",
			Authorizer: func(username, password string) bool {
				return cfg.BasicAuthUsername != "" &&
					constantTimeEqual(username, cfg.BasicAuthUsername) &&
					constantTimeEqual(password, cfg.BasicAuthPassword)
			},
			Unauthorized: unauthorized,
		})

		return handler(c)
	}
}

// AuthOrToken middleware that accepts either the token header or basic auth.
// Every request behind it can spend engine time.
func AuthOrToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg := c.Locals("config").(*config.ServerConfig) //nolint: errcheck

		// Check for token header first, an unset server token never matches
		token := c.Get(TokenHeader)
		if token != "" && cfg.Token != "" && constantTimeEqual(token, cfg.Token) {
			return c.Next()
		}

		// If no valid token, try basic auth
		return BasicAuth()(c)
	}
}

func constantTimeEqual(given, want string) bool {
	return subtle.ConstantTimeCompare([]byte(given), []byte(want)) == 1
}
