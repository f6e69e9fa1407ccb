package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/patzer/internal"
	"github.com/lk16/patzer/internal/config"
	"github.com/lk16/patzer/internal/services"
	"github.com/stretchr/testify/require"
)

const (
	TestToken    = "test-token"
	TestUsername = "admin"
	TestPassword = "secret"
)

// NewApp creates an app without backing services. Only use it for routes that fail or
// answer before touching Postgres, Redis or the engine.
func NewApp() *fiber.App {
	cfg := &config.ServerConfig{
		BasicAuthUsername: TestUsername,
		BasicAuthPassword: TestPassword,
		Token:             TestToken,
		CacheTTL:          time.Minute,
		Engine:            &config.EngineConfig{MoveTimeout: time.Second},
	}

	return internal.NewApp(cfg, &services.Services{})
}

// Do sends a request to app and returns the response.
func Do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}
