package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/patzer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(cfg *config.ServerConfig) *fiber.App {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("config", cfg)
		return c.Next()
	})
	app.Use(Logging())

	app.Get("/open", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/analysis", func(c *fiber.Ctx) error {
		c.Locals(AnalysisIDKey, "0b6a7a4e-4a70-4b38-9d0f-6d3b8c1a2f11")
		return c.SendString("ok")
	})
	app.Get("/broken", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadGateway, "engine gone")
	})
	app.Get("/private", AuthOrToken(), func(c *fiber.Ctx) error {
		return c.SendString("secret")
	})

	return app
}

// captureLogs installs a JSON slog handler writing to the returned buffer for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer

	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return &buf
}

func lastRequestLog(t *testing.T, buf *bytes.Buffer) map[string]any {
	var entry map[string]any

	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var parsed map[string]any
		require.NoError(t, json.Unmarshal(line, &parsed))
		if parsed["msg"] == "Request" {
			entry = parsed
		}
	}

	require.NotNil(t, entry, "no request was logged")
	return entry
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAuthOrToken(t *testing.T) {
	cfg := &config.ServerConfig{BasicAuthUsername: "admin", BasicAuthPassword: "secret", Token: "token"}
	app := newTestApp(cfg)

	tests := []struct {
		name       string
		token      string
		username   string
		password   string
		wantStatus int
	}{
		{name: "Token", token: "token", wantStatus: http.StatusOK},
		{name: "TokenPrefix", token: "tok", wantStatus: http.StatusUnauthorized},
		{name: "TokenLonger", token: "token!", wantStatus: http.StatusUnauthorized},
		{name: "BasicAuth", username: "admin", password: "secret", wantStatus: http.StatusOK},
		{name: "WrongPassword", username: "admin", password: "secre", wantStatus: http.StatusUnauthorized},
		{name: "WrongUser", username: "root", password: "secret", wantStatus: http.StatusUnauthorized},
		{name: "Nothing", wantStatus: http.StatusUnauthorized},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/private", nil)
			require.NoError(t, err)

			if test.token != "" {
				req.Header.Set(TokenHeader, test.token)
			}
			if test.username != "" {
				req.SetBasicAuth(test.username, test.password)
			}

			resp := doRequest(t, app, req)
			assert.Equal(t, test.wantStatus, resp.StatusCode)

			if test.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="patzer"`, resp.Header.Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthOrTokenUnsetCredentials(t *testing.T) {
	app := newTestApp(&config.ServerConfig{})

	req, err := http.NewRequest(http.MethodGet, "/private", nil)
	require.NoError(t, err)
	req.SetBasicAuth("", "")

	resp := doRequest(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogging(t *testing.T) {
	app := newTestApp(&config.ServerConfig{Token: "token"})

	tests := []struct {
		path       string
		wantStatus float64
		wantLevel  string
		wantID     bool
	}{
		{path: "/open", wantStatus: http.StatusOK, wantLevel: "INFO"},
		{path: "/analysis", wantStatus: http.StatusOK, wantLevel: "INFO", wantID: true},
		{path: "/private", wantStatus: http.StatusUnauthorized, wantLevel: "WARN"},
		{path: "/broken", wantStatus: http.StatusBadGateway, wantLevel: "ERROR"},
	}

	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			logs := captureLogs(t)

			req, err := http.NewRequest(http.MethodGet, test.path, nil)
			require.NoError(t, err)
			doRequest(t, app, req)

			entry := lastRequestLog(t, logs)
			assert.Equal(t, http.MethodGet, entry["method"])
			assert.Equal(t, test.path, entry["path"])
			assert.InDelta(t, test.wantStatus, entry["status"], 0)
			assert.Equal(t, test.wantLevel, entry["level"])
			assert.Contains(t, entry, "latency_ms")

			if test.wantID {
				assert.Equal(t, "0b6a7a4e-4a70-4b38-9d0f-6d3b8c1a2f11", entry[AnalysisIDKey])
			} else {
				assert.NotContains(t, entry, AnalysisIDKey)
			}
		})
	}
}
