package routes_test

import (
	"net/http"
	"testing"

	"github.com/lk16/patzer/internal/tests"
	"github.com/stretchr/testify/require"
)

func TestRootEndpoint(t *testing.T) {
	app := tests.NewApp()

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)

	resp := tests.Do(t, app, req)

	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/version", resp.Header.Get("Location"))
}

func TestWebsocketRequiresUpgrade(t *testing.T) {
	app := tests.NewApp()

	req, err := http.NewRequest(http.MethodGet, "/ws", nil)
	require.NoError(t, err)
	req.Header.Set("x-token", tests.TestToken)

	resp := tests.Do(t, app, req)
	require.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestWebsocketRequiresAuth(t *testing.T) {
	app := tests.NewApp()

	req, err := http.NewRequest(http.MethodGet, "/ws", nil)
	require.NoError(t, err)

	resp := tests.Do(t, app, req)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
