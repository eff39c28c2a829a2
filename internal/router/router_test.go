package router_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pustaka-activity-api/internal/config"
	"github.com/noah-isme/pustaka-activity-api/internal/middleware"
	"github.com/noah-isme/pustaka-activity-api/internal/router"
)

func newApp() *fiber.App {
	cfg := config.Config{AppName: "Pustaka Activity API", AppEnv: "test", ReportTimezone: "Asia/Jakarta"}
	app := fiber.New()
	middleware.Register(app, middleware.Config{})
	router.Register(app, cfg, router.Dependencies{})
	return app
}

func TestHealthEndpoint(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Pustaka Activity API", resp.Header.Get("X-Application"))

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Status         string `json:"status"`
			Service        string `json:"service"`
			Environment    string `json:"environment"`
			ReportTimezone string `json:"report_timezone"`
		} `json:"data"`
	}
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Success)
	require.Equal(t, "ok", body.Data.Status)
	require.Equal(t, "test", body.Data.Environment)
	require.Equal(t, "Asia/Jakarta", body.Data.ReportTimezone)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(raw), "notification_streams_active"))
}

func TestActivityRoutesAbsentWithoutHandler(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/activity", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
