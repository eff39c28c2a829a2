package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PUSTAKA_REPORT_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Pustaka Activity API", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, 10*time.Second, cfg.ReportSnapshotTTL)
	require.Equal(t, 30*time.Second, cfg.NotificationKeepAlive)
	require.Equal(t, 30, cfg.ExportRateLimit)
	require.Nil(t, cfg.ReportNow)
	require.Equal(t, time.UTC, cfg.ReportLocation)
}

func TestLoadPinnedClock(t *testing.T) {
	t.Setenv("PUSTAKA_REPORT_TIMEZONE", "UTC")
	t.Setenv("PUSTAKA_REPORT_NOW", "2025-03-21 12:00")
	t.Setenv("PUSTAKA_APP_PORT", ":9090")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.NotNil(t, cfg.ReportNow)

	now := cfg.Clock()()
	require.True(t, now.Equal(time.Date(2025, time.March, 21, 12, 0, 0, 0, time.UTC)))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("PUSTAKA_REPORT_TIMEZONE", "UTC")
	t.Setenv("PUSTAKA_REPORT_SNAPSHOT_TTL", "soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("PUSTAKA_REPORT_SNAPSHOT_TTL", "5s")
	t.Setenv("PUSTAKA_DATABASE_DRIVER", "mysql")
	_, err = Load()
	require.Error(t, err)
}
