package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.ServerAddr)
	require.Equal(t, 3, cfg.CrawlConcurrency)
	require.Equal(t, 12, cfg.MaxContactPages)
	require.Equal(t, 15, cfg.HomepageTimeoutSecs)
	require.Equal(t, 10, cfg.SubpageTimeoutSecs)
	require.Equal(t, 300, cfg.SubpageDelayMillis)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CRAWL_CONCURRENCY", "8")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 8, cfg.CrawlConcurrency)
	require.Equal(t, "debug", cfg.LogLevel)
}
