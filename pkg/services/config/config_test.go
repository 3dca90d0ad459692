package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/page-atlas/pkg/models/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page-atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("reads a full config file", func(t *testing.T) {
		path := writeConfig(t, `
db:
  path: /var/lib/page-atlas/reports.db
queue:
  workers: 8
  buffer_size: 512
  retry_delay: 2s
fetch:
  timeout: 30s
  retries: 5
  follow_redirects: false
notification:
  min_level: warning
  slack_webhook: https://hooks.slack.com/services/T000/B000/XXX
  slack_channel: "#audits"
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "/var/lib/page-atlas/reports.db", cfg.DB.Path)
		assert.Equal(t, 8, cfg.Queue.Workers)
		assert.Equal(t, 512, cfg.Queue.BufferSize)
		assert.Equal(t, 2*time.Second, cfg.Queue.RetryDelay)
		assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
		assert.Equal(t, 5, cfg.Fetch.Retries)
		assert.False(t, cfg.Fetch.FollowRedirects)
		assert.Equal(t, "warning", cfg.Notification.MinLevel)
		assert.Equal(t, "#audits", cfg.Notification.SlackChannel)
	})

	t.Run("falls back to defaults", func(t *testing.T) {
		path := writeConfig(t, `
db:
  path: custom.db
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "custom.db", cfg.DB.Path)
		assert.Equal(t, 4, cfg.Queue.Workers)
		assert.Equal(t, 256, cfg.Queue.BufferSize)
		assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
		assert.True(t, cfg.Fetch.FollowRedirects)
		assert.Empty(t, cfg.Notification.MinLevel)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid notification level errors", func(t *testing.T) {
		path := writeConfig(t, `
notification:
  min_level: catastrophic
`)

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min_level")
	})
}

func TestFetchConfig_HTTPOptions(t *testing.T) {
	t.Run("overrides defaults when set", func(t *testing.T) {
		cfg := FetchConfig{Timeout: 45 * time.Second, Retries: 7, FollowRedirects: false}

		options := cfg.HTTPOptions()
		assert.Equal(t, 45*time.Second, options.Timeout)
		assert.Equal(t, 7, options.Retries)
		assert.False(t, options.FollowRedirects)
	})

	t.Run("keeps default timeout when unset", func(t *testing.T) {
		options := FetchConfig{FollowRedirects: true}.HTTPOptions()
		assert.Equal(t, domain.DefaultHTTPOptions().Timeout, options.Timeout)
	})
}

func TestNotificationConfig_MinLevelOrNil(t *testing.T) {
	t.Run("empty means disabled", func(t *testing.T) {
		level, err := NotificationConfig{}.MinLevelOrNil()
		require.NoError(t, err)
		assert.Nil(t, level)
	})

	t.Run("parses a valid level", func(t *testing.T) {
		level, err := NotificationConfig{MinLevel: "error"}.MinLevelOrNil()
		require.NoError(t, err)
		require.NotNil(t, level)
		assert.Equal(t, domain.LevelError, *level)
	})
}
