package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/page-atlas/pkg/models/domain"
)

func TestStatusCodeCheck(t *testing.T) {
	ctx := context.Background()
	check := NewStatusCodeCheck()

	cases := []struct {
		name   string
		status int
		level  domain.Level
	}{
		{"ok", 200, domain.LevelSuccess},
		{"created", 201, domain.LevelSuccess},
		{"moved permanently", 301, domain.LevelWarning},
		{"not found", 404, domain.LevelError},
		{"internal error", 500, domain.LevelFatal},
		{"unexpected", 100, domain.LevelError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ic := pageContextWithStatus("https://example.com", "<html></html>", tc.status)

			result, err := check.Apply(ctx, ic)
			require.NoError(t, err)
			assert.Equal(t, tc.level, result.Status)
			require.Len(t, result.Findings, 1)
			assert.Equal(t, tc.status, result.Findings[0].Details["status_code"])
		})
	}

	t.Run("works without a parseable document", func(t *testing.T) {
		// Empty body would fail Document(), the check must not care.
		ic := pageContextWithStatus("https://example.com", "", 204)

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelSuccess, result.Status)
	})

	t.Run("tolerated redirect", func(t *testing.T) {
		tolerant := NewStatusCodeCheck()
		tolerant.RedirectLevel = domain.LevelSuccess

		ic := pageContextWithStatus("https://example.com", "<html></html>", 302)

		result, err := tolerant.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelSuccess, result.Status)
	})
}
