package checks

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/page-atlas/pkg/models/domain"
)

func pageWithTitle(title string) string {
	return fmt.Sprintf("<html><head><title>%s</title></head><body></body></html>", title)
}

func TestTitleCheck(t *testing.T) {
	ctx := context.Background()
	check := NewTitleCheck()

	t.Run("good title passes", func(t *testing.T) {
		ic := pageContext("https://example.com", pageWithTitle("A perfectly reasonable page title"))

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelSuccess, result.Status)
		require.Len(t, result.Findings, 1)
		assert.Equal(t, "Title", result.Findings[0].Check)
	})

	t.Run("missing title is an error", func(t *testing.T) {
		ic := pageContext("https://example.com", "<html><head></head><body></body></html>")

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelError, result.Status)
		require.Len(t, result.Findings, 1)
		assert.Equal(t, "missing", result.Findings[0].Details["issue_type"])
	})

	t.Run("empty title is an error", func(t *testing.T) {
		ic := pageContext("https://example.com", pageWithTitle("   "))

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelError, result.Status)
		assert.Equal(t, "empty", result.Findings[0].Details["issue_type"])
	})

	t.Run("multiple titles are flagged alongside length", func(t *testing.T) {
		body := "<html><head><title>First title about things</title><title>Second</title></head><body></body></html>"
		ic := pageContext("https://example.com", body)

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelError, result.Status)

		var issues []string
		for _, f := range result.Findings {
			issues = append(issues, f.Details["issue_type"].(string))
		}
		assert.Contains(t, issues, "multiple")
	})

	t.Run("small overage is a notice", func(t *testing.T) {
		// 65 runes, 5 past the maximum of 60.
		title := strings.Repeat("a", 65)
		ic := pageContext("https://example.com", pageWithTitle(title))

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelNotice, result.Status)
		assert.Equal(t, "length_max", result.Findings[0].Details["issue_type"])
		assert.Equal(t, 5, result.Findings[0].Details["overage"])
	})

	t.Run("large overage is a warning", func(t *testing.T) {
		title := strings.Repeat("a", 80)
		ic := pageContext("https://example.com", pageWithTitle(title))

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelWarning, result.Status)
	})

	t.Run("short title is a warning", func(t *testing.T) {
		ic := pageContext("https://example.com", pageWithTitle("Short"))

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelWarning, result.Status)
		assert.Equal(t, "length_min", result.Findings[0].Details["issue_type"])
	})

	t.Run("length counts runes not bytes", func(t *testing.T) {
		// 12 runes of multibyte text stays above the minimum of 10.
		ic := pageContext("https://example.com", pageWithTitle("ünïcödé tîtle"))

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelSuccess, result.Status)
	})

	t.Run("unparseable body propagates the error", func(t *testing.T) {
		ic := pageContext("https://example.com", "")

		_, err := check.Apply(ctx, ic)
		require.Error(t, err)
	})
}
