package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/page-atlas/pkg/models/domain"
)

func TestH1Check(t *testing.T) {
	ctx := context.Background()
	check := NewH1Check()

	t.Run("single heading passes", func(t *testing.T) {
		ic := pageContext("https://example.com", "<html><body><h1>Welcome</h1></body></html>")

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelSuccess, result.Status)
	})

	t.Run("missing heading warns", func(t *testing.T) {
		ic := pageContext("https://example.com", "<html><body><h2>Not a main heading</h2></body></html>")

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelWarning, result.Status)
		assert.Equal(t, "missing", result.Findings[0].Details["issue_type"])
	})

	t.Run("empty heading warns", func(t *testing.T) {
		ic := pageContext("https://example.com", "<html><body><h1>  </h1></body></html>")

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelWarning, result.Status)
		assert.Equal(t, "empty", result.Findings[0].Details["issue_type"])
	})

	t.Run("multiple headings notice", func(t *testing.T) {
		ic := pageContext("https://example.com", "<html><body><h1>One</h1><h1>Two</h1></body></html>")

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelNotice, result.Status)
		assert.Equal(t, 2, result.Findings[0].Details["count"])
	})
}

func TestViewportCheck(t *testing.T) {
	ctx := context.Background()
	check := NewViewportCheck()

	t.Run("viewport present", func(t *testing.T) {
		body := `<html><head><meta name="viewport" content="width=device-width, initial-scale=1"></head><body></body></html>`
		ic := pageContext("https://example.com", body)

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelSuccess, result.Status)
	})

	t.Run("viewport missing", func(t *testing.T) {
		ic := pageContext("https://example.com", "<html><head></head><body></body></html>")

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelWarning, result.Status)
	})

	t.Run("empty content counts as missing", func(t *testing.T) {
		body := `<html><head><meta name="viewport" content="  "></head><body></body></html>`
		ic := pageContext("https://example.com", body)

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelWarning, result.Status)
	})
}

func TestMetaDescriptionCheck(t *testing.T) {
	ctx := context.Background()
	check := NewMetaDescriptionCheck()

	page := func(content string) string {
		return `<html><head><meta name="description" content="` + content + `"></head><body></body></html>`
	}

	t.Run("good description passes", func(t *testing.T) {
		ic := pageContext("https://example.com",
			page("A description of this page that is comfortably inside the recommended length."))

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelSuccess, result.Status)
	})

	t.Run("missing tag warns", func(t *testing.T) {
		ic := pageContext("https://example.com", "<html><head></head><body></body></html>")

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelWarning, result.Status)
		assert.Equal(t, "missing", result.Findings[0].Details["issue_type"])
	})

	t.Run("short description is a notice", func(t *testing.T) {
		ic := pageContext("https://example.com", page("Too short."))

		result, err := check.Apply(ctx, ic)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelNotice, result.Status)
		assert.Equal(t, "length_min", result.Findings[0].Details["issue_type"])
	})
}

func TestHostLinkDeterminer(t *testing.T) {
	ic := pageContext("https://example.com/page", "<html></html>")
	d := NewHostLinkDeterminer()

	assert.True(t, d.IsExternal("https://other.com/x", ic))
	assert.True(t, d.IsExternal("//cdn.other.com/script.js", ic))
	assert.False(t, d.IsExternal("https://example.com/about", ic))
	assert.False(t, d.IsExternal("/relative/path", ic))
	assert.False(t, d.IsExternal("#anchor", ic))
	assert.False(t, d.IsExternal("", ic))
}
