package inspect

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/page-atlas/pkg/models/domain"
)

func htmlResponse(body string) *Response {
	return &Response{
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:       []byte(body),
	}
}

func TestResponse_StatusClasses(t *testing.T) {
	assert.True(t, (&Response{StatusCode: 200}).Successful())
	assert.True(t, (&Response{StatusCode: 301}).Redirect())
	assert.True(t, (&Response{StatusCode: 404}).ClientError())
	assert.True(t, (&Response{StatusCode: 503}).ServerError())
	assert.False(t, (&Response{StatusCode: 404}).Successful())
}

func TestContext_Document(t *testing.T) {
	t.Run("parses html lazily", func(t *testing.T) {
		inspection := NewURLInspection("https://example.com", nil)
		ic := NewContext(inspection, htmlResponse("<html><head><title>Hi</title></head><body></body></html>"))

		doc, err := ic.Document()
		require.NoError(t, err)
		assert.Equal(t, "Hi", doc.Find("title").Text())
	})

	t.Run("caches the parsed document", func(t *testing.T) {
		inspection := NewURLInspection("https://example.com", nil)
		ic := NewContext(inspection, htmlResponse("<html><body><p>x</p></body></html>"))

		first, err := ic.Document()
		require.NoError(t, err)
		second, err := ic.Document()
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("rejects non-html content type", func(t *testing.T) {
		inspection := NewURLInspection("https://example.com/data.json", nil)
		response := &Response{
			StatusCode: http.StatusOK,
			Headers:    http.Header{"Content-Type": []string{"application/json"}},
			Body:       []byte(`{"ok":true}`),
		}
		ic := NewContext(inspection, response)

		_, err := ic.Document()
		require.Error(t, err)

		var parseErr *domain.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "https://example.com/data.json", parseErr.URL)
		assert.Contains(t, parseErr.Reason, "not HTML")
	})

	t.Run("rejects empty body", func(t *testing.T) {
		inspection := NewURLInspection("https://example.com", nil)
		ic := NewContext(inspection, htmlResponse("  \n\t "))

		_, err := ic.Document()
		require.Error(t, err)

		var parseErr *domain.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Contains(t, parseErr.Reason, "empty")
	})

	t.Run("caches the parse failure too", func(t *testing.T) {
		inspection := NewURLInspection("https://example.com", nil)
		ic := NewContext(inspection, htmlResponse(""))

		_, first := ic.Document()
		_, second := ic.Document()
		require.Error(t, first)
		assert.Equal(t, first, second)
	})
}
