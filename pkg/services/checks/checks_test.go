package checks

import (
	"net/http"

	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// pageContext builds an inspection context around a canned HTML body, the way
// the inspector would after a successful fetch.
func pageContext(url, body string) *inspect.Context {
	return pageContextWithStatus(url, body, http.StatusOK)
}

func pageContextWithStatus(url, body string, status int) *inspect.Context {
	inspection := inspect.NewURLInspection(url, nil)
	response := &inspect.Response{
		StatusCode: status,
		Headers:    http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:       []byte(body),
	}
	return inspect.NewContext(inspection, response)
}
