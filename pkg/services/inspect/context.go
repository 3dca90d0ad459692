package inspect

import (
	"bytes"
	"net/http"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/de-tools/page-atlas/pkg/models/domain"
)

// Response is the fetched representation of a target, as the checks see it.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

func (r *Response) Header(name string) string {
	return r.Headers.Get(name)
}

func (r *Response) Successful() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) Redirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) ClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) ServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// Context is the shared, read-only view of one fetched target. It is built
// once per run and handed to every check in sequence. The document tree is
// parsed on first use and cached, including the parse failure; checks that
// never ask for the document are unaffected by a malformed body.
type Context struct {
	inspection Inspection
	response   *Response

	parseOnce sync.Once
	doc       *goquery.Document
	docErr    error
}

func NewContext(inspection Inspection, response *Response) *Context {
	return &Context{
		inspection: inspection,
		response:   response,
	}
}

func (c *Context) URL() string {
	return c.inspection.URL()
}

func (c *Context) Inspection() Inspection {
	return c.inspection
}

func (c *Context) Response() *Response {
	return c.response
}

// Document returns the parsed document tree, parsing it on the first call.
// It fails with *domain.ParseError when the response is not markup, the body
// is empty, or parsing breaks.
func (c *Context) Document() (*goquery.Document, error) {
	c.parseOnce.Do(func() {
		c.doc, c.docErr = c.parse()
	})
	return c.doc, c.docErr
}

func (c *Context) parse() (*goquery.Document, error) {
	contentType := strings.ToLower(c.response.Header("Content-Type"))
	if !strings.Contains(contentType, "text/html") {
		return nil, &domain.ParseError{
			URL:    c.URL(),
			Reason: "response is not HTML (Content-Type: " + contentType + ")",
		}
	}

	if len(bytes.TrimSpace(c.response.Body)) == 0 {
		return nil, &domain.ParseError{
			URL:    c.URL(),
			Reason: "response body is empty",
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(c.response.Body))
	if err != nil {
		return nil, &domain.ParseError{
			URL:    c.URL(),
			Reason: "malformed document",
			Err:    err,
		}
	}

	return doc, nil
}
