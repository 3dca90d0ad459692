package inspect

import (
	"context"
	"io"
	"net/http"

	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 10 << 20 // 10 MiB

// Fetcher retrieves one target URL. Failures before parsing are reported as
// *domain.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, url string, options domain.HTTPOptions) (*Response, error)
}

// HTTPFetcher fetches over plain HTTP with retries on transient transport
// errors. Non-2xx status codes are not failures; checks judge those.
type HTTPFetcher struct{}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string, options domain.HTTPOptions) (*Response, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = options.Retries
	client.HTTPClient.Timeout = options.Timeout
	client.Logger = nil

	if !options.FollowRedirects {
		client.HTTPClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	for name, value := range options.Headers {
		req.Header.Set(name, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}

	zerolog.Ctx(ctx).Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("body_bytes", len(body)).
		Msg("fetched target")

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}
