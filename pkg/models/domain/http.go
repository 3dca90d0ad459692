package domain

import "time"

// HTTPOptions tune the fetch of one inspection target.
type HTTPOptions struct {
	Timeout         time.Duration
	Headers         map[string]string
	FollowRedirects bool
	// Retries is the number of re-attempts on transient transport errors
	// before the fetch is reported as failed.
	Retries int
}

func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		Timeout:         15 * time.Second,
		FollowRedirects: true,
		Retries:         2,
	}
}
