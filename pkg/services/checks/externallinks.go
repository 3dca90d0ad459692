package checks

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// ExternalLinksCheck probes every external link on the page for broken or
// unreachable destinations. Probes run concurrently on a bounded pool with a
// per-request timeout; one dead link never cancels the other probes, it just
// becomes a finding.
type ExternalLinksCheck struct {
	Level    domain.Level
	Timeout  time.Duration
	PoolSize int

	determiner ExternalLinkDeterminer
	client     *http.Client
}

func NewExternalLinksCheck(determiner ExternalLinkDeterminer) *ExternalLinksCheck {
	return &ExternalLinksCheck{
		Level:      domain.LevelWarning,
		Timeout:    5 * time.Second,
		PoolSize:   8,
		determiner: determiner,
		client:     &http.Client{},
	}
}

func (c *ExternalLinksCheck) Name() string      { return "External Links" }
func (c *ExternalLinksCheck) Checklist() string { return ChecklistContent }

func (c *ExternalLinksCheck) Config() map[string]any {
	return map[string]any{
		"level":     c.Level.String(),
		"timeout":   c.Timeout.String(),
		"pool_size": c.PoolSize,
	}
}

type linkProbe struct {
	url        string
	statusCode int
	err        error
}

func (c *ExternalLinksCheck) Apply(ctx context.Context, ic *inspect.Context) (domain.CheckResult, error) {
	f := inspect.NewFindings(c, ic)

	urls, err := c.collectExternalURLs(ic)
	if err != nil {
		return domain.CheckResult{}, err
	}
	if len(urls) == 0 {
		return f.SuccessResult("No external links found to check.", nil), nil
	}

	probes := c.probeAll(ctx, urls)

	var findings []domain.Finding
	for _, probe := range probes {
		switch {
		case probe.err != nil:
			findings = append(findings, f.New(c.Level, "Could not connect to the external link.",
				map[string]any{
					"issue_type":    "connection_error",
					"link_url":      probe.url,
					"error_message": probe.err.Error(),
				}))
		case probe.statusCode >= 400:
			findings = append(findings, f.New(c.Level,
				fmt.Sprintf("External link is broken or inaccessible. Responded with status code: %d", probe.statusCode),
				map[string]any{
					"issue_type":  "broken_link",
					"link_url":    probe.url,
					"status_code": probe.statusCode,
				}))
		}
	}

	if len(findings) == 0 {
		return f.SuccessResult("All external links are accessible.",
			map[string]any{"external_urls": urls}), nil
	}
	return f.Result(findings...), nil
}

func (c *ExternalLinksCheck) collectExternalURLs(ic *inspect.Context) ([]string, error) {
	doc, err := ic.Document()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var urls []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := sel.AttrOr("href", "")
		if !c.determiner.IsExternal(href, ic) {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		urls = append(urls, href)
	})

	sort.Strings(urls)
	return urls, nil
}

// probeAll issues one HEAD request per URL on at most PoolSize workers.
// Results come back after every probe resolved or timed out.
func (c *ExternalLinksCheck) probeAll(ctx context.Context, urls []string) []linkProbe {
	jobs := make(chan string)
	results := make(chan linkProbe, len(urls))

	var wg sync.WaitGroup
	workers := c.PoolSize
	if workers > len(urls) {
		workers = len(urls)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobs {
				results <- c.probe(ctx, url)
			}
		}()
	}

	for _, url := range urls {
		jobs <- url
	}
	close(jobs)
	wg.Wait()
	close(results)

	probes := make([]linkProbe, 0, len(urls))
	for probe := range results {
		probes = append(probes, probe)
	}
	sort.Slice(probes, func(i, j int) bool { return probes[i].url < probes[j].url })
	return probes
}

func (c *ExternalLinksCheck) probe(ctx context.Context, url string) linkProbe {
	reqCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, url, nil)
	if err != nil {
		return linkProbe{url: url, err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return linkProbe{url: url, err: err}
	}
	resp.Body.Close()

	return linkProbe{url: url, statusCode: resp.StatusCode}
}
