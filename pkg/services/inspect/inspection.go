package inspect

import "github.com/de-tools/page-atlas/pkg/models/domain"

// Inspection describes one audit target: which URL to fetch, which checks to
// run against it, and how. Implementations are built per run and never
// persisted.
type Inspection interface {
	URL() string
	Checks() []Check
	ShouldInspect() bool
	HTTPOptions() domain.HTTPOptions
	// Target returns the backing domain record, or nil for raw URL audits.
	Target() *domain.TargetRef
}

// URLInspection audits an arbitrary URL with an explicit set of checks and no
// backing record.
type URLInspection struct {
	url     string
	checks  []Check
	options domain.HTTPOptions
}

func NewURLInspection(url string, checks []Check) *URLInspection {
	return &URLInspection{
		url:     url,
		checks:  checks,
		options: domain.DefaultHTTPOptions(),
	}
}

// WithHTTPOptions overrides the default fetch options.
func (i *URLInspection) WithHTTPOptions(options domain.HTTPOptions) *URLInspection {
	i.options = options
	return i
}

func (i *URLInspection) URL() string                     { return i.url }
func (i *URLInspection) Checks() []Check                 { return i.checks }
func (i *URLInspection) ShouldInspect() bool             { return true }
func (i *URLInspection) HTTPOptions() domain.HTTPOptions { return i.options }
func (i *URLInspection) Target() *domain.TargetRef       { return nil }

// RecordInspection audits a URL tied to a domain record. Eligible is resolved
// by the owner up front (e.g. published state) and gates the whole run before
// any network I/O.
type RecordInspection struct {
	Ref      domain.TargetRef
	PageURL  string
	Eligible bool
	List     []Check
	Options  domain.HTTPOptions
}

func (i *RecordInspection) URL() string                     { return i.PageURL }
func (i *RecordInspection) Checks() []Check                 { return i.List }
func (i *RecordInspection) ShouldInspect() bool             { return i.Eligible }
func (i *RecordInspection) HTTPOptions() domain.HTTPOptions { return i.Options }
func (i *RecordInspection) Target() *domain.TargetRef {
	ref := i.Ref
	return &ref
}
