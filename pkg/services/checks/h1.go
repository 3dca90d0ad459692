package checks

import (
	"context"
	"strings"

	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// H1Check validates that the page has exactly one non-empty <h1>.
type H1Check struct {
	MissingLevel  domain.Level
	EmptyLevel    domain.Level
	MultipleLevel domain.Level
}

func NewH1Check() *H1Check {
	return &H1Check{
		MissingLevel:  domain.LevelWarning,
		EmptyLevel:    domain.LevelWarning,
		MultipleLevel: domain.LevelNotice,
	}
}

func (c *H1Check) Name() string      { return "H1 Heading" }
func (c *H1Check) Checklist() string { return ChecklistContent }

func (c *H1Check) Config() map[string]any {
	return map[string]any{
		"missing_level":  c.MissingLevel.String(),
		"empty_level":    c.EmptyLevel.String(),
		"multiple_level": c.MultipleLevel.String(),
	}
}

func (c *H1Check) Apply(_ context.Context, ic *inspect.Context) (domain.CheckResult, error) {
	f := inspect.NewFindings(c, ic)

	doc, err := ic.Document()
	if err != nil {
		return domain.CheckResult{}, err
	}

	headings := doc.Find("h1")
	if headings.Length() == 0 {
		return f.Result(f.New(c.MissingLevel, "Missing <h1> heading.",
			map[string]any{"issue_type": "missing"})), nil
	}

	var findings []domain.Finding
	if headings.Length() > 1 {
		findings = append(findings, f.New(c.MultipleLevel, "Multiple <h1> headings found.",
			map[string]any{"issue_type": "multiple", "count": headings.Length()}))
	}

	if strings.TrimSpace(headings.First().Text()) == "" {
		findings = append(findings, f.New(c.EmptyLevel, "<h1> heading is empty.",
			map[string]any{"issue_type": "empty"}))
	}

	if len(findings) == 0 {
		return f.SuccessResult("Page has exactly one non-empty <h1> heading.", nil), nil
	}
	return f.Result(findings...), nil
}
