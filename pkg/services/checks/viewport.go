package checks

import (
	"context"
	"strings"

	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// ViewportCheck validates presence of a usable viewport meta tag.
type ViewportCheck struct {
	MissingLevel domain.Level
}

func NewViewportCheck() *ViewportCheck {
	return &ViewportCheck{
		MissingLevel: domain.LevelWarning,
	}
}

func (c *ViewportCheck) Name() string      { return "Viewport" }
func (c *ViewportCheck) Checklist() string { return ChecklistBaseline }

func (c *ViewportCheck) Config() map[string]any {
	return map[string]any{
		"missing_level": c.MissingLevel.String(),
	}
}

func (c *ViewportCheck) Apply(_ context.Context, ic *inspect.Context) (domain.CheckResult, error) {
	f := inspect.NewFindings(c, ic)

	doc, err := ic.Document()
	if err != nil {
		return domain.CheckResult{}, err
	}

	content := doc.Find(`head > meta[name="viewport"]`).AttrOr("content", "")
	if strings.TrimSpace(content) == "" {
		return f.Result(f.New(c.MissingLevel, "Missing or empty viewport meta tag.",
			map[string]any{"issue_type": "missing"})), nil
	}

	return f.SuccessResult("Viewport meta tag is present.",
		map[string]any{"content": content}), nil
}
