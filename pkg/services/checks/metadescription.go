package checks

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// MetaDescriptionCheck validates the meta description tag.
type MetaDescriptionCheck struct {
	MinLength     int
	MaxLength     int
	MissingLevel  domain.Level
	EmptyLevel    domain.Level
	LengthLevel   domain.Level
	MultipleLevel domain.Level
}

func NewMetaDescriptionCheck() *MetaDescriptionCheck {
	return &MetaDescriptionCheck{
		MinLength:     50,
		MaxLength:     160,
		MissingLevel:  domain.LevelWarning,
		EmptyLevel:    domain.LevelWarning,
		LengthLevel:   domain.LevelNotice,
		MultipleLevel: domain.LevelError,
	}
}

func (c *MetaDescriptionCheck) Name() string      { return "Meta Description" }
func (c *MetaDescriptionCheck) Checklist() string { return ChecklistSEO }

func (c *MetaDescriptionCheck) Config() map[string]any {
	return map[string]any{
		"min_length":     c.MinLength,
		"max_length":     c.MaxLength,
		"missing_level":  c.MissingLevel.String(),
		"empty_level":    c.EmptyLevel.String(),
		"length_level":   c.LengthLevel.String(),
		"multiple_level": c.MultipleLevel.String(),
	}
}

func (c *MetaDescriptionCheck) Apply(_ context.Context, ic *inspect.Context) (domain.CheckResult, error) {
	f := inspect.NewFindings(c, ic)

	doc, err := ic.Document()
	if err != nil {
		return domain.CheckResult{}, err
	}

	nodes := doc.Find(`head > meta[name="description"]`)
	if nodes.Length() == 0 {
		return f.Result(f.New(c.MissingLevel, "Missing meta description tag.",
			map[string]any{"issue_type": "missing"})), nil
	}

	var findings []domain.Finding
	if nodes.Length() > 1 {
		findings = append(findings, f.New(c.MultipleLevel, "Multiple meta description tags found.",
			map[string]any{"issue_type": "multiple", "count": nodes.Length()}))
	}

	content := strings.TrimSpace(nodes.First().AttrOr("content", ""))
	if content == "" {
		findings = append(findings, f.New(c.EmptyLevel, "Meta description is empty.",
			map[string]any{"issue_type": "empty"}))
		return f.Result(findings...), nil
	}

	length := utf8.RuneCountInString(content)
	switch {
	case c.MaxLength > 0 && length > c.MaxLength:
		findings = append(findings, f.New(c.LengthLevel,
			fmt.Sprintf("Meta description length (%d) exceeds the ideal maximum of %d.", length, c.MaxLength),
			map[string]any{"issue_type": "length_max", "length": length, "limit": c.MaxLength}))
	case c.MinLength > 0 && length < c.MinLength:
		findings = append(findings, f.New(c.LengthLevel,
			fmt.Sprintf("Meta description length (%d) is less than the recommended minimum of %d.", length, c.MinLength),
			map[string]any{"issue_type": "length_min", "length": length, "limit": c.MinLength}))
	}

	if len(findings) == 0 {
		return f.SuccessResult("Meta description is present and has appropriate length.", nil), nil
	}
	return f.Result(findings...), nil
}
