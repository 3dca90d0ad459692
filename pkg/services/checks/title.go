package checks

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// TitleCheck validates presence, uniqueness and length of the <title> tag.
// Length deviations are tiered: small overages get the minor level, anything
// past WarningOverage the major one. A missing or empty title short-circuits
// the length checks.
type TitleCheck struct {
	MinLength           int
	MaxLength           int
	WarningOverage      int
	MinorDeviationLevel domain.Level
	MajorDeviationLevel domain.Level
	MissingOrEmptyLevel domain.Level
	MultipleTitlesLevel domain.Level
}

func NewTitleCheck() *TitleCheck {
	return &TitleCheck{
		MinLength:           10,
		MaxLength:           60,
		WarningOverage:      15,
		MinorDeviationLevel: domain.LevelNotice,
		MajorDeviationLevel: domain.LevelWarning,
		MissingOrEmptyLevel: domain.LevelError,
		MultipleTitlesLevel: domain.LevelError,
	}
}

func (c *TitleCheck) Name() string      { return "Title" }
func (c *TitleCheck) Checklist() string { return ChecklistBaseline }

func (c *TitleCheck) Config() map[string]any {
	return map[string]any{
		"min_length":             c.MinLength,
		"max_length":             c.MaxLength,
		"warning_overage":        c.WarningOverage,
		"minor_deviation_level":  c.MinorDeviationLevel.String(),
		"major_deviation_level":  c.MajorDeviationLevel.String(),
		"missing_or_empty_level": c.MissingOrEmptyLevel.String(),
		"multiple_titles_level":  c.MultipleTitlesLevel.String(),
	}
}

func (c *TitleCheck) Apply(_ context.Context, ic *inspect.Context) (domain.CheckResult, error) {
	f := inspect.NewFindings(c, ic)

	doc, err := ic.Document()
	if err != nil {
		return domain.CheckResult{}, err
	}

	titles := doc.Find("head > title")
	if titles.Length() == 0 {
		return f.Result(f.New(c.MissingOrEmptyLevel, "Missing <title> tag.",
			map[string]any{"issue_type": "missing"})), nil
	}

	var findings []domain.Finding
	if titles.Length() > 1 {
		findings = append(findings, f.New(c.MultipleTitlesLevel, "Multiple <title> tags found.",
			map[string]any{"issue_type": "multiple", "count": titles.Length()}))
	}

	title := strings.TrimSpace(titles.First().Text())
	if title == "" {
		findings = append(findings, f.New(c.MissingOrEmptyLevel,
			"<title> tag is empty or contains only whitespace.",
			map[string]any{"issue_type": "empty"}))
	} else {
		findings = append(findings, c.lengthFindings(f, title)...)
	}

	if len(findings) == 0 {
		return f.SuccessResult("Title is present and has appropriate length.", nil), nil
	}
	return f.Result(findings...), nil
}

func (c *TitleCheck) lengthFindings(f inspect.Findings, title string) []domain.Finding {
	var findings []domain.Finding
	length := utf8.RuneCountInString(title)

	if c.MaxLength > 0 && length > c.MaxLength {
		overage := length - c.MaxLength
		level := c.MinorDeviationLevel
		if overage >= c.WarningOverage {
			level = c.MajorDeviationLevel
		}
		findings = append(findings, f.New(level,
			fmt.Sprintf("Title length (%d) exceeds the ideal maximum of %d by %d characters.",
				length, c.MaxLength, overage),
			map[string]any{
				"issue_type": "length_max",
				"title":      title,
				"length":     length,
				"limit":      c.MaxLength,
				"overage":    overage,
			}))
	}

	if c.MinLength > 0 && length < c.MinLength {
		findings = append(findings, f.New(c.MajorDeviationLevel,
			fmt.Sprintf("Title length (%d) is less than the recommended minimum of %d.",
				length, c.MinLength),
			map[string]any{
				"issue_type": "length_min",
				"title":      title,
				"length":     length,
				"limit":      c.MinLength,
			}))
	}

	return findings
}
