package inspect

import (
	"context"

	"github.com/de-tools/page-atlas/pkg/models/domain"
)

// Check is one validation unit. Implementations hold their own tunable
// configuration, expose it through Config for the audit trail, and keep no
// state between runs.
//
// Apply must not panic across its boundary on purpose; the inspector converts
// both returned errors and stray panics into a single FATAL result for the
// check, leaving the rest of the run untouched.
type Check interface {
	Name() string
	Checklist() string
	// Config snapshots the check's exposed tunables. Internal fields stay out.
	Config() map[string]any
	Apply(ctx context.Context, ic *Context) (domain.CheckResult, error)
}

// Findings builds findings and results on behalf of one check during one run.
// It is handed out by the inspector, so findings can only be minted inside a
// check's execution scope, and stamps every finding with the check identity,
// target URL and the config snapshot taken at creation time.
type Findings struct {
	check Check
	url   string
}

func NewFindings(check Check, ic *Context) Findings {
	return Findings{
		check: check,
		url:   ic.URL(),
	}
}

func (f Findings) New(level domain.Level, message string, details map[string]any) domain.Finding {
	return domain.Finding{
		Level:     level,
		Message:   message,
		Details:   details,
		Check:     f.check.Name(),
		Checklist: f.check.Checklist(),
		Config:    f.check.Config(),
		URL:       f.url,
	}
}

func (f Findings) Success(message string, details map[string]any) domain.Finding {
	return f.New(domain.LevelSuccess, message, details)
}

func (f Findings) Info(message string, details map[string]any) domain.Finding {
	return f.New(domain.LevelInfo, message, details)
}

func (f Findings) Notice(message string, details map[string]any) domain.Finding {
	return f.New(domain.LevelNotice, message, details)
}

func (f Findings) Warning(message string, details map[string]any) domain.Finding {
	return f.New(domain.LevelWarning, message, details)
}

func (f Findings) Error(message string, details map[string]any) domain.Finding {
	return f.New(domain.LevelError, message, details)
}

func (f Findings) Fatal(message string, details map[string]any) domain.Finding {
	return f.New(domain.LevelFatal, message, details)
}

// Result wraps findings into the check's result with the derived status.
func (f Findings) Result(findings ...domain.Finding) domain.CheckResult {
	return domain.NewCheckResult(f.identity(), findings)
}

// SuccessResult is the single-finding shorthand for a clean pass.
func (f Findings) SuccessResult(message string, details map[string]any) domain.CheckResult {
	return f.Result(f.Success(message, details))
}

func (f Findings) identity() domain.CheckIdentity {
	return domain.CheckIdentity{
		Name:      f.check.Name(),
		Checklist: f.check.Checklist(),
	}
}
