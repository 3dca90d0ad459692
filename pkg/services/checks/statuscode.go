package checks

import (
	"context"
	"fmt"

	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// StatusCodeCheck judges the response status code. It needs no parsed
// document, so it keeps working on non-HTML responses.
type StatusCodeCheck struct {
	RedirectLevel         domain.Level
	ClientErrorLevel      domain.Level
	ServerErrorLevel      domain.Level
	UnexpectedStatusLevel domain.Level
}

func NewStatusCodeCheck() *StatusCodeCheck {
	return &StatusCodeCheck{
		RedirectLevel:         domain.LevelWarning,
		ClientErrorLevel:      domain.LevelError,
		ServerErrorLevel:      domain.LevelFatal,
		UnexpectedStatusLevel: domain.LevelError,
	}
}

func (c *StatusCodeCheck) Name() string      { return "Status Code" }
func (c *StatusCodeCheck) Checklist() string { return ChecklistBaseline }

func (c *StatusCodeCheck) Config() map[string]any {
	return map[string]any{
		"redirect_level":          c.RedirectLevel.String(),
		"client_error_level":      c.ClientErrorLevel.String(),
		"server_error_level":      c.ServerErrorLevel.String(),
		"unexpected_status_level": c.UnexpectedStatusLevel.String(),
	}
}

func (c *StatusCodeCheck) Apply(_ context.Context, ic *inspect.Context) (domain.CheckResult, error) {
	f := inspect.NewFindings(c, ic)

	response := ic.Response()
	status := response.StatusCode
	details := map[string]any{"status_code": status}

	switch {
	case response.Successful():
		return f.SuccessResult(fmt.Sprintf("Status code (%d) indicates success.", status), details), nil

	case response.Redirect():
		if c.RedirectLevel == domain.LevelSuccess {
			return f.SuccessResult(fmt.Sprintf("Page redirected (%d) as expected.", status), details), nil
		}
		details["redirect_location"] = response.Header("Location")
		return f.Result(f.New(c.RedirectLevel, fmt.Sprintf("Page redirected (%d).", status), details)), nil

	case response.ClientError():
		return f.Result(f.New(c.ClientErrorLevel, fmt.Sprintf("Client error response (%d).", status), details)), nil

	case response.ServerError():
		return f.Result(f.New(c.ServerErrorLevel, fmt.Sprintf("Server error response (%d).", status), details)), nil

	default:
		return f.Result(f.New(c.UnexpectedStatusLevel, fmt.Sprintf("Received unexpected status code: %d.", status), details)), nil
	}
}
