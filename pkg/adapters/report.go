package adapters

import (
	"github.com/de-tools/page-atlas/pkg/models/api"
	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/de-tools/page-atlas/pkg/models/store"
)

func MapLevelCountsDomainToApi(c domain.LevelCounts) api.LevelCounts {
	return api.LevelCounts{
		Success: c.Success,
		Info:    c.Info,
		Notice:  c.Notice,
		Warning: c.Warning,
		Error:   c.Error,
		Fatal:   c.Fatal,
	}
}

func mapCountsStoreToApi(m map[string]int) api.LevelCounts {
	return api.LevelCounts{
		Success: m[domain.LevelSuccess.String()],
		Info:    m[domain.LevelInfo.String()],
		Notice:  m[domain.LevelNotice.String()],
		Warning: m[domain.LevelWarning.String()],
		Error:   m[domain.LevelError.String()],
		Fatal:   m[domain.LevelFatal.String()],
	}
}

func MapReportStoreToApi(r store.Report) api.Report {
	return api.Report{
		ID:              r.ID,
		InspectableType: r.InspectableType,
		InspectableID:   r.InspectableID,
		URL:             r.URL,
		Level:           r.Level,
		LevelSeverity:   r.LevelSeverity,
		FindingCounts:   mapCountsStoreToApi(r.FindingCounts),
		CheckCounts:     mapCountsStoreToApi(r.CheckCounts),
		UpdatedAt:       r.UpdatedAt,
	}
}

func MapRemarkStoreToApi(r store.Remark) api.Remark {
	return api.Remark{
		ID:            r.ID,
		ReportID:      r.ReportID,
		URL:           r.URL,
		Level:         r.Level,
		LevelSeverity: r.LevelSeverity,
		Check:         r.Check,
		Checklist:     r.Checklist,
		Message:       r.Message,
		Details:       r.Details,
		Config:        r.Config,
	}
}

func MapInspectionReportDomainToApi(r domain.InspectionReport) api.InspectionResult {
	result := api.InspectionResult{
		URL:           r.URL,
		Level:         r.Status.String(),
		FindingCounts: MapLevelCountsDomainToApi(r.FindingCounts),
		CheckCounts:   MapLevelCountsDomainToApi(r.CheckCounts),
		Checks:        make([]api.CheckResult, 0, len(r.Results)),
	}
	for _, cr := range r.Results {
		result.Checks = append(result.Checks, mapCheckResultDomainToApi(cr))
	}
	return result
}

func mapCheckResultDomainToApi(r domain.CheckResult) api.CheckResult {
	out := api.CheckResult{
		Check:     r.Check.Name,
		Checklist: r.Check.Checklist,
		Level:     r.Status.String(),
		Findings:  make([]api.Finding, 0, len(r.Findings)),
	}
	for _, f := range r.Findings {
		out.Findings = append(out.Findings, api.Finding{
			Level:   f.Level.String(),
			Message: f.Message,
			Details: f.Details,
		})
	}
	return out
}
