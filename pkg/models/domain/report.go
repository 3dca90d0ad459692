package domain

// TargetRef identifies the domain record a report belongs to. Reports for raw
// URL audits have no target and are keyed by URL alone.
type TargetRef struct {
	Type string
	ID   string
}

// InspectionReport aggregates every check result of one inspection run.
// Status is the most severe finding level across all results; FindingCounts
// tallies findings by level, CheckCounts tallies each result's own status.
// Both aggregates are order independent.
type InspectionReport struct {
	URL           string
	Target        *TargetRef
	Results       []CheckResult
	Status        Level
	FindingCounts LevelCounts
	CheckCounts   LevelCounts
}

func NewInspectionReport(url string, target *TargetRef, results []CheckResult) InspectionReport {
	report := InspectionReport{
		URL:     url,
		Target:  target,
		Results: results,
		Status:  LevelSuccess,
	}

	for _, result := range results {
		report.CheckCounts.Add(result.Status)
		for _, f := range result.Findings {
			report.Status = MaxLevel(report.Status, f.Level)
			report.FindingCounts.Add(f.Level)
		}
	}

	return report
}

// Findings flattens all results preserving check execution order.
func (r InspectionReport) Findings() []Finding {
	var findings []Finding
	for _, result := range r.Results {
		findings = append(findings, result.Findings...)
	}
	return findings
}

// ModelInspectionReport summarizes the stored reports of one target class
// after a bulk sweep. Used only for notification decisions.
type ModelInspectionReport struct {
	Class  string
	Counts LevelCounts
}

func (r ModelInspectionReport) Total() int {
	return r.Counts.Total()
}
