package api

import "time"

type LevelCounts struct {
	Success int `json:"success"`
	Info    int `json:"info"`
	Notice  int `json:"notice"`
	Warning int `json:"warning"`
	Error   int `json:"error"`
	Fatal   int `json:"fatal"`
}

type Report struct {
	ID              int64       `json:"id"`
	InspectableType string      `json:"inspectable_type,omitempty"`
	InspectableID   string      `json:"inspectable_id,omitempty"`
	URL             string      `json:"url"`
	Level           string      `json:"level"`
	LevelSeverity   int         `json:"level_severity"`
	FindingCounts   LevelCounts `json:"finding_counts"`
	CheckCounts     LevelCounts `json:"check_counts"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type Remark struct {
	ID            int64          `json:"id"`
	ReportID      int64          `json:"report_id"`
	URL           string         `json:"url"`
	Level         string         `json:"level"`
	LevelSeverity int            `json:"level_severity"`
	Check         string         `json:"check"`
	Checklist     string         `json:"checklist"`
	Message       string         `json:"message"`
	Details       map[string]any `json:"details,omitempty"`
	Config        map[string]any `json:"config,omitempty"`
}

// InspectionResult is the response of a synchronous URL inspection.
type InspectionResult struct {
	URL           string        `json:"url"`
	Level         string        `json:"level"`
	FindingCounts LevelCounts   `json:"finding_counts"`
	CheckCounts   LevelCounts   `json:"check_counts"`
	Checks        []CheckResult `json:"checks"`
}

type CheckResult struct {
	Check     string    `json:"check"`
	Checklist string    `json:"checklist"`
	Level     string    `json:"level"`
	Findings  []Finding `json:"findings"`
}

type Finding struct {
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
