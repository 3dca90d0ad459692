package store

import "time"

// Report is one persisted row in inspection_reports: the latest aggregate for
// one target. Targets without a backing record have empty InspectableType/ID
// and are keyed by URL.
type Report struct {
	ID              int64
	InspectableType string
	InspectableID   string
	URL             string
	Level           string
	LevelSeverity   int
	FindingCounts   map[string]int
	CheckCounts     map[string]int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Remark is one persisted finding, owned by a report. Target identity and URL
// are denormalized so remarks stay queryable on their own.
type Remark struct {
	ID              int64
	ReportID        int64
	InspectableType string
	InspectableID   string
	URL             string
	Level           string
	LevelSeverity   int
	Check           string
	Checklist       string
	Message         string
	Details         map[string]any
	Config          map[string]any
	CreatedAt       time.Time
}
