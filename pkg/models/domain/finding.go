package domain

// Finding is a single observation produced by one check against one page.
// Findings are value objects; once built they are never mutated.
type Finding struct {
	Level     Level
	Message   string
	Details   map[string]any
	Check     string
	Checklist string
	Config    map[string]any
	URL       string
}

// CheckIdentity names the check that produced a result.
type CheckIdentity struct {
	Name      string
	Checklist string
}

// CheckResult holds every finding from one check invocation plus the derived
// status, which is the most severe finding level (SUCCESS when there are none).
type CheckResult struct {
	Check    CheckIdentity
	Findings []Finding
	Status   Level
}

func NewCheckResult(check CheckIdentity, findings []Finding) CheckResult {
	status := LevelSuccess
	for _, f := range findings {
		status = MaxLevel(status, f.Level)
	}
	return CheckResult{
		Check:    check,
		Findings: findings,
		Status:   status,
	}
}

func (r CheckResult) IsSuccess() bool {
	return r.Status == LevelSuccess
}

func (r CheckResult) FindingCounts() LevelCounts {
	var counts LevelCounts
	for _, f := range r.Findings {
		counts.Add(f.Level)
	}
	return counts
}
