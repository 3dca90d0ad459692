package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/de-tools/page-atlas/pkg/models/domain"
)

type Settings struct {
	DbPath string
}

const reportsTable = `
	CREATE TABLE IF NOT EXISTS inspection_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		inspectable_type TEXT NOT NULL DEFAULT '',
		inspectable_id   TEXT NOT NULL DEFAULT '',
		url   TEXT NOT NULL,
		level TEXT NOT NULL,
		finding_counts TEXT,
		check_counts   TEXT,
		level_severity INTEGER GENERATED ALWAYS AS (%s) STORED,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
`

const remarksTable = `
	CREATE TABLE IF NOT EXISTS inspection_remarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id INTEGER NOT NULL REFERENCES inspection_reports(id) ON DELETE CASCADE,
		inspectable_type TEXT NOT NULL DEFAULT '',
		inspectable_id   TEXT NOT NULL DEFAULT '',
		url   TEXT NOT NULL,
		level TEXT NOT NULL,
		check_name TEXT NOT NULL,
		checklist  TEXT NOT NULL,
		message TEXT NOT NULL,
		details TEXT,
		config  TEXT,
		level_severity INTEGER GENERATED ALWAYS AS (%s) STORED,
		created_at TEXT NOT NULL
	);
`

var indexQueries = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_reports_inspectable
		ON inspection_reports (inspectable_type, inspectable_id)
		WHERE inspectable_type != '';`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_reports_url
		ON inspection_reports (url)
		WHERE inspectable_type = '';`,
	`CREATE INDEX IF NOT EXISTS idx_reports_level ON inspection_reports (level);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_severity ON inspection_reports (level_severity);`,
	`CREATE INDEX IF NOT EXISTS idx_remarks_report ON inspection_remarks (report_id);`,
	`CREATE INDEX IF NOT EXISTS idx_remarks_check ON inspection_remarks (check_name);`,
	`CREATE INDEX IF NOT EXISTS idx_remarks_severity ON inspection_remarks (level_severity);`,
}

// NewDB opens (and creates if missing) the SQLite database and ensures the
// schema. Foreign keys are switched on so remarks cascade with their report.
func NewDB(settings Settings) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)",
		settings.DbPath,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", settings.DbPath, err)
	}

	severity := levelSeverityCaseExpr()
	bootQueries := []string{
		fmt.Sprintf(reportsTable, severity),
		fmt.Sprintf(remarksTable, severity),
	}
	bootQueries = append(bootQueries, indexQueries...)

	for _, query := range bootQueries {
		if _, err := db.Exec(query); err != nil {
			db.Close()
			return nil, fmt.Errorf("bootstrap schema: %w", err)
		}
	}

	return db, nil
}

// levelSeverityCaseExpr derives the stored severity column from the level
// column. The expression is generated from the one severity mapping so the
// stored rank can never drift from it.
func levelSeverityCaseExpr() string {
	var b strings.Builder
	b.WriteString("CASE level")
	for _, l := range domain.Levels() {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", l, l.Rank())
	}
	b.WriteString(" ELSE 0 END")
	return b.String()
}
