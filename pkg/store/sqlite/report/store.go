package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/de-tools/page-atlas/pkg/models/store"
	"github.com/de-tools/page-atlas/pkg/store/sqlite"
)

// ErrNotFound is returned when a requested report does not exist.
var ErrNotFound = errors.New("report not found")

// Filter narrows report listings.
type Filter struct {
	InspectableType string
	Level           string
	Limit           int
}

// Store persists and queries inspection reports and their remarks. Record is
// the write path of the pipeline; the rest serves browsing, sweeps and
// summaries.
type Store interface {
	Record(ctx context.Context, report domain.InspectionReport) error
	DeleteByTarget(ctx context.Context, ref domain.TargetRef) error
	CountByLevel(ctx context.Context, inspectableType string) (domain.LevelCounts, error)
	TargetLevel(ctx context.Context, ref domain.TargetRef) (domain.Level, bool, error)
	ListReports(ctx context.Context, filter Filter) ([]store.Report, error)
	GetReport(ctx context.Context, id int64) (*store.Report, error)
	ListRemarks(ctx context.Context, reportID int64) ([]store.Remark, error)
}

type reportStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &reportStore{db: db}, nil
}

// Record replaces the stored state for the report's target: the report row is
// upserted on its identity key, every old remark is deleted and the new ones
// inserted. The whole sequence runs in one transaction, so a failure leaves
// the prior report intact.
func (s *reportStore) Record(ctx context.Context, report domain.InspectionReport) error {
	ownTx := sqlite.GetTransaction(ctx) == nil

	tx := sqlite.GetTransaction(ctx)
	if ownTx {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()
	}

	reportID, err := s.upsertReport(ctx, tx, report)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM inspection_remarks WHERE report_id = ?`, reportID); err != nil {
		return fmt.Errorf("delete stale remarks: %w", err)
	}

	if err := s.insertRemarks(ctx, tx, reportID, report); err != nil {
		return err
	}

	if ownTx {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit report: %w", err)
		}
	}
	return nil
}

func (s *reportStore) upsertReport(ctx context.Context, tx *sql.Tx, report domain.InspectionReport) (int64, error) {
	findingCounts, err := json.Marshal(report.FindingCounts)
	if err != nil {
		return 0, fmt.Errorf("marshal finding counts: %w", err)
	}
	checkCounts, err := json.Marshal(report.CheckCounts)
	if err != nil {
		return 0, fmt.Errorf("marshal check counts: %w", err)
	}

	targetType, targetID := targetKey(report.Target)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var existingID int64
	var row *sql.Row
	if targetType != "" {
		row = tx.QueryRowContext(ctx,
			`SELECT id FROM inspection_reports WHERE inspectable_type = ? AND inspectable_id = ?`,
			targetType, targetID)
	} else {
		row = tx.QueryRowContext(ctx,
			`SELECT id FROM inspection_reports WHERE inspectable_type = '' AND url = ?`,
			report.URL)
	}

	switch err := row.Scan(&existingID); {
	case err == nil:
		_, err := tx.ExecContext(ctx, `
			UPDATE inspection_reports
			SET url = ?, level = ?, finding_counts = ?, check_counts = ?, updated_at = ?
			WHERE id = ?`,
			report.URL, report.Status.String(), findingCounts, checkCounts, now, existingID)
		if err != nil {
			return 0, fmt.Errorf("update report: %w", err)
		}
		return existingID, nil

	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx, `
			INSERT INTO inspection_reports
				(inspectable_type, inspectable_id, url, level, finding_counts, check_counts, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			targetType, targetID, report.URL, report.Status.String(), findingCounts, checkCounts, now, now)
		if err != nil {
			return 0, fmt.Errorf("insert report: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("report id: %w", err)
		}
		return id, nil

	default:
		return 0, fmt.Errorf("find existing report: %w", err)
	}
}

func (s *reportStore) insertRemarks(ctx context.Context, tx *sql.Tx, reportID int64, report domain.InspectionReport) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO inspection_remarks
			(report_id, inspectable_type, inspectable_id, url, level, check_name, checklist,
			 message, details, config, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare remark insert: %w", err)
	}
	defer stmt.Close()

	targetType, targetID := targetKey(report.Target)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	for _, finding := range report.Findings() {
		details, err := marshalNullable(finding.Details)
		if err != nil {
			return fmt.Errorf("marshal remark details: %w", err)
		}
		config, err := marshalNullable(finding.Config)
		if err != nil {
			return fmt.Errorf("marshal remark config: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			reportID, targetType, targetID, finding.URL,
			finding.Level.String(), finding.Check, finding.Checklist,
			finding.Message, details, config, now,
		); err != nil {
			return fmt.Errorf("insert remark: %w", err)
		}
	}
	return nil
}

// DeleteByTarget drops the report (and, through the cascade, its remarks) of
// one record-bound target. Deleting an absent report is a no-op.
func (s *reportStore) DeleteByTarget(ctx context.Context, ref domain.TargetRef) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM inspection_reports WHERE inspectable_type = ? AND inspectable_id = ?`,
		ref.Type, ref.ID)
	if err != nil {
		return fmt.Errorf("delete report for %s/%s: %w", ref.Type, ref.ID, err)
	}
	return nil
}

func (s *reportStore) CountByLevel(ctx context.Context, inspectableType string) (domain.LevelCounts, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT level, COUNT(*)
		FROM inspection_reports
		WHERE inspectable_type = ?
		GROUP BY level`,
		inspectableType)
	if err != nil {
		return domain.LevelCounts{}, fmt.Errorf("count reports by level: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Level]int)
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return domain.LevelCounts{}, err
		}
		counts[domain.Level(level)] = count
	}
	if err := rows.Err(); err != nil {
		return domain.LevelCounts{}, err
	}

	return domain.CountsFromMap(counts), nil
}

// TargetLevel returns the level of a target's last report, if one exists.
func (s *reportStore) TargetLevel(ctx context.Context, ref domain.TargetRef) (domain.Level, bool, error) {
	var level string
	err := s.db.QueryRowContext(ctx,
		`SELECT level FROM inspection_reports WHERE inspectable_type = ? AND inspectable_id = ?`,
		ref.Type, ref.ID).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load target level: %w", err)
	}
	return domain.Level(level), true, nil
}

func (s *reportStore) ListReports(ctx context.Context, filter Filter) ([]store.Report, error) {
	query := `
		SELECT id, inspectable_type, inspectable_id, url, level, level_severity,
		       finding_counts, check_counts, created_at, updated_at
		FROM inspection_reports`
	var conds []string
	var args []any

	if filter.InspectableType != "" {
		conds = append(conds, "inspectable_type = ?")
		args = append(args, filter.InspectableType)
	}
	if filter.Level != "" {
		conds = append(conds, "level = ?")
		args = append(args, filter.Level)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY level_severity DESC, updated_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()
	return scanReports(rows)
}

func (s *reportStore) GetReport(ctx context.Context, id int64) (*store.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, inspectable_type, inspectable_id, url, level, level_severity,
		       finding_counts, check_counts, created_at, updated_at
		FROM inspection_reports
		WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	defer rows.Close()

	reports, err := scanReports(rows)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNotFound
	}
	return &reports[0], nil
}

func (s *reportStore) ListRemarks(ctx context.Context, reportID int64) ([]store.Remark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, report_id, inspectable_type, inspectable_id, url, level, level_severity,
		       check_name, checklist, message, details, config, created_at
		FROM inspection_remarks
		WHERE report_id = ?
		ORDER BY level_severity DESC, id ASC`, reportID)
	if err != nil {
		return nil, fmt.Errorf("list remarks: %w", err)
	}
	defer rows.Close()

	remarks := make([]store.Remark, 0)
	for rows.Next() {
		var (
			r               store.Remark
			details, config sql.NullString
			createdAt       string
		)
		if err := rows.Scan(&r.ID, &r.ReportID, &r.InspectableType, &r.InspectableID, &r.URL,
			&r.Level, &r.LevelSeverity, &r.Check, &r.Checklist, &r.Message,
			&details, &config, &createdAt); err != nil {
			return nil, err
		}
		r.Details = unmarshalNullable(details)
		r.Config = unmarshalNullable(config)
		r.CreatedAt = parseTime(createdAt)
		remarks = append(remarks, r)
	}
	return remarks, rows.Err()
}

func scanReports(rows *sql.Rows) ([]store.Report, error) {
	reports := make([]store.Report, 0)
	for rows.Next() {
		var (
			r                          store.Report
			findingCounts, checkCounts sql.NullString
			createdAt, updatedAt       string
		)
		if err := rows.Scan(&r.ID, &r.InspectableType, &r.InspectableID, &r.URL,
			&r.Level, &r.LevelSeverity, &findingCounts, &checkCounts,
			&createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.FindingCounts = unmarshalCounts(findingCounts)
		r.CheckCounts = unmarshalCounts(checkCounts)
		r.CreatedAt = parseTime(createdAt)
		r.UpdatedAt = parseTime(updatedAt)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func targetKey(ref *domain.TargetRef) (string, string) {
	if ref == nil {
		return "", ""
	}
	return ref.Type, ref.ID
}

func marshalNullable(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func unmarshalNullable(s sql.NullString) map[string]any {
	if !s.Valid || s.String == "" {
		return nil
	}
	m := map[string]any{}
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil
	}
	return m
}

func unmarshalCounts(s sql.NullString) map[string]int {
	if !s.Valid || s.String == "" {
		return nil
	}
	m := map[string]int{}
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil
	}
	return m
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
