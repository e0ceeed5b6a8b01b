package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/timeslot"
)

type columnKind int

const (
	textColumn columnKind = iota
	realColumn
	boolColumn
)

type sectionColumn struct {
	field string
	kind  columnKind
}

// sectionColumns are the typed columns of the sections table. Any other row
// field is kept in the extra JSON column.
var sectionColumns = []sectionColumn{
	{model.FieldSemester, textColumn},
	{model.FieldCollege, textColumn},
	{model.FieldDepartment, textColumn},
	{model.FieldCourseCode, textColumn},
	{model.FieldCourseName, textColumn},
	{model.FieldSection, textColumn},
	{model.FieldInstructor, textColumn},
	{model.FieldInstructorCode, textColumn},
	{model.FieldDay, textColumn},
	{model.FieldStartTime, textColumn},
	{model.FieldEndTime, textColumn},
	{model.FieldHall, textColumn},
	{model.FieldBuilding, textColumn},
	{model.FieldRoomCapacity, realColumn},
	{model.FieldCreditHours, realColumn},
	{model.FieldLevel, textColumn},
	{model.FieldCourseLanguage, textColumn},
	{model.FieldSectionType, textColumn},
	{model.FieldStudentsInSection, realColumn},
	{model.FieldMaxStudents, realColumn},
	{model.FieldUniversityElective, boolColumn},
	{model.FieldUniversityRequirement, boolColumn},
	{model.FieldExamDate, textColumn},
	{model.FieldExamDay, textColumn},
	{model.FieldExamStartTime, textColumn},
	{model.FieldExamEndTime, textColumn},
	{model.FieldExamBuilding, textColumn},
	{model.FieldExamHall, textColumn},
}

var knownFields = func() map[string]bool {
	m := make(map[string]bool, len(sectionColumns))
	for _, c := range sectionColumns {
		m[c.field] = true
	}
	return m
}()

// Export describes one write of rows into the file.
type Export struct {
	CreatedAt time.Time
	Semester  string
	Source    string
	ID        int64
	RowCount  int
}

// SaveSections writes rows as a new export and returns its id. Every row is
// stored with one section_days entry per canonical meeting day. progress,
// when non-nil, is called after each row.
func (s *SQLiteStorage) SaveSections(ctx context.Context, semester, source string, rows []model.Row, progress func(int)) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: rows", ErrEmptySlice)
	}
	fields := make([]string, len(sectionColumns))
	for i, c := range sectionColumns {
		fields[i] = c.field
	}
	if err := validateColumns(fields); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO exports (semester, source, row_count) VALUES (?, ?, ?)`,
		nullString(semester), nullString(source), len(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to insert export: %w", err)
	}
	exportID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read export id: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)+2), ", ")
	sectionStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO sections (export_id, %s, extra) VALUES (%s)`,
		strings.Join(fields, ", "), placeholders))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare section insert: %w", err)
	}
	defer func() { _ = sectionStmt.Close() }()

	dayStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO section_days (section_id, day, start_minute, end_minute) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare day insert: %w", err)
	}
	defer func() { _ = dayStmt.Close() }()

	for i, r := range rows {
		args := make([]any, 0, len(fields)+2)
		args = append(args, exportID)
		for _, c := range sectionColumns {
			args = append(args, columnValue(r.Get(c.field), c.kind))
		}
		extra, err := extraJSON(r)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		args = append(args, extra)

		res, err := sectionStmt.ExecContext(ctx, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
		sectionID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read section id: %w", err)
		}

		start := minuteValue(r.Text(model.FieldStartTime))
		end := minuteValue(r.Text(model.FieldEndTime))
		for _, d := range timeslot.ExtractDays(r.Text(model.FieldDay)) {
			if _, err := dayStmt.ExecContext(ctx, sectionID, int(d), start, end); err != nil {
				return 0, fmt.Errorf("failed to insert meeting day for row %d: %w", i+1, err)
			}
		}

		if progress != nil {
			progress(i + 1)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit export: %w", err)
	}
	return exportID, nil
}

// Exports lists the exports in the file, newest first.
func (s *SQLiteStorage) Exports(ctx context.Context) ([]Export, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, semester, source, row_count, created_at FROM exports ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Export
	for rows.Next() {
		var e Export
		var semester, source sql.NullString
		if err := rows.Scan(&e.ID, &semester, &source, &e.RowCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		e.Semester = semester.String
		e.Source = source.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountSections returns the number of section rows written by an export.
func (s *SQLiteStorage) CountSections(ctx context.Context, exportID int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections WHERE export_id = ?`, exportID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count sections: %w", err)
	}
	return n, nil
}

func columnValue(v model.Value, kind columnKind) any {
	if v.IsNull() {
		return nil
	}
	switch kind {
	case realColumn:
		return v.Float()
	case boolColumn:
		if v.Truthy() {
			return 1
		}
		return 0
	default:
		return v.Text()
	}
}

func extraJSON(r model.Row) (any, error) {
	extra := make(map[string]string)
	for k, v := range r {
		if !knownFields[k] {
			extra[k] = v.Text()
		}
	}
	if len(extra) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extra fields: %w", err)
	}
	return string(data), nil
}

func minuteValue(text string) any {
	m, ok := timeslot.ParseMinutes(text)
	if !ok {
		return nil
	}
	return m
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
