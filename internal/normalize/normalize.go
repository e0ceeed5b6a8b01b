// Package normalize turns a raw spreadsheet table into canonical timetable rows.
package normalize

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/timeslot"
)

var (
	examCompound = regexp.MustCompile(`^\s*(\d{2}/\d{2}/\d{4})\s+([A-Za-z]{3})\s+(\d{1,2}:\d{2}(?::\d{2})?)\s*-\s*(\d{1,2}:\d{2}(?::\d{2})?)\s*$`)
	nonAlnum     = regexp.MustCompile(`[^a-z0-9]+`)
)

var identityFields = []string{
	model.FieldCourseCode,
	model.FieldSection,
	model.FieldDay,
	model.FieldStartTime,
	model.FieldEndTime,
	model.FieldInstructor,
	model.FieldHall,
	model.FieldSemester,
}

// Options configures a Normalizer.
type Options struct {
	// Location is used for Date(...) literals and rendered times. Defaults to UTC.
	Location *time.Location
	// Aliases are consulted before DefaultAliases.
	Aliases []HeaderAlias
}

// Result is the normalized dataset plus counts of dropped rows.
type Result struct {
	Dataset    model.Dataset
	Input      int
	Duplicates int
	Closed     int
}

// Normalizer maps headers, coerces cells and removes duplicate and closed rows.
type Normalizer struct {
	mapper   *HeaderMapper
	location *time.Location
	logger   *slog.Logger
}

// New creates a Normalizer. A nil logger uses slog.Default().
func New(opts Options, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{
		mapper:   NewHeaderMapper(opts.Aliases),
		location: loc,
		logger:   logger,
	}
}

// Normalize runs the full pipeline with default options.
func Normalize(table model.Table) model.Dataset {
	return New(Options{}, nil).Normalize(table).Dataset
}

// Normalize converts table into canonical rows. It never fails: unreadable
// cells are kept in their best-effort form and only duplicate or closed-section
// rows are dropped.
func (n *Normalizer) Normalize(table model.Table) Result {
	fields := make([]string, len(table.Columns))
	columns := make([]model.ColumnMeta, len(table.Columns))
	for i, col := range table.Columns {
		header := strings.TrimSpace(col.Label)
		if header == "" {
			header = col.ID
		}
		fields[i] = n.mapper.Field(header)
		columns[i] = model.ColumnMeta{
			ID:      fields[i],
			Label:   header,
			Type:    col.Type,
			Pattern: col.Pattern,
		}
	}

	result := Result{Input: len(table.Rows)}
	rows := make([]model.Row, 0, len(table.Rows))
	seen := make(map[string]bool, len(table.Rows))

	for _, raw := range table.Rows {
		row := n.buildRow(raw, table.Columns, fields)

		key := identityKey(row)
		if seen[key] {
			result.Duplicates++
			continue
		}
		seen[key] = true

		if IsClosedSection(row) {
			result.Closed++
			continue
		}
		rows = append(rows, row)
	}

	result.Dataset = model.Dataset{Columns: columns, Rows: rows}

	n.logger.Debug("normalized timetable feed",
		"input_rows", result.Input,
		"rows", len(rows),
		"duplicates", result.Duplicates,
		"closed_sections", result.Closed)

	return result
}

func (n *Normalizer) buildRow(raw []model.Value, columns []model.ColumnMeta, fields []string) model.Row {
	row := make(model.Row, len(fields)+4)
	for i, field := range fields {
		var cell model.Value
		if i < len(raw) {
			cell = raw[i]
		}
		value := n.formatField(field, n.coerce(cell, columns[i].Type))

		switch field {
		case model.FieldUniversityElective, model.FieldUniversityRequirement:
			value = model.Bool(value.Truthy())
		case model.FieldExamDateTime:
			splitExamDateTime(row, value)
		}
		row[field] = value
	}
	return row
}

// splitExamDateTime fills the discrete exam fields from a compound
// "DD/MM/YYYY DAY H:MM[:SS] - H:MM[:SS]" cell. Other values are left alone.
func splitExamDateTime(row model.Row, value model.Value) {
	m := examCompound.FindStringSubmatch(value.Text())
	if m == nil {
		return
	}
	start, okStart := timeslot.ParseMinutes(m[3])
	end, okEnd := timeslot.ParseMinutes(m[4])
	if !okStart || !okEnd {
		return
	}
	row[model.FieldExamDate] = model.String(m[1])
	row[model.FieldExamDay] = model.String(m[2])
	row[model.FieldExamStartTime] = model.String(timeslot.FormatMinutes(start))
	row[model.FieldExamEndTime] = model.String(timeslot.FormatMinutes(end))
}

func identityKey(row model.Row) string {
	parts := make([]string, len(identityFields))
	for i, f := range identityFields {
		parts[i] = strings.ToLower(row.Text(f))
	}
	return strings.Join(parts, "\x1f")
}

// IsClosedSection reports whether the row carries the closed-section sentinel:
// hall CLO, building "Closed Section" and instructor "To Be Announced",
// compared ignoring case and punctuation.
func IsClosedSection(row model.Row) bool {
	return squash(row.Text(model.FieldHall)) == "clo" &&
		squash(row.Text(model.FieldBuilding)) == "closedsection" &&
		squash(row.Text(model.FieldInstructor)) == "tobeannounced"
}

func squash(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}
