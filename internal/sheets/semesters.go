package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/service"
	"github.com/Veraticus/timetable/internal/timeslot"
)

var (
	// ErrSemesterColumns is returned when the semester tab lacks its columns.
	ErrSemesterColumns = errors.New("sheet must contain 'semester' and 'active' columns")
	// ErrLastUpdateColumns is returned when the last-update tab lacks its columns.
	ErrLastUpdateColumns = errors.New("tab must contain 'semester' and 'date' columns")
	// ErrNoValidRows is returned when no last-update row has a readable date.
	ErrNoValidRows = errors.New("sheet has no valid rows")
)

// ParseSemesters reads the semester tab. Columns are found by their labels;
// when the labels are missing the first row is taken as the header. The
// active semester is the first one flagged "yes".
func ParseSemesters(table model.Table) (model.SemesterInfo, error) {
	labels := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		labels[i] = c.Label
	}
	semIdx, actIdx := indexOf(labels, "semester"), indexOf(labels, "active")

	rows := table.Rows
	if semIdx < 0 || actIdx < 0 {
		if len(rows) == 0 {
			return model.SemesterInfo{}, ErrSemesterColumns
		}
		header := make([]string, len(rows[0]))
		for i, v := range rows[0] {
			header[i] = v.Text()
		}
		semIdx, actIdx = indexOf(header, "semester"), indexOf(header, "active")
		if semIdx < 0 || actIdx < 0 {
			return model.SemesterInfo{}, ErrSemesterColumns
		}
		rows = rows[1:]
	}

	info := model.SemesterInfo{List: []string{}}
	for _, r := range rows {
		semester := strings.TrimSpace(cellAt(r, semIdx).Text())
		if semester == "" {
			continue
		}
		info.List = append(info.List, semester)
		flag := strings.ToLower(strings.TrimSpace(cellAt(r, actIdx).Text()))
		if info.Active == "" && flag == "yes" {
			info.Active = semester
		}
	}
	return info, nil
}

// ParseLastUpdate reads the last-update tab and picks the row for wanted,
// compared case-insensitively. Without a match the most recent date wins.
// Rows whose date cannot be read are skipped.
func ParseLastUpdate(table model.Table, wanted string, loc *time.Location) (model.LastUpdate, error) {
	labels := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		labels[i] = c.Label
	}
	semIdx, dateIdx := indexOf(labels, "semester"), indexOf(labels, "date")
	if semIdx < 0 || dateIdx < 0 {
		return model.LastUpdate{}, ErrLastUpdateColumns
	}

	wanted = strings.TrimSpace(wanted)
	var (
		best  model.LastUpdate
		found bool
	)
	for _, r := range table.Rows {
		cell := cellAt(r, dateIdx)
		raw := cell.Text()
		parsed, ok := cell.Time, cell.IsDate()
		if !ok {
			parsed, ok = timeslot.ParseDate(raw, loc)
		}
		if !ok {
			continue
		}
		update := model.LastUpdate{
			Semester: cellAt(r, semIdx).Text(),
			Date:     raw,
			Parsed:   parsed,
		}
		if wanted != "" && strings.EqualFold(update.Semester, wanted) {
			return update, nil
		}
		if !found || update.Parsed.After(best.Parsed) {
			best = update
			found = true
		}
	}
	if !found {
		return model.LastUpdate{}, ErrNoValidRows
	}
	return best, nil
}

// Catalogue reads the semester and last-update tabs from two sources.
type Catalogue struct {
	semesters service.Source
	updates   service.Source
	location  *time.Location
}

// NewCatalogue creates a Catalogue. Either source may be nil, in which case
// the matching lookup fails with common.ErrMissingConfig.
func NewCatalogue(semesters, updates service.Source, loc *time.Location) *Catalogue {
	if loc == nil {
		loc = time.UTC
	}
	return &Catalogue{semesters: semesters, updates: updates, location: loc}
}

// Semesters fetches and parses the semester tab.
func (c *Catalogue) Semesters(ctx context.Context) (model.SemesterInfo, error) {
	if c.semesters == nil {
		return model.SemesterInfo{}, fmt.Errorf("%w: no semesters source", common.ErrMissingConfig)
	}
	table, err := c.semesters.Fetch(ctx)
	if err != nil {
		return model.SemesterInfo{}, err
	}
	info, err := ParseSemesters(table)
	if err != nil {
		return model.SemesterInfo{}, fmt.Errorf("%s: %w", c.semesters.Name(), err)
	}
	return info, nil
}

// LastUpdate fetches the last-update tab and picks the row for semester.
func (c *Catalogue) LastUpdate(ctx context.Context, semester string) (model.LastUpdate, error) {
	if c.updates == nil {
		return model.LastUpdate{}, fmt.Errorf("%w: no last-update source", common.ErrMissingConfig)
	}
	table, err := c.updates.Fetch(ctx)
	if err != nil {
		return model.LastUpdate{}, err
	}
	update, err := ParseLastUpdate(table, semester, c.location)
	if err != nil {
		return model.LastUpdate{}, fmt.Errorf("%s: %w", c.updates.Name(), err)
	}
	return update, nil
}

func indexOf(labels []string, want string) int {
	for i, l := range labels {
		if strings.ToLower(strings.TrimSpace(l)) == want {
			return i
		}
	}
	return -1
}

func cellAt(row []model.Value, i int) model.Value {
	if i < len(row) {
		return row[i]
	}
	return model.Null()
}
