// Package commonslot finds the sections that meet inside, or collide with, a
// chosen time window.
package commonslot

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/timeslot"
)

// Mode selects between a plain time-slot search and a single-hall search.
type Mode string

const (
	// ModeSlot matches rows in any hall.
	ModeSlot Mode = "slot"
	// ModeHall restricts matches to Params.Hall when it is set.
	ModeHall Mode = "hall"
)

// TimeMode selects the interval test.
type TimeMode string

const (
	// Overlap keeps rows that share any time with the window. Touching endpoints do not count.
	Overlap TimeMode = "overlap"
	// Within keeps rows that lie entirely inside the window.
	Within TimeMode = "within"
)

// Validation errors.
var (
	ErrInvalidRange    = errors.New("end must be after start")
	ErrInvalidTime     = errors.New("invalid time")
	ErrInvalidMode     = errors.New("invalid mode")
	ErrInvalidTimeMode = errors.New("invalid time mode")
)

const (
	hintInvalidRange = "End must be after Start"
	hintNoMatches    = "No sections match this window; widen the time range or clear the day filter"
)

// Params are the user's current search settings.
type Params struct {
	Start       string
	End         string
	Mode        Mode
	Hall        string
	TimeMode    TimeMode
	Days        []timeslot.Day
	MinCapacity int
}

// DefaultParams mirrors the initial search window of the timetable viewer.
func DefaultParams() Params {
	return Params{
		Start:    "08:00",
		End:      "10:00",
		Mode:     ModeSlot,
		TimeMode: Overlap,
	}
}

// Result is the matching rows plus a hint for an empty or invalid search.
type Result struct {
	Hint string
	Rows []model.Row
}

// Filter returns the rows meeting every predicate in p. An inverted or empty
// window yields ErrInvalidRange together with an empty Result carrying a hint.
func Filter(rows []model.Row, p Params) (Result, error) {
	if p.Mode == "" {
		p.Mode = ModeSlot
	}
	if p.TimeMode == "" {
		p.TimeMode = Overlap
	}
	if p.Mode != ModeSlot && p.Mode != ModeHall {
		return Result{Rows: []model.Row{}}, fmt.Errorf("%w: %q", ErrInvalidMode, p.Mode)
	}
	if p.TimeMode != Overlap && p.TimeMode != Within {
		return Result{Rows: []model.Row{}}, fmt.Errorf("%w: %q", ErrInvalidTimeMode, p.TimeMode)
	}

	selStart, ok := timeslot.ParseMinutes(p.Start)
	if !ok {
		return Result{Rows: []model.Row{}, Hint: hintInvalidRange}, fmt.Errorf("%w: start %q", ErrInvalidTime, p.Start)
	}
	selEnd, ok := timeslot.ParseMinutes(p.End)
	if !ok {
		return Result{Rows: []model.Row{}, Hint: hintInvalidRange}, fmt.Errorf("%w: end %q", ErrInvalidTime, p.End)
	}
	if selStart >= selEnd {
		return Result{Rows: []model.Row{}, Hint: hintInvalidRange}, fmt.Errorf("%w: %s-%s", ErrInvalidRange, p.Start, p.End)
	}

	out := make([]model.Row, 0)
	for _, r := range rows {
		if matches(r, p, selStart, selEnd) {
			out = append(out, r)
		}
	}

	res := Result{Rows: out}
	if len(out) == 0 {
		res.Hint = hintNoMatches
	}
	return res, nil
}

func matches(r model.Row, p Params, selStart, selEnd int) bool {
	rs, ok := timeslot.ParseMinutes(r.Text(model.FieldStartTime))
	if !ok {
		return false
	}
	re, ok := timeslot.ParseMinutes(r.Text(model.FieldEndTime))
	if !ok {
		return false
	}

	switch p.TimeMode {
	case Within:
		if rs < selStart || re > selEnd {
			return false
		}
	default:
		if !(rs < selEnd && re > selStart) {
			return false
		}
	}

	if len(p.Days) > 0 {
		hit := false
		for _, d := range timeslot.ExtractDays(r.Text(model.FieldDay)) {
			if timeslot.ContainsDay(p.Days, d) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	if Capacity(r) < p.MinCapacity {
		return false
	}

	if p.Mode == ModeHall && p.Hall != "" && r.Text(model.FieldHall) != p.Hall {
		return false
	}
	return true
}

// Capacity is the row's room capacity floored to an integer; non-finite reads as zero.
func Capacity(r model.Row) int {
	return int(math.Floor(r.Float(model.FieldRoomCapacity)))
}

// Choices are the selectable values for a search form.
type Choices struct {
	Days  []timeslot.Day
	Halls []string
}

// Options lists the days present in rows in canonical order and the distinct
// trimmed halls sorted.
func Options(rows []model.Row) Choices {
	daySet := make(map[timeslot.Day]bool)
	hallSet := make(map[string]bool)
	for _, r := range rows {
		for _, d := range timeslot.ExtractDays(r.Text(model.FieldDay)) {
			daySet[d] = true
		}
		if h := r.Text(model.FieldHall); h != "" {
			hallSet[h] = true
		}
	}

	c := Choices{
		Days:  make([]timeslot.Day, 0, len(daySet)),
		Halls: make([]string, 0, len(hallSet)),
	}
	for d := range daySet {
		c.Days = append(c.Days, d)
	}
	timeslot.SortDays(c.Days)
	for h := range hallSet {
		c.Halls = append(c.Halls, h)
	}
	sort.Strings(c.Halls)
	return c
}
