// Package planner builds the selectable sections of a semester and detects
// lecture and exam clashes between a student's chosen sections.
package planner

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/timeslot"
)

// DefaultHall is shown for meetings and exams without a hall.
const DefaultHall = "TBA"

// ErrConflict is returned by Plan.Pick when the section clashes with the plan.
var ErrConflict = errors.New("section conflicts with plan")

// ErrUnknownSection is returned when a section id is not offered.
var ErrUnknownSection = errors.New("unknown section")

// Meeting is one weekly meeting row of a section.
type Meeting struct {
	Day   string
	Start string
	End   string
	Hall  string
}

// ExamSlot is a section's final exam.
type ExamSlot struct {
	Date  string
	Start string
	End   string
}

// SectionOption is one pickable course section.
type SectionOption struct {
	ID      string
	Label   string
	Code    string
	Section string
	Slots   []Meeting
	Exam    *ExamSlot
}

// BuildSections groups rows into sections keyed "<code>-<section>", in
// first-seen order. Rows without a code, section, day or times are ignored.
// The exam comes from the first row of the section that carries an exam date
// with both exam times.
func BuildSections(rows []model.Row) []SectionOption {
	index := make(map[string]int)
	out := []SectionOption{}

	for _, r := range rows {
		code := r.Text(model.FieldCourseCode)
		sec := r.Text(model.FieldSection)
		day := r.Text(model.FieldDay)
		start := r.Text(model.FieldStartTime)
		end := r.Text(model.FieldEndTime)
		if code == "" || sec == "" || day == "" || start == "" || end == "" {
			continue
		}

		id := code + "-" + sec
		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, SectionOption{
				ID:      id,
				Label:   fmt.Sprintf("%s (%s)", code, sec),
				Code:    code,
				Section: sec,
			})
		}

		opt := &out[i]
		if opt.Exam == nil {
			opt.Exam = examOf(r)
		}
		opt.Slots = append(opt.Slots, Meeting{
			Day:   day,
			Start: start,
			End:   end,
			Hall:  r.Text(model.FieldHall),
		})
	}
	return out
}

func examOf(r model.Row) *ExamSlot {
	date := r.Text(model.FieldExamDate)
	start := r.Text(model.FieldExamStartTime)
	end := r.Text(model.FieldExamEndTime)
	if date == "" || start == "" || end == "" {
		return nil
	}
	return &ExamSlot{Date: date, Start: start, End: end}
}

// ConflictReason explains why opt cannot join chosen, or returns "" when it
// can. Lectures clash when they share a day and overlap; exams clash when they
// share a date and overlap. Touching intervals do not clash.
func ConflictReason(opt SectionOption, chosen []SectionOption) string {
	for _, c := range chosen {
		if c.ID == opt.ID {
			return "already selected"
		}
	}

	var parts []string
	for _, slot := range opt.Slots {
		if clashesAny(slot, chosen) {
			parts = append(parts, fmt.Sprintf("%s:%s-%s", strings.ToUpper(slot.Day), slot.Start, slot.End))
		}
	}

	if opt.Exam != nil {
		for _, c := range chosen {
			if c.Exam != nil && examClash(*c.Exam, *opt.Exam) {
				parts = append(parts, fmt.Sprintf("Exam %s %s-%s", opt.Exam.Date, opt.Exam.Start, opt.Exam.End))
				break
			}
		}
	}
	return strings.Join(parts, ", ")
}

func clashesAny(slot Meeting, chosen []SectionOption) bool {
	for _, c := range chosen {
		for _, s := range c.Slots {
			if meetingClash(s, slot) {
				return true
			}
		}
	}
	return false
}

func meetingClash(a, b Meeting) bool {
	shared := false
	bDays := timeslot.ExtractDays(b.Day)
	for _, d := range timeslot.ExtractDays(a.Day) {
		if timeslot.ContainsDay(bDays, d) {
			shared = true
			break
		}
	}
	if !shared {
		return false
	}
	return overlaps(a.Start, a.End, b.Start, b.End)
}

func examClash(a, b ExamSlot) bool {
	return a.Date == b.Date && overlaps(a.Start, a.End, b.Start, b.End)
}

func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, ok1 := timeslot.ParseMinutes(aStart)
	ae, ok2 := timeslot.ParseMinutes(aEnd)
	bs, ok3 := timeslot.ParseMinutes(bStart)
	be, ok4 := timeslot.ParseMinutes(bEnd)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return as < be && bs < ae
}

// Plan is a student's set of chosen sections.
type Plan struct {
	AllowConflicts bool
	chosen         []SectionOption
}

// Chosen returns a copy of the picked sections in pick order.
func (p *Plan) Chosen() []SectionOption {
	return slices.Clone(p.chosen)
}

// Pick adds opt to the plan. A clash is rejected with ErrConflict unless
// AllowConflicts is set; picking the same section twice is always rejected.
func (p *Plan) Pick(opt SectionOption) error {
	reason := ConflictReason(opt, p.chosen)
	if reason != "" && (!p.AllowConflicts || reason == "already selected") {
		return fmt.Errorf("%w: %s: %s", ErrConflict, opt.Label, reason)
	}
	p.chosen = append(p.chosen, opt)
	return nil
}

// Remove drops the section with id from the plan.
func (p *Plan) Remove(id string) {
	kept := make([]SectionOption, 0, len(p.chosen))
	for _, c := range p.chosen {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	p.chosen = kept
}

// PickIDs looks up each id in options and picks it in order.
func (p *Plan) PickIDs(options []SectionOption, ids []string) error {
	byID := make(map[string]SectionOption, len(options))
	for _, o := range options {
		byID[strings.ToUpper(o.ID)] = o
	}
	for _, id := range ids {
		opt, ok := byID[strings.ToUpper(strings.TrimSpace(id))]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSection, id)
		}
		if err := p.Pick(opt); err != nil {
			return err
		}
	}
	return nil
}

// ExpandChosen returns one row per canonical day for every meeting row of the
// chosen sections, with times cut to HH:MM and the hall defaulting to TBA.
// Rows whose times are not HH:MM are dropped.
func ExpandChosen(rows []model.Row, chosen []SectionOption) []model.Row {
	ids := chosenIDs(chosen)
	if len(ids) == 0 {
		return []model.Row{}
	}

	out := []model.Row{}
	for _, r := range rows {
		if !ids[r.Text(model.FieldCourseCode)+"-"+r.Text(model.FieldSection)] {
			continue
		}
		start, okStart := timeslot.HHMM(r.Text(model.FieldStartTime))
		end, okEnd := timeslot.HHMM(r.Text(model.FieldEndTime))
		if !okStart || !okEnd {
			continue
		}
		hall := r.Text(model.FieldHall)
		if hall == "" {
			hall = DefaultHall
		}

		for _, d := range timeslot.ExtractDays(r.Text(model.FieldDay)) {
			e := r.Clone()
			e[model.FieldDay] = model.String(d.String())
			e[model.FieldStartTime] = model.String(start)
			e[model.FieldEndTime] = model.String(end)
			e[model.FieldHall] = model.String(hall)
			out = append(out, e)
		}
	}
	return out
}

// ExamRows returns the exam rows of every chosen course, one per distinct
// date, time, building and hall, with the exam hall defaulting to TBA.
func ExamRows(rows []model.Row, chosen []SectionOption) []model.Row {
	codes := make(map[string]bool, len(chosen))
	for _, c := range chosen {
		codes[c.Code] = true
	}
	if len(codes) == 0 {
		return []model.Row{}
	}

	seen := make(map[string]bool)
	out := []model.Row{}
	for _, r := range rows {
		code := r.Text(model.FieldCourseCode)
		if code == "" || !codes[code] {
			continue
		}
		date := r.Text(model.FieldExamDate)
		start, okStart := timeslot.HHMM(r.Text(model.FieldExamStartTime))
		end, okEnd := timeslot.HHMM(r.Text(model.FieldExamEndTime))
		if date == "" || !okStart || !okEnd {
			continue
		}
		building := r.Text(model.FieldExamBuilding)
		hall := r.Text(model.FieldExamHall)
		if hall == "" {
			hall = DefaultHall
		}

		key := strings.Join([]string{code, date, start, end, strings.ToLower(building), strings.ToLower(hall)}, "|")
		if seen[key] {
			continue
		}
		seen[key] = true

		e := r.Clone()
		e[model.FieldCourseCode] = model.String(code)
		e[model.FieldExamDate] = model.String(date)
		e[model.FieldExamStartTime] = model.String(start)
		e[model.FieldExamEndTime] = model.String(end)
		e[model.FieldExamBuilding] = model.String(building)
		e[model.FieldExamHall] = model.String(hall)
		out = append(out, e)
	}
	return out
}

func chosenIDs(chosen []SectionOption) map[string]bool {
	ids := make(map[string]bool, len(chosen))
	for _, c := range chosen {
		ids[c.ID] = true
	}
	return ids
}
