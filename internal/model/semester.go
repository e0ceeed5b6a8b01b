package model

import "time"

// SemesterInfo is the semester catalogue: every semester listed plus the one
// flagged active, which may be empty.
type SemesterInfo struct {
	Active string
	List   []string
}

// LastUpdate records when a semester's timetable was last changed.
type LastUpdate struct {
	Parsed   time.Time
	Semester string
	// Date is the raw cell text.
	Date string
}
