// Package stats aggregates canonical rows into course, enrollment, teaching
// hour and faculty counts for the statistics views.
package stats

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/timetable/internal/model"
)

// Level is a normalized study level.
type Level string

// Study levels.
const (
	LevelUG Level = "ug"
	LevelPG Level = "pg"
)

// Levels lists the study levels in display order.
var Levels = []Level{LevelUG, LevelPG}

// Label returns the display label of a level.
func (l Level) Label() string {
	return strings.ToUpper(string(l))
}

const sep = "\x1f"

var spaces = regexp.MustCompile(`\s+`)

// NormalizeKey trims, lowercases and collapses internal whitespace so that
// differently typed labels group together.
func NormalizeKey(s string) string {
	return spaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// ToNumber reads a cell as a number, ignoring thousands separators.
// Missing, invalid and non-finite values read as zero.
func ToNumber(v model.Value) float64 {
	return v.Float()
}

// NormalizeLevel maps free-text study levels to UG or PG. The second result is
// false when the text names neither.
func NormalizeLevel(s string) (Level, bool) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return "", false
	}
	if raw == "ug" || strings.HasPrefix(raw, "undergrad") || strings.Contains(raw, "undergraduate") {
		return LevelUG, true
	}
	if raw == "pg" ||
		strings.HasPrefix(raw, "postgrad") ||
		strings.Contains(raw, "graduate") ||
		strings.Contains(raw, "master") ||
		strings.Contains(raw, "phd") ||
		strings.Contains(raw, "doctor") {
		return LevelPG, true
	}
	return "", false
}

// FormatHoursMinutes renders fractional hours as "H:MM".
func FormatHoursMinutes(hours float64) string {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return "0:00"
	}
	total := int(math.Max(0, math.Round(hours*60)))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// StringSet is a set of normalized keys.
type StringSet map[string]struct{}

// Add inserts key.
func (s StringSet) Add(key string) { s[key] = struct{}{} }

// Has reports whether key is present.
func (s StringSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in ascending order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// labelLess orders display labels case-insensitively, falling back to a
// byte comparison so the order is total.
func labelLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

func labelOf(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

func setLabel(labels map[string]string, key, label string) {
	if _, ok := labels[key]; !ok {
		labels[key] = label
	}
}

// sortKeysByLabel returns the keys of labels ordered by their labels.
func sortKeysByLabel(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return labelLess(labelOf(labels, keys[i]), labelOf(labels, keys[j]))
	})
	return keys
}
