package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/timeslot"
)

const (
	collegePrefix    = "College of "
	departmentPrefix = "Department of "
)

// coerce converts a raw cell according to its declared column type.
func (n *Normalizer) coerce(cell model.Value, colType string) model.Value {
	if cell.IsNull() {
		return model.Null()
	}

	switch colType {
	case "number":
		if cell.Kind == model.KindNumber {
			return cell
		}
		return model.Number(parseNumber(cell.Text()))
	case "boolean":
		if cell.Kind == model.KindBoolean {
			return cell
		}
		return model.Bool(cell.Text() == "true")
	case "date", "datetime":
		if cell.IsDate() {
			return cell
		}
		if t, ok := timeslot.ParseDate(cell.Text(), n.location); ok {
			return model.Date(t)
		}
		return model.String(cell.Text())
	default:
		return model.String(cell.Text())
	}
}

// parseNumber mirrors a strict numeric cast: blank reads as zero and
// anything else that is not a number reads as NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// formatField applies the per-field presentation rules to a coerced value.
func (n *Normalizer) formatField(field string, v model.Value) model.Value {
	if v.IsNull() {
		return v
	}

	switch field {
	case model.FieldCollege:
		return model.String(strings.TrimPrefix(v.Text(), collegePrefix))
	case model.FieldDepartment:
		return model.String(strings.TrimPrefix(v.Text(), departmentPrefix))
	}

	if !v.IsDate() {
		return v
	}

	local := v.Time.In(n.location)
	switch {
	case field == model.FieldDay:
		return model.String(local.Format("Mon"))
	case strings.HasSuffix(field, "_time"):
		return model.String(local.Format("15:04"))
	case strings.HasSuffix(field, "_date"):
		return model.String(local.Format(timeslot.DateLayout))
	default:
		return v
	}
}
