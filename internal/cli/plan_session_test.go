package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planOptions() []planner.SectionOption {
	return planner.BuildSections([]model.Row{
		row(map[string]string{
			model.FieldCourseCode: "MATH101",
			model.FieldSection:    "1",
			model.FieldDay:        "Sun Tue",
			model.FieldStartTime:  "08:00",
			model.FieldEndTime:    "09:15",
		}),
		row(map[string]string{
			model.FieldCourseCode: "PHYS201",
			model.FieldSection:    "2",
			model.FieldDay:        "Sun",
			model.FieldStartTime:  "09:00",
			model.FieldEndTime:    "10:00",
		}),
		row(map[string]string{
			model.FieldCourseCode: "CHEM110",
			model.FieldSection:    "1",
			model.FieldDay:        "Mon",
			model.FieldStartTime:  "08:00",
			model.FieldEndTime:    "09:00",
		}),
	})
}

func TestPlanSession_Run(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		chosen   []string
		expected []string
	}{
		{
			name:     "add and list",
			input:    "add math101-1 CHEM110-1\nlist\ndone\nadd PHYS201-2\n",
			chosen:   []string{"MATH101-1", "CHEM110-1"},
			expected: []string{"added MATH101 (1)", "added CHEM110 (1)", "Sun Tue 08:00-09:15"},
		},
		{
			name:     "conflict is rejected",
			input:    "add MATH101-1\nadd PHYS201-2\n",
			chosen:   []string{"MATH101-1"},
			expected: []string{"SUN:09:00-10:00"},
		},
		{
			name:     "remove",
			input:    "add MATH101-1\nrm math101-1\nrm MATH101-1\n",
			chosen:   []string{},
			expected: []string{"removed MATH101 (1)", "MATH101-1 is not in the plan"},
		},
		{
			name:     "find shows clashes",
			input:    "add MATH101-1\nfind phys\nfind zzz\n",
			chosen:   []string{"MATH101-1"},
			expected: []string{"PHYS201-2", "no sections match"},
		},
		{
			name:     "unknown input",
			input:    "fly\nadd\nadd NOPE-9\n",
			chosen:   []string{},
			expected: []string{"unknown command fly", "add needs a section id", "unknown section"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			plan := &planner.Plan{}
			session := NewPlanSession(strings.NewReader(tt.input), &out, plan, planOptions())

			require.NoError(t, session.Run(context.Background()))

			ids := []string{}
			for _, c := range plan.Chosen() {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.chosen, ids)
			for _, want := range tt.expected {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestPlanSession_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := NewPlanSession(strings.NewReader("add MATH101-1\n"), &bytes.Buffer{}, &planner.Plan{}, planOptions())
	assert.ErrorIs(t, session.Run(ctx), ErrInputCancelled)
}
