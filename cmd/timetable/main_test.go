package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/timetable/internal/common"
	"github.com/Veraticus/timetable/internal/config"
	"github.com/Veraticus/timetable/internal/model"
	"github.com/Veraticus/timetable/internal/service"
	"github.com/Veraticus/timetable/internal/sheets"
	"github.com/Veraticus/timetable/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedTable() model.Table {
	labels := []string{
		"College", "Department", "Course Code", "Course Name", "Section",
		"Instructor", "Day", "Start Time", "End Time", "Hall", "Building",
		"Room Capacity", "Semester", "Students In Section",
	}
	columns := make([]model.ColumnMeta, len(labels))
	for i, l := range labels {
		columns[i] = model.ColumnMeta{ID: l, Label: l, Type: "string"}
	}

	row := func(cells ...string) []model.Value {
		out := make([]model.Value, len(cells))
		for i, c := range cells {
			out[i] = model.String(c)
		}
		return out
	}

	return model.Table{
		Columns: columns,
		Rows: [][]model.Value{
			row("Engineering", "Computer Science", "CS101", "Intro to Programming", "1", "Dana Hale", "Sun Tue", "08:00", "09:15", "A-101", "A", "40", "Fall 2025", "35"),
			row("Engineering", "Computer Science", "CS101", "Intro to Programming", "2", "Sam Ortiz", "Mon Wed", "10:00", "11:15", "A-102", "A", "30", "Fall 2025", "28"),
			row("Science", "Mathematics", "MATH201", "Linear Algebra", "1", "Sam Ortiz", "Sun Tue", "08:30", "09:45", "B-12", "B", "60", "Fall 2025", "50"),
			row("Science", "Mathematics", "MATH201", "Linear Algebra", "1", "Sam Ortiz", "Sun Tue", "08:30", "09:45", "B-12", "B", "60", "Spring 2026", "41"),
		},
	}
}

type testEnv struct {
	source    *sheets.MockSource
	configDir string
}

func newTestEnv(t *testing.T, configYAML string) *testEnv {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	if configYAML == "" {
		configYAML = "source:\n  url: https://example.test/sheet\nlogging:\n  level: error\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0o600))

	env := &testEnv{source: sheets.NewMockSource(feedTable()), configDir: dir}

	prevSource, prevCatalogue := openSource, openCatalogue
	openSource = func(context.Context, *config.SourceConfig) (service.Source, error) {
		return env.source, nil
	}
	openCatalogue = func(context.Context, *config.SourceConfig) (service.Catalogue, error) {
		return nil, common.ErrMissingConfig
	}
	t.Cleanup(func() {
		openSource, openCatalogue = prevSource, prevCatalogue
		cfgFile = ""
	})
	return env
}

func (e *testEnv) run(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewBufferString(""))
	cmd.SetArgs(append([]string{"--config", filepath.Join(e.configDir, "config.yaml")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t, "")
	out, err := env.run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "timetable version dev")
}

func TestRows(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "semester filter",
			args:     []string{"rows", "--semester", "fall 2025"},
			contains: []string{"CS101", "MATH201", "3 of 3 rows"},
		},
		{
			name:     "grep instructor",
			args:     []string{"rows", "--semester", "Fall 2025", "--grep", "ortiz"},
			contains: []string{"A-102", "B-12", "2 of 2 rows"},
			excludes: []string{"Dana Hale"},
		},
		{
			name:     "college filter",
			args:     []string{"rows", "--college", "Science"},
			contains: []string{"MATH201", "2 of 2 rows"},
			excludes: []string{"CS101"},
		},
		{
			name:     "limit",
			args:     []string{"rows", "--limit", "1"},
			contains: []string{"1 of 4 rows"},
		},
		{
			name:     "no matches",
			args:     []string{"rows", "--grep", "physics"},
			contains: []string{"No rows match"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "")
			out, err := env.run(tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
			env.source.AssertFetchCalled(t, 1)
		})
	}
}

func TestFetchError(t *testing.T) {
	env := newTestEnv(t, "")
	env.source.SetFetchError(&sheets.FetchError{Source: "mock", Status: 404, Err: errors.New("not found")})

	_, err := env.run("rows")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrFetchFailed)
}

func TestMissingSourceConfig(t *testing.T) {
	env := newTestEnv(t, "logging:\n  level: error\n")
	_, err := env.run("rows")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestInvalidFilterFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"elective", []string{"rows", "--elective", "maybe"}, "--elective must be yes or no"},
		{"credit range", []string{"rows", "--credit-min", "4", "--credit-max", "2"}, "below --credit-min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "")
			_, err := env.run(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseYesNo(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		in   string
		want *bool
	}{
		{"", nil},
		{"yes", &yes},
		{"Y", &yes},
		{"no", &no},
		{"false", &no},
		{"1", &yes},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseYesNo("elective", tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrid(t *testing.T) {
	env := newTestEnv(t, "")
	out, err := env.run("grid", "--semester", "Fall 2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Weekly timetable · Fall 2025")
	assert.Contains(t, out, "CS101")
	assert.Contains(t, out, "Sun")
}

func TestExamsEmpty(t *testing.T) {
	env := newTestEnv(t, "")
	out, err := env.run("exams")
	require.NoError(t, err)
	assert.Contains(t, out, "No exams scheduled")
}

func TestSlots(t *testing.T) {
	t.Run("overlap", func(t *testing.T) {
		env := newTestEnv(t, "")
		out, err := env.run("slots", "--semester", "Fall 2025", "--start", "09:00", "--end", "09:30", "--days", "Sun")
		require.NoError(t, err)
		assert.Contains(t, out, "CS101")
		assert.Contains(t, out, "MATH201")
		assert.Contains(t, out, "2 sections")
	})

	t.Run("within", func(t *testing.T) {
		env := newTestEnv(t, "")
		out, err := env.run("slots", "--semester", "Fall 2025", "--start", "08:00", "--end", "09:30", "--time-mode", "within")
		require.NoError(t, err)
		assert.Contains(t, out, "CS101")
		assert.NotContains(t, out, "MATH201")
	})

	t.Run("inverted window shows hint", func(t *testing.T) {
		env := newTestEnv(t, "")
		out, err := env.run("slots", "--start", "10:00", "--end", "09:00")
		require.NoError(t, err)
		assert.Contains(t, out, "End must be after Start")
		assert.NotContains(t, out, "CS101")
	})

	t.Run("unreadable time", func(t *testing.T) {
		env := newTestEnv(t, "")
		_, err := env.run("slots", "--start", "soon", "--end", "09:00")
		require.Error(t, err)
		var userErr *common.UserError
		assert.ErrorAs(t, err, &userErr)
	})
}

func TestStatsCourses(t *testing.T) {
	env := newTestEnv(t, "")
	out, err := env.run("stats", "courses")
	require.NoError(t, err)
	assert.Contains(t, out, "Engineering")
	assert.Contains(t, out, "Fall 2025")
	assert.Contains(t, out, "Spring 2026")
}

func TestStatsHoursInvalidLevel(t *testing.T) {
	env := newTestEnv(t, "")
	_, err := env.run("stats", "hours", "--level", "galaxy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid level")
}

func TestPlan(t *testing.T) {
	t.Run("weekly view", func(t *testing.T) {
		env := newTestEnv(t, "")
		out, err := env.run("plan", "--semester", "Fall 2025", "--sections", "CS101-2")
		require.NoError(t, err)
		assert.Contains(t, out, "My timetable (1 sections)")
		assert.Contains(t, out, "A-102")
	})

	t.Run("conflict", func(t *testing.T) {
		env := newTestEnv(t, "")
		_, err := env.run("plan", "--semester", "Fall 2025", "--sections", "CS101-1,MATH201-1")
		assert.Error(t, err)
	})

	t.Run("unknown section", func(t *testing.T) {
		env := newTestEnv(t, "")
		_, err := env.run("plan", "--sections", "BIO100-1")
		assert.Error(t, err)
	})

	t.Run("nothing chosen", func(t *testing.T) {
		env := newTestEnv(t, "")
		out, err := env.run("plan")
		require.NoError(t, err)
		assert.Contains(t, out, "No sections chosen")
	})
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t, "")
	path := filepath.Join(t.TempDir(), "out.csv")

	out, err := env.run("export", "--semester", "Fall 2025", "--format", "csv", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Course code,Course name,Section")
	assert.Contains(t, string(data), "CS101,Intro to Programming,1")
}

func TestExportSQLite(t *testing.T) {
	env := newTestEnv(t, "")
	path := filepath.Join(t.TempDir(), "timetable.db")

	out, err := env.run("export", "--semester", "Fall 2025", "--format", "sqlite", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 3 rows")

	store := testutil.OpenTestDB(t, path)
	exports, err := store.Exports(context.Background())
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.Equal(t, "Fall 2025", exports[0].Semester)
	assert.Equal(t, 3, exports[0].RowCount)
}

func TestExportInvalidFormat(t *testing.T) {
	env := newTestEnv(t, "")
	_, err := env.run("export", "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSemestersWithoutCatalogue(t *testing.T) {
	env := newTestEnv(t, "")
	_, err := env.run("semesters")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestSemesters(t *testing.T) {
	env := newTestEnv(t, "")

	semesters := sheets.NewMockSource(model.Table{
		Columns: []model.ColumnMeta{{ID: "A", Label: "semester"}, {ID: "B", Label: "active"}},
		Rows: [][]model.Value{
			{model.String("Fall 2025"), model.String("yes")},
			{model.String("Spring 2026"), model.String("no")},
		},
	})
	openCatalogue = func(context.Context, *config.SourceConfig) (service.Catalogue, error) {
		return sheets.NewCatalogue(semesters, nil, nil), nil
	}

	out, err := env.run("semesters")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Fall 2025")
	assert.Contains(t, out, "  Spring 2026")
	assert.Contains(t, out, "Last update unknown")
}

func TestActiveSemesterIsDefault(t *testing.T) {
	env := newTestEnv(t, "")

	semesters := sheets.NewMockSource(model.Table{
		Columns: []model.ColumnMeta{{ID: "A", Label: "semester"}, {ID: "B", Label: "active"}},
		Rows:    [][]model.Value{{model.String("Spring 2026"), model.String("yes")}},
	})
	openCatalogue = func(context.Context, *config.SourceConfig) (service.Catalogue, error) {
		return sheets.NewCatalogue(semesters, nil, nil), nil
	}

	out, err := env.run("rows")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 1 rows")
}

func TestRetryingSource(t *testing.T) {
	mock := sheets.NewMockSource(feedTable())
	calls := 0
	mock.FetchFunc = func(context.Context) (model.Table, error) {
		calls++
		if calls < 2 {
			return model.Table{}, &sheets.FetchError{Source: "mock", Status: 503, Err: errors.New("unavailable")}
		}
		return feedTable(), nil
	}

	src := retryingSource{Source: mock, opts: service.RetryOptions{MaxAttempts: 3, InitialDelay: 1}}
	table, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 4)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "mock", src.Name())
}
