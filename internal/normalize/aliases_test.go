package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/timetable/internal/model"
)

func TestHeaderMapper_Field(t *testing.T) {
	m := NewHeaderMapper(nil)

	tests := []struct {
		header string
		want   string
	}{
		{"Course Code", model.FieldCourseCode},
		{"COURSE CODE", model.FieldCourseCode},
		{"Collage", model.FieldCollege},
		{"  Hall  ", model.FieldHall},
		{"ue", model.FieldUniversityElective},
		{"Room Type", "room_type"},
		{"Exam  Proctor", "exam_proctor"},
		{"start_time", "start_time"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Field(tt.header))
		})
	}
}

func TestHeaderMapper_ExtraAliasesWin(t *testing.T) {
	m := NewHeaderMapper([]HeaderAlias{
		{Header: "Room", Field: "room_label"},
		{Header: "Hall No", Field: model.FieldHall},
	})

	assert.Equal(t, "room_label", m.Field("Room"))
	assert.Equal(t, model.FieldHall, m.Field("hall no"))
	assert.Equal(t, model.FieldBuilding, m.Field("Building"))
}

func TestLoadAliases(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "aliases.yaml")
		content := "aliases:\n  - header: \"Hall No\"\n    field: hall\n  - header: Lecturer Code\n    field: instructor_code\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		aliases, err := LoadAliases(path)
		require.NoError(t, err)
		assert.Equal(t, []HeaderAlias{
			{Header: "Hall No", Field: "hall"},
			{Header: "Lecturer Code", Field: "instructor_code"},
		}, aliases)
	})

	t.Run("missing field", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("aliases:\n  - header: Hall No\n"), 0600))

		_, err := LoadAliases(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAliases(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
