// Package testutil provides fixtures shared by the timetable tests: canonical
// row builders and temporary SQLite export files.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/timetable/internal/storage"
)

// SetupTestDB creates a migrated SQLite export file in a temporary directory.
// It is closed automatically when the test ends.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	return OpenTestDB(t, filepath.Join(t.TempDir(), "timetable.db"))
}

// OpenTestDB opens the export file at path, typically one written by the code
// under test, and closes it when the test ends.
func OpenTestDB(t *testing.T, path string) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", path, err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return store
}
