package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS exports (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					semester TEXT,
					source TEXT,
					row_count INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS sections (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					export_id INTEGER NOT NULL,
					semester TEXT,
					college TEXT,
					department TEXT,
					course_code TEXT,
					course_name TEXT,
					section TEXT,
					instructor TEXT,
					instructor_code TEXT,
					day TEXT,
					start_time TEXT,
					end_time TEXT,
					hall TEXT,
					building TEXT,
					room_capacity REAL,
					credit_hours REAL,
					level TEXT,
					course_language TEXT,
					section_type TEXT,
					students_in_section REAL,
					max_students REAL,
					university_elective INTEGER,
					university_requirement INTEGER,
					exam_date TEXT,
					exam_day TEXT,
					exam_start_time TEXT,
					exam_end_time TEXT,
					exam_building TEXT,
					exam_hall TEXT,
					extra TEXT,
					FOREIGN KEY (export_id) REFERENCES exports(id)
				)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Add section lookup indexes",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE INDEX idx_sections_export ON sections(export_id)`,
				`CREATE INDEX idx_sections_course ON sections(semester, course_code, section)`,
				`CREATE INDEX idx_sections_hall ON sections(hall)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Add per-day meeting table",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS section_days (
					section_id INTEGER NOT NULL,
					day INTEGER NOT NULL,
					start_minute INTEGER,
					end_minute INTEGER,
					PRIMARY KEY (section_id, day),
					FOREIGN KEY (section_id) REFERENCES sections(id)
				)`,
				`CREATE INDEX idx_section_days_day ON section_days(day, start_minute)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Debug("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
