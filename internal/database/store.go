// Package database persists students and attendance records in SQLite.
// Every operation commits independently; no transaction spans multiple
// students, so a mid-batch failure loses only the unprocessed remainder.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite connection pool.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists. Safe to call against an existing database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids busy errors.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

const schema = `
-- Students, keyed by roll number across all classes.
CREATE TABLE IF NOT EXISTS students (
    roll_no    TEXT PRIMARY KEY,
    name       TEXT,
    class_name TEXT,
    section    TEXT,
    subject    TEXT,
    face_path  TEXT,
    embedding  BLOB
);

-- Append-only attendance log. No uniqueness constraint: multiple records
-- per student across runs are expected.
CREATE TABLE IF NOT EXISTS attendance (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    roll_no          TEXT,
    student_name     TEXT,
    class_name       TEXT,
    section          TEXT,
    subject          TEXT,
    similarity_score REAL,
    date             TEXT,
    time             TEXT
);

CREATE INDEX IF NOT EXISTS idx_attendance_roll_no ON attendance(roll_no);
CREATE INDEX IF NOT EXISTS idx_attendance_class ON attendance(class_name, section, date);
`

// createSchema initializes tables if they don't exist. Does NOT drop
// existing data.
func (s *Store) createSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Reset drops and recreates all tables, discarding every student and
// attendance record.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS attendance; DROP TABLE IF EXISTS students;`); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return s.createSchema(ctx)
}
