package database

import (
	"context"
	"fmt"
)

// SaveAttendance appends one attendance record.
func (s *Store) SaveAttendance(ctx context.Context, rec AttendanceRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance
		(roll_no, student_name, class_name, section, subject, similarity_score, date, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RollNo, rec.StudentName, rec.ClassName, rec.Section, rec.Subject,
		rec.SimilarityScore, rec.Date, rec.Time,
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance for %s: %w", rec.RollNo, err)
	}
	return nil
}

// ListAttendance returns attendance records, newest first, optionally
// filtered by class and section. Empty filter values match everything.
func (s *Store) ListAttendance(ctx context.Context, className, section string) ([]AttendanceRecord, error) {
	query := `SELECT id, roll_no, student_name, class_name, section, subject, similarity_score, date, time
		FROM attendance WHERE 1=1`
	var args []any
	if className != "" {
		query += ` AND class_name = ?`
		args = append(args, className)
	}
	if section != "" {
		query += ` AND section = ?`
		args = append(args, section)
	}
	query += ` ORDER BY date DESC, time DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []AttendanceRecord
	for rows.Next() {
		var rec AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.RollNo, &rec.StudentName, &rec.ClassName,
			&rec.Section, &rec.Subject, &rec.SimilarityScore, &rec.Date, &rec.Time); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}
