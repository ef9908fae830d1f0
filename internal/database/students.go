package database

import (
	"context"
	"fmt"

	"github.com/kozaktomas/attendance-marker/internal/embedding"
)

// SaveStudent inserts or replaces a student record. The embedding is
// normalized before storage so the roster can rely on unit vectors.
func (s *Store) SaveStudent(ctx context.Context, st Student) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO students
		(roll_no, name, class_name, section, subject, face_path, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		st.RollNo, st.Name, st.ClassName, st.Section, st.Subject, st.FacePath,
		encodeEmbedding(embedding.Normalize(st.Embedding)),
	)
	if err != nil {
		return fmt.Errorf("failed to save student %s: %w", st.RollNo, err)
	}
	return nil
}

// GetStudents returns the roster for one matching run: all students in the
// given class and section, narrowed by subject when non-empty, ordered by
// roll number so equal-score matches resolve deterministically to the lowest
// roll number. Embeddings are re-normalized on read.
func (s *Store) GetStudents(ctx context.Context, className, section, subject string) ([]RosterEntry, error) {
	query := `SELECT roll_no, name, embedding FROM students WHERE class_name = ? AND section = ?`
	args := []any{className, section}
	if subject != "" {
		query += ` AND subject = ?`
		args = append(args, subject)
	}
	query += ` ORDER BY roll_no`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var roster []RosterEntry
	for rows.Next() {
		var entry RosterEntry
		var blob []byte
		if err := rows.Scan(&entry.RollNo, &entry.Name, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		entry.Embedding, err = decodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("student %s: %w", entry.RollNo, err)
		}
		roster = append(roster, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}
	return roster, nil
}

// ListStudents returns student profiles without embeddings, optionally
// filtered. Empty filter values match everything.
func (s *Store) ListStudents(ctx context.Context, className, section, subject string) ([]Student, error) {
	query := `SELECT roll_no, name, class_name, section, subject, face_path FROM students WHERE 1=1`
	var args []any
	if className != "" {
		query += ` AND class_name = ?`
		args = append(args, className)
	}
	if section != "" {
		query += ` AND section = ?`
		args = append(args, section)
	}
	if subject != "" {
		query += ` AND subject = ?`
		args = append(args, subject)
	}
	query += ` ORDER BY class_name, section, roll_no`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.RollNo, &st.Name, &st.ClassName, &st.Section, &st.Subject, &st.FacePath); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}
	return students, nil
}

// DeleteStudent removes a student record and all attendance history for the
// roll number. Reports whether anything was deleted from either table.
func (s *Store) DeleteStudent(ctx context.Context, rollNo string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE roll_no = ?`, rollNo)
	if err != nil {
		return false, fmt.Errorf("failed to delete student %s: %w", rollNo, err)
	}
	studentsDeleted, _ := res.RowsAffected()

	res, err = s.db.ExecContext(ctx, `DELETE FROM attendance WHERE roll_no = ?`, rollNo)
	if err != nil {
		return false, fmt.Errorf("failed to delete attendance for %s: %w", rollNo, err)
	}
	attendanceDeleted, _ := res.RowsAffected()

	return studentsDeleted > 0 || attendanceDeleted > 0, nil
}

// DeleteClassData removes student and attendance rows for a class, narrowed
// by section and then subject when given. A subject filter requires a
// section filter; callers enforce that ordering.
func (s *Store) DeleteClassData(ctx context.Context, className, section, subject string) (bool, error) {
	where := `WHERE class_name = ?`
	args := []any{className}
	if section != "" {
		where += ` AND section = ?`
		args = append(args, section)
		if subject != "" {
			where += ` AND subject = ?`
			args = append(args, subject)
		}
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM students `+where, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete students: %w", err)
	}
	studentsDeleted, _ := res.RowsAffected()

	res, err = s.db.ExecContext(ctx, `DELETE FROM attendance `+where, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete attendance: %w", err)
	}
	attendanceDeleted, _ := res.RowsAffected()

	return studentsDeleted > 0 || attendanceDeleted > 0, nil
}
