package database

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/kozaktomas/attendance-marker/internal/embedding"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testStudent(rollNo string, emb []float32) Student {
	return Student{
		RollNo:    rollNo,
		Name:      "student_" + rollNo,
		ClassName: "CSE",
		Section:   "A",
		Subject:   "math",
		FacePath:  "data/faces/CSE_A/" + rollNo,
		Embedding: emb,
	}
}

func TestSaveAndGetStudents(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveStudent(ctx, testStudent("21045001", []float32{3, 4, 0})); err != nil {
		t.Fatalf("SaveStudent failed: %v", err)
	}

	roster, err := s.GetStudents(ctx, "CSE", "A", "math")
	if err != nil {
		t.Fatalf("GetStudents failed: %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("got %d roster entries, want 1", len(roster))
	}
	if roster[0].RollNo != "21045001" {
		t.Errorf("RollNo = %q", roster[0].RollNo)
	}

	// 3-4-0 normalizes to 0.6-0.8-0.
	want := []float32{0.6, 0.8, 0}
	for i := range want {
		if math.Abs(float64(roster[0].Embedding[i]-want[i])) > 1e-6 {
			t.Errorf("Embedding[%d] = %v, want %v", i, roster[0].Embedding[i], want[i])
		}
	}
}

func TestSaveStudentOverwrites(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveStudent(ctx, testStudent("X1", []float32{1, 0})); err != nil {
		t.Fatal(err)
	}
	// Re-enrollment replaces the embedding entirely, no merging.
	if err := s.SaveStudent(ctx, testStudent("X1", []float32{0, 1})); err != nil {
		t.Fatal(err)
	}

	roster, err := s.GetStudents(ctx, "CSE", "A", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(roster) != 1 {
		t.Fatalf("got %d roster entries after overwrite, want 1", len(roster))
	}
	if roster[0].Embedding[0] != 0 || roster[0].Embedding[1] != 1 {
		t.Errorf("embedding after overwrite = %v, want [0 1]", roster[0].Embedding)
	}
}

func TestGetStudentsFilters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	students := []Student{
		{RollNo: "A1", Name: "a", ClassName: "CSE", Section: "A", Subject: "math", Embedding: []float32{1, 0}},
		{RollNo: "A2", Name: "b", ClassName: "CSE", Section: "A", Subject: "physics", Embedding: []float32{0, 1}},
		{RollNo: "B1", Name: "c", ClassName: "CSE", Section: "B", Subject: "math", Embedding: []float32{1, 0}},
		{RollNo: "C1", Name: "d", ClassName: "ECE", Section: "A", Subject: "math", Embedding: []float32{1, 0}},
	}
	for _, st := range students {
		if err := s.SaveStudent(ctx, st); err != nil {
			t.Fatal(err)
		}
	}

	roster, err := s.GetStudents(ctx, "CSE", "A", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(roster) != 2 {
		t.Errorf("class+section filter: got %d, want 2", len(roster))
	}

	roster, err = s.GetStudents(ctx, "CSE", "A", "math")
	if err != nil {
		t.Fatal(err)
	}
	if len(roster) != 1 || roster[0].RollNo != "A1" {
		t.Errorf("class+section+subject filter: got %+v", roster)
	}

	roster, err = s.GetStudents(ctx, "MECH", "A", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(roster) != 0 {
		t.Errorf("empty roster expected, got %d entries", len(roster))
	}
}

func TestGetStudentsOrderedByRollNo(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, roll := range []string{"9", "1", "5"} {
		st := testStudent(roll, []float32{1, 0})
		if err := s.SaveStudent(ctx, st); err != nil {
			t.Fatal(err)
		}
	}

	roster, err := s.GetStudents(ctx, "CSE", "A", "")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"1", "5", "9"}
	for i, roll := range want {
		if roster[i].RollNo != roll {
			t.Errorf("roster[%d].RollNo = %q, want %q", i, roster[i].RollNo, roll)
		}
	}
}

func TestSaveAndListAttendance(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	recs := []AttendanceRecord{
		{RollNo: "R1", StudentName: "one", ClassName: "CSE", Section: "A", SimilarityScore: 0.7, Date: "2026-08-28", Time: "09:00:00.000"},
		{RollNo: "R1", StudentName: "one", ClassName: "CSE", Section: "A", SimilarityScore: 0.8, Date: "2026-08-29", Time: "09:05:00.123"},
		{RollNo: "R2", StudentName: "two", ClassName: "CSE", Section: "B", SimilarityScore: 0.9, Date: "2026-08-29", Time: "10:00:00.000"},
	}
	for _, rec := range recs {
		if err := s.SaveAttendance(ctx, rec); err != nil {
			t.Fatalf("SaveAttendance failed: %v", err)
		}
	}

	all, err := s.ListAttendance(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	// Newest first.
	if all[0].Date != "2026-08-29" || all[2].Date != "2026-08-28" {
		t.Errorf("records not ordered newest first: %v, %v", all[0].Date, all[2].Date)
	}

	sectionA, err := s.ListAttendance(ctx, "CSE", "A")
	if err != nil {
		t.Fatal(err)
	}
	if len(sectionA) != 2 {
		t.Errorf("section filter: got %d records, want 2", len(sectionA))
	}
}

func TestDeleteStudent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveStudent(ctx, testStudent("D1", []float32{1, 0})); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAttendance(ctx, AttendanceRecord{RollNo: "D1", StudentName: "d", ClassName: "CSE", Section: "A", Date: "2026-08-29", Time: "09:00:00.000"}); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.DeleteStudent(ctx, "D1")
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Error("DeleteStudent reported nothing deleted")
	}

	roster, err := s.GetStudents(ctx, "CSE", "A", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(roster) != 0 {
		t.Errorf("student record survived deletion")
	}

	recs, err := s.ListAttendance(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("attendance history survived deletion: %d records", len(recs))
	}
}

func TestDeleteStudentNotFound(t *testing.T) {
	s := testStore(t)

	deleted, err := s.DeleteStudent(context.Background(), "missing")
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("DeleteStudent reported deletion for a missing roll number")
	}
}

func TestDeleteClassData(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	seed := []Student{
		{RollNo: "A1", ClassName: "CSE", Section: "A", Subject: "math", Embedding: []float32{1, 0}},
		{RollNo: "A2", ClassName: "CSE", Section: "A", Subject: "physics", Embedding: []float32{1, 0}},
		{RollNo: "B1", ClassName: "CSE", Section: "B", Subject: "math", Embedding: []float32{1, 0}},
		{RollNo: "E1", ClassName: "ECE", Section: "A", Subject: "math", Embedding: []float32{1, 0}},
	}
	reset := func() {
		if err := s.Reset(ctx); err != nil {
			t.Fatal(err)
		}
		for _, st := range seed {
			if err := s.SaveStudent(ctx, st); err != nil {
				t.Fatal(err)
			}
		}
	}

	// Class only: removes all sections and subjects under it.
	reset()
	deleted, err := s.DeleteClassData(ctx, "CSE", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Error("expected deletion for class-only filter")
	}
	remaining, err := s.ListStudents(ctx, "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].RollNo != "E1" {
		t.Errorf("class-only delete left %+v", remaining)
	}

	// Class + section: scopes to that section across all subjects.
	reset()
	if _, err := s.DeleteClassData(ctx, "CSE", "A", ""); err != nil {
		t.Fatal(err)
	}
	remaining, err = s.ListStudents(ctx, "CSE", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].RollNo != "B1" {
		t.Errorf("class+section delete left %+v", remaining)
	}

	// Class + section + subject: narrowest scope.
	reset()
	if _, err := s.DeleteClassData(ctx, "CSE", "A", "physics"); err != nil {
		t.Fatal(err)
	}
	remaining, err = s.ListStudents(ctx, "CSE", "A", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].RollNo != "A1" {
		t.Errorf("class+section+subject delete left %+v", remaining)
	}

	// No match reports false.
	deleted, err = s.DeleteClassData(ctx, "MECH", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("DeleteClassData reported deletion for a missing class")
	}
}

func TestEmbeddingRoundTrip(t *testing.T) {
	v := embedding.Normalize([]float32{0.25, -1.5, 3.75, 0})
	decoded, err := decodeEmbedding(encodeEmbedding(v))
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != len(v) {
		t.Fatalf("round trip changed length: %d -> %d", len(v), len(decoded))
	}
	for i := range v {
		if math.Abs(float64(decoded[i]-v[i])) > 1e-6 {
			t.Errorf("element %d: %v -> %v", i, v[i], decoded[i])
		}
	}
}

func TestDecodeEmbeddingBadBlob(t *testing.T) {
	if _, err := decodeEmbedding([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated blob")
	}
}

func TestReset(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveStudent(ctx, testStudent("Z1", []float32{1, 0})); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	students, err := s.ListStudents(ctx, "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 0 {
		t.Errorf("students survived reset: %d", len(students))
	}
}
