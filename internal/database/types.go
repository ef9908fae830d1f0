package database

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/kozaktomas/attendance-marker/internal/embedding"
)

// Student is one enrolled student. RollNo is the primary identity;
// re-enrollment replaces the whole record.
type Student struct {
	RollNo    string    `json:"roll_no"`
	Name      string    `json:"name"`
	ClassName string    `json:"class_name"`
	Section   string    `json:"section"`
	Subject   string    `json:"subject,omitempty"`
	FacePath  string    `json:"face_path,omitempty"`
	Embedding []float32 `json:"-"`
}

// RosterEntry is the slice of a student record the matching pipeline needs.
type RosterEntry struct {
	RollNo    string
	Name      string
	Embedding []float32
}

// AttendanceRecord is one append-only attendance event. Records are never
// updated in place; a student accumulates one per matching run they appear in.
type AttendanceRecord struct {
	ID              int64   `json:"id,omitempty"`
	RollNo          string  `json:"roll_no"`
	StudentName     string  `json:"student_name"`
	ClassName       string  `json:"class_name"`
	Section         string  `json:"section"`
	Subject         string  `json:"subject,omitempty"`
	SimilarityScore float64 `json:"similarity_score"`
	Date            string  `json:"date"` // 2006-01-02
	Time            string  `json:"time"` // 15:04:05.000
}

// encodeEmbedding serializes a vector as little-endian float32 bytes for
// BLOB storage.
func encodeEmbedding(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

// decodeEmbedding deserializes a little-endian float32 BLOB and re-applies
// normalization defensively; stored vectors should already be unit length.
func decodeEmbedding(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}
	v := make([]float32, len(blob)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return embedding.Normalize(v), nil
}
