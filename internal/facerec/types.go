// Package facerec talks to the external face analysis service. The service
// wraps a pretrained detection+embedding model (InsightFace buffalo_l) behind
// a small HTTP API; this package treats it as a black box that takes an image
// and returns detected faces.
package facerec

import "context"

// Face is a single detected face as reported by the analysis service.
type Face struct {
	FaceIndex int       `json:"face_index"`
	Dim       int       `json:"dim"`
	Embedding []float32 `json:"embedding"`
	BBox      []float64 `json:"bbox"` // [x1, y1, x2, y2] in pixels
	DetScore  float64   `json:"det_score"`
}

// BBoxArea returns the bounding box area in square pixels, or 0 for a
// malformed box.
func (f *Face) BBoxArea() float64 {
	if len(f.BBox) != 4 {
		return 0
	}
	w := f.BBox[2] - f.BBox[0]
	h := f.BBox[3] - f.BBox[1]
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Detector detects faces in an encoded image and returns their embeddings.
// Both pipelines receive a Detector by reference; tests substitute a fake.
type Detector interface {
	DetectFaces(ctx context.Context, imageData []byte) ([]Face, error)
}
