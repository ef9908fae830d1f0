// Package embedding provides vector helpers for face embeddings.
// All stored and query vectors are kept in L2-normalized form so that
// the plain dot product equals cosine similarity.
package embedding

import "math"

// Normalize returns an L2-normalized copy of v. A zero vector is returned
// unchanged rather than treated as an error; degenerate detector output
// must not abort a batch.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return out
	}

	norm := math.Sqrt(sum)
	for i := range out {
		out[i] = float32(float64(out[i]) / norm)
	}
	return out
}

// Dot computes the dot product of two equal-length vectors. For vectors
// already passed through Normalize this is their cosine similarity.
// Returns 0 for mismatched or empty inputs.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// CosineSimilarity computes the cosine similarity between two vectors
// without assuming either side is normalized.
// Returns a value between -1 and 1, where 1 means identical.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Mean computes the element-wise mean of equal-length vectors.
// Returns nil for an empty input.
func Mean(vs [][]float32) []float32 {
	if len(vs) == 0 {
		return nil
	}

	sums := make([]float64, len(vs[0]))
	for _, v := range vs {
		for i, x := range v {
			sums[i] += float64(x)
		}
	}

	mean := make([]float32, len(sums))
	for i, s := range sums {
		mean[i] = float32(s / float64(len(vs)))
	}
	return mean
}
