package inmemory

import "math"

// Similarity holds the BM25 parameters used to score clauses.
type Similarity struct {
	// K1 controls term frequency saturation.
	K1 float64
	// B controls field length normalization.
	B float64
}

// DefaultSimilarity is BM25 with the usual parameters.
var DefaultSimilarity = Similarity{K1: 1.2, B: 0.75}

// idf is the BM25 inverse document frequency of a term that occurs in
// docFreq of docCount documents.
func (s Similarity) idf(docFreq, docCount int) float64 {
	n := float64(docFreq)
	return math.Log(1 + (float64(docCount)-n+0.5)/(n+0.5))
}

// tfNorm is the saturated, length-normalized term frequency.
func (s Similarity) tfNorm(freq, fieldLength int, avgFieldLength float64) float64 {
	if freq == 0 {
		return 0
	}
	norm := 1.0
	if avgFieldLength > 0 {
		norm = 1 - s.B + s.B*float64(fieldLength)/avgFieldLength
	}
	f := float64(freq)
	return f * (s.K1 + 1) / (f + s.K1*norm)
}
