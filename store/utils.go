package store

import "fmt"

// CheckVectorSize compares a stored or configured vector size against the
// expected one. A zero want or got means unknown and always passes.
func CheckVectorSize(got, want int) error {
	if got == 0 || want == 0 || got == want {
		return nil
	}
	return fmt.Errorf("%w: got %d, want %d", ErrVectorSize, got, want)
}

// DistanceFromSimilarity maps a [0,1] similarity score, as returned by stores
// that rank by cosine similarity, onto the cosine distance Search promises.
func DistanceFromSimilarity(similarity float64) float32 {
	d := 1 - similarity
	if d < 0 {
		d = 0
	}
	return float32(d)
}

// CandidatePool returns the over-fetch size used by approximate search. It is
// never smaller than the number of results requested.
func CandidatePool(candidates, limit int) int {
	if candidates < limit {
		return limit
	}
	return candidates
}
