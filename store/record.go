package store

import "time"

type Movie struct {
	Id                 string
	Title              string
	Plot               string
	Year               int
	Embedding          []float32
	EmbeddingModel     string
	EmbeddingTimestamp time.Time
	Score              float32
}

// HasEmbedding reports whether the movie carries a vector.
func (m Movie) HasEmbedding() bool {
	return len(m.Embedding) > 0
}

type Embedding struct {
	Vector    []float32
	Model     string
	Timestamp time.Time
}

type Predicate int

const (
	All Predicate = iota
	Embedded
	Unembedded
)

func (p Predicate) String() string {
	switch p {
	case Embedded:
		return "embedded"
	case Unembedded:
		return "unembedded"
	default:
		return "all"
	}
}

type ScanQuery struct {
	// After is the id of the last movie returned by the previous scan.
	// Empty starts from the beginning.
	After string
	Limit int
}

type SearchQuery struct {
	Index      string
	Vector     []float32
	Candidates int
	Limit      int
}
