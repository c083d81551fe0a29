package embedding

import (
	"time"

	"github.com/w-h-a/moviesearch/store"
)

type Status int

const (
	Processed Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Processed:
		return "processed"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Outcome is the result of handling one movie.
type Outcome struct {
	Movie  store.Movie
	Status Status
	Err    error
}

type BatchResult struct {
	Selected  int
	Processed int
	Skipped   int
	Errors    int
	Duration  time.Duration
	// Cursor is the id of the last selected movie; pass it to the next batch.
	Cursor   string
	Outcomes []Outcome
}

func (b *BatchResult) add(o Outcome) {
	b.Outcomes = append(b.Outcomes, o)
	switch o.Status {
	case Processed:
		b.Processed++
	case Skipped:
		b.Skipped++
	case Failed:
		b.Errors++
	}
}

// Rate is movies embedded per second.
func (b BatchResult) Rate() float64 {
	if b.Duration <= 0 {
		return 0
	}
	return float64(b.Processed) / b.Duration.Seconds()
}

type Counts struct {
	Total     int
	Embedded  int
	Remaining int
}

type Summary struct {
	Counts    Counts
	Batches   int
	Processed int
	Skipped   int
	Errors    int
	Duration  time.Duration
}

func (s *Summary) add(b BatchResult) {
	s.Batches++
	s.Processed += b.Processed
	s.Skipped += b.Skipped
	s.Errors += b.Errors
	s.Duration += b.Duration
}

func (s Summary) Rate() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Processed) / s.Duration.Seconds()
}

// Progress is the share of all movies that carry an embedding, in percent.
func (s Summary) Progress() float64 {
	if s.Counts.Total == 0 {
		return 100
	}
	return float64(s.Counts.Embedded+s.Processed) / float64(s.Counts.Total) * 100
}
