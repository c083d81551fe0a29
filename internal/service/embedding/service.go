package embedding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/w-h-a/moviesearch/embedder"
	"github.com/w-h-a/moviesearch/internal/metrics"
	"github.com/w-h-a/moviesearch/store"
)

const (
	DefaultBatchSize = 100
	verifyLimit      = 3
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

type Service struct {
	store     store.Store
	embedder  embedder.Embedder
	batchSize int
	out       io.Writer
}

// Text is the embedding input for a movie.
func Text(title string, plot string) string {
	return fmt.Sprintf("%s. %s", title, plot)
}

// RunBatch embeds up to limit movies that lack an embedding and sort after
// cursor. Failures are recorded per movie and never abort the batch; the error
// is non-nil only when the scan itself fails.
func (s *Service) RunBatch(ctx context.Context, cursor string, limit int) (BatchResult, error) {
	start := time.Now()

	movies, err := s.store.Scan(ctx, store.ScanQuery{After: cursor, Limit: limit})
	if err != nil {
		return BatchResult{Cursor: cursor}, fmt.Errorf("failed to scan movies without embeddings: %w", err)
	}

	result := BatchResult{
		Selected: len(movies),
		Cursor:   cursor,
		Outcomes: make([]Outcome, 0, len(movies)),
	}

	for _, m := range movies {
		o := s.process(ctx, m)
		if o.Status == Failed {
			slog.ErrorContext(ctx, "failed to embed movie", "title", m.Title, "id", m.Id, "error", o.Err)
		}
		metrics.EmbeddingsTotal.WithLabelValues(o.Status.String()).Inc()
		result.add(o)
		result.Cursor = m.Id
	}

	result.Duration = time.Since(start)

	if result.Selected > 0 {
		metrics.BatchDuration.Observe(result.Duration.Seconds())
	}

	return result, nil
}

// Run drives RunBatch until a batch selects nothing. The cursor moves past
// every selected movie, so skipped and failed movies are not revisited within
// one run and the loop ends after at most total/batchSize+1 batches.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	counts, err := s.Status(ctx)
	if err != nil {
		return Summary{}, err
	}

	s.printCounts(counts)

	summary := Summary{Counts: counts}
	cursor := ""

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		batch, err := s.RunBatch(ctx, cursor, s.batchSize)
		if err != nil {
			return summary, err
		}

		if batch.Selected == 0 {
			break
		}

		cursor = batch.Cursor
		summary.add(batch)

		s.printBatch(summary, batch)
	}

	s.printSummary(summary)

	if _, err := s.Verify(ctx); err != nil {
		slog.WarnContext(ctx, "failed to verify recent embeddings", "error", err)
	}

	return summary, nil
}

func (s *Service) Status(ctx context.Context) (Counts, error) {
	total, err := s.store.Count(ctx, store.All)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count movies: %w", err)
	}

	embedded, err := s.store.Count(ctx, store.Embedded)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count embedded movies: %w", err)
	}

	metrics.Movies.WithLabelValues(store.Embedded.String()).Set(float64(embedded))
	metrics.Movies.WithLabelValues(store.Unembedded.String()).Set(float64(total - embedded))

	return Counts{
		Total:     total,
		Embedded:  embedded,
		Remaining: total - embedded,
	}, nil
}

// Verify reads back the most recently embedded movies and prints their
// embedding size and metadata.
func (s *Service) Verify(ctx context.Context) ([]store.Movie, error) {
	fmt.Fprintln(s.out, "\n🔍 Verifying Recent Updates...")

	movies, err := s.store.Recent(ctx, verifyLimit)
	if err != nil {
		return nil, err
	}

	for _, m := range movies {
		model := m.EmbeddingModel
		if len(model) == 0 {
			model = "unknown"
		}

		fmt.Fprintf(s.out, "Title: %s\n", m.Title)
		fmt.Fprintf(s.out, "Embedding Size: %d dimensions\n", len(m.Embedding))
		fmt.Fprintf(s.out, "Model Used: %s\n", model)
		if !m.EmbeddingTimestamp.IsZero() {
			fmt.Fprintf(s.out, "Generated: %s\n", m.EmbeddingTimestamp.Local().Format(time.DateTime))
		}
		fmt.Fprintln(s.out)
	}

	return movies, nil
}

func (s *Service) process(ctx context.Context, m store.Movie) Outcome {
	if len(strings.TrimSpace(m.Title)) == 0 {
		return Outcome{Movie: m, Status: Skipped}
	}

	vec, err := s.embedder.Embed(ctx, Text(m.Title, m.Plot))
	if err != nil {
		return Outcome{Movie: m, Status: Failed, Err: fmt.Errorf("embed: %w", err)}
	}

	if dims := s.embedder.Dimensions(); dims > 0 && len(vec) != dims {
		return Outcome{Movie: m, Status: Failed, Err: fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), dims)}
	}

	err = s.store.SetEmbedding(ctx, m.Id, store.Embedding{
		Vector:    vec,
		Model:     s.embedder.Model(),
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return Outcome{Movie: m, Status: Failed, Err: fmt.Errorf("update: %w", err)}
	}

	return Outcome{Movie: m, Status: Processed}
}

func (s *Service) printCounts(c Counts) {
	fmt.Fprintln(s.out, "📊 Database Status:")
	fmt.Fprintf(s.out, "Total movies: %s\n", thousands(c.Total))
	fmt.Fprintf(s.out, "Already processed: %s\n", thousands(c.Embedded))
	fmt.Fprintf(s.out, "Remaining to process: %s\n\n", thousands(c.Remaining))
}

func (s *Service) printBatch(sum Summary, b BatchResult) {
	fmt.Fprintln(s.out, "⏳ Batch Progress:")
	fmt.Fprintf(s.out, "Processed: %d movies in %.1fs (%.1f movies/s)\n", b.Processed, b.Duration.Seconds(), b.Rate())
	fmt.Fprintf(s.out, "Total Progress: %.1f%% (%s/%s)\n", sum.Progress(), thousands(sum.Counts.Embedded+sum.Processed), thousands(sum.Counts.Total))
	if b.Skipped > 0 {
		fmt.Fprintf(s.out, "Skipped (no title): %d\n", b.Skipped)
	}
	fmt.Fprintf(s.out, "Errors: %d\n\n", b.Errors)
}

func (s *Service) printSummary(sum Summary) {
	fmt.Fprintln(s.out, "\n✅ Processing Complete!")
	fmt.Fprintf(s.out, "Total new embeddings: %s\n", thousands(sum.Processed))
	fmt.Fprintf(s.out, "Total skipped: %d\n", sum.Skipped)
	fmt.Fprintf(s.out, "Total errors: %d\n", sum.Errors)
	fmt.Fprintf(s.out, "Total processing time: %.1fs\n", sum.Duration.Seconds())
	fmt.Fprintf(s.out, "Average speed: %.1f movies/s\n", sum.Rate())
}

func thousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return "-" + thousands(-n)
	}

	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	return b.String()
}

func New(
	store store.Store,
	embedder embedder.Embedder,
	batchSize int,
	out io.Writer,
) *Service {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	if out == nil {
		out = io.Discard
	}

	return &Service{
		store:     store,
		embedder:  embedder,
		batchSize: batchSize,
		out:       out,
	}
}
