package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	// Per-movie outcomes of the batch job, labeled processed, skipped or failed.
	EmbeddingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviesearch_embeddings_total",
			Help: "Movies handled by the embedding batch job by outcome",
		},
		[]string{"outcome"},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviesearch_batch_duration_seconds",
			Help:    "Wall-clock duration of one embedding batch",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// Movies in the store by embedding state, refreshed by status reports.
	Movies = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviesearch_movies",
			Help: "Movies in the store by embedding state",
		},
		[]string{"state"},
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviesearch_queries_total",
			Help: "Recommendation queries by status",
		},
		[]string{"status"},
	)

	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviesearch_query_duration_seconds",
			Help:    "Duration of recommendation queries (embedding plus search)",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviesearch_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviesearch_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

// Push sends everything in the default registry to a Pushgateway under job.
// Batch jobs exit before a scrape could reach them.
func Push(url string, job string) error {
	return push.New(url, job).
		Gatherer(prometheus.DefaultGatherer).
		Push()
}
