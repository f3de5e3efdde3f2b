package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "search_request_duration_seconds",
	Help:    "Total time spent serving a search request.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

var documentsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_ingested_total",
	Help: "Documents processed by the ingestion pipeline, labelled by outcome",
}, []string{"status"})

var chunksCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chunks_created_total",
	Help: "Text chunks produced by the chunker during ingestion",
})

var recordsUpserted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "records_upserted_total",
	Help: "Index records written to the vector store",
})

var cacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "search_cache_hits_total",
	Help: "Search result cache hits",
})

var cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "search_cache_misses_total",
	Help: "Search result cache misses",
})

// HttpStatusRecorder captures the status code written by a handler so
// the middleware can label the request counter with it.
type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureRequestMetrics(status string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(status).Observe(timeElapsed.Seconds())
}

func CountDocumentIngested(status string) {
	documentsIngested.WithLabelValues(status).Inc()
}

func CountChunksCreated(n int) {
	chunksCreated.Add(float64(n))
}

func CountRecordsUpserted(n int) {
	recordsUpserted.Add(float64(n))
}

func CountCacheHit() {
	cacheHits.Inc()
}

func CountCacheMiss() {
	cacheMisses.Inc()
}
