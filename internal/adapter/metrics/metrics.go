package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// IngestMetrics holds all Prometheus metrics for the ingestion service.
type IngestMetrics struct {
	RecordsTotal         *prometheus.CounterVec
	BodyBytesTotal       prometheus.Counter
	CompressedBytesTotal prometheus.Counter
	TokenCacheHits       prometheus.Counter
	TokenCacheMisses     prometheus.Counter
}

// NewIngestMetrics initializes and registers the Prometheus metrics.
func NewIngestMetrics() *IngestMetrics {
	return &IngestMetrics{
		RecordsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loghog",
			Subsystem: "ingest",
			Name:      "records_total",
			Help:      "Total number of processed submissions by status.",
		}, []string{"status"}), // status: accepted, error_auth, error_validation, error_storage
		BodyBytesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "loghog",
			Subsystem: "ingest",
			Name:      "body_bytes_total",
			Help:      "Total uncompressed body bytes ingested.",
		}),
		CompressedBytesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "loghog",
			Subsystem: "ingest",
			Name:      "compressed_bytes_total",
			Help:      "Total compressed body bytes written to storage.",
		}),
		TokenCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "loghog",
			Subsystem: "auth",
			Name:      "token_cache_hits_total",
			Help:      "Total number of token resolution cache hits.",
		}),
		TokenCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "loghog",
			Subsystem: "auth",
			Name:      "token_cache_misses_total",
			Help:      "Total number of token resolution cache misses.",
		}),
	}
}
