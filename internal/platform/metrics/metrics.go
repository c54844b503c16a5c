package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pricing"

var (
	// Request metrics
	RequestDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	APIRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "path"},
	)

	APIErrorCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Total number of API errors",
		},
		[]string{"method", "path", "status"},
	)

	// Database operation metrics
	DBOperationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_operation_duration_seconds",
			Help:      "Duration of database operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Pricing engine metrics
	RecalculationPairsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recalculation_pairs_total",
			Help:      "Product x currency pairs processed by recalculation, by outcome",
		},
		[]string{"outcome"},
	)

	RecalculationDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recalculation_duration_seconds",
			Help:      "Duration of recalculation runs in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"scope"},
	)

	RateFetchCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_fetch_total",
			Help:      "Rate fetch attempts, by final status",
		},
		[]string{"status"},
	)

	RateChangesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_changes_total",
			Help:      "Effective exchange rate changes, by source kind",
		},
		[]string{"source"},
	)

	AuditWriteFailureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "Audit trail writes that failed and were dropped",
		},
		[]string{"kind"},
	)

	PriceImportRowsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_import_rows_total",
			Help:      "Bulk price import rows, by outcome",
		},
		[]string{"outcome"},
	)
)

// MetricsMiddleware tracks request metrics
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		APIRequestCounter.With(prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
		}).Inc()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		RequestDurationHistogram.With(prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": status,
		}).Observe(time.Since(start).Seconds())

		if c.Writer.Status() >= 400 {
			APIErrorCounter.With(prometheus.Labels{
				"method": c.Request.Method,
				"path":   path,
				"status": status,
			}).Inc()
		}
	}
}

// Handler returns a gin handler for the metrics endpoint
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// TrackDBOperation returns a function that tracks database operation duration
func TrackDBOperation(operation string) func(time.Time) {
	return func(startTime time.Time) {
		DBOperationHistogram.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(startTime).Seconds())
	}
}

// RecordRecalculationOutcome counts one processed pair.
func RecordRecalculationOutcome(outcome string) {
	RecalculationPairsCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// ObserveRecalculation records the duration of a finished run.
func ObserveRecalculation(scope string, startTime time.Time) {
	RecalculationDurationHistogram.With(prometheus.Labels{"scope": scope}).Observe(time.Since(startTime).Seconds())
}

// RecordRateFetch counts a finished fetch attempt.
func RecordRateFetch(status string) {
	RateFetchCounter.With(prometheus.Labels{"status": status}).Inc()
}

// RecordRateChange counts one effective rate change.
func RecordRateChange(source string) {
	RateChangesCounter.With(prometheus.Labels{"source": source}).Inc()
}

// RecordAuditWriteFailure counts a dropped audit write.
func RecordAuditWriteFailure(kind string) {
	AuditWriteFailureCounter.With(prometheus.Labels{"kind": kind}).Inc()
}

// RecordPriceImportRow counts one processed import row.
func RecordPriceImportRow(outcome string) {
	PriceImportRowsCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}
