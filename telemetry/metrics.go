// Package telemetry provides Prometheus metrics, tracing setup and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	LinksReceived     *prometheus.CounterVec // platform
	JobsSucceeded     *prometheus.CounterVec // platform
	JobsFailed        *prometheus.CounterVec // platform, stage (extract|deliver)
	MediaSendFailures *prometheus.CounterVec // kind (photo|video_url|video_file)
	SendRetries       prometheus.Counter
	RemuxOutcomes     *prometheus.CounterVec // mode (manifest|passthrough), outcome (muxed|video_only|failed)

	// Histograms (seconds)
	ExtractDuration  *prometheus.HistogramVec // platform
	DeliveryDuration prometheus.Observer
	JobDuration      prometheus.Observer

	// Gauges
	ActiveJobs prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		LinksReceived = promauto.NewCounterVec(prometheus.CounterOpts{Name: "memerelay_links_received_total", Help: "Links matched by the classifier"}, []string{"platform"})
		JobsSucceeded = promauto.NewCounterVec(prometheus.CounterOpts{Name: "memerelay_jobs_succeeded_total", Help: "Jobs delivered and original message deleted"}, []string{"platform"})
		JobsFailed = promauto.NewCounterVec(prometheus.CounterOpts{Name: "memerelay_jobs_failed_total", Help: "Jobs that ended with an error notice"}, []string{"platform", "stage"})
		MediaSendFailures = promauto.NewCounterVec(prometheus.CounterOpts{Name: "memerelay_media_send_failures_total", Help: "Individual media items that could not be sent"}, []string{"kind"})
		SendRetries = promauto.NewCounter(prometheus.CounterOpts{Name: "memerelay_send_retries_total", Help: "Text sends retried after a transient error"})
		RemuxOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{Name: "memerelay_remux_total", Help: "Remux attempts by mode and outcome"}, []string{"mode", "outcome"})
		ExtractDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{Name: "memerelay_extract_duration_seconds", Help: "Adapter extraction duration seconds", Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120}}, []string{"platform"})
		DeliveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "memerelay_delivery_duration_seconds", Help: "Delivery duration seconds", Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300}})
		JobDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "memerelay_job_duration_seconds", Help: "Total job duration seconds", Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300, 600}})
		ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{Name: "memerelay_active_jobs", Help: "Jobs currently in flight"})
	})
}

// LinkReceived counts a classified link.
func LinkReceived(platform string) {
	if LinksReceived != nil {
		LinksReceived.WithLabelValues(platform).Inc()
	}
}

// JobSucceeded counts a fully delivered job.
func JobSucceeded(platform string) {
	if JobsSucceeded != nil {
		JobsSucceeded.WithLabelValues(platform).Inc()
	}
}

// JobFailed counts a job that failed at stage.
func JobFailed(platform, stage string) {
	if JobsFailed != nil {
		JobsFailed.WithLabelValues(platform, stage).Inc()
	}
}

// MediaSendFailed counts one isolated media failure.
func MediaSendFailed(kind string) {
	if MediaSendFailures != nil {
		MediaSendFailures.WithLabelValues(kind).Inc()
	}
}

// SendRetried counts one retry of a text send.
func SendRetried() {
	if SendRetries != nil {
		SendRetries.Inc()
	}
}

// ObserveRemux records a remux outcome.
func ObserveRemux(mode, outcome string) {
	if RemuxOutcomes != nil {
		RemuxOutcomes.WithLabelValues(mode, outcome).Inc()
	}
}

// ExtractObserver returns the extraction histogram for platform, or nil
// before Init. Pair it with TimeFunc.
func ExtractObserver(platform string) prometheus.Observer {
	if ExtractDuration == nil {
		return nil
	}
	return ExtractDuration.WithLabelValues(platform)
}

// JobStarted increments the in-flight gauge and returns a func that
// decrements it.
func JobStarted() func() {
	if ActiveJobs == nil {
		return func() {}
	}
	ActiveJobs.Inc()
	return ActiveJobs.Dec
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
