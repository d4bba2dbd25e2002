package practicelink

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "practicelink"

// sdkMetrics holds the collectors registered on the caller's registerer.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	links      prometheus.Histogram
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 20},
		}, []string{"operation"}),
		links: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sdk",
			Name:      "links_per_enrich",
			Help:      "Practice links returned per Enrich call.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6},
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.links); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or swaps in the collector already registered under its name.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("practicelink: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("practicelink: metric already registered as %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and counts SDK operations. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}
	m, err := newSDKMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

func (o *observer) observe(op string, start time.Time, err error, attrs ...slog.Attr) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	args := make([]any, 0, len(attrs)+3)
	args = append(args, slog.String("op", op), slog.Duration("duration", dur))
	for _, a := range attrs {
		args = append(args, a)
	}
	if err != nil {
		o.logger.Warn("operation failed", append(args, slog.Any("error", err))...)
		return
	}
	o.logger.Debug("operation completed", args...)
}

// enriched records the outcome of a successful Enrich call.
func (o *observer) enriched(res EnrichResult) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.links.Observe(float64(len(res.Links)))
}
