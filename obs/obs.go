//go:build !nometrics

// Package obs holds the Prometheus metrics and OpenTelemetry tracer setup
// for the fusion engine.
package obs

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	setupOnce sync.Once
	shutdown  = func(context.Context) error { return nil }
)

var (
	queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardfuse_queries_total",
		Help: "Total similarity queries by outcome.",
	}, []string{"outcome"})
	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cardfuse_query_duration_ms",
		Help:    "Histogram of end-to-end query latency in ms.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
	signalDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cardfuse_signal_lookup_duration_ms",
		Help:    "Histogram of per-signal lookup latency in ms.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"signal"})
	signalEmpty = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardfuse_signal_empty_lookups_total",
		Help: "Lookups where a signal had no opinion on the query.",
	}, []string{"signal"})
	signalAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cardfuse_signal_available",
		Help: "Whether a signal's backing artifact loaded (1) or not (0).",
	}, []string{"signal"})
)

// ObserveQuery records one finished query by outcome.
func ObserveQuery(outcome string, duration time.Duration) {
	queries.WithLabelValues(outcome).Inc()
	queryDuration.Observe(float64(duration.Milliseconds()))
}

// RecordSignalLookup observes a per-signal lookup.
func RecordSignalLookup(signal string, duration time.Duration, empty bool) {
	signalDuration.WithLabelValues(signal).Observe(float64(duration.Milliseconds()))
	if empty {
		signalEmpty.WithLabelValues(signal).Inc()
	}
}

// SetSignalAvailable publishes a signal's load state.
func SetSignalAvailable(signal string, available bool) {
	value := 0.0
	if available {
		value = 1.0
	}
	signalAvailable.WithLabelValues(signal).Set(value)
}

// StartSpan opens a pipeline-stage span on the global tracer. The returned
// func ends it.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func()) {
	ctx, span := otel.Tracer("cardfuse").Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func() { span.End() }
}

// InitTracer sets up a minimal OpenTelemetry tracer provider.
func InitTracer(serviceName string) (func(context.Context) error, error) {
	var initErr error
	setupOnce.Do(func() {
		res, err := resource.New(context.Background(),
			resource.WithAttributes(
				semconv.ServiceName(serviceName),
			),
		)
		if err != nil {
			initErr = err
			return
		}

		provider := sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.3))),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(provider)
		shutdown = provider.Shutdown
	})
	return shutdown, initErr
}
