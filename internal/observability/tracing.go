package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan starts a new span from context
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// StartServiceSpan starts a span for service operations
func StartServiceSpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("service.component", service),
		attribute.String("service.operation", operation),
	)
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, operation),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records an error on the span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSuccess marks the span as successful
func SetSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// SyncMetrics holds the sync engine instruments
type SyncMetrics struct {
	replayed       metric.Int64Counter
	remoteFailures metric.Int64Counter
	localFallbacks metric.Int64Counter
	refreshErrors  metric.Int64Counter
}

// NewSyncMetrics creates the sync counters on the global meter provider
func NewSyncMetrics() (*SyncMetrics, error) {
	meter := otel.Meter(instrumentationName)

	replayed, err := meter.Int64Counter(
		"frontdesk.sync.replayed",
		metric.WithDescription("Pending records pushed to the backend by replay"),
		metric.WithUnit("{records}"),
	)
	if err != nil {
		return nil, err
	}

	remoteFailures, err := meter.Int64Counter(
		"frontdesk.remote.failures",
		metric.WithDescription("Failed backend calls counted against the health score"),
		metric.WithUnit("{calls}"),
	)
	if err != nil {
		return nil, err
	}

	localFallbacks, err := meter.Int64Counter(
		"frontdesk.sync.local_writes",
		metric.WithDescription("Writes stored locally as pending because the backend was unavailable"),
		metric.WithUnit("{records}"),
	)
	if err != nil {
		return nil, err
	}

	refreshErrors, err := meter.Int64Counter(
		"frontdesk.cache.refresh_errors",
		metric.WithDescription("Background reference data refreshes that failed"),
		metric.WithUnit("{refreshes}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		replayed:       replayed,
		remoteFailures: remoteFailures,
		localFallbacks: localFallbacks,
		refreshErrors:  refreshErrors,
	}, nil
}

// RecordReplayed counts records confirmed by a replay pass
func (m *SyncMetrics) RecordReplayed(ctx context.Context, entity string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.replayed.Add(ctx, int64(n), metric.WithAttributes(Entity(entity)))
}

// RecordRemoteFailure counts a failed backend call
func (m *SyncMetrics) RecordRemoteFailure(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.remoteFailures.Add(ctx, 1, metric.WithAttributes(Operation(operation)))
}

// RecordLocalWrite counts a write that fell back to local storage
func (m *SyncMetrics) RecordLocalWrite(ctx context.Context, entity string) {
	if m == nil {
		return
	}
	m.localFallbacks.Add(ctx, 1, metric.WithAttributes(Entity(entity)))
}

// RecordRefreshError counts a failed background refresh
func (m *SyncMetrics) RecordRefreshError(ctx context.Context, entity string) {
	if m == nil {
		return
	}
	m.refreshErrors.Add(ctx, 1, metric.WithAttributes(Entity(entity)))
}

// RegisterHealthGauges exposes the health score and the pending queue size
// as observable gauges read at collection time.
func RegisterHealthGauges(score func() int64, pending func(context.Context) (int64, error)) error {
	meter := otel.Meter(instrumentationName)

	scoreGauge, err := meter.Int64ObservableGauge(
		"frontdesk.health.score",
		metric.WithDescription("Current backend health score"),
	)
	if err != nil {
		return err
	}

	pendingGauge, err := meter.Int64ObservableGauge(
		"frontdesk.sync.pending",
		metric.WithDescription("Records waiting for replay"),
		metric.WithUnit("{records}"),
	)
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		o.ObserveInt64(scoreGauge, score())
		if n, err := pending(ctx); err == nil {
			o.ObserveInt64(pendingGauge, n)
		}
		return nil
	}, scoreGauge, pendingGauge)
	return err
}
