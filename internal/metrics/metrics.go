// Package metrics holds the OpenTelemetry instruments of the report console.
// Instruments are created lazily on the global meter provider, so they are
// no-ops until the process installs an SDK provider.
package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName                 = "fleetdash.reports"
	metricFetchDurationName   = "report_fetch_duration_seconds"
	metricStaleCompletionName = "report_stale_completions_total"
	metricExportRowsName      = "report_export_rows"
)

var (
	once sync.Once

	fetchDuration   metric.Float64Histogram
	staleCompletion metric.Int64Counter
	exportRows      metric.Int64Histogram
)

func initMetrics() {
	meter := otel.Meter(meterName)

	if hist, err := meter.Float64Histogram(
		metricFetchDurationName,
		metric.WithDescription("Latency of report page fetches"),
		metric.WithUnit("s"),
	); err != nil {
		otel.Handle(err)
	} else {
		fetchDuration = hist
	}

	if counter, err := meter.Int64Counter(
		metricStaleCompletionName,
		metric.WithDescription("Fetch completions discarded because a newer fetch was issued"),
	); err != nil {
		otel.Handle(err)
	} else {
		staleCompletion = counter
	}

	if hist, err := meter.Int64Histogram(
		metricExportRowsName,
		metric.WithDescription("Rows written per report export"),
	); err != nil {
		otel.Handle(err)
	} else {
		exportRows = hist
	}
}

// RecordFetch records the latency of one fetch of report
func RecordFetch(ctx context.Context, report string, d time.Duration, err error) {
	once.Do(initMetrics)
	if fetchDuration == nil {
		return
	}
	if d < 0 {
		d = 0
	}

	status := "ok"
	if err != nil {
		status = "error"
	}

	fetchDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("report", report),
		attribute.String("status", status),
	))
}

// RecordStale counts a discarded completion of report
func RecordStale(ctx context.Context, report string) {
	once.Do(initMetrics)
	if staleCompletion == nil {
		return
	}
	staleCompletion.Add(ctx, 1, metric.WithAttributes(attribute.String("report", report)))
}

// RecordExport records the size of an export
func RecordExport(ctx context.Context, report, format string, rows int) {
	once.Do(initMetrics)
	if exportRows == nil {
		return
	}
	exportRows.Record(ctx, int64(rows), metric.WithAttributes(
		attribute.String("report", report),
		attribute.String("format", format),
	))
}
