package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestInstrumentsRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	shutdown := Install(reader, nil)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	ctx := context.Background()
	RecordFetch(ctx, "fuel", 120*time.Millisecond, nil)
	RecordFetch(ctx, "fuel", -time.Second, errors.New("boom"))
	RecordStale(ctx, "speeding")
	RecordStale(ctx, "speeding")
	RecordExport(ctx, "positions", "csv", 3000)

	got := collect(t, reader)

	require.Contains(t, got, metricFetchDurationName)
	fetch, ok := got[metricFetchDurationName].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, fetch.DataPoints, 2)

	require.Contains(t, got, metricStaleCompletionName)
	stale, ok := got[metricStaleCompletionName].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, stale.DataPoints, 1)
	assert.Equal(t, int64(2), stale.DataPoints[0].Value)

	require.Contains(t, got, metricExportRowsName)
}

func TestInitWithoutEndpoint(t *testing.T) {
	_, err := Init(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrDisabled)
}
