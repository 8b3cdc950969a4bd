package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"econcal/internal/files"
	"econcal/internal/infrastructure"
	"econcal/internal/shared/testutil"
)

func fixedClock() func() time.Time {
	return func() time.Time { return testutil.FixtureNow }
}

// templateStore returns a store whose fallback holds data. A nil data leaves
// both paths missing.
func templateStore(t *testing.T, name string, data []byte) *files.TemplateStore {
	t.Helper()
	dir := t.TempDir()
	fallback := filepath.Join(dir, "bundled", name+".docx")
	if data != nil {
		require.NoError(t, os.MkdirAll(filepath.Dir(fallback), 0755))
		require.NoError(t, os.WriteFile(fallback, data, 0644))
	}
	logger, _ := testutil.NewTestLogger(t)
	return files.NewTemplateStore(name, filepath.Join(dir, "active", name+".docx"), fallback, logger)
}

func newMetrics(t *testing.T) (*infrastructure.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := infrastructure.CreateBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return metrics, reader
}

// counterTotal sums every data point of the int64 counter called name.
func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}
