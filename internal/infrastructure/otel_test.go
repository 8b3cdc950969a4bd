package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"econcal/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(nil, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	// Default config: no trace exporter, Prometheus metrics
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelConfiguration(t *testing.T) {
	tests := []struct {
		name          string
		config        *OTelConfig
		wantTracer    bool
		wantMeter     bool
		wantErrSubstr string
	}{
		{
			name: "stdout traces and prometheus metrics",
			config: &OTelConfig{
				ServiceName: "test-service", ServiceVersion: "v1.0.0", Environment: "development",
				TraceExporter: "stdout", MetricExporter: "prometheus", SampleRatio: 1.0,
			},
			wantTracer: true,
			wantMeter:  true,
		},
		{
			name: "everything disabled",
			config: &OTelConfig{
				ServiceName: "test-service", ServiceVersion: "v1.0.0", Environment: "test",
				TraceExporter: "none", MetricExporter: "none",
			},
		},
		{
			name: "unknown trace exporter",
			config: &OTelConfig{
				ServiceName: "test-service", TraceExporter: "zipkin", MetricExporter: "none",
			},
			wantErrSubstr: "unsupported trace exporter",
		},
		{
			name: "unknown metric exporter",
			config: &OTelConfig{
				ServiceName: "test-service", TraceExporter: "none", MetricExporter: "statsd",
			},
			wantErrSubstr: "unsupported metric exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.config, quietLogger())
			if tt.wantErrSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrSubstr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantTracer, providers.TracerProvider != nil)
			assert.Equal(t, tt.wantMeter, providers.MeterProvider != nil)
			assert.NotNil(t, providers.Tracer, "tracer is a no-op when disabled")
			assert.NotNil(t, providers.Meter, "meter is a no-op when disabled")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, providers.Shutdown(ctx))
		})
	}
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{
		Environment:    "production",
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    0.25,
	})

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "none", cfg.MetricExporter)
	assert.Equal(t, 0.25, cfg.SampleRatio)
}

func TestBusinessMetrics_ExportedThroughPrometheus(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordGeneration(ctx, metrics, "calendar", "xlsx", 15*time.Millisecond, nil)
	RecordGeneration(ctx, metrics, "quotes", "docx", 5*time.Millisecond, errors.New("no table"))
	RecordIngest(ctx, metrics, "calendar", "work_en", 3)
	RecordTemplateUpload(ctx, metrics, "quotes", false)
	RecordQuoteRows(ctx, metrics, 7)

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, "documents_generated_total")
	assert.Contains(t, text, `document_kind="calendar"`)
	assert.Contains(t, text, "document_generation_errors_total")
	assert.Contains(t, text, "records_ingested_total")
	assert.Contains(t, text, "template_uploads_total")
	assert.Contains(t, text, "quote_rows_updated_total")
	assert.Contains(t, text, "go_goroutines")
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordGeneration(ctx, nil, "calendar", "docx", time.Second, nil)
		RecordIngest(ctx, nil, "quotes", "items", 1)
		RecordTemplateUpload(ctx, nil, "calendar", true)
		RecordQuoteRows(ctx, nil, 2)
	})
}

func TestTraceCorrelation(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "generate")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
	assert.Empty(t, TraceIDFromContext(context.Background()))

	// The log handler falls back to the span's trace id.
	var buf bytes.Buffer
	logger := slog.New(&traceHandler{Handler: slog.NewJSONHandler(&buf, nil)})
	logger.InfoContext(ctx, "rendering")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, traceID, entry["trace_id"])

	// An explicit trace id wins over the span.
	buf.Reset()
	logger.InfoContext(WithTraceID(ctx, "req-42"), "rendering")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-42", entry["trace_id"])
}

func TestRecordError(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "fill")
	defer span.End()

	assert.NotPanics(t, func() {
		RecordError(ctx, assert.AnError)
		RecordError(context.Background(), assert.AnError)
	})
	assert.True(t, span.IsRecording())
}
