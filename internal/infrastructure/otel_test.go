package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"upscli/internal/config"
)

func TestDefaultOTelConfig(t *testing.T) {
	cfg := DefaultOTelConfig()

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "prometheus", cfg.MetricExporter)
	assert.True(t, cfg.EnableTracing)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestNewOTelConfig(t *testing.T) {
	tests := []struct {
		name          string
		cfg           config.TelemetryConfig
		wantTracing   bool
		wantMetrics   bool
		wantTraceExp  string
		wantMetricExp string
	}{
		{
			name:          "disabled turns both pipelines off",
			cfg:           config.TelemetryConfig{Enabled: false},
			wantTracing:   false,
			wantMetrics:   false,
			wantTraceExp:  "none",
			wantMetricExp: "none",
		},
		{
			name: "enabled with explicit exporters",
			cfg: config.TelemetryConfig{
				Enabled:        true,
				TraceExporter:  "stdout",
				MetricExporter: "prometheus",
				SampleRatio:    0.5,
			},
			wantTracing:   true,
			wantMetrics:   true,
			wantTraceExp:  "stdout",
			wantMetricExp: "prometheus",
		},
		{
			name: "trace exporter none disables tracing only",
			cfg: config.TelemetryConfig{
				Enabled:        true,
				TraceExporter:  "none",
				MetricExporter: "prometheus",
				SampleRatio:    1.0,
			},
			wantTracing:   false,
			wantMetrics:   true,
			wantTraceExp:  "none",
			wantMetricExp: "prometheus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oc := NewOTelConfig(tt.cfg)
			assert.Equal(t, tt.wantTracing, oc.EnableTracing)
			assert.Equal(t, tt.wantMetrics, oc.EnableMetrics)
			assert.Equal(t, tt.wantTraceExp, oc.TraceExporter)
			assert.Equal(t, tt.wantMetricExp, oc.MetricExporter)
		})
	}
}

func TestInitializeOTel_Disabled(t *testing.T) {
	cfg := NewOTelConfig(config.TelemetryConfig{Enabled: false})

	providers, err := InitializeOTel(cfg, slog.Default())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_UnsupportedTraceExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "jaeger"
	cfg.MetricExporter = "none"
	cfg.EnableMetrics = false

	_, err := InitializeOTel(cfg, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace exporter")
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "stdout"
	cfg.MetricExporter = "none"
	cfg.EnableMetrics = false
	cfg.SampleRatio = 0.0

	providers, err := InitializeOTel(cfg, slog.Default())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)
	require.NotNil(t, providers.Tracer)

	_, span := providers.Tracer.Start(context.Background(), "test-span")
	span.End()

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestCreateBusinessMetrics(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, metrics)

	assert.NotNil(t, metrics.FilesParsed)
	assert.NotNil(t, metrics.FilesFailed)
	assert.NotNil(t, metrics.LinesNormalized)
	assert.NotNil(t, metrics.LinesSkipped)
	assert.NotNil(t, metrics.ParseDuration)
	assert.NotNil(t, metrics.ShipmentsAggregated)
	assert.NotNil(t, metrics.RollupDuration)
	assert.NotNil(t, metrics.DatasetReloads)
	assert.NotNil(t, metrics.ReportsExported)
	assert.NotNil(t, metrics.HTTPRequestsTotal)
	assert.NotNil(t, metrics.HTTPRequestDuration)
	assert.NotNil(t, metrics.HTTPActiveRequests)

	// Instruments must accept recordings without panicking.
	ctx := context.Background()
	metrics.FilesParsed.Add(ctx, 1)
	metrics.ParseDuration.Record(ctx, 0.25)
	metrics.HTTPActiveRequests.Add(ctx, 1)
	metrics.HTTPActiveRequests.Add(ctx, -1)
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestRecordError_NoActiveSpan(t *testing.T) {
	// Must be a no-op without a recording span.
	RecordError(context.Background(), errors.New("parse failed"))
	RecordError(context.Background(), nil)
}

func TestAddSpanEvent_NoActiveSpan(t *testing.T) {
	AddSpanEvent(context.Background(), "file_parsed", map[string]interface{}{
		"file":  "invoice.csv",
		"lines": 42,
		"ok":    true,
	})
}
