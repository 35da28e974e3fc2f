package xmetrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultInstrumentationName = "github.com/omeyang/modelkit/pkg/observability/xmetrics"

	metricLookupTotal     = "modelkit.cache.lookup.total"
	metricComputeTotal    = "modelkit.cache.compute.total"
	metricComputeDuration = "modelkit.cache.compute.duration"
	metricGuardWait       = "modelkit.cache.guard.wait.duration"
	metricStoreErrors     = "modelkit.cache.store.errors.total"

	attrTier   = "tier"
	attrResult = "result"
	attrStatus = "status"
)

type otelConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// Option 定义 OTel Recorder 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
// 默认使用全局 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// NewOTelRecorder 创建基于 OpenTelemetry 的 Recorder。
func NewOTelRecorder(opts ...Option) (Recorder, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	lookups, err := meter.Int64Counter(
		metricLookupTotal,
		metric.WithDescription("cache lookups by tier and result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create lookup counter: %w", err)
	}

	computes, err := meter.Int64Counter(
		metricComputeTotal,
		metric.WithDescription("artifact computations by status"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create compute counter: %w", err)
	}

	computeDur, err := meter.Float64Histogram(
		metricComputeDuration,
		metric.WithDescription("artifact computation duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create compute histogram: %w", err)
	}

	guardWait, err := meter.Float64Histogram(
		metricGuardWait,
		metric.WithDescription("per-key guard wait duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create guard wait histogram: %w", err)
	}

	storeErrs, err := meter.Int64Counter(
		metricStoreErrors,
		metric.WithDescription("artifact store write failures"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create store error counter: %w", err)
	}

	return &otelRecorder{
		lookups:    lookups,
		computes:   computes,
		computeDur: computeDur,
		guardWait:  guardWait,
		storeErrs:  storeErrs,
	}, nil
}

type otelRecorder struct {
	lookups    metric.Int64Counter
	computes   metric.Int64Counter
	computeDur metric.Float64Histogram
	guardWait  metric.Float64Histogram
	storeErrs  metric.Int64Counter
}

func (r *otelRecorder) Hit(ctx context.Context, tier Tier) {
	r.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrTier, string(tier)),
		attribute.String(attrResult, "hit"),
	))
}

func (r *otelRecorder) Miss(ctx context.Context, tier Tier) {
	r.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrTier, string(tier)),
		attribute.String(attrResult, "miss"),
	))
}

func (r *otelRecorder) Compute(ctx context.Context, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(attribute.String(attrStatus, status))
	r.computes.Add(ctx, 1, attrs)
	r.computeDur.Record(ctx, elapsed.Seconds(), attrs)
}

func (r *otelRecorder) GuardWait(ctx context.Context, elapsed time.Duration) {
	r.guardWait.Record(ctx, elapsed.Seconds())
}

func (r *otelRecorder) StoreError(ctx context.Context) {
	r.storeErrs.Add(ctx, 1)
}

// 编译期接口检查。
var (
	_ Recorder = (*otelRecorder)(nil)
	_ Recorder = nopRecorder{}
)
