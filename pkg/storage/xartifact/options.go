package xartifact

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/omeyang/modelkit/pkg/observability/xmetrics"
)

const (
	defaultMemoryMaxCost     = 100 * 1024 * 1024 // 100MB
	defaultMemoryNumCounters = 1e6
	defaultMemoryBufferItems = 64

	// minMemoryMaxCost 内存层最小容量（1MB），过小的值导致频繁淘汰。
	minMemoryMaxCost = 1 * 1024 * 1024
)

// Option 定义 Cache 可选配置。
type Option func(*options)

type options struct {
	memoryTier        bool
	memoryMaxCost     int64
	memoryNumCounters int64
	computeTimeout    time.Duration
	storeErrorFatal   bool
	recorder          xmetrics.Recorder
	logger            *slog.Logger
}

func defaultOptions() options {
	return options{
		memoryTier:        true,
		memoryMaxCost:     defaultMemoryMaxCost,
		memoryNumCounters: defaultMemoryNumCounters,
		recorder:          xmetrics.Nop(),
		logger:            slog.Default(),
	}
}

// WithMemoryTier 设置是否启用内存层。
// 禁用后每次读取都走磁盘，适合产物巨大或内存受限的部署。默认启用。
func WithMemoryTier(enable bool) Option {
	return func(o *options) {
		o.memoryTier = enable
	}
}

// WithMemoryMaxCost 设置内存层最大容量（字节）。
// 下限 1MB，低于下限的值会在 New 时报错。默认 100MB。
func WithMemoryMaxCost(n int64) Option {
	return func(o *options) {
		o.memoryMaxCost = n
	}
}

// WithComputeTimeout 设置单次回源计算的超时。
// d <= 0 表示不额外限时，只受调用方 ctx 约束（默认）。
func WithComputeTimeout(d time.Duration) Option {
	if d < 0 {
		d = 0
	}
	return func(o *options) {
		o.computeTimeout = d
	}
}

// WithStoreErrorFatal 设置产物落盘失败时的语义。
// false（默认）：降级为返回产物但不缓存，记录日志与指标；
// true：向调用方返回 [ErrStoreFailed]。
func WithStoreErrorFatal(fatal bool) Option {
	return func(o *options) {
		o.storeErrorFatal = fatal
	}
}

// WithRecorder 设置指标采集器。
// 默认使用 xmetrics.Nop()。
func WithRecorder(rec xmetrics.Recorder) Option {
	return func(o *options) {
		if rec != nil {
			o.recorder = rec
		}
	}
}

// WithLogger 设置自定义 Logger。
// 默认使用 slog.Default()。传入 nil 将被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func (o *options) validate() error {
	if o.memoryTier && o.memoryMaxCost < minMemoryMaxCost {
		return fmt.Errorf("xartifact: memory max cost must be >= %d, got %d",
			minMemoryMaxCost, o.memoryMaxCost)
	}
	return nil
}
