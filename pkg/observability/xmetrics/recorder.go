package xmetrics

import (
	"context"
	"time"
)

// Tier 标识缓存查找发生的层。
type Tier string

const (
	// TierMemory 进程内内存层。
	TierMemory Tier = "memory"
	// TierDisk 文件系统 blob 层。
	TierDisk Tier = "disk"
)

// Recorder 定义缓存指标采集接口。所有方法并发安全，且不得阻塞调用方。
type Recorder interface {
	// Hit 记录一次 tier 层命中。
	Hit(ctx context.Context, tier Tier)

	// Miss 记录一次 tier 层未命中。
	Miss(ctx context.Context, tier Tier)

	// Compute 记录一次编译（回源计算）及其耗时与结果。
	Compute(ctx context.Context, elapsed time.Duration, err error)

	// GuardWait 记录一次守卫锁等待耗时。
	GuardWait(ctx context.Context, elapsed time.Duration)

	// StoreError 记录一次缓存写入失败（产物已计算成功但未能落盘）。
	StoreError(ctx context.Context)
}

// Nop 返回什么都不做的 Recorder，用作未配置指标时的默认值。
func Nop() Recorder {
	return nopRecorder{}
}

type nopRecorder struct{}

func (nopRecorder) Hit(context.Context, Tier)                         {}
func (nopRecorder) Miss(context.Context, Tier)                        {}
func (nopRecorder) Compute(context.Context, time.Duration, error)     {}
func (nopRecorder) GuardWait(context.Context, time.Duration)          {}
func (nopRecorder) StoreError(context.Context)                        {}
