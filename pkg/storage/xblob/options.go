package xblob

import (
	"fmt"
	"time"
)

const (
	defaultFileMode = 0o644
	defaultDirMode  = 0o755
)

// Option 定义 Store 可选配置。
type Option func(*options)

type options struct {
	retryAttempts uint
	retryDelay    time.Duration
}

func defaultOptions() options {
	return options{
		retryAttempts: 1, // 不重试
		retryDelay:    50 * time.Millisecond,
	}
}

// WithRetry 设置 I/O 操作的重试策略。
// attempts 是总尝试次数（包含首次），delay 是固定重试间隔。
// 适用于网络文件系统上的瞬时错误；本地磁盘一般无需开启。
// attempts <= 1 表示不重试（默认）。
func WithRetry(attempts int, delay time.Duration) Option {
	if attempts < 1 {
		attempts = 1
	}
	if delay < 0 {
		delay = 0
	}
	return func(o *options) {
		o.retryAttempts = uint(attempts)
		o.retryDelay = delay
	}
}

func (o *options) validate() error {
	if o.retryAttempts == 0 {
		return fmt.Errorf("xblob: retry attempts must be >= 1, got 0")
	}
	return nil
}
