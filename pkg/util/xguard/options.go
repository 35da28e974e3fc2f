package xguard

import "fmt"

// Option 定义 Guard 可选配置。
type Option func(*options)

type options struct {
	maxKeys int
}

func defaultOptions() options {
	return options{}
}

// WithMaxKeys 设置表内最大 key 数量。
// 达到上限时，新 key 的 HandleFor 返回 [ErrMaxKeysExceeded]；
// 已存在 key 的登记不受影响。
// n <= 0 表示不限制（默认）。
func WithMaxKeys(n int) Option {
	// 在闭包外归一化，避免闭包写捕获变量导致并发复用时的数据竞争。
	if n < 0 {
		n = 0
	}
	return func(o *options) {
		o.maxKeys = n
	}
}

func (o *options) validate() error {
	if o.maxKeys < 0 {
		return fmt.Errorf("xguard: max keys must be >= 0, got %d", o.maxKeys)
	}
	return nil
}
