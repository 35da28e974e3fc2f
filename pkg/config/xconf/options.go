package xconf

import "time"

const (
	defaultDelim    = "."
	defaultTag      = "koanf"
	defaultDebounce = 100 * time.Millisecond
)

// Option 配置选项。
type Option func(*options)

type options struct {
	delim    string
	tag      string
	debounce time.Duration
}

func newOptions(opts ...Option) options {
	o := options{
		delim:    defaultDelim,
		tag:      defaultTag,
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDelim 设置配置键路径分隔符，默认 "."。
func WithDelim(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delim = delim
		}
	}
}

// WithTag 设置反序列化使用的结构体标签，默认 "koanf"。
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}

// WithDebounce 设置文件监听的去抖间隔，默认 100ms。
// 编辑器保存往往触发多个连续事件，去抖合并为一次重载。
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}
