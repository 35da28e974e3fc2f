package xconf

import "errors"

var (
	// ErrEmptyPath 配置文件路径为空。
	ErrEmptyPath = errors.New("xconf: config path cannot be empty")

	// ErrEmptyData 配置数据为空。
	ErrEmptyData = errors.New("xconf: config data cannot be empty")

	// ErrUnsupportedFormat 不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")

	// ErrLoadFailed 配置加载失败。
	ErrLoadFailed = errors.New("xconf: failed to load config")

	// ErrParseFailed 配置解析失败。
	ErrParseFailed = errors.New("xconf: failed to parse config")

	// ErrUnmarshalFailed 配置反序列化失败。
	ErrUnmarshalFailed = errors.New("xconf: failed to unmarshal config")

	// ErrNotWatchable 配置源不可监听（非文件来源）。
	ErrNotWatchable = errors.New("xconf: config source is not watchable")

	// ErrInvalidConfig 配置字段校验失败。
	ErrInvalidConfig = errors.New("xconf: invalid config")
)
