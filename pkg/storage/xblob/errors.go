package xblob

import "errors"

var (
	// ErrEmptyDir 表示缓存目录为空字符串。
	ErrEmptyDir = errors.New("xblob: empty cache dir")

	// ErrInvalidKey 表示 key 为空或含有不允许的字符。
	// key 只允许 [0-9a-zA-Z._-]，杜绝路径穿越。
	ErrInvalidKey = errors.New("xblob: invalid key")

	// ErrNotFound 表示 key 对应的 blob 不存在。
	ErrNotFound = errors.New("xblob: blob not found")

	// ErrClosed 表示 Store 已关闭。
	ErrClosed = errors.New("xblob: closed")
)
