package xblob

import (
	"context"
	"io"
	"time"
)

// Info 描述一个已存储的 blob。
type Info struct {
	// Key blob 的内容哈希 key。
	Key string

	// Size blob 字节数。
	Size int64

	// ModTime blob 发布（rename）时间。
	ModTime time.Time
}

// Store 定义文件系统 blob 存储接口。所有方法并发安全；
// 同一 key 的写-写互斥由调用方（通常是 xguard）保证。
type Store interface {
	io.Closer

	// Put 从 r 读取内容写入 key 对应的 blob，返回写入字节数。
	// 写入先落临时文件再 rename 发布，读取方不会看到半成品。
	// 同 key 已存在时覆盖发布（rename 语义）。
	Put(ctx context.Context, key string, r io.Reader) (int64, error)

	// PutBytes 等价于 Put(ctx, key, bytes.NewReader(data))。
	PutBytes(ctx context.Context, key string, data []byte) error

	// Open 打开 key 对应的 blob 读取流，调用方负责 Close。
	// blob 不存在时返回 [ErrNotFound]。
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Bytes 读取 key 对应 blob 的完整内容。
	// blob 不存在时返回 [ErrNotFound]。
	Bytes(ctx context.Context, key string) ([]byte, error)

	// Stat 返回 key 对应 blob 的元信息。
	// blob 不存在时返回 [ErrNotFound]。
	Stat(ctx context.Context, key string) (Info, error)

	// Remove 删除 key 对应的 blob。
	// blob 不存在时返回 [ErrNotFound]。
	Remove(ctx context.Context, key string) error

	// Keys 返回当前目录下所有 blob 的 key 列表（快照，未排序）。
	Keys(ctx context.Context) ([]string, error)

	// Dir 返回缓存目录路径。
	Dir() string
}

// New 创建基于 dir 的 Store。目录不存在时自动创建。
func New(dir string, opts ...Option) (Store, error) {
	if dir == "" {
		return nil, ErrEmptyDir
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return newStoreImpl(dir, o)
}
