package xartifact

import (
	"context"
	"io"

	"github.com/omeyang/modelkit/pkg/storage/xblob"
	"github.com/omeyang/modelkit/pkg/util/xguard"
)

// ComputeFunc 定义产物的回源计算函数：编译、序列化等昂贵操作。
// ctx 携带调用方的取消信号（以及可选的 WithComputeTimeout 超时）。
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Cache 定义 compute-if-absent 产物缓存接口。所有方法并发安全。
type Cache interface {
	io.Closer

	// GetOrCompute 返回 key 对应的产物，各缓存层均未命中时调用
	// compute 回源并写入缓存。同一 key 的并发调用由守卫互斥：
	// 至多一个调用方执行 compute，其余等待后从缓存读取。
	//
	// compute 失败时错误链同时携带 [ErrComputeFailed] 与原始错误，
	// 失败不会被缓存，下一个调用方会重新尝试计算。
	GetOrCompute(ctx context.Context, key string, compute ComputeFunc) ([]byte, error)

	// Get 只查缓存不回源。所有层未命中时返回 [ErrNotFound]。
	Get(ctx context.Context, key string) ([]byte, error)

	// Invalidate 从所有缓存层删除 key 的产物。
	// key 不存在时是 no-op，返回 nil。
	Invalidate(ctx context.Context, key string) error
}

// New 创建产物缓存。
// guard 提供 per-key 互斥，store 提供磁盘层；二者生命周期由调用方
// 管理，Cache.Close 只释放自身创建的内存层。
func New(guard xguard.Guard, store xblob.Store, opts ...Option) (Cache, error) {
	if guard == nil {
		return nil, ErrNilGuard
	}
	if store == nil {
		return nil, ErrNilStore
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
	return newCacheImpl(guard, store, o)
}
