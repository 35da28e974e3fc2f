package xartifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/omeyang/modelkit/pkg/observability/xmetrics"
	"github.com/omeyang/modelkit/pkg/storage/xblob"
	"github.com/omeyang/modelkit/pkg/util/xguard"
)

// cacheImpl 实现 Cache 接口。
type cacheImpl struct {
	guard  xguard.Guard
	store  xblob.Store
	mem    *ristretto.Cache[string, []byte] // 可选内存层，nil 表示禁用
	opts   options
	closed atomic.Bool
}

func newCacheImpl(guard xguard.Guard, store xblob.Store, opts options) (*cacheImpl, error) {
	c := &cacheImpl{
		guard: guard,
		store: store,
		opts:  opts,
	}
	if opts.memoryTier {
		mem, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
			NumCounters: opts.memoryNumCounters,
			MaxCost:     opts.memoryMaxCost,
			BufferItems: defaultMemoryBufferItems,
		})
		if err != nil {
			return nil, fmt.Errorf("xartifact: create memory tier: %w", err)
		}
		c.mem = mem
	}
	return c, nil
}

func (c *cacheImpl) GetOrCompute(ctx context.Context, key string, compute ComputeFunc) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if compute == nil {
		return nil, ErrNilCompute
	}

	// 1. 内存层：无锁快路径。
	if data, ok := c.memGet(ctx, key); ok {
		return data, nil
	}

	// 2. 守卫：同一 key 至多一个生产者。
	h, err := c.guard.HandleFor(key)
	if err != nil {
		return nil, fmt.Errorf("xartifact: register guard handle: %w", err)
	}
	// Release 对未完成 Lock 的 Handle 同样正确：只回退登记、不解锁。
	defer func() {
		if rerr := h.Release(); rerr != nil {
			c.opts.logger.Warn("xartifact: release guard handle",
				slog.String("key", key), slog.Any("error", rerr))
		}
	}()

	waitStart := time.Now()
	if err := h.Lock(ctx); err != nil {
		return nil, fmt.Errorf("xartifact: guard wait for %q: %w", key, err)
	}
	c.opts.recorder.GuardWait(ctx, time.Since(waitStart))

	// 3. 磁盘层复查：等待期间前一个持有者可能已把产物写好。
	data, err := c.store.Bytes(ctx, key)
	if err == nil {
		c.opts.recorder.Hit(ctx, xmetrics.TierDisk)
		c.memSet(key, data)
		return data, nil
	}
	if !errors.Is(err, xblob.ErrNotFound) {
		// 读失败当作未命中处理：重算一份比让调用方失败更有用。
		c.opts.logger.Warn("xartifact: disk read failed, recomputing",
			slog.String("key", key), slog.Any("error", err))
	}
	c.opts.recorder.Miss(ctx, xmetrics.TierDisk)

	// 4. 回源计算。
	data, err = c.runCompute(ctx, compute)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrComputeFailed, err)
	}

	// 5. 落盘并填充内存层。
	if err := c.store.PutBytes(ctx, key, data); err != nil {
		c.opts.recorder.StoreError(ctx)
		if c.opts.storeErrorFatal {
			return nil, fmt.Errorf("%w: %w", ErrStoreFailed, err)
		}
		// 降级：产物可用，只是这次没缓存住。
		c.opts.logger.Warn("xartifact: store artifact failed, returning uncached",
			slog.String("key", key), slog.Any("error", err))
	}
	c.memSet(key, data)
	return data, nil
}

func (c *cacheImpl) runCompute(ctx context.Context, compute ComputeFunc) ([]byte, error) {
	if c.opts.computeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.computeTimeout)
		defer cancel()
	}
	start := time.Now()
	data, err := compute(ctx)
	c.opts.recorder.Compute(ctx, time.Since(start), err)
	return data, err
}

func (c *cacheImpl) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	if data, ok := c.memGet(ctx, key); ok {
		return data, nil
	}

	data, err := c.store.Bytes(ctx, key)
	if err != nil {
		if errors.Is(err, xblob.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("xartifact: read artifact: %w", err)
	}
	c.opts.recorder.Hit(ctx, xmetrics.TierDisk)
	c.memSet(key, data)
	return data, nil
}

func (c *cacheImpl) Invalidate(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}

	if c.mem != nil {
		c.mem.Del(key)
	}
	if err := c.store.Remove(ctx, key); err != nil && !errors.Is(err, xblob.ErrNotFound) {
		return fmt.Errorf("xartifact: invalidate artifact: %w", err)
	}
	return nil
}

func (c *cacheImpl) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if c.mem != nil {
		c.mem.Close()
	}
	return nil
}

func (c *cacheImpl) memGet(ctx context.Context, key string) ([]byte, bool) {
	if c.mem == nil {
		return nil, false
	}
	if data, ok := c.mem.Get(key); ok {
		c.opts.recorder.Hit(ctx, xmetrics.TierMemory)
		return data, true
	}
	c.opts.recorder.Miss(ctx, xmetrics.TierMemory)
	return nil, false
}

func (c *cacheImpl) memSet(key string, data []byte) {
	if c.mem == nil {
		return
	}
	c.mem.Set(key, data, int64(len(data)))
}

// 编译期接口检查。
var _ Cache = (*cacheImpl)(nil)
