package xguard

import (
	"context"
	"sync"
	"sync/atomic"
)

// guardImpl 是 Guard 的单表实现。
// mu 只保护 map 结构操作与引用计数，持有期间绝不等待 per-key 锁，
// 否则所有 key 都会被最慢 key 的临界区串行化。
type guardImpl struct {
	mu      sync.Mutex
	entries map[string]*entry
	opts    options
	closed  bool
	done    chan struct{}
}

// entry 表示一个 key 的守卫表项。
// ch 是 size=1 的 channel，用作互斥量：
//   - 发送成功 = 获取锁
//   - 发送阻塞 = 锁被占用
//   - 接收 = 释放锁
//
// ch 由表项与所有引用它的 Handle 共享：即使表项被并发剪除甚至同 key
// 重建，慢 Handle 手里的旧 ch 依然有效，只是不再是新登记者看到的那把。
type entry struct {
	ch chan struct{}
	// refcnt 统计引用此表项的 Handle 数（已登记、已持有、释放中）。
	// 仅在 guardImpl.mu 保护下修改；归零时表项从 map 中删除。
	refcnt int32
}

// Handle 状态机，见 [Handle] 文档。
const (
	stateRegistered int32 = iota
	stateAcquired
	stateReleased
)

// handle 实现 Handle 接口。
type handle struct {
	g     *guardImpl
	key   string
	entry *entry
	state atomic.Int32
}

func newGuardImpl(opts options) *guardImpl {
	return &guardImpl{
		entries: make(map[string]*entry),
		opts:    opts,
		done:    make(chan struct{}),
	}
}

func (g *guardImpl) HandleFor(key string) (Handle, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, ErrClosed
	}

	e, ok := g.entries[key]
	if !ok {
		if g.opts.maxKeys > 0 && len(g.entries) >= g.opts.maxKeys {
			return nil, ErrMaxKeysExceeded
		}
		e = &entry{ch: make(chan struct{}, 1)}
		g.entries[key] = e
	}
	// 计数先于锁获取：此后表项对并发剪除不可见为 0，Handle 的任何
	// 失败路径都只需走 Release 回退计数。
	e.refcnt++
	return &handle{g: g, key: key, entry: e}, nil
}

// releaseRef 回退引用计数并原地尝试剪除，两步在同一临界区内完成。
func (g *guardImpl) releaseRef(key string, e *entry) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e.refcnt--
	g.pruneLocked(key)
}

// tryPrune 尝试剪除 key 的表项。
// 对不存在或仍被引用的 key 是无害的 no-op。
func (g *guardImpl) tryPrune(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pruneLocked(key)
}

func (g *guardImpl) pruneLocked(key string) {
	// 按计数判断而非按调用方持有的指针判断：若表项已被剪除后同 key
	// 重建，这里看到的是新表项，其计数必然非 0，不会被误删。
	if e, ok := g.entries[key]; ok && e.refcnt == 0 {
		delete(g.entries, key)
	}
}

func (g *guardImpl) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

func (g *guardImpl) Keys() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	keys := make([]string, 0, len(g.entries))
	for k := range g.entries {
		keys = append(keys, k)
	}
	return keys
}

func (g *guardImpl) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrClosed
	}
	g.closed = true
	close(g.done)
	return nil
}

// handle 方法

func (h *handle) Lock(ctx context.Context) error {
	if ctx == nil {
		panic("xguard: nil Context")
	}
	switch h.state.Load() {
	case stateAcquired:
		return ErrAlreadyLocked
	case stateReleased:
		return ErrHandleReleased
	}
	// 快速检查：ctx 已取消时不进入 select，避免与可用锁的随机竞争。
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case h.entry.ch <- struct{}{}: // 获取成功
		h.state.Store(stateAcquired)
		return nil
	case <-ctx.Done(): // 超时或取消，Handle 保持 Registered
		return ctx.Err()
	case <-h.g.done: // Guard 已关闭
		return ErrClosed
	}
}

func (h *handle) TryLock() error {
	switch h.state.Load() {
	case stateAcquired:
		return ErrAlreadyLocked
	case stateReleased:
		return ErrHandleReleased
	}
	select {
	case h.entry.ch <- struct{}{}:
		h.state.Store(stateAcquired)
		return nil
	default:
		return ErrLockOccupied
	}
}

func (h *handle) Release() error {
	prev := h.state.Swap(stateReleased)
	if prev == stateReleased {
		return ErrHandleReleased
	}
	// 只有到达 Acquired 的 Handle 才持有锁；Registered 状态的 Handle
	// 绝不能释放一把从未持有的锁。
	if prev == stateAcquired {
		<-h.entry.ch
	}
	h.g.releaseRef(h.key, h.entry)
	return nil
}

func (h *handle) Key() string {
	return h.key
}

// 编译期接口检查。
var (
	_ Guard  = (*guardImpl)(nil)
	_ Handle = (*handle)(nil)
)
