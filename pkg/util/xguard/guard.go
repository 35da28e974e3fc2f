package xguard

import (
	"context"
	"io"
)

// Handle 表示一次对某个 key 的兴趣登记，以及（Lock 成功后）对该 key
// 的独占访问权。Handle 不是并发安全的：它是单个调用方的作用域能力，
// 不应在多个 goroutine 之间共享。
//
// 状态机：Registered →（Lock 成功）Acquired →（Release）Released。
// Release 是终态；未到达 Acquired 的 Handle 调用 Release 只做计数
// 回退与表项剪除，不会解锁。
type Handle interface {
	// Lock 阻塞直到获得 key 的独占锁。
	// 支持 ctx 超时/取消，ctx 取消时返回 [context.Canceled] 或
	// [context.DeadlineExceeded]，此时 Handle 仍处于 Registered 状态，
	// 可以重试 Lock，也可以直接 Release。
	// Guard 关闭时返回 [ErrClosed]。ctx 不得为 nil，否则 panic。
	//
	// 设计决策: 锁是非可重入的，与 sync.Mutex 一致。同一 Handle
	// 重复 Lock 返回 [ErrAlreadyLocked]；同一 goroutine 对同一 key
	// 通过两个 Handle 嵌套 Lock 会死锁，由调用方负责避免。建议
	// 始终使用带 deadline 的 context。
	Lock(ctx context.Context) error

	// TryLock 非阻塞获取锁。
	// 锁被占用时返回 [ErrLockOccupied]，Handle 保持 Registered 状态。
	TryLock() error

	// Release 结束 Handle 的生命周期：若曾到达 Acquired 则解锁，
	// 然后回退引用计数并尝试剪除表项。
	// 幂等语义：第一次调用返回 nil，后续调用返回 [ErrHandleReleased]。
	Release() error

	// Key 返回 Handle 绑定的 key。Release 之后仍可调用。
	Key() string
}

// Guard 是进程级的 keyed 互斥表。所有方法并发安全。
//
// Guard 实例应显式构造并注入到使用方，而不是依赖包级全局变量，
// 以便测试中每个用例持有独立的表。
type Guard interface {
	io.Closer

	// HandleFor 登记对 key 的兴趣并返回 Handle。
	// 仅做 O(1) 的表结构操作，绝不阻塞在 per-key 锁上。
	// key 不得为空字符串，否则返回 [ErrInvalidKey]。
	// Guard 已关闭时返回 [ErrClosed]；配置了 WithMaxKeys 且表已满时
	// 返回 [ErrMaxKeysExceeded]。
	HandleFor(key string) (Handle, error)

	// Len 返回当前表内的 key 数量（含持有者与等待者）。
	// Close 后仍可安全调用，返回值随已登记 Handle 的释放逐渐归零。
	Len() int

	// Keys 返回当前表内 key 的快照，仅用于调试与测试断言。
	Keys() []string
}

// New 创建一个新的 Guard 实例。
// 配置无效时返回错误。
func New(opts ...Option) (Guard, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return newGuardImpl(o), nil
}
