package xguard

import "errors"

var (
	// ErrInvalidKey 表示 key 为空字符串。
	ErrInvalidKey = errors.New("xguard: invalid key")

	// ErrClosed 表示 Guard 已关闭。
	// Close 后调用 HandleFor 返回此错误；阻塞中的 Lock 也以此错误被唤醒。
	ErrClosed = errors.New("xguard: closed")

	// ErrMaxKeysExceeded 表示已达到最大 key 数量限制。
	ErrMaxKeysExceeded = errors.New("xguard: max keys exceeded")

	// ErrAlreadyLocked 表示 Handle 已处于 Acquired 状态。
	// 同一 Handle 重复 Lock 时返回此错误。
	ErrAlreadyLocked = errors.New("xguard: handle already locked")

	// ErrHandleReleased 表示 Handle 已释放。
	// Release 后再调用 Lock/TryLock/Release 时返回此错误。
	ErrHandleReleased = errors.New("xguard: handle released")

	// ErrLockOccupied 表示 key 的锁正被其他 Handle 持有。
	// 仅由非阻塞的 TryLock 返回。
	ErrLockOccupied = errors.New("xguard: lock occupied")
)
