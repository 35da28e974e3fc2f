package xartifact

import "errors"

var (
	// ErrNilGuard 表示构造时传入的 Guard 为 nil。
	ErrNilGuard = errors.New("xartifact: nil guard")

	// ErrNilStore 表示构造时传入的 Store 为 nil。
	ErrNilStore = errors.New("xartifact: nil store")

	// ErrNilCompute 表示 GetOrCompute 传入的计算函数为 nil。
	ErrNilCompute = errors.New("xartifact: nil compute func")

	// ErrNotFound 表示 key 在所有缓存层都不存在。
	// 仅由只读的 Get 返回；GetOrCompute 未命中时回源而非报错。
	ErrNotFound = errors.New("xartifact: artifact not found")

	// ErrComputeFailed 表示回源计算失败。
	// 使用 errors.Is 匹配，原始错误在链上可由 errors.As/Is 继续取出。
	ErrComputeFailed = errors.New("xartifact: compute failed")

	// ErrStoreFailed 表示产物已计算成功但写入缓存失败。
	// 仅在 WithStoreErrorFatal(true) 时返回给调用方。
	ErrStoreFailed = errors.New("xartifact: store artifact failed")

	// ErrClosed 表示 Cache 已关闭。
	ErrClosed = errors.New("xartifact: closed")
)
