// Package xblob 提供基于文件系统的产物（blob）存储。
//
// 每个内容哈希 key 对应缓存目录下的一个 blob 文件。写入先落到带
// 随机后缀的临时文件再 rename 发布：进程崩溃不会留下半个 blob 被
// 后续读取误当作完整产物。同一 key 的并发写互斥由上层（xguard）
// 保证，xblob 自身只保证崩溃安全，不提供跨进程锁。
//
// 典型场景是网络文件系统上的共享缓存目录，瞬时 I/O 错误可通过
// WithRetry 自动重试。
//
// 基本用法：
//
//	store, err := xblob.New("/var/cache/models")
//	err = store.PutBytes(ctx, key, blob)
//	data, err := store.Bytes(ctx, key)
package xblob
