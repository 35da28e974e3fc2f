// Package xartifact 提供 compute-if-absent 语义的模型产物缓存。
//
// 这是 xguard 的标准使用方：GetOrCompute 在同一内容哈希 key 上保证
// 昂贵的编译/序列化只执行一次，其余并发请求等待后直接读取产物。
//
// 查找顺序：内存层（ristretto，可选）→ 磁盘层（xblob）→ 回源计算。
// 守卫在磁盘层之前介入：拿到 key 的独占锁后先复查磁盘——等待期间
// 另一个持有者很可能已经把产物写好了。
//
// 流程：
//
//	cache, err := xartifact.New(guard, store)
//	blob, err := cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]byte, error) {
//	    return compileModel(ctx, model) // 昂贵计算，每个 key 至多并发一次
//	})
//
// 计算成功但落盘失败时默认降级为"返回产物但不缓存"（记录日志与指标），
// 可通过 WithStoreErrorFatal 改为直接报错。
package xartifact
