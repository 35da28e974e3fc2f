// Package xguard 提供基于内容哈希 key 的进程内缓存守卫（cache guard）。
//
// 适用于推理运行时的编译产物缓存场景：多个执行上下文并发请求同一
// 编译/序列化产物时，保证每个 key 同一时刻至多一个生产者在执行昂贵
// 的计算，不同 key 之间完全并行，且 key 不再被引用后守卫表自动清理，
// 不会随 key 数量无限增长。
//
// # 与 xkeylock 风格锁的区别
//
// 守卫把"登记兴趣"和"阻塞获取"拆成两个可观察的步骤：
//
//	h, err := guard.HandleFor(hash)   // 登记，引用计数 +1，不阻塞
//	err = h.Lock(ctx)                 // 阻塞，直到独占该 key
//	defer h.Release()                 // 解锁（若已持有）+ 计数 -1 + 尝试剪除表项
//
// 拆分的意义在于异常安全：登记之后、获取之前的任何失败路径（ctx 取消、
// 守卫关闭、调用方放弃）都只需 Release，引用计数与表项剪除依然正确，
// 且绝不会释放一把从未持有的锁。
//
// # 特性
//
//   - 表锁只保护 map 结构操作（查找/插入/计数/删除），O(1) 且从不
//     在持有表锁时等待 per-key 锁，慢 key 不会拖累无关 key
//   - per-key 锁由表项与所有 Handle 共享持有，表项被并发剪除后
//     旧 Handle 依然可以安全释放
//   - Handle 状态机 Registered → Acquired → Released，仅在到达
//     Acquired 后 Release 才会解锁
//   - Lock 支持 ctx 超时/取消（ctx 不得为 nil，否则 panic）
//   - WithMaxKeys(n) 可限制表内最大 key 数
//   - Close() 拒绝新登记并唤醒所有阻塞中的 Lock，已持有的锁不受影响
//
// 不提供同一 key 等待者之间的公平性/FIFO 保证，也不是跨进程原语。
package xguard
