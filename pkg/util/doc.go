// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xguard: 基于 key 的进程内互斥锁表，引用计数自动回收条目
//   - xhash: 缓存键摘要工具，基于 xxhash 的稳定字符串摘要
//
// 设计原则：
//   - 支持 context 超时与非阻塞获取
//   - 键空间无上限增长时自动收缩
//   - 跨平台兼容
package util
