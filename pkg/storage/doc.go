// Package storage 提供编译产物存储相关的子包。
//
// 子包列表：
//   - xblob: 目录型 blob 存储，原子写入、落盘重试
//   - xartifact: 两级（内存/磁盘）编译产物缓存，单飞编译
//
// 设计原则：
//   - 提供统一的接口抽象，实现可替换
//   - 写入原子化，崩溃不产生半成品条目
//   - 内置可观测性（指标、日志）
package storage
