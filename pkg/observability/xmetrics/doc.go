// Package xmetrics 提供模型缓存的 OpenTelemetry 指标采集。
//
// Recorder 覆盖缓存链路的关键观测点：分层命中/未命中、编译次数与
// 耗时、守卫等待耗时、存储写入失败。xartifact 通过 WithRecorder
// 注入 Recorder；不注入时使用零开销的 Nop 实现，调用方无需判空。
//
// 基本用法：
//
//	rec, err := xmetrics.NewOTelRecorder()
//	cache, err := xartifact.New(guard, store, xartifact.WithRecorder(rec))
package xmetrics
