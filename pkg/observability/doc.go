// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xmetrics: 缓存指标埋点，基于 OpenTelemetry Metrics API
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 指标接口与实现分离，业务代码依赖 Recorder 接口
//   - 默认 Nop 实现，不配置时零开销
package observability
