// Package xconf 提供 modelkit 的配置加载与热更新。
//
// 基于 koanf 实现，支持 YAML/JSON 两种格式，可从文件或字节数据
// （如 K8s ConfigMap 挂载内容）加载。CacheConfig 是 modelkit 各
// 组件（xblob/xartifact/xguard）的统一配置模式，带默认值与校验。
//
// 基本用法：
//
//	cfg, err := xconf.New("/etc/modelkit/cache.yaml")
//	cc, err := xconf.LoadCacheConfig(cfg)
//
// 配合 Watch 可在配置文件变更时自动重载：
//
//	w, err := xconf.Watch(cfg, func(c xconf.Config, err error) { ... })
//	w.Start()
//	defer w.Stop()
package xconf
