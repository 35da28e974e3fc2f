package xconf

import (
	"fmt"
	"time"
)

// CacheConfig modelkit 缓存组件的统一配置模式。
// 对应配置文件中的 cache 段。
type CacheConfig struct {
	// Dir 编译产物落盘目录。
	Dir string `koanf:"dir"`

	// MaxKeys 锁表允许的最大键数，0 表示不限制。
	MaxKeys int `koanf:"max_keys"`

	// Memory 内存层配置。
	Memory MemoryConfig `koanf:"memory"`

	// ComputeTimeout 单次编译的超时时间，0 表示不限制。
	ComputeTimeout time.Duration `koanf:"compute_timeout"`

	// StoreErrorFatal 写盘失败是否视为致命错误。
	// false 时降级为不缓存但正常返回编译结果。
	StoreErrorFatal bool `koanf:"store_error_fatal"`

	// Retry 落盘重试配置。
	Retry RetryConfig `koanf:"retry"`
}

// MemoryConfig 内存层配置。
type MemoryConfig struct {
	// Enabled 是否启用内存层。
	Enabled bool `koanf:"enabled"`

	// MaxCost 内存层容量上限（字节）。
	MaxCost int64 `koanf:"max_cost"`
}

// RetryConfig 落盘重试配置。
type RetryConfig struct {
	// Attempts 最大尝试次数（含首次）。
	Attempts uint `koanf:"attempts"`

	// Delay 两次尝试之间的固定间隔。
	Delay time.Duration `koanf:"delay"`
}

// DefaultCacheConfig 返回带默认值的配置。
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Memory: MemoryConfig{
			Enabled: true,
			MaxCost: 100 << 20,
		},
		Retry: RetryConfig{
			Attempts: 3,
			Delay:    50 * time.Millisecond,
		},
	}
}

// Validate 校验配置字段。
func (c *CacheConfig) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("%w: cache.dir is required", ErrInvalidConfig)
	}
	if c.MaxKeys < 0 {
		return fmt.Errorf("%w: cache.max_keys must be >= 0, got %d", ErrInvalidConfig, c.MaxKeys)
	}
	if c.Memory.Enabled && c.Memory.MaxCost <= 0 {
		return fmt.Errorf("%w: cache.memory.max_cost must be > 0 when memory tier enabled", ErrInvalidConfig)
	}
	if c.ComputeTimeout < 0 {
		return fmt.Errorf("%w: cache.compute_timeout must be >= 0", ErrInvalidConfig)
	}
	if c.Retry.Attempts == 0 {
		return fmt.Errorf("%w: cache.retry.attempts must be >= 1", ErrInvalidConfig)
	}
	if c.Retry.Delay < 0 {
		return fmt.Errorf("%w: cache.retry.delay must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// LoadCacheConfig 从 cfg 的 cache 段加载配置，
// 在默认值基础上覆盖，并做字段校验。
func LoadCacheConfig(cfg Config) (CacheConfig, error) {
	cc := DefaultCacheConfig()
	if err := cfg.Unmarshal("cache", &cc); err != nil {
		return CacheConfig{}, err
	}
	if err := cc.Validate(); err != nil {
		return CacheConfig{}, err
	}
	return cc, nil
}
