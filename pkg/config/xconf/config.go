package xconf

import (
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/v2"
)

// Format 配置文件格式。
type Format string

const (
	// FormatYAML YAML 格式。
	FormatYAML Format = "yaml"
	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// Config 配置访问接口。
type Config interface {
	// Client 返回底层 koanf 实例，用于直接读取配置项。
	Client() *koanf.Koanf

	// Unmarshal 将 path 下的配置反序列化到 target。
	// path 为空表示整棵配置树。
	Unmarshal(path string, target any) error

	// MustUnmarshal 同 Unmarshal，失败时 panic。
	MustUnmarshal(path string, target any)

	// Reload 重新加载配置。仅文件来源支持，字节来源返回 ErrNotWatchable。
	Reload() error

	// Path 返回配置文件路径，字节来源返回空字符串。
	Path() string

	// Format 返回配置格式。
	Format() Format
}

// New 从文件加载配置，格式由扩展名推断（.yaml/.yml/.json）。
func New(path string, opts ...Option) (Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	c := &config{
		path:    path,
		format:  format,
		options: newOptions(opts...),
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromBytes 从字节数据加载配置，适用于环境变量或 ConfigMap 注入的场景。
func NewFromBytes(data []byte, format Format, opts ...Option) (Config, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	if !isValidFormat(format) {
		return nil, ErrUnsupportedFormat
	}

	c := &config{
		data:    data,
		format:  format,
		options: newOptions(opts...),
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func isValidFormat(f Format) bool {
	return f == FormatYAML || f == FormatJSON
}
