package xconf

import (
	"fmt"
	"os"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

type config struct {
	mu      sync.RWMutex
	k       *koanf.Koanf
	path    string
	data    []byte
	format  Format
	options options
}

var _ Config = (*config)(nil)

func (c *config) Client() *koanf.Koanf {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k
}

func (c *config) Unmarshal(path string, target any) error {
	c.mu.RLock()
	k := c.k
	c.mu.RUnlock()

	err := k.UnmarshalWithConf(path, target, koanf.UnmarshalConf{
		Tag: c.options.tag,
	})
	if err != nil {
		return fmt.Errorf("%w: path=%q: %w", ErrUnmarshalFailed, path, err)
	}
	return nil
}

func (c *config) MustUnmarshal(path string, target any) {
	if err := c.Unmarshal(path, target); err != nil {
		panic(err)
	}
}

func (c *config) Reload() error {
	if c.path == "" {
		return ErrNotWatchable
	}
	return c.load()
}

func (c *config) Path() string {
	return c.path
}

func (c *config) Format() Format {
	return c.format
}

// load 读取并解析配置，成功后整体替换 koanf 实例，
// 保证读取方不会观察到半新半旧的配置树。
func (c *config) load() error {
	data := c.data
	if c.path != "" {
		b, err := os.ReadFile(c.path)
		if err != nil {
			return fmt.Errorf("%w: path=%q: %w", ErrLoadFailed, c.path, err)
		}
		data = b
	}

	var parser koanf.Parser
	switch c.format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return ErrUnsupportedFormat
	}

	k := koanf.New(c.options.delim)
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: format=%s: %w", ErrParseFailed, c.format, err)
	}

	c.mu.Lock()
	c.k = k
	c.mu.Unlock()
	return nil
}
