package xconf

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc 配置重载回调。重载失败时 err 非 nil，此时 cfg 仍持有旧配置。
type ReloadFunc func(cfg Config, err error)

// Watcher 监听配置文件变更并自动重载。
type Watcher struct {
	cfg      Config
	onReload ReloadFunc
	debounce time.Duration

	fw   *fsnotify.Watcher
	done chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

// Watch 创建配置文件监听器。仅文件来源的配置可监听。
func Watch(cfg Config, onReload ReloadFunc, opts ...Option) (*Watcher, error) {
	if cfg == nil || cfg.Path() == "" {
		return nil, ErrNotWatchable
	}
	if onReload == nil {
		return nil, fmt.Errorf("%w: reload callback is required", ErrInvalidConfig)
	}

	o := newOptions(opts...)
	return &Watcher{
		cfg:      cfg,
		onReload: onReload,
		debounce: o.debounce,
		done:     make(chan struct{}),
	}, nil
}

// Start 启动监听。重复调用无效果。
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("xconf: failed to create fs watcher: %w", err)
	}

	// 监听目录而非文件本身：原子写（rename 覆盖）会使
	// 对旧 inode 的监听失效，目录级监听不受影响。
	dir := filepath.Dir(w.cfg.Path())
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("xconf: failed to watch %q: %w", dir, err)
	}

	w.fw = fw
	w.started = true
	go w.loop()
	return nil
}

// Stop 停止监听并释放资源。重复调用无效果。
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started || w.stopped {
		w.stopped = true
		return
	}
	w.stopped = true
	close(w.done)
	w.fw.Close()
}

func (w *Watcher) loop() {
	target := filepath.Clean(w.cfg.Path())

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			err := w.cfg.Reload()
			w.onReload(w.cfg, err)

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}

		case <-w.done:
			return
		}
	}
}
