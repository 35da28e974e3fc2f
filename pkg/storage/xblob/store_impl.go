package xblob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	retry "github.com/avast/retry-go/v5"
	"github.com/google/uuid"
)

// blobExt 是已发布 blob 的文件后缀；临时文件使用 tmpExt，
// Keys 与 Open 永远不会把临时文件当作 blob。
const (
	blobExt = ".blob"
	tmpExt  = ".tmp"
)

// storeImpl 是 Store 的文件系统实现。
type storeImpl struct {
	dir    string
	opts   options
	closed atomic.Bool
}

func newStoreImpl(dir string, opts options) (*storeImpl, error) {
	if err := os.MkdirAll(dir, defaultDirMode); err != nil {
		return nil, fmt.Errorf("xblob: create cache dir: %w", err)
	}
	return &storeImpl{dir: dir, opts: opts}, nil
}

// validKey 校验 key 只含 [0-9a-zA-Z._-] 且不以点开头。
// key 直接充当文件名，这里是路径穿越的唯一防线。
func validKey(key string) bool {
	if key == "" || key[0] == '.' {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '.' || c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

func (s *storeImpl) path(key string) string {
	return filepath.Join(s.dir, key+blobExt)
}

// do 执行一次可重试的 I/O 操作。
// ErrNotFound 不参与重试：blob 不存在不是瞬时故障。
func (s *storeImpl) do(ctx context.Context, fn func() error) error {
	return retry.New(
		retry.Context(ctx),
		retry.Attempts(s.opts.retryAttempts),
		retry.Delay(s.opts.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	).Do(func() error {
		err := fn()
		if errors.Is(err, ErrNotFound) {
			return retry.Unrecoverable(err)
		}
		return err
	})
}

func (s *storeImpl) check(key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if !validKey(key) {
		return ErrInvalidKey
	}
	return nil
}

func (s *storeImpl) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	if err := s.check(key); err != nil {
		return 0, err
	}

	// 重试一次失败的写入需要把 r 倒回起点；不可 Seek 的 reader
	// 已被部分消费，重写只会落下截断的 blob，因此不参与重试。
	seeker, canSeek := r.(io.Seeker)
	first := true

	var n int64
	err := s.do(ctx, func() error {
		if !first {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return retry.Unrecoverable(fmt.Errorf("xblob: rewind reader: %w", err))
			}
		}
		first = false

		var err error
		n, err = s.putOnce(key, r)
		if err != nil && !canSeek {
			return retry.Unrecoverable(err)
		}
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// putOnce 单次写入尝试：临时文件 → fsync → rename 发布。
func (s *storeImpl) putOnce(key string, r io.Reader) (int64, error) {
	tmp := filepath.Join(s.dir, key+"."+uuid.NewString()+tmpExt)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, defaultFileMode)
	if err != nil {
		return 0, fmt.Errorf("xblob: create temp file: %w", err)
	}

	n, err := io.Copy(f, r)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, s.path(key))
	}
	if err != nil {
		os.Remove(tmp) //nolint:errcheck // 清理失败的临时文件，尽力而为
		return 0, fmt.Errorf("xblob: write blob %q: %w", key, err)
	}
	return n, nil
}

func (s *storeImpl) PutBytes(ctx context.Context, key string, data []byte) error {
	_, err := s.Put(ctx, key, bytes.NewReader(data))
	return err
}

func (s *storeImpl) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := s.check(key); err != nil {
		return nil, err
	}

	var rc io.ReadCloser
	err := s.do(ctx, func() error {
		f, err := os.Open(s.path(key))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrNotFound, key)
			}
			return fmt.Errorf("xblob: open blob %q: %w", key, err)
		}
		rc = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (s *storeImpl) Bytes(ctx context.Context, key string) ([]byte, error) {
	if err := s.check(key); err != nil {
		return nil, err
	}

	var data []byte
	err := s.do(ctx, func() error {
		b, err := os.ReadFile(s.path(key))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrNotFound, key)
			}
			return fmt.Errorf("xblob: read blob %q: %w", key, err)
		}
		data = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *storeImpl) Stat(ctx context.Context, key string) (Info, error) {
	if err := s.check(key); err != nil {
		return Info{}, err
	}

	var info Info
	err := s.do(ctx, func() error {
		fi, err := os.Stat(s.path(key))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrNotFound, key)
			}
			return fmt.Errorf("xblob: stat blob %q: %w", key, err)
		}
		info = Info{Key: key, Size: fi.Size(), ModTime: fi.ModTime()}
		return nil
	})
	if err != nil {
		return Info{}, err
	}
	return info, nil
}

func (s *storeImpl) Remove(ctx context.Context, key string) error {
	if err := s.check(key); err != nil {
		return err
	}

	return s.do(ctx, func() error {
		if err := os.Remove(s.path(key)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrNotFound, key)
			}
			return fmt.Errorf("xblob: remove blob %q: %w", key, err)
		}
		return nil
	})
}

func (s *storeImpl) Keys(ctx context.Context) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var keys []string
	err := s.do(ctx, func() error {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			return fmt.Errorf("xblob: read cache dir: %w", err)
		}
		keys = keys[:0]
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, blobExt) {
				continue
			}
			keys = append(keys, strings.TrimSuffix(name, blobExt))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *storeImpl) Dir() string {
	return s.dir
}

func (s *storeImpl) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return nil
}

// 编译期接口检查。
var _ Store = (*storeImpl)(nil)
