package gameconfig

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
)

const defaultDebounce = 200 * time.Millisecond

// Store 持有当前生效的游戏数据，支持文件变更后热更新
//
// 热更新失败时保留旧数据。Store 实现 app.Server，Watch 关闭时 Start 为空操作。
type Store struct {
	cfg     Config
	logger  logger.Logger
	current atomic.Pointer[Catalog]

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	onApply []func(*Catalog)
}

// NewStore 加载初始游戏数据，失败时返回错误
func NewStore(cfg *Config, l logger.Logger) (*Store, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.Wrap(ErrInvalidGameData, "game data path is required")
	}
	s := &Store{
		cfg:    *cfg,
		logger: l.Named("gameconfig"),
	}
	if s.cfg.Debounce <= 0 {
		s.cfg.Debounce = defaultDebounce
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore 包装已构建的数据，用于测试
func NewStaticStore(c *Catalog) *Store {
	s := &Store{logger: logger.NewNoop()}
	s.current.Store(c)
	return s
}

// Catalog 返回当前数据
func (s *Store) Catalog() *Catalog {
	return s.current.Load()
}

// OnReload 注册热更新成功后的回调
func (s *Store) OnReload(fn func(*Catalog)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onApply = append(s.onApply, fn)
}

// Reload 重新读取文件
func (s *Store) Reload() error {
	c, err := Load(s.cfg.Path)
	if err != nil {
		return err
	}
	s.current.Store(c)

	s.mu.Lock()
	callbacks := append([]func(*Catalog){}, s.onApply...)
	s.mu.Unlock()
	for _, fn := range callbacks {
		fn(c)
	}

	s.logger.Info("game data loaded",
		"path", s.cfg.Path,
		"banners", len(c.bannerOrder),
		"shop_items", len(c.shopOrder),
	)
	return nil
}

// Watch 监听文件变更直到 ctx 取消
//
// 监听所在目录而不是文件本身，编辑器保存时的 rename 也能被捕获。
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer w.Close()

	target := filepath.Clean(s.cfg.Path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(target))
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.cfg.Debounce)
			} else {
				timer.Reset(s.cfg.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := s.Reload(); err != nil {
				s.logger.Error("game data reload rejected, keeping previous version",
					"path", s.cfg.Path,
					"error", err,
				)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher error", "error", err)
		}
	}
}

// Start 开启后台热更新
func (s *Store) Start() error {
	if !s.cfg.Watch {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		if err := s.Watch(ctx); err != nil {
			s.logger.Error("game data watcher stopped", "error", err)
		}
	}(s.done)
	return nil
}

// Stop 停止热更新
func (s *Store) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}
