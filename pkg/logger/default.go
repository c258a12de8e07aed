package logger

import (
	"os"
	"sync"
)

var (
	defaultLogger Logger
	defaultMu     sync.RWMutex
)

// SetDefault 设置进程级默认 logger
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Default 返回默认 logger，未设置时按 XDOORIA_LOG_LEVEL 懒加载一个控制台 logger
func Default() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger != nil {
		return defaultLogger
	}

	cfg := DefaultConfig()
	if level := os.Getenv("XDOORIA_LOG_LEVEL"); level != "" {
		cfg.Level = Level(level)
	}
	bl, err := New(cfg)
	if err != nil {
		defaultLogger = NewNoop()
	} else {
		defaultLogger = bl
	}
	return defaultLogger
}
