package logger

import "go.uber.org/zap/zapcore"

// Option 配置选项
type Option func(*BaseLogger)

// WithName 设置 logger 名称
func WithName(name string) Option {
	return func(l *BaseLogger) {
		l.name = name
	}
}

// WithContextExtractor 替换 context 字段提取器
func WithContextExtractor(fn ContextFieldExtractor) Option {
	return func(l *BaseLogger) {
		if fn != nil {
			l.contextExtractor = fn
		}
	}
}

// WithCore 直接使用给定的 zapcore.Core，忽略输出配置（测试中配合 zaptest/observer）
func WithCore(core zapcore.Core) Option {
	return func(l *BaseLogger) {
		l.core = core
	}
}
