package web

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Config Web 服务配置
type Config struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	StopTimeout  time.Duration `mapstructure:"stop_timeout"`
	EnableCORS   bool          `mapstructure:"enable_cors"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig 按客户端 IP 限流，RequestsPerSecond 为 0 时关闭
type RateLimitConfig struct {
	RequestsPerSecond float64  `mapstructure:"requests_per_second"`
	Burst             int      `mapstructure:"burst"`
	MaxLimiters       int      `mapstructure:"max_limiters"`
	SkipPaths         []string `mapstructure:"skip_paths"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Port:         8080,
		Mode:         gin.ReleaseMode,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		StopTimeout:  5 * time.Second,
		RateLimit: RateLimitConfig{
			Burst:       20,
			MaxLimiters: 10000,
			SkipPaths:   []string{"/metrics", "/healthz"},
		},
	}
}
