package postgres

import (
	"time"

	"github.com/lk2023060901/xdooria-economy/pkg/config"
)

// DBConfig 单个数据库实例配置
type DBConfig struct {
	Host     string `mapstructure:"host" json:"host" yaml:"host"`
	Port     int    `mapstructure:"port" json:"port" yaml:"port"`
	User     string `mapstructure:"user" json:"user" yaml:"user"`
	Password string `mapstructure:"password" json:"password" yaml:"password"`
	DBName   string `mapstructure:"db_name" json:"db_name" yaml:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode" json:"ssl_mode" yaml:"ssl_mode"` // disable, require, verify-ca, verify-full
}

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxConns          int32         `mapstructure:"max_conns" json:"max_conns" yaml:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns" json:"min_conns" yaml:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime" json:"max_conn_lifetime" yaml:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time" json:"max_conn_idle_time" yaml:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period" json:"health_check_period" yaml:"health_check_period"`
}

// Config PostgreSQL 配置，单机与主从模式互斥
type Config struct {
	Standalone *DBConfig `mapstructure:"standalone" json:"standalone,omitempty" yaml:"standalone,omitempty"`

	Master *DBConfig  `mapstructure:"master" json:"master,omitempty" yaml:"master,omitempty"`
	Slaves []DBConfig `mapstructure:"slaves" json:"slaves,omitempty" yaml:"slaves,omitempty"`

	Pool PoolConfig `mapstructure:"pool" json:"pool" yaml:"pool"`

	ConnectTimeout time.Duration `mapstructure:"connect_timeout" json:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout" json:"query_timeout" yaml:"query_timeout"`
}

// DefaultConfig 返回默认配置（不含实例地址）
func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{
			MaxConns:          25,
			MinConns:          2,
			MaxConnLifetime:   time.Hour,
			MaxConnIdleTime:   30 * time.Minute,
			HealthCheckPeriod: time.Minute,
		},
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   5 * time.Second,
	}
}

// withDefaults 合并默认值与用户配置
func withDefaults(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	return config.MergeConfig(DefaultConfig(), cfg)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if (c.Standalone == nil) == (c.Master == nil) {
		return ErrInvalidConfig
	}
	nodes := append([]DBConfig(nil), c.Slaves...)
	if c.Standalone != nil {
		nodes = append(nodes, *c.Standalone)
	} else {
		nodes = append(nodes, *c.Master)
	}
	for _, n := range nodes {
		if n.Host == "" || n.Port <= 0 || n.Port > 65535 || n.User == "" || n.DBName == "" {
			return ErrInvalidConfig
		}
	}
	if c.Pool.MaxConns <= 0 || c.Pool.MinConns < 0 || c.Pool.MinConns > c.Pool.MaxConns {
		return ErrInvalidConfig
	}
	return nil
}
