package dao

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// 存储驱动
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverTiered   = "tiered" // Redis 缓存 + PostgreSQL
)

// ErrUnknownDriver 未知存储驱动
var ErrUnknownDriver = errors.New("unknown state store driver")

// StateStore 按命名空间保存玩家状态的扁平 JSON
type StateStore interface {
	// Load 读取状态到 out，不存在时返回 false
	Load(ctx context.Context, namespace string, playerID int64, out any) (bool, error)
	// Save 覆盖写入
	Save(ctx context.Context, namespace string, playerID int64, value any) error
	// Delete 删除状态，不存在时不报错
	Delete(ctx context.Context, namespace string, playerID int64) error
}

// Config 状态存储配置
type Config struct {
	Driver    string        `mapstructure:"driver" validate:"oneof=memory redis postgres tiered"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"` // Redis 缓存过期时间，0 表示不过期
	Table     string        `mapstructure:"table"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Driver:    DriverMemory,
		KeyPrefix: "economy:",
		Table:     "player_state",
	}
}
