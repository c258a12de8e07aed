package redis

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	goredis "github.com/redis/go-redis/v9"
)

// Client Redis 客户端，支持主从读写分离
type Client struct {
	master     goredis.UniversalClient
	slaves     []goredis.UniversalClient
	slaveIndex atomic.Uint64
}

// NewClient 创建 Redis 客户端
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{}
	switch {
	case cfg.Standalone != nil:
		c.master = goredis.NewClient(nodeOptions(cfg.Standalone, &cfg.Pool))
	case cfg.Master != nil:
		c.master = goredis.NewClient(nodeOptions(cfg.Master, &cfg.Pool))
		for i := range cfg.Slaves {
			c.slaves = append(c.slaves, goredis.NewClient(nodeOptions(&cfg.Slaves[i], &cfg.Pool)))
		}
	default:
		c.master = goredis.NewClusterClient(&goredis.ClusterOptions{
			Addrs:           cfg.Cluster.Addrs,
			Password:        cfg.Cluster.Password,
			MaxIdleConns:    cfg.Pool.MaxIdleConns,
			MaxActiveConns:  cfg.Pool.MaxOpenConns,
			ConnMaxIdleTime: cfg.Pool.ConnMaxIdleTime,
			DialTimeout:     cfg.Pool.DialTimeout,
			ReadTimeout:     cfg.Pool.ReadTimeout,
			WriteTimeout:    cfg.Pool.WriteTimeout,
			PoolTimeout:     cfg.Pool.PoolTimeout,
		})
	}
	return c, nil
}

func nodeOptions(n *NodeConfig, p *PoolConfig) *goredis.Options {
	return &goredis.Options{
		Addr:            fmt.Sprintf("%s:%d", n.Host, n.Port),
		Password:        n.Password,
		DB:              n.DB,
		MaxIdleConns:    p.MaxIdleConns,
		MaxActiveConns:  p.MaxOpenConns,
		ConnMaxIdleTime: p.ConnMaxIdleTime,
		DialTimeout:     p.DialTimeout,
		ReadTimeout:     p.ReadTimeout,
		WriteTimeout:    p.WriteTimeout,
		PoolTimeout:     p.PoolTimeout,
	}
}

func (c *Client) reader() goredis.UniversalClient {
	if len(c.slaves) == 0 {
		return c.master
	}
	idx := c.slaveIndex.Add(1) % uint64(len(c.slaves))
	return c.slaves[idx]
}

// Get 读取字符串值，键不存在返回 ErrNil
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.reader().Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ErrNil
		}
		return "", errors.Wrapf(err, "get %s failed", key)
	}
	return val, nil
}

// Set 写入字符串值，expiration 为 0 表示不过期
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := c.master.Set(ctx, key, value, expiration).Err(); err != nil {
		return errors.Wrapf(err, "set %s failed", key)
	}
	return nil
}

// Del 删除键
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.master.Del(ctx, keys...).Result()
	if err != nil {
		return 0, errors.Wrap(err, "del failed")
	}
	return n, nil
}

// Ping 检查主从节点连通性
func (c *Client) Ping(ctx context.Context) error {
	if err := c.master.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "master ping failed")
	}
	for i, s := range c.slaves {
		if err := s.Ping(ctx).Err(); err != nil {
			return errors.Wrapf(err, "slave[%d] ping failed", i)
		}
	}
	return nil
}

// Close 关闭所有连接
func (c *Client) Close() error {
	if err := c.master.Close(); err != nil {
		return errors.Wrap(err, "failed to close master")
	}
	for i, s := range c.slaves {
		if err := s.Close(); err != nil {
			return errors.Wrapf(err, "failed to close slave[%d]", i)
		}
	}
	return nil
}
