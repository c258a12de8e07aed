package postgres

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Client PostgreSQL 客户端，写主库，读从库（轮询）
type Client struct {
	master     *pgxpool.Pool
	slaves     []*pgxpool.Pool
	cfg        *Config
	slaveIndex atomic.Uint64
}

// New 创建客户端并检测主库连通性
func New(cfg *Config) (*Client, error) {
	merged, err := withDefaults(cfg)
	if err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	c := &Client{cfg: merged}
	primary := merged.Standalone
	if primary == nil {
		primary = merged.Master
	}
	if c.master, err = createPool(merged, primary); err != nil {
		return nil, errors.Wrap(err, "failed to create master pool")
	}
	for i := range merged.Slaves {
		pool, err := createPool(merged, &merged.Slaves[i])
		if err != nil {
			c.Close()
			return nil, errors.Wrapf(err, "failed to create slave pool %d", i)
		}
		c.slaves = append(c.slaves, pool)
	}
	return c, nil
}

func createPool(cfg *Config, db *DBConfig) (*pgxpool.Pool, error) {
	sslMode := db.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		db.Host, db.Port, db.User, db.Password, db.DBName, sslMode, int(cfg.ConnectTimeout.Seconds()),
	)

	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse pool config")
	}
	poolCfg.MaxConns = cfg.Pool.MaxConns
	poolCfg.MinConns = cfg.Pool.MinConns
	poolCfg.MaxConnLifetime = cfg.Pool.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.Pool.HealthCheckPeriod

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return pool, nil
}

func (c *Client) reader() *pgxpool.Pool {
	if len(c.slaves) == 0 {
		return c.master
	}
	return c.slaves[c.slaveIndex.Add(1)%uint64(len(c.slaves))]
}

// Ping 检查主库连接
func (c *Client) Ping(ctx context.Context) error {
	if err := c.master.Ping(ctx); err != nil {
		return errors.Wrap(err, "master ping failed")
	}
	return nil
}

// Close 关闭所有连接池
func (c *Client) Close() error {
	if c.master != nil {
		c.master.Close()
	}
	for _, s := range c.slaves {
		s.Close()
	}
	return nil
}
