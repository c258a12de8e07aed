package main

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/dao"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gacha"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gameconfig"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/handler"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/metrics"
	"github.com/lk2023060901/xdooria-economy/pkg/app"
	"github.com/lk2023060901/xdooria-economy/pkg/config"
	"github.com/lk2023060901/xdooria-economy/pkg/database/postgres"
	"github.com/lk2023060901/xdooria-economy/pkg/database/redis"
	"github.com/lk2023060901/xdooria-economy/pkg/idgen"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
	"github.com/lk2023060901/xdooria-economy/pkg/prometheus"
	"github.com/lk2023060901/xdooria-economy/pkg/web"
)

// schemaTimeout 启动时建表超时
const schemaTimeout = 10 * time.Second

// provideGameDataConfig 提供游戏数据加载配置
func provideGameDataConfig(cfg *Config) *gameconfig.Config {
	return &cfg.GameData
}

// provideMetricsConfig 提供指标配置
func provideMetricsConfig(cfg *Config) *metrics.Config {
	return &cfg.Metrics
}

// providePrometheusConfig 提供 Prometheus 配置
func providePrometheusConfig(cfg *Config) *prometheus.Config {
	return &cfg.Prometheus
}

// provideIDGenConfig 提供 ID 生成器配置
func provideIDGenConfig(cfg *Config) *idgen.Config {
	return &cfg.IDGen
}

// provideWebConfig 提供 Web Server 配置
func provideWebConfig(cfg *Config) *web.Config {
	return &cfg.Web
}

// provideRandomSource 提供抽卡随机源
func provideRandomSource() gacha.RandomSource {
	return gacha.DefaultRNG()
}

// provideStateStore 按 store.driver 创建状态存储，返回的 cleanup 关闭底层连接
func provideStateStore(cfg *Config, l logger.Logger, m *metrics.EconomyMetrics) (dao.StateStore, func(), error) {
	storeCfg, err := config.MergeConfig(dao.DefaultConfig(), &cfg.Store)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to merge store config")
	}
	if err := config.NewValidator().Validate(storeCfg); err != nil {
		return nil, nil, err
	}

	var (
		store    dao.StateStore
		closers  []func() error
		redisCli *redis.Client
		pgCli    *postgres.Client
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				l.Warn("failed to close store client", "error", err)
			}
		}
	}

	if storeCfg.Driver == dao.DriverRedis || storeCfg.Driver == dao.DriverTiered {
		redisCli, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create redis client")
		}
		closers = append(closers, redisCli.Close)
	}
	if storeCfg.Driver == dao.DriverPostgres || storeCfg.Driver == dao.DriverTiered {
		pgCli, err = postgres.New(&cfg.Database)
		if err != nil {
			cleanup()
			return nil, nil, errors.Wrap(err, "failed to create postgres client")
		}
		closers = append(closers, pgCli.Close)
	}

	switch storeCfg.Driver {
	case dao.DriverMemory:
		l.Warn("using in-memory state store, player state is lost on restart")
		store = dao.NewMemoryStore()
	case dao.DriverRedis:
		store = dao.NewRedisStore(redisCli, storeCfg, l)
	case dao.DriverPostgres, dao.DriverTiered:
		pg := dao.NewPostgresStore(pgCli, storeCfg, l)
		ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
		err := pg.EnsureSchema(ctx)
		cancel()
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		store = pg
		if storeCfg.Driver == dao.DriverTiered {
			store = dao.NewTieredStore(dao.NewRedisStore(redisCli, storeCfg, l), pg, l)
		}
	default:
		cleanup()
		return nil, nil, errors.Wrapf(dao.ErrUnknownDriver, "%s", storeCfg.Driver)
	}

	l.Info("state store ready", "driver", storeCfg.Driver)
	return dao.NewMeteredStore(store, m), cleanup, nil
}

// provideAppOptions 提供应用选项
func provideAppOptions(cfg *Config, l logger.Logger) []app.Option {
	return []app.Option{
		app.WithName(app.AppName),
		app.WithLogger(l),
		app.WithStopTimeout(cfg.Web.StopTimeout + 5*time.Second),
	}
}

// provideAppComponents 提供应用组件
func provideAppComponents(
	webServer *web.Server,
	economyHandler *handler.EconomyHandler,
	promClient *prometheus.Client,
	economyMetrics *metrics.EconomyMetrics,
	games *gameconfig.Store,
	l logger.Logger,
) (app.AppComponents, error) {
	// 注册 Economy 指标到 Prometheus
	if err := economyMetrics.Register(promClient.Registry()); err != nil {
		return app.AppComponents{}, err
	}

	// 注册路由
	economyHandler.Register(webServer.Router())
	handler.RegisterOps(webServer.Router(), promClient.Config().Path, promClient.Handler())

	return app.AppComponents{
		Servers: []app.Server{
			webServer,
			games, // 游戏数据热更新
		},
		Closers: []app.Closer{
			app.CloserFunc(l.Sync),
		},
	}, nil
}
