//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gameconfig"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/handler"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/manager"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/metrics"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/repository"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/service"
	"github.com/lk2023060901/xdooria-economy/pkg/app"
	"github.com/lk2023060901/xdooria-economy/pkg/idgen"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
	"github.com/lk2023060901/xdooria-economy/pkg/prometheus"
	"github.com/lk2023060901/xdooria-economy/pkg/web"
)

func InitApp(cfg *Config, l logger.Logger) (app.Application, func(), error) {
	panic(wire.Build(
		// 1. 基础框架 (BaseApp)
		app.ProviderSet,

		// 2. 游戏数据
		provideGameDataConfig,
		gameconfig.NewStore,

		// 3. 指标收集
		provideMetricsConfig,
		metrics.New,

		// 4. Prometheus 客户端
		providePrometheusConfig,
		prometheus.New,

		// 5. 数据层 (DAO + Repository)
		provideStateStore,
		provideIDGenConfig,
		idgen.NewSonyflake,
		provideRandomSource,
		repository.NewPlayerRepository,

		// 6. 管理层 (Manager)
		manager.NewPlayerManager,

		// 7. 服务层 (Service)
		service.NewWalletService,
		service.NewGachaService,
		service.NewShopService,

		// 8. 接口层 (Handler)
		handler.NewEconomyHandler,

		// 9. Web Server
		provideWebConfig,
		web.NewServer,

		// 10. 组装与应用配置
		provideAppOptions,
		provideAppComponents,
		app.InitApp,
	))
}
