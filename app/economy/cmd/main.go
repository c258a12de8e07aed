package main

import (
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/dao"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gameconfig"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/metrics"
	"github.com/lk2023060901/xdooria-economy/pkg/app"
	"github.com/lk2023060901/xdooria-economy/pkg/database/postgres"
	"github.com/lk2023060901/xdooria-economy/pkg/database/redis"
	"github.com/lk2023060901/xdooria-economy/pkg/idgen"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
	"github.com/lk2023060901/xdooria-economy/pkg/prometheus"
	"github.com/lk2023060901/xdooria-economy/pkg/web"
)

// Config 定义 Economy 服务的完整配置结构
type Config struct {
	Log logger.Config `mapstructure:"log"`

	// Web Server 配置
	Web web.Config `mapstructure:"web"`

	// 游戏数据（货币、汇率、卡池、商店）
	GameData gameconfig.Config `mapstructure:"gamedata"`

	// 玩家状态存储
	Store dao.Config `mapstructure:"store"`

	// Database 配置，store.driver 为 postgres/tiered 时使用
	Database postgres.Config `mapstructure:"database"`

	// Redis 配置，store.driver 为 redis/tiered 时使用
	Redis redis.Config `mapstructure:"redis"`

	// 抽卡记录 ID
	IDGen idgen.Config `mapstructure:"idgen"`

	// Prometheus 配置
	Prometheus prometheus.Config `mapstructure:"prometheus"`

	// 指标配置
	Metrics metrics.Config `mapstructure:"metrics"`
}

func main() {
	var cfg Config

	// 1. 加载配置
	if err := app.LoadConfig(&cfg); err != nil {
		panic(err)
	}

	// 2. 初始化主日志
	l, err := logger.New(&cfg.Log)
	if err != nil {
		panic(err)
	}
	logger.SetDefault(l)

	// 3. 通过 Wire 初始化应用
	application, cleanup, err := InitApp(&cfg, l)
	if err != nil {
		l.Error("failed to initialize application", "error", err)
		return
	}
	defer cleanup()

	// 4. 运行服务
	if err := application.Run(); err != nil {
		l.Error("application exited with error", "error", err)
	}
}
