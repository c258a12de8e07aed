package gameconfig

import (
	"time"

	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
)

// Config 游戏配置加载配置
type Config struct {
	Path     string        `mapstructure:"path" validate:"required"`
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// CurrencyDef 货币定义
type CurrencyDef struct {
	Name            model.Currency `yaml:"name" validate:"required,currency"`
	StartingBalance int64          `yaml:"starting_balance" validate:"gte=0"`
}

// ExchangeRateDef 兑换汇率，Rate 为十进制字符串
type ExchangeRateDef struct {
	From model.Currency `yaml:"from" validate:"required,currency"`
	To   model.Currency `yaml:"to" validate:"required,currency,nefield=From"`
	Rate string         `yaml:"rate" validate:"required"`
}

// Document YAML 文件结构
type Document struct {
	Currencies    []CurrencyDef     `yaml:"currencies" validate:"required,min=1,dive"`
	ExchangeRates []ExchangeRateDef `yaml:"exchange_rates" validate:"dive"`
	Banners       []model.Banner    `yaml:"banners"`
	Shop          []model.ShopItem  `yaml:"shop"`
}
