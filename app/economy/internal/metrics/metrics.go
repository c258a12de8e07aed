package metrics

import (
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
)

// Config 指标配置
type Config struct {
	// Namespace 指标命名空间
	Namespace string `mapstructure:"namespace" json:"namespace" yaml:"namespace"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Namespace: "economy",
	}
}

// EconomyMetrics 经济服务指标
type EconomyMetrics struct {
	config *Config

	// 抽卡指标
	PullsTotal      *prometheus.CounterVec // 出货数（按卡池、稀有度）
	PityForcedTotal *prometheus.CounterVec // 保底触发次数（按卡池）

	// 账本指标
	LedgerOpsTotal *prometheus.CounterVec // 账本操作（按操作、结果）

	// 存储指标
	StoreOpsTotal *prometheus.CounterVec   // 存储操作（按操作、结果）
	StoreDuration *prometheus.HistogramVec // 存储延迟
}

// New 创建经济服务指标
func New(cfg *Config) (*EconomyMetrics, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to merge metrics config")
	}

	return &EconomyMetrics{
		config: newCfg,

		PullsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: newCfg.Namespace,
				Name:      "pulls_total",
				Help:      "抽卡出货总数",
			},
			[]string{"banner", "rarity"},
		),
		PityForcedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: newCfg.Namespace,
				Name:      "pity_forced_total",
				Help:      "保底触发总数",
			},
			[]string{"banner"},
		),

		LedgerOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: newCfg.Namespace,
				Name:      "ledger_ops_total",
				Help:      "账本操作总数",
			},
			[]string{"op", "result"}, // result: success/insufficient_funds/rejected/error
		),

		StoreOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: newCfg.Namespace,
				Name:      "store_ops_total",
				Help:      "状态存储操作总数",
			},
			[]string{"op", "result"}, // op: load/save/delete
		),
		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: newCfg.Namespace,
				Name:      "store_duration_seconds",
				Help:      "状态存储延迟（秒）",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"op"},
		),
	}, nil
}

// Register 注册指标到 Prometheus Registry
func (m *EconomyMetrics) Register(registerer prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.PullsTotal,
		m.PityForcedTotal,
		m.LedgerOpsTotal,
		m.StoreOpsTotal,
		m.StoreDuration,
	}

	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return err
		}
	}

	return nil
}

// GetConfig 返回配置
func (m *EconomyMetrics) GetConfig() *Config {
	return m.config
}

// RecordPull 记录一次出货
func (m *EconomyMetrics) RecordPull(banner, rarity string, forced bool) {
	m.PullsTotal.WithLabelValues(banner, rarity).Inc()
	if forced {
		m.PityForcedTotal.WithLabelValues(banner).Inc()
	}
}

// RecordLedgerOp 记录账本操作
func (m *EconomyMetrics) RecordLedgerOp(op, result string) {
	m.LedgerOpsTotal.WithLabelValues(op, result).Inc()
}

// RecordStoreOp 记录存储操作
func (m *EconomyMetrics) RecordStoreOp(op string, success bool, duration float64) {
	result := "success"
	if !success {
		result = "failed"
	}
	m.StoreOpsTotal.WithLabelValues(op, result).Inc()
	m.StoreDuration.WithLabelValues(op).Observe(duration)
}
