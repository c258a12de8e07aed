package prometheus

import (
	"net/http"

	"github.com/lk2023060901/xdooria-economy/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Client 持有独立的 Registry，避免与全局 DefaultRegisterer 冲突
type Client struct {
	config   *Config
	registry *prometheus.Registry
}

// New 创建 Prometheus 客户端
func New(cfg *Config) (*Client, error) {
	merged, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		config:   merged,
		registry: prometheus.NewRegistry(),
	}
	if merged.EnableGoCollector {
		c.registry.MustRegister(collectors.NewGoCollector())
	}
	if merged.EnableProcessCollector {
		c.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return c, nil
}

// Registry 底层 Registry
func (c *Client) Registry() *prometheus.Registry {
	return c.registry
}

// Config 生效配置
func (c *Client) Config() *Config {
	return c.config
}

// Handler 指标 HTTP Handler
func (c *Client) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
