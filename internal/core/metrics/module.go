package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-dep2p-quic/config"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// Params 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config        `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideMetrics),
	)
}

// ProvideMetrics 按配置创建并注册指标，关闭时返回 nil
func ProvideMetrics(p Params) (*TransportMetrics, error) {
	cfg := config.DefaultMetricsConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Metrics
	}
	if !cfg.Enabled {
		logger.Debug("指标已禁用")
		return nil, nil
	}

	reg := p.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := New(cfg.Namespace)
	if err := m.Register(reg); err != nil {
		return nil, err
	}
	logger.Debug("指标已注册", "namespace", cfg.Namespace)
	return m, nil
}
