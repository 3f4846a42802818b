package dep2p

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-dep2p-quic/internal/core/identity"
	"github.com/dep2p/go-dep2p-quic/internal/core/metrics"
	"github.com/dep2p/go-dep2p-quic/internal/core/security"
	"github.com/dep2p/go-dep2p-quic/internal/core/transport"
	"github.com/dep2p/go-dep2p-quic/internal/core/upgrader"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：Identity → Security → Metrics → Upgrader → Transport
func buildFxApp(o *options, n *Node) (*fx.App, error) {
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	idModule := identity.Module()
	if o.privateKey != nil {
		idModule = identity.WithPrivateKey(o.privateKey)
	}

	modules := []fx.Option{
		fx.Supply(o.config),
		idModule,
		security.Module(),
		metrics.Module(),
		upgrader.Module(),
		transport.Module(),
		fx.Populate(&n.peerID, &n.transport, &n.blocklist),
	}
	if o.registerer != nil {
		reg := o.registerer
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}

	// 禁用 Fx 日志输出（避免干扰用户日志）
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	return fx.New(modules...), nil
}
