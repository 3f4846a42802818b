package transport

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-dep2p-quic/config"
	"github.com/dep2p/go-dep2p-quic/internal/core/metrics"
	tlssec "github.com/dep2p/go-dep2p-quic/internal/core/security/tls"
	"github.com/dep2p/go-dep2p-quic/internal/core/transport/quic"
	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/crypto"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/log"
)

var logger = log.Logger("core/transport")

// Params 传输依赖参数
type Params struct {
	fx.In

	PrivKey    crypto.PrivateKey
	CA         *tlssec.CA                `optional:"true"`
	UnifiedCfg *config.Config            `optional:"true"`
	Upgrader   pkgif.Upgrader            `optional:"true"`
	Metrics    *metrics.TransportMetrics `optional:"true"`
}

// TransportOutput Fx 输出
type TransportOutput struct {
	fx.Out

	QUIC      *quic.Transport
	Transport pkgif.Transport
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(ProvideTransport),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideTransport 按统一配置创建 QUIC 传输
func ProvideTransport(p Params) (TransportOutput, error) {
	cfg := p.UnifiedCfg
	if cfg == nil {
		cfg = config.NewConfig()
	}

	opts := []quic.Option{
		quic.WithQUICConfig(cfg.Transport.QUIC),
		quic.WithListenConfig(cfg.Transport.Listener),
		quic.WithMetrics(p.Metrics),
	}
	if p.Upgrader != nil {
		opts = append(opts, quic.WithUpgrader(p.Upgrader))
	}
	if p.CA != nil {
		opts = append(opts, quic.WithCA(p.CA))
	}

	t, err := quic.New(p.PrivKey, opts...)
	if err != nil {
		return TransportOutput{}, err
	}
	logger.Debug("QUIC 传输已创建", "upgrader", p.Upgrader != nil, "metrics", p.Metrics != nil)
	return TransportOutput{QUIC: t, Transport: t}, nil
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(lc fx.Lifecycle, t *quic.Transport) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return t.Close()
		},
	})
}
