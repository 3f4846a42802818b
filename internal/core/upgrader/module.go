package upgrader

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-dep2p-quic/config"
	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

// Params Upgrader 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Output Upgrader 输出
type Output struct {
	fx.Out

	Upgrader  pkgif.Upgrader
	Blocklist *Blocklist
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("upgrader",
		fx.Provide(ProvideUpgrader),
	)
}

// ProvideUpgrader 以配置中的封禁列表创建升级器
//
// 同时导出 Blocklist，运行期可继续封禁节点。
func ProvideUpgrader(p Params) Output {
	var peers []types.PeerID
	if p.UnifiedCfg != nil {
		for _, s := range p.UnifiedCfg.Security.BlockedPeers {
			peers = append(peers, types.PeerID(s))
		}
	}
	bl := NewBlocklist(peers...)
	return Output{
		Upgrader:  New(bl),
		Blocklist: bl,
	}
}
