// Package identity 提供节点私钥的 Fx 模块
//
// 私钥来源优先级：注入的 crypto.PrivateKey > 配置的密钥文件（不存在时生成并保存）> 临时生成。
package identity

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-dep2p-quic/config"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/crypto"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/log"
	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

var logger = log.Logger("core/identity")

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// ModuleOutput 模块输出
type ModuleOutput struct {
	fx.Out

	PrivKey crypto.PrivateKey
	PeerID  types.PeerID
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("identity",
		fx.Provide(ProvideIdentity),
	)
}

// WithPrivateKey 使用已有私钥，替代 Module
func WithPrivateKey(priv crypto.PrivateKey) fx.Option {
	return fx.Module("identity",
		fx.Provide(func() (ModuleOutput, error) {
			return outputFor(priv)
		}),
	)
}

// ProvideIdentity 按配置加载或生成私钥
func ProvideIdentity(input ModuleInput) (ModuleOutput, error) {
	cfg := config.DefaultIdentityConfig()
	if input.UnifiedCfg != nil {
		cfg = input.UnifiedCfg.Identity
	}

	keyType, err := crypto.ParseKeyType(cfg.KeyType)
	if err != nil {
		return ModuleOutput{}, err
	}

	var priv crypto.PrivateKey
	if cfg.KeyFile != "" {
		priv, err = crypto.LoadOrGenerateKey(cfg.KeyFile, keyType)
		if err != nil {
			return ModuleOutput{}, fmt.Errorf("加载身份失败: %w", err)
		}
	} else {
		priv, _, err = crypto.GenerateKeyPair(keyType)
		if err != nil {
			return ModuleOutput{}, fmt.Errorf("创建身份失败: %w", err)
		}
		logger.Debug("未配置密钥文件，使用临时身份")
	}
	return outputFor(priv)
}

func outputFor(priv crypto.PrivateKey) (ModuleOutput, error) {
	id, err := crypto.PeerIDFromPrivateKey(priv)
	if err != nil {
		return ModuleOutput{}, err
	}
	logger.Info("节点身份", "peer", id.ShortString(), "keyType", priv.Type().String())
	return ModuleOutput{PrivKey: priv, PeerID: id}, nil
}
