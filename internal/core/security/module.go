// Package security 提供安全层的 Fx 模块
//
// 模块按配置提供受信任 CA：未配置 CA 文件时使用随包分发的 CA，
// 否则从 PEM 文件加载。证书签发与校验见子包 tls。
package security

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-dep2p-quic/config"
	tlssec "github.com/dep2p/go-dep2p-quic/internal/core/security/tls"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/log"
)

var logger = log.Logger("core/security")

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("security",
		fx.Provide(ProvideCA),
	)
}

// ProvideCA 按配置提供受信任 CA
func ProvideCA(input ModuleInput) (*tlssec.CA, error) {
	cfg := config.DefaultSecurityConfig()
	if input.UnifiedCfg != nil {
		cfg = input.UnifiedCfg.Security
	}

	if cfg.UseBundledCA() {
		ca, err := tlssec.DefaultCA()
		if err != nil {
			return nil, fmt.Errorf("加载内置 CA 失败: %w", err)
		}
		return ca, nil
	}

	ca, err := tlssec.LoadCA(cfg.CACertFile, cfg.CAKeyFile)
	if err != nil {
		return nil, fmt.Errorf("加载 CA 失败: %w", err)
	}
	logger.Info("使用自定义 CA", "subject", ca.Certificate().Subject.String())
	return ca, nil
}
