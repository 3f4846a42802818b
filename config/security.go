package config

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

// SecurityConfig 安全配置
//
// 两个路径都为空时使用随包分发的 CA；否则必须同时提供。
type SecurityConfig struct {
	// CACertFile 受信任 CA 证书（PEM）
	CACertFile string `json:"ca_cert_file,omitempty"`

	// CAKeyFile CA 私钥（PKCS#8 PEM），用于签发本节点证书
	CAKeyFile string `json:"ca_key_file,omitempty"`

	// BlockedPeers 拒绝入站的节点 ID
	BlockedPeers []string `json:"blocked_peers,omitempty"`
}

// DefaultSecurityConfig 返回默认安全配置
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{}
}

// UseBundledCA 是否使用随包分发的 CA
func (c SecurityConfig) UseBundledCA() bool {
	return c.CACertFile == "" && c.CAKeyFile == ""
}

// Validate 验证安全配置
func (c SecurityConfig) Validate() error {
	if (c.CACertFile == "") != (c.CAKeyFile == "") {
		return errors.New("ca_cert_file and ca_key_file must be set together")
	}
	for _, p := range c.BlockedPeers {
		if err := types.PeerID(p).Validate(); err != nil {
			return fmt.Errorf("blocked peer %q: %w", p, err)
		}
	}
	return nil
}
