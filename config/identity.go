package config

import (
	"errors"
	"strings"
)

// IdentityConfig 身份配置
type IdentityConfig struct {
	// KeyFile 私钥文件路径（PKCS#8 PEM），为空时每次启动生成临时密钥
	KeyFile string `json:"key_file,omitempty"`

	// KeyType 新生成密钥的类型：ed25519 / ecdsa
	KeyType string `json:"key_type"`
}

// DefaultIdentityConfig 返回默认身份配置
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{
		KeyType: "ed25519",
	}
}

// Validate 验证身份配置
func (c IdentityConfig) Validate() error {
	switch strings.ToLower(c.KeyType) {
	case "", "ed25519", "ecdsa":
		return nil
	default:
		return errors.New("key type must be ed25519 or ecdsa")
	}
}
