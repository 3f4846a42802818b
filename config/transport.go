package config

import (
	"errors"
	"time"
)

// TransportConfig 传输层配置
type TransportConfig struct {
	// QUIC QUIC 会话参数
	QUIC QUICConfig `json:"quic"`

	// Listener 监听器参数
	Listener ListenerConfig `json:"listener"`
}

// QUICConfig QUIC 传输配置
type QUICConfig struct {
	// HandshakeIdleTimeout 握手阶段空闲超时，对端无响应时握手在此之后失败
	HandshakeIdleTimeout Duration `json:"handshake_idle_timeout"`

	// MaxIdleTimeout 连接建立后的最大空闲超时
	MaxIdleTimeout Duration `json:"max_idle_timeout"`

	// KeepAlivePeriod KeepAlive 间隔，0 表示禁用
	KeepAlivePeriod Duration `json:"keep_alive_period"`

	// MaxIncomingStreams 对端可并发打开的双向流上限
	MaxIncomingStreams int64 `json:"max_incoming_streams"`

	// MaxIncomingUniStreams 对端可并发打开的单向流上限
	MaxIncomingUniStreams int64 `json:"max_incoming_uni_streams"`

	// EnableDatagrams 是否启用 QUIC datagram 扩展
	EnableDatagrams bool `json:"enable_datagrams"`
}

// ListenerConfig 监听器配置
type ListenerConfig struct {
	// MaxConcurrentUpgrades 同时进行升级的入站连接上限
	MaxConcurrentUpgrades int `json:"max_concurrent_upgrades"`

	// UpgradeTimeout 单个入站连接的升级超时
	UpgradeTimeout Duration `json:"upgrade_timeout"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		QUIC: QUICConfig{
			HandshakeIdleTimeout:  Duration(5 * time.Second),  // 与 quic-go 默认一致
			MaxIdleTimeout:        Duration(30 * time.Second), // 空闲 30 秒后关闭连接
			KeepAlivePeriod:       Duration(15 * time.Second),
			MaxIncomingStreams:    1024,
			MaxIncomingUniStreams: 1024,
			EnableDatagrams:       false,
		},
		Listener: ListenerConfig{
			MaxConcurrentUpgrades: 64,
			UpgradeTimeout:        Duration(15 * time.Second),
		},
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	if c.QUIC.HandshakeIdleTimeout <= 0 {
		return errors.New("QUIC handshake idle timeout must be positive")
	}
	if c.QUIC.MaxIdleTimeout <= 0 {
		return errors.New("QUIC max idle timeout must be positive")
	}
	if c.QUIC.KeepAlivePeriod < 0 {
		return errors.New("QUIC keep alive period must not be negative")
	}
	if c.QUIC.KeepAlivePeriod > 0 && c.QUIC.KeepAlivePeriod >= c.QUIC.MaxIdleTimeout {
		return errors.New("QUIC keep alive period must be shorter than max idle timeout")
	}
	if c.QUIC.MaxIncomingStreams <= 0 || c.QUIC.MaxIncomingUniStreams < 0 {
		return errors.New("QUIC stream limits must be positive")
	}
	if c.Listener.MaxConcurrentUpgrades <= 0 {
		return errors.New("listener max concurrent upgrades must be positive")
	}
	if c.Listener.UpgradeTimeout <= 0 {
		return errors.New("listener upgrade timeout must be positive")
	}
	return nil
}
