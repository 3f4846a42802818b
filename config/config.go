// Package config 提供 QUIC 传输的统一配置
//
// 主 Config 结构体嵌入各子配置，每个子配置在独立文件中定义，
// 支持从 JSON 文件加载（叠加在默认值之上）。
//
//	cfg := config.NewConfig()
//	cfg, err := config.LoadFile("quicpeer.json")
package config

import "fmt"

// Config 完整配置
//
//   - Identity: 节点密钥
//   - Transport: QUIC 参数与监听器参数
//   - Security: 受信任 CA
//   - Metrics: Prometheus 指标
//   - Log: 日志级别
type Config struct {
	// Identity 身份配置
	Identity IdentityConfig `json:"identity"`

	// Transport 传输层配置
	Transport TransportConfig `json:"transport"`

	// Security 安全配置
	Security SecurityConfig `json:"security"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug/info/warn/error
	Level string `json:"level"`
}

// NewConfig 返回默认配置
func NewConfig() *Config {
	return &Config{
		Identity:  DefaultIdentityConfig(),
		Transport: DefaultTransportConfig(),
		Security:  DefaultSecurityConfig(),
		Metrics:   DefaultMetricsConfig(),
		Log:       LogConfig{Level: "info"},
	}
}

// Validate 校验全部子配置
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if err := c.Identity.Validate(); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	if err := c.Security.Validate(); err != nil {
		return fmt.Errorf("security: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}
