package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "ed25519", cfg.Identity.KeyType)
	assert.Equal(t, 5*time.Second, cfg.Transport.QUIC.HandshakeIdleTimeout.Duration())
	assert.Equal(t, 30*time.Second, cfg.Transport.QUIC.MaxIdleTimeout.Duration())
	assert.Equal(t, 64, cfg.Transport.Listener.MaxConcurrentUpgrades)
	assert.True(t, cfg.Security.UseBundledCA())
	assert.True(t, cfg.Metrics.Enabled)
}

func TestFromJSON_Overlay(t *testing.T) {
	data := []byte(`{
		"identity": {"key_type": "ecdsa"},
		"transport": {"quic": {"handshake_idle_timeout": "750ms"}},
		"log": {"level": "debug"}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "ecdsa", cfg.Identity.KeyType)
	assert.Equal(t, 750*time.Millisecond, cfg.Transport.QUIC.HandshakeIdleTimeout.Duration())
	// 未出现的字段保留默认值
	assert.Equal(t, 30*time.Second, cfg.Transport.QUIC.MaxIdleTimeout.Duration())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFromJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"未知字段", `{"nat": {}}`},
		{"错误的时长", `{"transport": {"quic": {"max_idle_timeout": "forever"}}}`},
		{"CA 只配置一半", `{"security": {"ca_cert_file": "ca.pem"}}`},
		{"不支持的密钥类型", `{"identity": {"key_type": "rsa"}}`},
		{"keepalive 超过空闲超时", `{"transport": {"quic": {"keep_alive_period": "1m"}}}`},
		{"无效的封禁节点", `{"security": {"blocked_peers": ["not-a-peer"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quicpeer.json")

	cfg := NewConfig()
	cfg.Metrics.Namespace = "quicpeer"
	data, err := cfg.ToJSON()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
