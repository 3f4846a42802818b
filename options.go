package dep2p

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-dep2p-quic/config"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/crypto"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config     *config.Config
	privateKey crypto.PrivateKey
	registerer prometheus.Registerer
}

func defaultOptions() *options {
	return &options{config: config.NewConfig()}
}

// WithConfig 使用完整配置（替换默认配置）
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithPrivateKey 使用已有私钥，忽略配置中的密钥文件
func WithPrivateKey(priv crypto.PrivateKey) Option {
	return func(o *options) error {
		if priv == nil {
			return errors.New("private key is nil")
		}
		o.privateKey = priv
		return nil
	}
}

// WithRegisterer 指定指标注册表（默认 prometheus.DefaultRegisterer）
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = reg
		return nil
	}
}
