package tls

import (
	"crypto/tls"
	"errors"
	"fmt"
)

// ALPN 握手协商的应用层协议标识
//
// 只有两端都声明该协议的握手才被视为本传输的连接。
const ALPN = "libp2p"

// ErrALPNMismatch 握手未协商出 ALPN
var ErrALPNMismatch = errors.New("tls: application protocol not negotiated")

// ClientConfig 拨号端 TLS 配置
func (ca *CA) ClientConfig(cert tls.Certificate) *tls.Config {
	return ca.baseConfig(cert)
}

// ServerConfig 监听端 TLS 配置，要求对端出示证书
func (ca *CA) ServerConfig(cert tls.Certificate) *tls.Config {
	conf := ca.baseConfig(cert)
	conf.ClientAuth = tls.RequireAnyClientCert
	return conf
}

func (ca *CA) baseConfig(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{ALPN},
		MinVersion:   tls.VersionTLS13,
		// 节点证书不含主机名，链验证在 VerifyPeerCertificate 中对照 CA 完成
		InsecureSkipVerify:    true,
		VerifyPeerCertificate: ca.verifyPeerCertificate,
		VerifyConnection:      verifyALPN,
	}
}

func verifyALPN(state tls.ConnectionState) error {
	if state.NegotiatedProtocol != ALPN {
		return fmt.Errorf("%w: got %q", ErrALPNMismatch, state.NegotiatedProtocol)
	}
	return nil
}
