package tls

import "errors"

// TLS 相关错误
var (
	// ErrNoCertificate 对端未提供证书
	ErrNoCertificate = errors.New("tls: no certificate provided")

	// ErrUntrustedCertificate 证书链无法验证到受信任 CA
	ErrUntrustedCertificate = errors.New("tls: certificate not signed by trusted CA")

	// ErrInvalidCA CA 证书或私钥无效
	ErrInvalidCA = errors.New("tls: invalid CA")
)
