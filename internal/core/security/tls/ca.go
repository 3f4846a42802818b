package tls

import (
	stdcrypto "crypto"
	"crypto/x509"
	_ "embed"
	"encoding/pem"
	"fmt"
	"os"
	"sync"
)

//go:embed ca-cert.pem
var bundledCACert []byte

//go:embed ca-key.pem
var bundledCAKey []byte

// CA 受信任的证书颁发机构
//
// 进程内只读：加载后不再修改，可被任意多个传输并发使用。
type CA struct {
	cert *x509.Certificate
	key  stdcrypto.Signer
	pool *x509.CertPool
}

// defaultCA 进程级 CA，首次使用时解析随包分发的文件
var defaultCA = sync.OnceValues(func() (*CA, error) {
	return ParseCA(bundledCACert, bundledCAKey)
})

// DefaultCA 返回随包分发的 CA（进程内只解析一次）
func DefaultCA() (*CA, error) {
	return defaultCA()
}

// LoadCA 从 PEM 文件加载 CA
func LoadCA(certFile, keyFile string) (*CA, error) {
	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("read CA cert: %w", err)
	}
	keyPEM, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("read CA key: %w", err)
	}
	return ParseCA(certPEM, keyPEM)
}

// ParseCA 解析 CA 证书与 PKCS#8 私钥
func ParseCA(certPEM, keyPEM []byte) (*CA, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("%w: no certificate PEM block", ErrInvalidCA)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCA, err)
	}
	if !cert.IsCA {
		return nil, fmt.Errorf("%w: certificate is not a CA", ErrInvalidCA)
	}

	block, _ = pem.Decode(keyPEM)
	if block == nil {
		return nil, fmt.Errorf("%w: no key PEM block", ErrInvalidCA)
	}
	k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCA, err)
	}
	signer, ok := k.(stdcrypto.Signer)
	if !ok {
		return nil, fmt.Errorf("%w: key %T cannot sign", ErrInvalidCA, k)
	}
	pub, ok := signer.Public().(interface{ Equal(stdcrypto.PublicKey) bool })
	if !ok || !pub.Equal(cert.PublicKey) {
		return nil, fmt.Errorf("%w: key does not match certificate", ErrInvalidCA)
	}

	pool := x509.NewCertPool()
	pool.AddCert(cert)

	return &CA{cert: cert, key: signer, pool: pool}, nil
}

// Certificate 返回 CA 证书
func (ca *CA) Certificate() *x509.Certificate {
	return ca.cert
}
