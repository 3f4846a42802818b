package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"

	"github.com/dep2p/go-dep2p-quic/pkg/lib/crypto"
	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

// VerifyChain 验证对端证书链指向本 CA，返回叶子证书
func (ca *CA) VerifyChain(rawCerts [][]byte) (*x509.Certificate, error) {
	if len(rawCerts) == 0 {
		return nil, ErrNoCertificate
	}

	certs := make([]*x509.Certificate, 0, len(rawCerts))
	for _, raw := range rawCerts {
		cert, err := x509.ParseCertificate(raw)
		if err != nil {
			return nil, fmt.Errorf("parse certificate: %w", err)
		}
		certs = append(certs, cert)
	}

	intermediates := x509.NewCertPool()
	for _, cert := range certs[1:] {
		intermediates.AddCert(cert)
	}

	_, err := certs[0].Verify(x509.VerifyOptions{
		Roots:         ca.pool,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUntrustedCertificate, err)
	}
	return certs[0], nil
}

// verifyPeerCertificate tls.Config.VerifyPeerCertificate 回调
func (ca *CA) verifyPeerCertificate(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	leaf, err := ca.VerifyChain(rawCerts)
	if err != nil {
		return err
	}
	// 公钥必须是可派生 PeerID 的类型
	_, err = PeerIDFromCertificate(leaf)
	return err
}

// PeerIDFromCertificate 从证书公钥派生 PeerID
func PeerIDFromCertificate(cert *x509.Certificate) (types.PeerID, error) {
	pub, err := crypto.PublicKeyFromStd(cert.PublicKey)
	if err != nil {
		return types.EmptyPeerID, fmt.Errorf("certificate public key: %w", err)
	}
	return crypto.PeerIDFromPublicKey(pub)
}

// PeerIDFromConnectionState 从握手结果中提取对端 PeerID
//
// 总是从叶子证书公钥派生，确保身份不可伪造。
func PeerIDFromConnectionState(state tls.ConnectionState) (types.PeerID, error) {
	if len(state.PeerCertificates) == 0 {
		return types.EmptyPeerID, ErrNoCertificate
	}
	return PeerIDFromCertificate(state.PeerCertificates[0])
}
