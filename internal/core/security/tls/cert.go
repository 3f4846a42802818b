package tls

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"

	"github.com/dep2p/go-dep2p-quic/pkg/lib/crypto"
)

// IssueCertificate 为节点私钥签发证书
//
// 证书内容只取决于私钥与 CA：序列号取自公钥哈希，有效期与 CA 相同。
// 签名字节取决于 CA 密钥类型：Ed25519 CA 每次相同，ECDSA CA 每次不同。
// 证书公钥即节点公钥，握手时由节点私钥签名。
func (ca *CA) IssueCertificate(priv crypto.PrivateKey) (tls.Certificate, error) {
	if priv == nil {
		return tls.Certificate{}, crypto.ErrNilPrivateKey
	}

	pub := priv.GetPublic()
	pubDER, err := crypto.MarshalPublicKey(pub)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("marshal public key: %w", err)
	}
	peerID, err := crypto.PeerIDFromPublicKey(pub)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("derive peer ID: %w", err)
	}

	sum := sha256.Sum256(pubDER)
	serial := new(big.Int).SetBytes(sum[:16])
	serial.SetBit(serial, 127, 1)

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"dep2p"},
			CommonName:   peerID.String(),
		},
		NotBefore:             ca.cert.NotBefore,
		NotAfter:              ca.cert.NotAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, ca.cert, pub.Std(), ca.key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("create certificate: %w", err)
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("parse certificate: %w", err)
	}

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  priv.Signer(),
		Leaf:        leaf,
	}, nil
}
