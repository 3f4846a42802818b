package tls

import (
	stdcrypto "crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dep2p-quic/pkg/lib/crypto"
)

// newTestCA 生成一个临时 CA（与随包 CA 无关）
func newTestCA(t *testing.T) *CA {
	t.Helper()
	certPEM, keyPEM := newTestCAPEM(t)
	ca, err := ParseCA(certPEM, keyPEM)
	require.NoError(t, err)
	return ca
}

func newTestCAPEM(t *testing.T) ([]byte, []byte) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return encodeTestCA(t, pub, priv)
}

// newTestECDSACA 生成 ECDSA P-256 签名的临时 CA
func newTestECDSACA(t *testing.T) *CA {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	ca, err := ParseCA(encodeTestCA(t, priv.Public(), priv))
	require.NoError(t, err)
	return ca
}

func encodeTestCA(t *testing.T, pub stdcrypto.PublicKey, priv stdcrypto.Signer) ([]byte, []byte) {
	t.Helper()

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, pub, priv)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
}

func newKey(t *testing.T, kt crypto.KeyType) crypto.PrivateKey {
	t.Helper()
	priv, _, err := crypto.GenerateKeyPair(kt)
	require.NoError(t, err)
	return priv
}
