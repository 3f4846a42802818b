package crypto

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const pemTypePrivateKey = "PRIVATE KEY"

// MarshalPublicKey 将公钥序列化为 PKIX DER
//
// PeerID 与证书中的公钥使用同一编码，因此两端派生结果一致。
func MarshalPublicKey(pub PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, ErrNilPublicKey
	}
	return x509.MarshalPKIXPublicKey(pub.Std())
}

// MarshalPrivateKeyPEM 将私钥编码为 PKCS#8 PEM
func MarshalPrivateKeyPEM(priv PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, ErrNilPrivateKey
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv.Signer())
	if err != nil {
		return nil, fmt.Errorf("marshal PKCS#8: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: der}), nil
}

// UnmarshalPrivateKeyPEM 解析 PKCS#8 PEM 私钥
func UnmarshalPrivateKeyPEM(data []byte) (PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != pemTypePrivateKey {
		return nil, ErrInvalidPEM
	}
	k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPEM, err)
	}
	return PrivateKeyFromStd(k)
}

// LoadOrGenerateKey 从文件加载私钥，文件不存在时生成并保存
func LoadOrGenerateKey(path string, keyType KeyType) (PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return UnmarshalPrivateKeyPEM(data)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	priv, _, err := GenerateKeyPair(keyType)
	if err != nil {
		return nil, err
	}
	data, err = MarshalPrivateKeyPEM(priv)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create key dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}
	return priv, nil
}
