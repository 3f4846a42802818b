package crypto

import (
	stdcrypto "crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
)

// ECDSAPublicKey ECDSA 公钥实现（P-256 曲线）
type ECDSAPublicKey struct {
	k *ecdsa.PublicKey
}

// Type 返回密钥类型
func (k *ECDSAPublicKey) Type() KeyType { return KeyTypeECDSA }

// Raw 返回 SEC1 未压缩格式公钥（65 字节）
func (k *ECDSAPublicKey) Raw() ([]byte, error) {
	pub, err := k.k.ECDH()
	if err != nil {
		return nil, err
	}
	return pub.Bytes(), nil
}

// Equals 比较两个公钥是否相等
func (k *ECDSAPublicKey) Equals(other PublicKey) bool {
	ek, ok := other.(*ECDSAPublicKey)
	if !ok {
		return false
	}
	return k.k.Equal(ek.k)
}

// Verify 验证 ASN.1 DER 编码的签名（数据先做 SHA256）
func (k *ECDSAPublicKey) Verify(data, sig []byte) (bool, error) {
	hash := sha256.Sum256(data)
	return ecdsa.VerifyASN1(k.k, hash[:], sig), nil
}

// Std 返回标准库公钥
func (k *ECDSAPublicKey) Std() stdcrypto.PublicKey { return k.k }

// ECDSAPrivateKey ECDSA 私钥实现（P-256 曲线）
type ECDSAPrivateKey struct {
	k *ecdsa.PrivateKey
}

// Type 返回密钥类型
func (k *ECDSAPrivateKey) Type() KeyType { return KeyTypeECDSA }

// Raw 返回 32 字节标量
func (k *ECDSAPrivateKey) Raw() ([]byte, error) {
	return k.k.D.FillBytes(make([]byte, 32)), nil
}

// Sign 签名数据（SHA256 + ASN.1 DER）
func (k *ECDSAPrivateKey) Sign(data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)
	return ecdsa.SignASN1(rand.Reader, k.k, hash[:])
}

// GetPublic 返回公钥
func (k *ECDSAPrivateKey) GetPublic() PublicKey {
	return &ECDSAPublicKey{k: &k.k.PublicKey}
}

// Signer 返回标准库 Signer
func (k *ECDSAPrivateKey) Signer() stdcrypto.Signer { return k.k }
