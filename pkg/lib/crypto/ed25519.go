package crypto

import (
	stdcrypto "crypto"
	"crypto/ed25519"
	"crypto/subtle"
)

// Ed25519PublicKey Ed25519 公钥实现
type Ed25519PublicKey struct {
	k ed25519.PublicKey
}

// Type 返回密钥类型
func (k *Ed25519PublicKey) Type() KeyType { return KeyTypeEd25519 }

// Raw 返回 32 字节公钥副本
func (k *Ed25519PublicKey) Raw() ([]byte, error) {
	return append([]byte(nil), k.k...), nil
}

// Equals 常量时间比较
func (k *Ed25519PublicKey) Equals(other PublicKey) bool {
	ek, ok := other.(*Ed25519PublicKey)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare(k.k, ek.k) == 1
}

// Verify 验证签名
func (k *Ed25519PublicKey) Verify(data, sig []byte) (bool, error) {
	if len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(k.k, data, sig), nil
}

// Std 返回标准库公钥
func (k *Ed25519PublicKey) Std() stdcrypto.PublicKey { return k.k }

// Ed25519PrivateKey Ed25519 私钥实现
type Ed25519PrivateKey struct {
	k ed25519.PrivateKey
}

// Type 返回密钥类型
func (k *Ed25519PrivateKey) Type() KeyType { return KeyTypeEd25519 }

// Raw 返回 64 字节私钥副本（种子 + 公钥）
func (k *Ed25519PrivateKey) Raw() ([]byte, error) {
	return append([]byte(nil), k.k...), nil
}

// Sign 签名数据
func (k *Ed25519PrivateKey) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(k.k, data), nil
}

// GetPublic 返回公钥
func (k *Ed25519PrivateKey) GetPublic() PublicKey {
	return &Ed25519PublicKey{k: k.k.Public().(ed25519.PublicKey)}
}

// Signer 返回标准库 Signer
func (k *Ed25519PrivateKey) Signer() stdcrypto.Signer { return k.k }
