package crypto

import (
	stdcrypto "crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

// ============================================================================
//                              密钥类型定义
// ============================================================================

// KeyType 密钥类型
type KeyType int

const (
	// KeyTypeUnspecified 未指定密钥类型
	KeyTypeUnspecified KeyType = 0
	// KeyTypeEd25519 Ed25519 密钥（默认推荐）
	KeyTypeEd25519 KeyType = 2
	// KeyTypeECDSA ECDSA P-256 密钥
	KeyTypeECDSA KeyType = 4
)

// String 返回密钥类型名称
func (kt KeyType) String() string {
	switch kt {
	case KeyTypeEd25519:
		return "Ed25519"
	case KeyTypeECDSA:
		return "ECDSA"
	case KeyTypeUnspecified:
		return "Unspecified"
	default:
		return "Unknown"
	}
}

// ParseKeyType 解析配置中的密钥类型名称（大小写不敏感）
func ParseKeyType(name string) (KeyType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ed25519":
		return KeyTypeEd25519, nil
	case "ecdsa", "p256", "p-256":
		return KeyTypeECDSA, nil
	default:
		return KeyTypeUnspecified, fmt.Errorf("%w: %q", ErrBadKeyType, name)
	}
}

// ============================================================================
//                              密钥接口定义
// ============================================================================

// PublicKey 公钥接口
type PublicKey interface {
	// Type 返回密钥类型
	Type() KeyType

	// Raw 返回原始公钥字节
	Raw() ([]byte, error)

	// Equals 比较两个公钥是否相等
	Equals(PublicKey) bool

	// Verify 使用此公钥验证签名
	Verify(data, sig []byte) (bool, error)

	// Std 返回标准库公钥（用于 x509）
	Std() stdcrypto.PublicKey
}

// PrivateKey 私钥接口
type PrivateKey interface {
	// Type 返回密钥类型
	Type() KeyType

	// Raw 返回原始私钥字节
	Raw() ([]byte, error)

	// Sign 使用此私钥签名数据
	Sign(data []byte) ([]byte, error)

	// GetPublic 返回对应的公钥
	GetPublic() PublicKey

	// Signer 返回标准库 Signer（用作 TLS 证书私钥）
	Signer() stdcrypto.Signer
}

// ============================================================================
//                              密钥工厂函数
// ============================================================================

// GenerateKeyPair 使用 crypto/rand 生成密钥对
func GenerateKeyPair(keyType KeyType) (PrivateKey, PublicKey, error) {
	return GenerateKeyPairWithReader(keyType, rand.Reader)
}

// GenerateKeyPairWithReader 使用指定的随机源生成密钥对
//
// reader 仅用于测试中的确定性生成。
func GenerateKeyPairWithReader(keyType KeyType, reader io.Reader) (PrivateKey, PublicKey, error) {
	switch keyType {
	case KeyTypeEd25519:
		_, k, err := ed25519.GenerateKey(reader)
		if err != nil {
			return nil, nil, err
		}
		priv := &Ed25519PrivateKey{k: k}
		return priv, priv.GetPublic(), nil
	case KeyTypeECDSA:
		k, err := ecdsa.GenerateKey(elliptic.P256(), reader)
		if err != nil {
			return nil, nil, err
		}
		priv := &ECDSAPrivateKey{k: k}
		return priv, priv.GetPublic(), nil
	default:
		return nil, nil, ErrBadKeyType
	}
}

// PrivateKeyFromStd 包装标准库私钥
func PrivateKeyFromStd(k any) (PrivateKey, error) {
	switch key := k.(type) {
	case ed25519.PrivateKey:
		if len(key) != ed25519.PrivateKeySize {
			return nil, ErrInvalidKeySize
		}
		return &Ed25519PrivateKey{k: key}, nil
	case *ecdsa.PrivateKey:
		if key.Curve != elliptic.P256() {
			return nil, fmt.Errorf("%w: curve %s", ErrBadKeyType, key.Curve.Params().Name)
		}
		return &ECDSAPrivateKey{k: key}, nil
	case nil:
		return nil, ErrNilPrivateKey
	default:
		return nil, fmt.Errorf("%w: %T", ErrBadKeyType, k)
	}
}

// PublicKeyFromStd 包装标准库公钥
func PublicKeyFromStd(k any) (PublicKey, error) {
	switch key := k.(type) {
	case ed25519.PublicKey:
		if len(key) != ed25519.PublicKeySize {
			return nil, ErrInvalidKeySize
		}
		return &Ed25519PublicKey{k: key}, nil
	case *ecdsa.PublicKey:
		if key.Curve != elliptic.P256() {
			return nil, fmt.Errorf("%w: curve %s", ErrBadKeyType, key.Curve.Params().Name)
		}
		return &ECDSAPublicKey{k: key}, nil
	case nil:
		return nil, ErrNilPublicKey
	default:
		return nil, fmt.Errorf("%w: %T", ErrBadKeyType, k)
	}
}
