// Package crypto 提供节点密钥与 PeerID 派生
//
// # 支持的密钥类型
//
//   - Ed25519（默认推荐）
//   - ECDSA（P-256）
//
// 两种密钥都可以直接作为 TLS 1.3 证书密钥使用，QUIC 握手时由
// Signer() 暴露的标准库 crypto.Signer 完成签名。
//
// # 快速开始
//
//	priv, pub, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
//	peerID, err := crypto.PeerIDFromPublicKey(pub)
//
// 持久化（PKCS#8 PEM）：
//
//	priv, err := crypto.LoadOrGenerateKey("node.key", crypto.KeyTypeEd25519)
package crypto
