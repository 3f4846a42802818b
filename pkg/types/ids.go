package types

import (
	"errors"

	"github.com/mr-tron/base58"
)

// ============================================================================
//                              PeerID - 节点身份
// ============================================================================

// PeerIDHashSize PeerID 底层哈希长度（SHA256）
const PeerIDHashSize = 32

// PeerID 节点身份标识
//
// 由公钥派生：Base58(SHA256(PKIX DER 公钥))。
// 同一私钥总是派生出相同的 PeerID。
type PeerID string

// EmptyPeerID 空 PeerID
const EmptyPeerID PeerID = ""

// ErrInvalidPeerID 无效的 PeerID
var ErrInvalidPeerID = errors.New("invalid peer ID: must be Base58 of a 32-byte hash")

// PeerIDFromHash 从 32 字节哈希创建 PeerID
func PeerIDFromHash(hash []byte) (PeerID, error) {
	if len(hash) != PeerIDHashSize {
		return EmptyPeerID, ErrInvalidPeerID
	}
	return PeerID(base58.Encode(hash)), nil
}

// String 返回 PeerID 的字符串表示
func (id PeerID) String() string {
	return string(id)
}

// ShortString 返回日志用的短标识（前 8 个字符）
func (id PeerID) ShortString() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// IsEmpty 检查 PeerID 是否为空
func (id PeerID) IsEmpty() bool {
	return id == EmptyPeerID
}

// Validate 校验 PeerID 编码
func (id PeerID) Validate() error {
	if id.IsEmpty() {
		return ErrInvalidPeerID
	}
	raw, err := base58.Decode(string(id))
	if err != nil || len(raw) != PeerIDHashSize {
		return ErrInvalidPeerID
	}
	return nil
}

// Bytes 返回解码后的哈希字节，无效 PeerID 返回 nil
func (id PeerID) Bytes() []byte {
	raw, err := base58.Decode(string(id))
	if err != nil {
		return nil
	}
	return raw
}
