package upgrader

import (
	"sync"

	ma "github.com/multiformats/go-multiaddr"

	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

// Gater 连接门控
type Gater interface {
	// InterceptSecured 安全握手完成后调用，返回 false 拒绝连接
	InterceptSecured(dir types.Direction, peer types.PeerID, remote ma.Multiaddr) bool
}

// AllowAll 接纳全部连接
type AllowAll struct{}

// InterceptSecured 实现 Gater
func (AllowAll) InterceptSecured(types.Direction, types.PeerID, ma.Multiaddr) bool {
	return true
}

// Blocklist 按节点 ID 拒绝连接，并发安全
type Blocklist struct {
	mu      sync.RWMutex
	blocked map[types.PeerID]struct{}
}

// NewBlocklist 创建封禁列表
func NewBlocklist(peers ...types.PeerID) *Blocklist {
	b := &Blocklist{blocked: make(map[types.PeerID]struct{}, len(peers))}
	for _, p := range peers {
		b.blocked[p] = struct{}{}
	}
	return b
}

// Block 封禁节点
func (b *Blocklist) Block(p types.PeerID) {
	b.mu.Lock()
	b.blocked[p] = struct{}{}
	b.mu.Unlock()
}

// Unblock 解除封禁
func (b *Blocklist) Unblock(p types.PeerID) {
	b.mu.Lock()
	delete(b.blocked, p)
	b.mu.Unlock()
}

// IsBlocked 检查节点是否被封禁
func (b *Blocklist) IsBlocked(p types.PeerID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.blocked[p]
	return ok
}

// InterceptSecured 实现 Gater
func (b *Blocklist) InterceptSecured(_ types.Direction, p types.PeerID, _ ma.Multiaddr) bool {
	return !b.IsBlocked(p)
}
