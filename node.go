package dep2p

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	ma "github.com/multiformats/go-multiaddr"

	"github.com/dep2p/go-dep2p-quic/internal/core/transport/quic"
	"github.com/dep2p/go-dep2p-quic/internal/core/upgrader"
	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/log"
	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

var logger = log.Logger("dep2p")

// ErrNodeClosed 节点已关闭
var ErrNodeClosed = errors.New("dep2p: node closed")

// Node 一个 QUIC 节点
type Node struct {
	peerID    types.PeerID
	transport *quic.Transport
	blocklist *upgrader.Blocklist

	stop   func(context.Context) error
	closed atomic.Bool
}

// New 创建并启动节点
func New(ctx context.Context, opts ...Option) (*Node, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	log.SetLevel(log.ParseLevel(o.config.Log.Level))

	n := &Node{}
	app, err := buildFxApp(o, n)
	if err != nil {
		return nil, err
	}
	if err := app.Start(ctx); err != nil {
		return nil, fmt.Errorf("start node: %w", err)
	}
	n.stop = app.Stop

	logger.Info("节点已启动", "peer", n.peerID.ShortString())
	return n, nil
}

// ID 返回本地节点 ID
func (n *Node) ID() types.PeerID {
	return n.peerID
}

// Transport 返回底层 QUIC 传输
func (n *Node) Transport() *quic.Transport {
	return n.transport
}

// Listen 在地址上监听，返回实际监听地址
func (n *Node) Listen(addr string, handler pkgif.ConnHandler) (ma.Multiaddr, error) {
	if n.closed.Load() {
		return nil, ErrNodeClosed
	}
	laddr, err := ma.NewMultiaddr(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", quic.ErrMalformedAddress, addr, err)
	}
	l := n.transport.CreateListener(handler)
	if err := l.Listen(laddr); err != nil {
		_ = l.Close()
		return nil, err
	}
	return l.Multiaddr(), nil
}

// Dial 拨号到文本地址
func (n *Node) Dial(ctx context.Context, addr string) (pkgif.CapableConn, error) {
	if n.closed.Load() {
		return nil, ErrNodeClosed
	}
	return n.transport.DialString(ctx, addr)
}

// Block 拒绝来自该节点的入站连接
func (n *Node) Block(p types.PeerID) {
	n.blocklist.Block(p)
}

// Unblock 解除封禁
func (n *Node) Unblock(p types.PeerID) {
	n.blocklist.Unblock(p)
}

// Close 停止节点，关闭全部监听器与连接
func (n *Node) Close() error {
	if n.closed.Swap(true) {
		return nil
	}
	return n.stop(context.Background())
}
