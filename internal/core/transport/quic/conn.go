package quic

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/quic-go/quic-go"
	"go.uber.org/multierr"

	"github.com/dep2p/go-dep2p-quic/internal/core/metrics"
	tlssec "github.com/dep2p/go-dep2p-quic/internal/core/security/tls"
	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

// 确保实现了接口
var _ pkgif.CapableConn = (*capableConn)(nil)

// connParams 构造连接所需的已确定信息
type connParams struct {
	localPeer  types.PeerID
	localAddr  ma.Multiaddr
	remoteAddr ma.Multiaddr
	direction  types.Direction

	// release 释放连接独占的 socket，可为 nil
	release func() error

	metrics *metrics.TransportMetrics
	set     *connSet
}

// capableConn QUIC 连接
//
// 构造后身份与地址不再变化。会话结束（任一端关闭或空闲超时）时
// 自动释放独占资源。
type capableConn struct {
	id         string
	session    *quic.Conn
	localPeer  types.PeerID
	remotePeer types.PeerID
	localAddr  ma.Multiaddr
	remoteAddr ma.Multiaddr
	direction  types.Direction
	alpn       string
	opened     time.Time

	metrics *metrics.TransportMetrics
	set     *connSet

	numStreams atomic.Int64
	closed     atomic.Bool

	teardownOnce sync.Once
	teardownErr  error
	release      func() error
}

// newCapableConn 用已建立的会话构造连接
//
// 失败时不关闭会话也不调用 release，由调用方清理。
func newCapableConn(ctx context.Context, session *quic.Conn, p connParams) (*capableConn, error) {
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrDialCanceled, context.Cause(ctx))
	}

	state := session.ConnectionState().TLS
	remotePeer, err := tlssec.PeerIDFromConnectionState(state)
	if err != nil {
		return nil, fmt.Errorf("%w: remote identity: %w", ErrHandshakeFailed, err)
	}

	c := &capableConn{
		id:         uuid.NewString(),
		session:    session,
		localPeer:  p.localPeer,
		remotePeer: remotePeer,
		localAddr:  p.localAddr,
		remoteAddr: p.remoteAddr,
		direction:  p.direction,
		alpn:       state.NegotiatedProtocol,
		opened:     time.Now(),
		metrics:    p.metrics,
		set:        p.set,
		release:    p.release,
	}
	if c.set != nil && !c.set.add(c) {
		return nil, ErrTransportClosed
	}

	c.metrics.ConnOpened(c.direction.String())
	go c.watch()
	return c, nil
}

// watch 会话结束后释放资源
func (c *capableConn) watch() {
	<-c.session.Context().Done()
	_ = c.teardown()
}

func (c *capableConn) teardown() error {
	c.teardownOnce.Do(func() {
		c.closed.Store(true)
		if c.release != nil {
			c.teardownErr = c.release()
		}
		if c.set != nil {
			c.set.remove(c)
		}
		c.metrics.ConnClosed(c.direction.String())
		logger.Debug("连接已关闭", "conn", c.id, "peer", c.remotePeer.ShortString())
	})
	return c.teardownErr
}

// ID 返回连接 ID
func (c *capableConn) ID() string {
	return c.id
}

// LocalPeer 返回本地节点 ID
func (c *capableConn) LocalPeer() types.PeerID {
	return c.localPeer
}

// RemotePeer 返回远端节点 ID
func (c *capableConn) RemotePeer() types.PeerID {
	return c.remotePeer
}

// LocalMultiaddr 返回本地多地址
func (c *capableConn) LocalMultiaddr() ma.Multiaddr {
	return c.localAddr
}

// RemoteMultiaddr 返回远端多地址
func (c *capableConn) RemoteMultiaddr() ma.Multiaddr {
	return c.remoteAddr
}

// OpenStream 创建新流
func (c *capableConn) OpenStream(ctx context.Context) (pkgif.Stream, error) {
	if c.IsClosed() {
		return nil, ErrConnectionClosed
	}
	qs, err := c.session.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	return newStream(qs, c), nil
}

// AcceptStream 接受对方创建的流
func (c *capableConn) AcceptStream(ctx context.Context) (pkgif.Stream, error) {
	if c.IsClosed() {
		return nil, ErrConnectionClosed
	}
	qs, err := c.session.AcceptStream(ctx)
	if err != nil {
		return nil, err
	}
	return newStream(qs, c), nil
}

// Stat 返回连接统计
func (c *capableConn) Stat() types.ConnStat {
	return types.ConnStat{
		Direction:  c.direction,
		Opened:     c.opened,
		NumStreams: int(c.numStreams.Load()),
		ALPN:       c.alpn,
	}
}

// IsClosed 检查是否已关闭
func (c *capableConn) IsClosed() bool {
	return c.closed.Load() || c.session.Context().Err() != nil
}

// Close 关闭会话并释放独占的 socket
func (c *capableConn) Close() error {
	if c.closed.Swap(true) {
		return c.teardown()
	}
	err := c.session.CloseWithError(codeNormal, "")
	return multierr.Append(err, c.teardown())
}

// reject 以拒绝错误码关闭会话
func (c *capableConn) reject(reason string) error {
	c.closed.Store(true)
	err := c.session.CloseWithError(codeRejected, reason)
	return multierr.Append(err, c.teardown())
}

// ============================================================================
//                              connSet
// ============================================================================

// connSet 跟踪存活连接，关闭后拒绝新连接
type connSet struct {
	mu     sync.Mutex
	conns  map[*capableConn]struct{}
	closed bool
}

func newConnSet() *connSet {
	return &connSet{conns: make(map[*capableConn]struct{})}
}

func (s *connSet) add(c *capableConn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *connSet) remove(c *capableConn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *connSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// closeAll 关闭全部连接，之后 add 总是失败
func (s *connSet) closeAll() error {
	s.mu.Lock()
	s.closed = true
	conns := make([]*capableConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	var err error
	for _, c := range conns {
		err = multierr.Append(err, c.Close())
	}
	return err
}
