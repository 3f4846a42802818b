package quic

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/quic-go/quic-go"
	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/dep2p/go-dep2p-quic/config"
	"github.com/dep2p/go-dep2p-quic/internal/core/metrics"
	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

// 确保实现了接口
var _ pkgif.Listener = (*Listener)(nil)

// ListenerOptions 监听器选项，零值字段沿用传输的监听配置
type ListenerOptions struct {
	// MaxConcurrentUpgrades 同时升级的入站连接上限
	MaxConcurrentUpgrades int

	// UpgradeTimeout 单个入站连接的升级超时
	UpgradeTimeout time.Duration
}

// Listener QUIC 监听器
//
// 每个握手完成的入站会话经升级器准入后交给 handler。
// 关闭监听器会关闭其接受的全部连接。
type Listener struct {
	transport      *Transport
	handler        pkgif.ConnHandler
	upgradeTimeout time.Duration
	sem            *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	conns  *connSet

	mu        sync.Mutex
	sock      *net.UDPConn
	qt        *quic.Transport
	ql        *quic.Listener
	laddr     ma.Multiaddr
	component string
	closed    atomic.Bool
}

func newListener(t *Transport, handler pkgif.ConnHandler, conf config.ListenerConfig) *Listener {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener{
		transport:      t,
		handler:        handler,
		upgradeTimeout: conf.UpgradeTimeout.Duration(),
		sem:            semaphore.NewWeighted(int64(conf.MaxConcurrentUpgrades)),
		ctx:            ctx,
		cancel:         cancel,
		conns:          newConnSet(),
	}
}

// Listen 绑定地址并开始接受连接
func (l *Listener) Listen(laddr ma.Multiaddr) error {
	if l.closed.Load() {
		return ErrListenerClosed
	}
	if l.transport.isClosed() {
		return ErrTransportClosed
	}
	if laddr == nil {
		return fmt.Errorf("%w: nil address", ErrMalformedAddress)
	}
	component := quicComponent(laddr)
	if component == "" {
		return fmt.Errorf("%w: %s", ErrNotDialable, laddr)
	}
	network, udpAddr, err := udpEndpoint(laddr)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// Close 可能在上面的检查之后抢先完成
	if l.closed.Load() {
		return ErrListenerClosed
	}
	if l.ql != nil {
		return ErrAlreadyListening
	}

	cert, err := l.transport.certificate()
	if err != nil {
		return fmt.Errorf("derive certificate: %w", err)
	}

	sock, err := l.transport.listenUDP(network, udpAddr)
	if err != nil {
		return fmt.Errorf("listen udp: %w", err)
	}
	qt := &quic.Transport{Conn: sock}
	ql, err := qt.Listen(l.transport.ca.ServerConfig(cert), l.transport.quicConfig())
	if err != nil {
		return multierr.Combine(fmt.Errorf("listen quic: %w", err), qt.Close(), sock.Close())
	}
	actual, err := toMultiaddr(sock.LocalAddr(), component)
	if err != nil {
		return multierr.Combine(err, ql.Close(), qt.Close(), sock.Close())
	}

	l.sock, l.qt, l.ql, l.laddr, l.component = sock, qt, ql, actual, component

	l.wg.Add(1)
	go l.acceptLoop(ql)

	logger.Info("开始监听", "addr", actual.String())
	return nil
}

func (l *Listener) acceptLoop(ql *quic.Listener) {
	defer l.wg.Done()

	for {
		session, err := ql.Accept(l.ctx)
		if err != nil {
			if !l.closed.Load() && !errors.Is(err, quic.ErrServerClosed) {
				logger.Warn("接受连接失败", "error", err)
			}
			return
		}

		if err := l.sem.Acquire(l.ctx, 1); err != nil {
			_ = session.CloseWithError(codeRejected, "listener closed")
			return
		}

		l.wg.Add(1)
		go l.handleSession(session)
	}
}

// handleSession 构造连接并升级，成功后交给 handler
//
// 调用方已获取一个升级名额，升级结束即归还；handler 不计入 Close 的等待。
func (l *Listener) handleSession(session *quic.Conn) {
	conn, err := l.upgrade(session)
	l.sem.Release(1)
	l.wg.Done()
	if err != nil {
		return
	}
	if l.handler == nil {
		_ = conn.Close()
		return
	}
	l.handler(conn)
}

func (l *Listener) upgrade(session *quic.Conn) (pkgif.CapableConn, error) {
	m := l.transport.metrics

	ctx, cancel := context.WithTimeout(l.ctx, l.upgradeTimeout)
	defer cancel()

	remoteAddr, err := toMultiaddr(session.RemoteAddr(), l.component)
	if err != nil {
		_ = session.CloseWithError(codeRejected, "bad remote address")
		m.ObserveInbound(metrics.ResultError)
		return nil, err
	}
	localPeer, err := l.transport.LocalPeer()
	if err != nil {
		_ = session.CloseWithError(codeRejected, "")
		m.ObserveInbound(metrics.ResultError)
		return nil, err
	}

	c, err := newCapableConn(ctx, session, connParams{
		localPeer:  localPeer,
		localAddr:  l.Multiaddr(),
		remoteAddr: remoteAddr,
		direction:  types.DirInbound,
		metrics:    m,
		set:        l.conns,
	})
	if err != nil {
		logger.Debug("入站连接构造失败", "raddr", remoteAddr.String(), "error", err)
		_ = session.CloseWithError(codeRejected, "")
		m.ObserveInbound(metrics.ResultHandshakeFailed)
		return nil, err
	}

	if l.transport.upgrader == nil {
		m.ObserveInbound(metrics.ResultSuccess)
		return c, nil
	}

	upgraded, err := l.transport.upgrader.UpgradeInbound(ctx, c)
	if err != nil {
		logger.Debug("入站连接被拒绝", "peer", c.RemotePeer().ShortString(), "error", err)
		_ = c.reject("upgrade failed")
		m.ObserveInbound(metrics.ResultRejected)
		return nil, err
	}
	m.ObserveInbound(metrics.ResultSuccess)
	return upgraded, nil
}

// Multiaddr 返回实际监听的多地址（Listen 之前为 nil）
func (l *Listener) Multiaddr() ma.Multiaddr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.laddr
}

// Addr 返回实际监听的 UDP 地址（Listen 之前为 nil）
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sock == nil {
		return nil
	}
	return l.sock.LocalAddr()
}

// IsClosed 检查监听器是否已关闭
func (l *Listener) IsClosed() bool {
	return l.closed.Load()
}

// Close 关闭监听器，等待接受循环和进行中的升级退出
func (l *Listener) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	l.cancel()
	l.transport.removeListener(l)

	l.mu.Lock()
	ql, qt, sock := l.ql, l.qt, l.sock
	l.mu.Unlock()

	var err error
	if ql != nil {
		err = multierr.Append(err, ql.Close())
	}
	l.wg.Wait()

	err = multierr.Append(err, l.conns.closeAll())
	if qt != nil {
		err = multierr.Combine(err, qt.Close(), sock.Close())
	}
	return err
}
