package quic

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/quic-go/quic-go"
	"go.uber.org/multierr"

	"github.com/dep2p/go-dep2p-quic/config"
	"github.com/dep2p/go-dep2p-quic/internal/core/metrics"
	tlssec "github.com/dep2p/go-dep2p-quic/internal/core/security/tls"
	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/crypto"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/log"
	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

var logger = log.Logger("core/transport/quic")

// 确保实现了接口
var _ pkgif.Transport = (*Transport)(nil)

// 关闭会话时使用的应用错误码
const (
	codeNormal   quic.ApplicationErrorCode = 0
	codeCanceled quic.ApplicationErrorCode = 1
	codeRejected quic.ApplicationErrorCode = 2
)

// Transport QUIC 传输
//
// 持有节点私钥与受信任 CA。证书和本地 PeerID 都由私钥派生，
// 在首次需要时计算一次并缓存。
type Transport struct {
	priv       crypto.PrivateKey
	ca         *tlssec.CA
	upgrader   pkgif.Upgrader
	quicConf   config.QUICConfig
	listenConf config.ListenerConfig
	metrics    *metrics.TransportMetrics

	certificate func() (tls.Certificate, error)
	localPeer   func() (types.PeerID, error)

	// 可替换，便于测试观察 socket 与身份派生
	listenUDP func(network string, laddr *net.UDPAddr) (*net.UDPConn, error)
	peerIDFn  func(crypto.PrivateKey) (types.PeerID, error)

	mu        sync.Mutex
	closed    bool
	listeners map[*Listener]struct{}
	conns     *connSet
}

// Option 传输选项
type Option func(*Transport)

// WithUpgrader 设置入站连接升级器
func WithUpgrader(u pkgif.Upgrader) Option {
	return func(t *Transport) { t.upgrader = u }
}

// WithCA 设置受信任 CA（默认使用随包分发的 CA）
func WithCA(ca *tlssec.CA) Option {
	return func(t *Transport) { t.ca = ca }
}

// WithQUICConfig 设置 QUIC 会话参数
func WithQUICConfig(c config.QUICConfig) Option {
	return func(t *Transport) { t.quicConf = c }
}

// WithListenConfig 设置监听器默认参数，非正值字段使用默认配置
func WithListenConfig(c config.ListenerConfig) Option {
	return func(t *Transport) { t.listenConf = c }
}

// WithMetrics 设置指标，nil 表示不记录
func WithMetrics(m *metrics.TransportMetrics) Option {
	return func(t *Transport) { t.metrics = m }
}

// New 创建 QUIC 传输
func New(priv crypto.PrivateKey, opts ...Option) (*Transport, error) {
	if priv == nil {
		return nil, ErrNilPrivateKey
	}

	defaults := config.DefaultTransportConfig()
	t := &Transport{
		priv:       priv,
		quicConf:   defaults.QUIC,
		listenConf: defaults.Listener,
		listenUDP:  net.ListenUDP,
		peerIDFn:   crypto.PeerIDFromPrivateKey,
		listeners:  make(map[*Listener]struct{}),
		conns:      newConnSet(),
	}
	for _, opt := range opts {
		opt(t)
	}
	// 非正值的监听参数回落到默认值
	if t.listenConf.MaxConcurrentUpgrades <= 0 {
		t.listenConf.MaxConcurrentUpgrades = defaults.Listener.MaxConcurrentUpgrades
	}
	if t.listenConf.UpgradeTimeout <= 0 {
		t.listenConf.UpgradeTimeout = defaults.Listener.UpgradeTimeout
	}

	if t.ca == nil {
		ca, err := tlssec.DefaultCA()
		if err != nil {
			return nil, fmt.Errorf("load bundled CA: %w", err)
		}
		t.ca = ca
	}

	t.certificate = sync.OnceValues(func() (tls.Certificate, error) {
		return t.ca.IssueCertificate(t.priv)
	})
	t.localPeer = sync.OnceValues(func() (types.PeerID, error) {
		return t.peerIDFn(t.priv)
	})
	return t, nil
}

// LocalPeer 返回本地节点 ID
func (t *Transport) LocalPeer() (types.PeerID, error) {
	return t.localPeer()
}

// CanDial 检查是否支持拨号
func (t *Transport) CanDial(addr ma.Multiaddr) bool {
	return IsQUICAddr(addr)
}

// Protocols 返回支持的协议
func (t *Transport) Protocols() []int {
	return []int{ma.P_QUIC, ma.P_QUIC_V1}
}

// Filter 返回可处理的地址，保持原顺序，不去重
func (t *Transport) Filter(addrs ...ma.Multiaddr) []ma.Multiaddr {
	out := make([]ma.Multiaddr, 0, len(addrs))
	for _, addr := range addrs {
		if IsQUICAddr(addr) {
			out = append(out, addr)
		}
	}
	return out
}

// FilterStrings 解析并过滤文本地址，无法解析的地址被丢弃
func (t *Transport) FilterStrings(addrs ...string) []ma.Multiaddr {
	parsed := make([]ma.Multiaddr, 0, len(addrs))
	for _, s := range addrs {
		addr, err := ma.NewMultiaddr(s)
		if err != nil {
			continue
		}
		parsed = append(parsed, addr)
	}
	return t.Filter(parsed...)
}

// Dial 拨号连接
//
// ctx 在调用前已取消时不会创建 socket。
func (t *Transport) Dial(ctx context.Context, raddr ma.Multiaddr) (pkgif.CapableConn, error) {
	return t.observeDial(ctx, func() (ma.Multiaddr, error) {
		if raddr == nil {
			return nil, fmt.Errorf("%w: nil address", ErrMalformedAddress)
		}
		return raddr, nil
	})
}

// DialString 解析文本地址并拨号
func (t *Transport) DialString(ctx context.Context, raddr string) (pkgif.CapableConn, error) {
	return t.observeDial(ctx, func() (ma.Multiaddr, error) {
		addr, err := ma.NewMultiaddr(raddr)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrMalformedAddress, raddr, err)
		}
		return addr, nil
	})
}

func (t *Transport) observeDial(ctx context.Context, normalize func() (ma.Multiaddr, error)) (pkgif.CapableConn, error) {
	start := time.Now()
	c, err := t.dial(ctx, normalize)
	t.metrics.ObserveDial(dialResult(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (t *Transport) dial(ctx context.Context, normalize func() (ma.Multiaddr, error)) (*capableConn, error) {
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrDialCanceled, context.Cause(ctx))
	}
	if t.isClosed() {
		return nil, ErrTransportClosed
	}

	raddr, err := normalize()
	if err != nil {
		return nil, err
	}
	if !IsQUICAddr(raddr) {
		return nil, fmt.Errorf("%w: %s", ErrNotDialable, raddr)
	}
	network, udpAddr, err := udpEndpoint(raddr)
	if err != nil {
		return nil, err
	}

	dlog := logger.With("dial", uuid.NewString(), "raddr", raddr.String())

	sock, err := t.listenUDP(network, nil)
	if err != nil {
		return nil, fmt.Errorf("open udp socket: %w", err)
	}
	qt := &quic.Transport{Conn: sock}
	release := func() error {
		return multierr.Combine(qt.Close(), sock.Close())
	}

	cert, err := t.certificate()
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("derive certificate: %w", err), release())
	}

	dlog.Debug("开始握手", "laddr", sock.LocalAddr().String())
	session, err := t.handshake(ctx, qt, udpAddr, t.ca.ClientConfig(cert))
	if err != nil {
		if errors.Is(err, ErrHandshakeFailed) {
			dlog.Warn("握手失败", "error", err)
		} else {
			dlog.Debug("拨号取消", "error", err)
		}
		return nil, multierr.Append(err, release())
	}

	fail := func(err error) (*capableConn, error) {
		_ = session.CloseWithError(codeNormal, "")
		return nil, multierr.Append(err, release())
	}

	laddr, err := toMultiaddr(sock.LocalAddr(), "quic")
	if err != nil {
		return fail(fmt.Errorf("local address: %w", err))
	}
	localPeer, err := t.LocalPeer()
	if err != nil {
		return fail(fmt.Errorf("local peer: %w", err))
	}

	c, err := newCapableConn(ctx, session, connParams{
		localPeer:  localPeer,
		localAddr:  laddr,
		remoteAddr: raddr,
		direction:  types.DirOutbound,
		release:    release,
		metrics:    t.metrics,
		set:        t.conns,
	})
	if err != nil {
		return fail(err)
	}

	dlog.Debug("拨号成功", "conn", c.ID(), "peer", c.RemotePeer().ShortString())
	return c, nil
}

// handshake 在 ctx 的约束下建立安全会话
//
// 取消与握手完成同时发生时，会话被关闭而不是返回。
func (t *Transport) handshake(ctx context.Context, qt *quic.Transport, raddr *net.UDPAddr, tlsConf *tls.Config) (*quic.Conn, error) {
	session, err := qt.Dial(ctx, raddr, tlsConf, t.quicConfig())
	if ctx.Err() != nil {
		if session != nil {
			_ = session.CloseWithError(codeCanceled, "dial canceled")
		}
		return nil, fmt.Errorf("%w: %w", ErrDialCanceled, context.Cause(ctx))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}
	return session, nil
}

func (t *Transport) quicConfig() *quic.Config {
	return &quic.Config{
		HandshakeIdleTimeout:  t.quicConf.HandshakeIdleTimeout.Duration(),
		MaxIdleTimeout:        t.quicConf.MaxIdleTimeout.Duration(),
		KeepAlivePeriod:       t.quicConf.KeepAlivePeriod.Duration(),
		MaxIncomingStreams:    t.quicConf.MaxIncomingStreams,
		MaxIncomingUniStreams: t.quicConf.MaxIncomingUniStreams,
		EnableDatagrams:       t.quicConf.EnableDatagrams,
	}
}

// CreateListener 创建监听器（默认选项）
func (t *Transport) CreateListener(handler pkgif.ConnHandler) *Listener {
	return t.CreateListenerWithOptions(ListenerOptions{}, handler)
}

// CreateListenerWithOptions 创建监听器
//
// 只做组装，不绑定地址；Listen 时才打开 socket。
func (t *Transport) CreateListenerWithOptions(opts ListenerOptions, handler pkgif.ConnHandler) *Listener {
	conf := t.listenConf
	if opts.MaxConcurrentUpgrades > 0 {
		conf.MaxConcurrentUpgrades = opts.MaxConcurrentUpgrades
	}
	if opts.UpgradeTimeout > 0 {
		conf.UpgradeTimeout = config.Duration(opts.UpgradeTimeout)
	}

	l := newListener(t, handler, conf)

	t.mu.Lock()
	t.listeners[l] = struct{}{}
	t.mu.Unlock()
	return l
}

func (t *Transport) removeListener(l *Listener) {
	t.mu.Lock()
	delete(t.listeners, l)
	t.mu.Unlock()
}

func (t *Transport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Close 关闭传输及其创建的全部监听器和拨出连接
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	listeners := make([]*Listener, 0, len(t.listeners))
	for l := range t.listeners {
		listeners = append(listeners, l)
	}
	t.mu.Unlock()

	var err error
	for _, l := range listeners {
		err = multierr.Append(err, l.Close())
	}
	return multierr.Append(err, t.conns.closeAll())
}

func dialResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrDialCanceled):
		return metrics.ResultCanceled
	case errors.Is(err, ErrMalformedAddress):
		return metrics.ResultMalformed
	case errors.Is(err, ErrNotDialable):
		return metrics.ResultNotDialable
	case errors.Is(err, ErrHandshakeFailed):
		return metrics.ResultHandshakeFailed
	default:
		return metrics.ResultError
	}
}
