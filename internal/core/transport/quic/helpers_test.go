package quic

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"io"
	"math/big"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/require"

	tlssec "github.com/dep2p/go-dep2p-quic/internal/core/security/tls"
	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/crypto"
	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

func newTestTransport(t *testing.T, opts ...Option) *Transport {
	t.Helper()
	priv, _, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	require.NoError(t, err)
	tr, err := New(priv, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func mustPeer(t *testing.T, tr *Transport) types.PeerID {
	t.Helper()
	id, err := tr.LocalPeer()
	require.NoError(t, err)
	return id
}

func mustAddr(t *testing.T, s string) ma.Multiaddr {
	t.Helper()
	addr, err := ma.NewMultiaddr(s)
	require.NoError(t, err)
	return addr
}

// socketRecorder 记录传输打开的 UDP socket
type socketRecorder struct {
	mu    sync.Mutex
	socks []*net.UDPConn
}

func (r *socketRecorder) listen(network string, laddr *net.UDPAddr) (*net.UDPConn, error) {
	conn, err := net.ListenUDP(network, laddr)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.socks = append(r.socks, conn)
	r.mu.Unlock()
	return conn, nil
}

func (r *socketRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.socks)
}

func (r *socketRecorder) get(i int) *net.UDPConn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.socks[i]
}

// isSocketClosed 向已关闭的 socket 写入会返回 net.ErrClosed
func isSocketClosed(sock *net.UDPConn) bool {
	_, err := sock.WriteToUDP([]byte{0}, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9})
	return errors.Is(err, net.ErrClosed)
}

// silentPeer 返回一个从不应答的 UDP 端点地址
func silentPeer(t *testing.T) ma.Multiaddr {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	addr, err := toMultiaddr(conn.LocalAddr(), "quic")
	require.NoError(t, err)
	return addr
}

// startEchoListener 启动回显监听器，入站连接同时送入返回的 channel
func startEchoListener(t *testing.T, tr *Transport) (*Listener, <-chan pkgif.CapableConn) {
	t.Helper()
	inbound := make(chan pkgif.CapableConn, 16)
	l := tr.CreateListener(func(c pkgif.CapableConn) {
		inbound <- c
		go serveEcho(c)
	})
	require.NoError(t, l.Listen(mustAddr(t, "/ip4/127.0.0.1/udp/0/quic")))
	t.Cleanup(func() { _ = l.Close() })
	return l, inbound
}

func serveEcho(c pkgif.CapableConn) {
	for {
		s, err := c.AcceptStream(context.Background())
		if err != nil {
			return
		}
		go func() {
			defer s.Close()
			_, _ = io.Copy(s, s)
		}()
	}
}

func roundTrip(t *testing.T, c pkgif.CapableConn, msg string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := c.OpenStream(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SetDeadline(time.Now().Add(5*time.Second)))
	_, err = s.Write([]byte(msg))
	require.NoError(t, err)
	require.NoError(t, s.CloseWrite())
	got, err := io.ReadAll(s)
	require.NoError(t, err)
	return string(got)
}

// newRogueCA 生成一个与随包 CA 无关的 CA
func newRogueCA(t *testing.T) *tlssec.CA {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(7),
		Subject:               pkix.Name{CommonName: "rogue CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, pub, priv)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)

	ca, err := tlssec.ParseCA(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}),
	)
	require.NoError(t, err)
	return ca
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}
