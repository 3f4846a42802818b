package dep2p

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dep2p-quic/config"
	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
)

func newTestNode(t *testing.T, opts ...Option) *Node {
	t.Helper()
	opts = append([]Option{WithRegisterer(prometheus.NewRegistry())}, opts...)
	n, err := New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Close() })
	return n
}

func echo(c pkgif.CapableConn) {
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

func TestNode_DialAndEcho(t *testing.T) {
	server := newTestNode(t)
	client := newTestNode(t)

	addr, err := server.Listen("/ip4/127.0.0.1/udp/0/quic", func(c pkgif.CapableConn) { go echo(c) })
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := client.Dial(ctx, addr.String())
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, server.ID(), conn.RemotePeer())
	assert.Equal(t, client.ID(), conn.LocalPeer())

	s, err := conn.OpenStream(ctx)
	require.NoError(t, err)
	_, err = s.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, s.CloseWrite())
	got, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(got))

	t.Log("✅ 节点间回显成功")
}

func TestNode_Block(t *testing.T) {
	server := newTestNode(t)
	client := newTestNode(t)

	handled := make(chan struct{}, 1)
	addr, err := server.Listen("/ip4/127.0.0.1/udp/0/quic", func(c pkgif.CapableConn) { handled <- struct{}{} })
	require.NoError(t, err)
	server.Block(client.ID())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := client.Dial(ctx, addr.String())
	require.NoError(t, err)

	require.Eventually(t, conn.IsClosed, 5*time.Second, 20*time.Millisecond)
	select {
	case <-handled:
		t.Fatal("被封禁节点不应到达 handler")
	default:
	}
}

func TestNode_KeyFilePersistsIdentity(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Identity.KeyFile = filepath.Join(t.TempDir(), "node.pem")

	first := newTestNode(t, WithConfig(cfg))
	id := first.ID()
	require.NoError(t, first.Close())

	second := newTestNode(t, WithConfig(cfg))
	assert.Equal(t, id, second.ID())
}

func TestNode_Close(t *testing.T) {
	n := newTestNode(t)
	require.NoError(t, n.Close())
	assert.NoError(t, n.Close(), "重复关闭")

	_, err := n.Dial(context.Background(), "/ip4/127.0.0.1/udp/4001/quic")
	assert.ErrorIs(t, err, ErrNodeClosed)
	_, err = n.Listen("/ip4/127.0.0.1/udp/0/quic", nil)
	assert.ErrorIs(t, err, ErrNodeClosed)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Transport.Listener.MaxConcurrentUpgrades = 0

	_, err := New(context.Background(), WithConfig(cfg), WithRegisterer(prometheus.NewRegistry()))
	assert.Error(t, err)

	_, err = New(context.Background(), WithConfig(nil))
	assert.Error(t, err)
}

func TestVersionInfo(t *testing.T) {
	assert.Contains(t, VersionInfo(), Version)
}
