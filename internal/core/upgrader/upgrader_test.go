package upgrader

import (
	"context"
	"testing"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-dep2p-quic/config"
	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

const (
	peerA types.PeerID = "GfBX6bqnHP6yXaH8nLfWCwL3j1CRjZrQVbZ5f4n5Ta1h"
	peerB types.PeerID = "8qbHbw2BbbTHBW1sbeqakYXVKRQM8Ne7pLK7m6CVfeR"
)

// fakeConn 只提供身份与地址的连接
type fakeConn struct {
	pkgif.CapableConn
	remote types.PeerID
}

func (c fakeConn) RemotePeer() types.PeerID { return c.remote }

func (c fakeConn) RemoteMultiaddr() ma.Multiaddr {
	addr, _ := ma.NewMultiaddr("/ip4/127.0.0.1/udp/4001/quic")
	return addr
}

func TestUpgradeInbound(t *testing.T) {
	bl := NewBlocklist(peerA)
	u := New(bl)

	tests := []struct {
		name    string
		peer    types.PeerID
		wantErr bool
	}{
		{"封禁节点被拒绝", peerA, true},
		{"其他节点通过", peerB, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := fakeConn{remote: tt.peer}
			got, err := u.UpgradeInbound(context.Background(), conn)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrGated)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.peer, got.RemotePeer())
		})
	}
}

func TestUpgradeInbound_Edge(t *testing.T) {
	u := New(nil)

	t.Run("nil 连接", func(t *testing.T) {
		_, err := u.UpgradeInbound(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNilConn)
	})

	t.Run("已取消的上下文", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := u.UpgradeInbound(ctx, fakeConn{remote: peerA})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("默认接纳全部", func(t *testing.T) {
		_, err := u.UpgradeInbound(context.Background(), fakeConn{remote: peerA})
		assert.NoError(t, err)
	})
}

func TestBlocklist(t *testing.T) {
	bl := NewBlocklist()
	assert.False(t, bl.IsBlocked(peerA))

	bl.Block(peerA)
	assert.True(t, bl.IsBlocked(peerA))
	assert.False(t, bl.InterceptSecured(types.DirInbound, peerA, nil))

	bl.Unblock(peerA)
	assert.True(t, bl.InterceptSecured(types.DirInbound, peerA, nil))
}

func TestModule(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Security.BlockedPeers = []string{peerA.String()}

	var (
		u  pkgif.Upgrader
		bl *Blocklist
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		Module(),
		fx.Populate(&u, &bl),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.True(t, bl.IsBlocked(peerA))
	_, err := u.UpgradeInbound(context.Background(), fakeConn{remote: peerA})
	assert.ErrorIs(t, err, ErrGated)

	bl.Unblock(peerA)
	_, err = u.UpgradeInbound(context.Background(), fakeConn{remote: peerA})
	assert.NoError(t, err, "运行期解封立即生效")
}
