package quic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConn_StreamCount(t *testing.T) {
	server := newTestTransport(t)
	l, _ := startEchoListener(t, server)

	client := newTestTransport(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := client.Dial(ctx, l.Multiaddr())
	require.NoError(t, err)
	defer conn.Close()

	s1, err := conn.OpenStream(ctx)
	require.NoError(t, err)
	s2, err := conn.OpenStream(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, conn.Stat().NumStreams)
	assert.NotEqual(t, s1.ID(), s2.ID())

	require.NoError(t, s1.Close())
	_ = s1.Close()
	assert.Equal(t, 1, conn.Stat().NumStreams, "重复关闭只计一次")

	require.NoError(t, s2.Reset())
	assert.Equal(t, 0, conn.Stat().NumStreams)
}

func TestConn_ClosedRejectsStreams(t *testing.T) {
	server := newTestTransport(t)
	l, _ := startEchoListener(t, server)

	client := newTestTransport(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := client.Dial(ctx, l.Multiaddr())
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = conn.OpenStream(ctx)
	assert.ErrorIs(t, err, ErrConnectionClosed)
	_, err = conn.AcceptStream(ctx)
	assert.ErrorIs(t, err, ErrConnectionClosed)
}

func TestNewCapableConn_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 上下文检查先于读取会话状态，因此可以传 nil 会话
	_, err := newCapableConn(ctx, nil, connParams{})
	assert.ErrorIs(t, err, ErrDialCanceled)
}

func TestConnSet(t *testing.T) {
	s := newConnSet()
	c := &capableConn{}

	assert.True(t, s.add(c))
	assert.Equal(t, 1, s.len())
	s.remove(c)
	assert.Zero(t, s.len())

	require.NoError(t, s.closeAll())
	assert.False(t, s.add(c), "closeAll 之后拒绝新连接")
}
