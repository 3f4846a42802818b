package upgrader

import (
	"context"
	"fmt"

	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
	"github.com/dep2p/go-dep2p-quic/pkg/lib/log"
	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

var logger = log.Logger("core/upgrader")

// 确保实现了接口
var _ pkgif.Upgrader = (*Upgrader)(nil)

// Upgrader 入站连接升级器
type Upgrader struct {
	gater Gater
}

// New 创建升级器，gater 为 nil 时接纳全部连接
func New(gater Gater) *Upgrader {
	if gater == nil {
		gater = AllowAll{}
	}
	return &Upgrader{gater: gater}
}

// UpgradeInbound 升级入站连接
//
// 返回错误时由调用方关闭连接。
func (u *Upgrader) UpgradeInbound(ctx context.Context, conn pkgif.CapableConn) (pkgif.CapableConn, error) {
	if conn == nil {
		return nil, ErrNilConn
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	peer := conn.RemotePeer()
	if !u.gater.InterceptSecured(types.DirInbound, peer, conn.RemoteMultiaddr()) {
		logger.Debug("入站连接被门控拒绝", "peer", peer.ShortString(), "raddr", conn.RemoteMultiaddr())
		return nil, fmt.Errorf("%w: peer %s", ErrGated, peer)
	}
	return conn, nil
}
