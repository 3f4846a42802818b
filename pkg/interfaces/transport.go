package interfaces

import (
	"context"
	"io"
	"time"

	ma "github.com/multiformats/go-multiaddr"

	"github.com/dep2p/go-dep2p-quic/pkg/types"
)

// Transport 定义传输层接口
//
// 传输负责拨号、监听和地址过滤。Dial 返回的连接已完成安全握手，
// 携带经过验证的端点与身份信息（CapableConn）。
type Transport interface {
	// Dial 拨号到指定地址
	//
	// ctx 即取消信号：调用时已取消则立即失败，握手期间取消则放弃
	// 进行中的会话。
	Dial(ctx context.Context, raddr ma.Multiaddr) (CapableConn, error)

	// CanDial 检查是否支持拨号到指定地址
	CanDial(addr ma.Multiaddr) bool

	// Filter 返回本传输可处理的地址子序列（保持原顺序）
	Filter(addrs ...ma.Multiaddr) []ma.Multiaddr

	// Protocols 返回支持的协议编号
	Protocols() []int

	// Close 关闭传输
	Close() error
}

// ConnHandler 入站连接处理函数
//
// Listener 每接受并升级一个连接调用一次，连接所有权随之转移给 handler。
type ConnHandler func(conn CapableConn)

// Listener 定义监听器接口
type Listener interface {
	// Listen 绑定地址并开始接受连接
	Listen(laddr ma.Multiaddr) error

	// Multiaddr 返回实际监听的多地址（Listen 之前为 nil）
	Multiaddr() ma.Multiaddr

	// Close 关闭监听器
	Close() error
}

// CapableConn 完成安全握手的连接
//
// 构造后不可变：会话、本地/远端地址、本地/远端身份在整个生命周期内固定。
type CapableConn interface {
	io.Closer

	// ID 连接唯一标识（用于日志关联）
	ID() string

	// LocalPeer 返回本地节点 ID
	LocalPeer() types.PeerID

	// RemotePeer 返回握手中验证的远端节点 ID
	RemotePeer() types.PeerID

	// LocalMultiaddr 返回本地多地址
	LocalMultiaddr() ma.Multiaddr

	// RemoteMultiaddr 返回远端多地址
	RemoteMultiaddr() ma.Multiaddr

	// OpenStream 创建新流
	OpenStream(ctx context.Context) (Stream, error)

	// AcceptStream 接受对方创建的流
	AcceptStream(ctx context.Context) (Stream, error)

	// Stat 返回连接统计
	Stat() types.ConnStat

	// IsClosed 检查是否已关闭
	IsClosed() bool
}

// Stream 定义流接口
type Stream interface {
	io.ReadWriteCloser

	// ID 返回流 ID
	ID() uint64

	// CloseRead 关闭读端
	CloseRead() error

	// CloseWrite 关闭写端（发送 FIN）
	CloseWrite() error

	// Reset 立即中止两个方向
	Reset() error

	// SetDeadline 设置读写超时
	SetDeadline(t time.Time) error

	// SetReadDeadline 设置读超时
	SetReadDeadline(t time.Time) error

	// SetWriteDeadline 设置写超时
	SetWriteDeadline(t time.Time) error
}
