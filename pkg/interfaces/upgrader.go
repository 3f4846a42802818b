package interfaces

import "context"

// Upgrader 连接升级器接口
//
// QUIC 自带加密与多路复用，升级只剩准入环节：
// Listener 在握手完成后、交给 handler 之前调用 UpgradeInbound，
// 由升级器决定是否接纳该连接（连接门控、资源记账等）。
type Upgrader interface {
	// UpgradeInbound 升级入站连接
	//
	// 返回错误时 Listener 负责关闭连接。
	UpgradeInbound(ctx context.Context, conn CapableConn) (CapableConn, error)
}
