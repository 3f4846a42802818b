// Package upgrader 实现入站连接升级器
//
// QUIC 会话到达升级器时已完成 TLS 1.3 双向认证与多路复用，升级器只负责准入：
// 由 Gater 根据已验证的远端身份与地址决定是否接纳连接。
//
//	bl := upgrader.NewBlocklist()
//	bl.Block(peerID)
//	u := upgrader.New(bl)
package upgrader
