// Package quic 实现 QUIC 传输层
//
// quic 负责把一个多地址变成完成双向证书验证的 QUIC 会话，并封装为
// CapableConn 交给上层。TLS 1.3 与多路复用由 QUIC 本身提供，
// 证书由节点私钥派生并由受信任 CA 签发（见 internal/core/security/tls）。
//
// # 地址格式
//
//	/ip4/1.2.3.4/udp/4001/quic
//	/ip6/::1/udp/4001/quic-v1
//
// 含 quic 或 quic-v1 组件的地址由本传输处理；不含 ip4/ip6 + udp 端点的
// QUIC 地址（如 /dns4/...）不可拨号。
//
// # 拨号
//
// 每次拨号使用独立的临时 UDP socket，socket 归返回的连接所有，连接关闭或
// 会话结束时释放。ctx 是取消信号：调用前已取消则不创建任何 socket；
// 握手期间取消则拆除进行中的会话并返回 ErrDialCanceled，即使握手恰好同时完成。
//
//	t, err := quic.New(priv)
//	conn, err := t.DialString(ctx, "/ip4/1.2.3.4/udp/4001/quic")
//
// # 监听
//
//	l := t.CreateListener(func(c pkgif.CapableConn) { ... })
//	err := l.Listen(addr)
package quic
