// Package dep2p 提供基于 QUIC 的点对点节点
//
// Node 组装身份、指标、入站升级器与 QUIC 传输：
//
//	node, err := dep2p.New(ctx, dep2p.WithConfig(cfg))
//	defer node.Close()
//
//	// 监听
//	addr, err := node.Listen("/ip4/0.0.0.0/udp/4001/quic", handler)
//
//	// 拨号
//	conn, err := node.Dial(ctx, "/ip4/1.2.3.4/udp/4001/quic")
//
// 连接都已完成 TLS 1.3 双向认证（ALPN "libp2p"），证书由受信任 CA 签发，
// RemotePeer 由对端证书公钥派生。
package dep2p
