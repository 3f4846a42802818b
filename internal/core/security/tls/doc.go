// Package tls 提供 QUIC 握手所需的证书与 TLS 配置
//
// # 信任模型
//
// 所有节点信任同一个 CA（默认随包分发，也可通过配置替换）。
// 每个节点的证书由该 CA 为节点私钥签发：
//
//	CA (Ed25519) ──签发──> 节点证书（公钥 = 节点公钥，CN = PeerID）
//
// 握手时双方都出示证书，VerifyPeerCertificate 验证证书链指向 CA，
// 对端 PeerID 由叶子证书公钥派生，与证书中的 CN 无关。
//
// # 应用层协议
//
// ClientConfig / ServerConfig 固定协商 ALPN，协商不出该协议的握手会被 TLS 层拒绝。
//
//	ca, _ := tls.DefaultCA()
//	cert, _ := ca.IssueCertificate(priv)
//	conf := ca.ClientConfig(cert)
package tls
