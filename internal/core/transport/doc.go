// Package transport 提供传输层的 Fx 模块
//
// 模块按统一配置组装 QUIC 传输：QUIC 会话参数、监听器参数、受信任 CA、
// 可选的入站升级器与指标，并在应用停止时关闭传输。
//
// # 依赖
//
//   - crypto.PrivateKey（identity 模块）
//   - pkgif.Upgrader（upgrader 模块，可选）
//   - *metrics.TransportMetrics（metrics 模块，可选）
package transport
