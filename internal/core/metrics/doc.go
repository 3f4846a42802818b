// Package metrics 提供 QUIC 传输的 Prometheus 指标
//
//   - <ns>_quic_dials_total{result}              出站拨号结果
//   - <ns>_quic_handshake_duration_seconds       成功拨号的握手耗时
//   - <ns>_quic_inbound_total{result}            入站连接结果
//   - <ns>_quic_open_connections{direction}      当前打开的连接
//
// 所有方法对 nil *TransportMetrics 安全，关闭指标时传输层无需判空。
//
//	m := metrics.New("dep2p")
//	err := m.Register(prometheus.DefaultRegisterer)
package metrics
