// Package interfaces 定义 dep2p QUIC 传输的公共接口
//
//   - transport.go  - Transport / Listener / CapableConn / Stream
//   - upgrader.go   - 入站连接升级器
//
// 实现位于 internal/core 下，外部只依赖本包的接口。
package interfaces
