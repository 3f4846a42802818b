package quic

import "errors"

var (
	// ErrDialCanceled 拨号在完成前被取消
	ErrDialCanceled = errors.New("quic: dial canceled")

	// ErrMalformedAddress 地址无法解析
	ErrMalformedAddress = errors.New("quic: malformed address")

	// ErrNotDialable 地址不是本传输可处理的 QUIC ip/udp 地址
	ErrNotDialable = errors.New("quic: address not dialable")

	// ErrHandshakeFailed 安全会话建立失败
	ErrHandshakeFailed = errors.New("quic: handshake failed")

	// ErrTransportClosed 传输已关闭
	ErrTransportClosed = errors.New("quic: transport closed")

	// ErrListenerClosed 监听器已关闭
	ErrListenerClosed = errors.New("quic: listener closed")

	// ErrAlreadyListening 监听器已在监听
	ErrAlreadyListening = errors.New("quic: listener already listening")

	// ErrConnectionClosed 连接已关闭
	ErrConnectionClosed = errors.New("quic: connection closed")

	// ErrNilPrivateKey 未提供私钥
	ErrNilPrivateKey = errors.New("quic: nil private key")
)
