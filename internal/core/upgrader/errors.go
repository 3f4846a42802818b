package upgrader

import "errors"

var (
	// ErrGated 连接被门控拒绝
	ErrGated = errors.New("upgrader: connection gated")

	// ErrNilConn 连接为空
	ErrNilConn = errors.New("upgrader: nil connection")
)
