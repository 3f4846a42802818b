package types

import "time"

// ConnStat 连接统计
type ConnStat struct {
	// Direction 连接方向
	Direction Direction

	// Opened 安全握手完成的时间
	Opened time.Time

	// NumStreams 当前由本端跟踪的流数量
	NumStreams int

	// ALPN 握手协商出的应用层协议
	ALPN string
}
