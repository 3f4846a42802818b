package quic

import (
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	pkgif "github.com/dep2p/go-dep2p-quic/pkg/interfaces"
)

// 确保实现了接口
var _ pkgif.Stream = (*stream)(nil)

// stream QUIC 流封装
type stream struct {
	qs   *quic.Stream
	conn *capableConn
	done sync.Once
}

func newStream(qs *quic.Stream, conn *capableConn) *stream {
	conn.numStreams.Add(1)
	return &stream{qs: qs, conn: conn}
}

func (s *stream) untrack() {
	s.done.Do(func() { s.conn.numStreams.Add(-1) })
}

// Read 从流中读取数据
func (s *stream) Read(p []byte) (int, error) {
	return s.qs.Read(p)
}

// Write 向流写入数据
func (s *stream) Write(p []byte) (int, error) {
	return s.qs.Write(p)
}

// Close 关闭写端；读端仍可读到对方的剩余数据
func (s *stream) Close() error {
	s.untrack()
	return s.qs.Close()
}

// ID 返回流 ID
func (s *stream) ID() uint64 {
	return uint64(s.qs.StreamID())
}

// CloseRead 关闭读端
func (s *stream) CloseRead() error {
	s.qs.CancelRead(0)
	return nil
}

// CloseWrite 关闭写端
func (s *stream) CloseWrite() error {
	return s.qs.Close()
}

// Reset 中止两个方向
func (s *stream) Reset() error {
	s.untrack()
	s.qs.CancelRead(0)
	s.qs.CancelWrite(0)
	return nil
}

// SetDeadline 设置读写超时
func (s *stream) SetDeadline(t time.Time) error {
	return s.qs.SetDeadline(t)
}

// SetReadDeadline 设置读超时
func (s *stream) SetReadDeadline(t time.Time) error {
	return s.qs.SetReadDeadline(t)
}

// SetWriteDeadline 设置写超时
func (s *stream) SetWriteDeadline(t time.Time) error {
	return s.qs.SetWriteDeadline(t)
}
