package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLazyLogger_FollowsOutput(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelDebug)

	l := Logger("core/test")
	l.Debug("拨号", "addr", "/ip4/127.0.0.1/udp/4001/quic")

	out := buf.String()
	assert.Contains(t, out, "component=core/test")
	assert.Contains(t, out, "拨号")
	assert.Contains(t, out, "/ip4/127.0.0.1/udp/4001/quic")

	buf.Reset()
	SetLevel(LevelWarn)
	l.Info("不应输出")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
