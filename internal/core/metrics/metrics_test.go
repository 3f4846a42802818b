package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-dep2p-quic/config"
)

func TestTransportMetrics_Observe(t *testing.T) {
	m := New("test")
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	m.ObserveDial(ResultSuccess, 20*time.Millisecond)
	m.ObserveDial(ResultCanceled, time.Millisecond)
	m.ObserveDial(ResultCanceled, time.Millisecond)
	m.ObserveInbound(ResultRejected)
	m.ConnOpened("outbound")
	m.ConnOpened("outbound")
	m.ConnClosed("outbound")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.dials.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dials.WithLabelValues(ResultCanceled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inbound.WithLabelValues(ResultRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.openConns.WithLabelValues("outbound")))

	// 只有成功拨号计入握手耗时
	assert.Equal(t, 1, testutil.CollectAndCount(m.handshake))
}

func TestTransportMetrics_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, second := New("test"), New("test")
	require.NoError(t, first.Register(reg))
	require.NoError(t, second.Register(reg), "重复注册应视为成功")

	second.ObserveInbound(ResultSuccess)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.inbound.WithLabelValues(ResultSuccess)), "共享已注册的序列")
}

func TestTransportMetrics_NilSafe(t *testing.T) {
	var m *TransportMetrics
	assert.NotPanics(t, func() {
		m.ObserveDial(ResultSuccess, time.Second)
		m.ObserveInbound(ResultSuccess)
		m.ConnOpened("inbound")
		m.ConnClosed("inbound")
	})
}

func TestModule(t *testing.T) {
	reg := prometheus.NewRegistry()
	var got *TransportMetrics

	app := fxtest.New(t,
		fx.Supply(config.NewConfig()),
		fx.Provide(func() prometheus.Registerer { return reg }),
		Module(),
		fx.Populate(&got),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, got)
	got.ObserveInbound(ResultSuccess)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestModule_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false
	var got *TransportMetrics

	app := fxtest.New(t,
		fx.Supply(cfg),
		Module(),
		fx.Populate(&got),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Nil(t, got)
}
