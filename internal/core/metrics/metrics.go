package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

// 拨号 / 入站结果标签
const (
	ResultSuccess         = "success"
	ResultCanceled        = "canceled"
	ResultMalformed       = "malformed"
	ResultNotDialable     = "not_dialable"
	ResultHandshakeFailed = "handshake_failed"
	ResultRejected        = "rejected"
	ResultError           = "error"
)

const subsystem = "quic"

// TransportMetrics 传输层指标
type TransportMetrics struct {
	dials     *prometheus.CounterVec
	handshake prometheus.Histogram
	inbound   *prometheus.CounterVec
	openConns *prometheus.GaugeVec
}

// New 创建指标（尚未注册）
func New(namespace string) *TransportMetrics {
	return &TransportMetrics{
		dials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dials_total",
			Help:      "Outbound QUIC dials by result.",
		}, []string{"result"}),
		handshake: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handshake_duration_seconds",
			Help:      "Time from dial start to secure session for successful dials.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		inbound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inbound_total",
			Help:      "Inbound QUIC connections by result.",
		}, []string{"result"}),
		openConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "open_connections",
			Help:      "Currently open QUIC connections by direction.",
		}, []string{"direction"}),
	}
}

// Collectors 返回全部 collector
func (m *TransportMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.dials, m.handshake, m.inbound, m.openConns}
}

// Register 注册到 registerer
//
// 同名 collector 已注册时沿用已有的 collector，多个传输共享同一组序列。
func (m *TransportMetrics) Register(reg prometheus.Registerer) error {
	var err error
	m.dials = register(reg, m.dials, &err)
	m.handshake = register(reg, m.handshake, &err)
	m.inbound = register(reg, m.inbound, &err)
	m.openConns = register(reg, m.openConns, &err)
	return err
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, errp *error) T {
	rerr := reg.Register(c)
	if rerr == nil {
		return c
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(rerr, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing
		}
	}
	*errp = multierr.Append(*errp, rerr)
	return c
}

// ObserveDial 记录一次拨号结果；成功时同时记录握手耗时
func (m *TransportMetrics) ObserveDial(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dials.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		m.handshake.Observe(elapsed.Seconds())
	}
}

// ObserveInbound 记录一次入站结果
func (m *TransportMetrics) ObserveInbound(result string) {
	if m == nil {
		return
	}
	m.inbound.WithLabelValues(result).Inc()
}

// ConnOpened 连接打开
func (m *TransportMetrics) ConnOpened(direction string) {
	if m == nil {
		return
	}
	m.openConns.WithLabelValues(direction).Inc()
}

// ConnClosed 连接关闭
func (m *TransportMetrics) ConnClosed(direction string) {
	if m == nil {
		return
	}
	m.openConns.WithLabelValues(direction).Dec()
}
