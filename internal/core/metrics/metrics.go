package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace 指标命名空间
const Namespace = "pclink"

// NewRegistry 创建带 Go 运行时与进程指标的 Registry
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 /metrics 处理器
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func register(reg prometheus.Registerer, cs ...prometheus.Collector) {
	if reg == nil {
		return
	}
	reg.MustRegister(cs...)
}

// ============================================================================
//                              连接状态机
// ============================================================================

// Reconciler 连接状态机指标
type Reconciler struct {
	// Transitions 状态迁移次数，标签 from/to
	Transitions *prometheus.CounterVec

	// State 当前状态，当前状态值为 1，其余为 0
	State *prometheus.GaugeVec

	// Candidates 收到的候选数，标签 source
	Candidates *prometheus.CounterVec

	// Probes 探测次数，标签 source/result
	Probes *prometheus.CounterVec

	// ProbeDuration 探测耗时，标签 source
	ProbeDuration *prometheus.HistogramVec

	// StaleResults 被丢弃的过期探测结果
	StaleResults prometheus.Counter
}

// NewReconciler 创建连接状态机指标
func NewReconciler(reg prometheus.Registerer) *Reconciler {
	m := &Reconciler{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "reconciler", Name: "transitions_total",
			Help: "Connection state transitions.",
		}, []string{"from", "to"}),
		State: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace, Subsystem: "reconciler", Name: "state",
			Help: "Current connection state (1 for the active state).",
		}, []string{"state"}),
		Candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "reconciler", Name: "candidates_total",
			Help: "Candidates received, by source.",
		}, []string{"source"}),
		Probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "reconciler", Name: "probes_total",
			Help: "Liveness probes, by candidate source and result.",
		}, []string{"source", "result"}),
		ProbeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace, Subsystem: "reconciler", Name: "probe_duration_seconds",
			Help:    "Liveness probe latency.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2, 4, 8},
		}, []string{"source"}),
		StaleResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "reconciler", Name: "stale_results_total",
			Help: "Probe results discarded because their cycle had ended.",
		}),
	}
	register(reg, m.Transitions, m.State, m.Candidates, m.Probes, m.ProbeDuration, m.StaleResults)
	return m
}

// ============================================================================
//                              组播发现
// ============================================================================

// Discovery 组播发现指标
type Discovery struct {
	// Queries 查询轮数
	Queries prometheus.Counter

	// Entries 收到的应答，标签 result（emitted/duplicate/dropped）
	Entries *prometheus.CounterVec

	// Failures 查询失败（通道终止）
	Failures prometheus.Counter
}

// NewDiscovery 创建组播发现指标
func NewDiscovery(reg prometheus.Registerer) *Discovery {
	m := &Discovery{
		Queries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "discovery", Name: "queries_total",
			Help: "mDNS query rounds.",
		}),
		Entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "discovery", Name: "entries_total",
			Help: "mDNS answers, by outcome.",
		}, []string{"result"}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "discovery", Name: "failures_total",
			Help: "Discovery sessions ended by a listener error.",
		}),
	}
	register(reg, m.Queries, m.Entries, m.Failures)
	return m
}

// ============================================================================
//                              服务端 API
// ============================================================================

// API 服务端 HTTP 指标
type API struct {
	// Requests 请求数，标签 route/code
	Requests *prometheus.CounterVec

	// Duration 请求耗时，标签 route
	Duration *prometheus.HistogramVec

	// Limited 被限速拒绝的请求数
	Limited prometheus.Counter

	// Items 当前记录数
	Items prometheus.Gauge
}

// NewAPI 创建服务端 HTTP 指标
func NewAPI(reg prometheus.Registerer) *API {
	m := &API{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "api", Name: "requests_total",
			Help: "HTTP requests, by route and status code.",
		}, []string{"route", "code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace, Subsystem: "api", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		Limited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "api", Name: "rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		Items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Subsystem: "api", Name: "items",
			Help: "Stored item records.",
		}),
	}
	register(reg, m.Requests, m.Duration, m.Limited, m.Items)
	return m
}
