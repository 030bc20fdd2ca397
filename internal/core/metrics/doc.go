// Package metrics 提供 Prometheus 监控指标
//
// 每个应用（客户端/服务端）使用独立的 Registry，各组件通过
// NewReconciler / NewDiscovery / NewAPI 获得自己的指标集合。
// 传入 nil Registerer 时指标照常工作但不注册，便于测试。
//
//	reg := metrics.NewRegistry()
//	m := metrics.NewReconciler(reg)
//	m.Probes.WithLabelValues("discovered", "alive").Inc()
//	http.Handle("/metrics", metrics.Handler(reg))
package metrics
