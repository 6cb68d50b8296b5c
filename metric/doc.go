// Package metric provides Prometheus-based metrics collection and an HTTP
// server for WebKit observability.
//
// The package offers a centralized metrics registry managing both core
// toolkit metrics (registry activity, event delivery, HTTP pipeline,
// action dispatch) and application-specific metrics. Each MetricsRegistry
// owns a private prometheus.Registry, so embedded applications and tests
// never collide on the global default registry.
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//	if err := server.Start(); err != nil {
//	    return err
//	}
//	defer server.Stop(5 * time.Second)
//
// Core metrics are reachable through registry.CoreMetrics(); application
// collectors are added through the Registrar interface:
//
//	registry.Register("myapp", "jobs_total", jobsCounter)
package metric
