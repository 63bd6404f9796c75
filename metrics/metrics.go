// Package metrics exposes the RPC dispatch core's Prometheus metrics,
// grounded on the teacher's metrics/metrics.go: method call counts, method
// latency, method errors, the live-query subscription gauge and GraphQL
// call outcomes. The concurrent_sessions gauge is registered, but no code
// in this module sets it, so it stays at zero.
package metrics

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

const (
	NAMESPACE = "coredb"
	SUBSYSTEM = "rpc"
)

var (
	MethodCallsTotal    *prometheus.CounterVec
	MethodDuration      *prometheus.HistogramVec
	MethodErrorsTotal   *prometheus.CounterVec
	LiveSubscriptions   prometheus.Gauge
	GraphQLCallsTotal   *prometheus.CounterVec
	ConcurrentSessions  prometheus.Gauge
)

func Init() error {
	MethodCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: NAMESPACE,
		Subsystem: SUBSYSTEM,
		Name:      "method_calls_total",
		Help:      "Total number of RPC method dispatches, by method name.",
	}, []string{"method"})

	MethodDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: NAMESPACE,
		Subsystem: SUBSYSTEM,
		Name:      "method_duration_seconds",
		Help:      "RPC method dispatch latency in seconds, by method name.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	MethodErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: NAMESPACE,
		Subsystem: SUBSYSTEM,
		Name:      "method_errors_total",
		Help:      "Total number of RPC method dispatches that returned an error, by method name and error code.",
	}, []string{"method", "code"})

	LiveSubscriptions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: NAMESPACE,
		Subsystem: SUBSYSTEM,
		Name:      "live_subscriptions",
		Help:      "Current number of active live-query subscriptions.",
	})

	GraphQLCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: NAMESPACE,
		Subsystem: SUBSYSTEM,
		Name:      "graphql_calls_total",
		Help:      "Total number of GraphQL adapter invocations, by outcome.",
	}, []string{"outcome"})

	ConcurrentSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: NAMESPACE,
		Subsystem: SUBSYSTEM,
		Name:      "concurrent_sessions",
		Help:      "Number of currently connected sessions across all transports.",
	})

	errs := make([]error, 0, 8)
	errs = append(errs, prometheus.Register(MethodCallsTotal))
	errs = append(errs, prometheus.Register(MethodDuration))
	errs = append(errs, prometheus.Register(MethodErrorsTotal))
	errs = append(errs, prometheus.Register(LiveSubscriptions))
	errs = append(errs, prometheus.Register(GraphQLCallsTotal))
	errs = append(errs, prometheus.Register(ConcurrentSessions))
	errs = append(errs, prometheus.Register(collectors.NewBuildInfoCollector()))
	errs = append(errs, prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: NAMESPACE})))

	return errors.WithStack(multierr.Combine(errs...))
}
