/*
Package metrics provides Prometheus instrumentation for Sherpa.

All metrics are registered at package load through an init function and
exposed via Handler(). Planning metrics count planned sequences, emitted
and skipped groups, and per-reason component skips; merge metrics track
per-service reconciliation outcomes and latency.

Skip reasons mirror the planner's log messages ("scope", "condition",
"no_hosts", "no_processing", "namenode_unresolved") so a counter spike
can be matched to the corresponding warn lines.

Timer Helper:

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.PlanningLatency)
*/
package metrics
