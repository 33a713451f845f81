package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Planning metrics
	PlansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sherpa_plans_total",
			Help: "Total number of sequences planned by direction and kind",
		},
		[]string{"direction", "kind"},
	)

	GroupsEmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sherpa_groups_emitted_total",
			Help: "Total number of upgrade groups emitted into plans",
		},
	)

	GroupsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sherpa_groups_skipped_total",
			Help: "Total number of upgrade groups skipped by reason",
		},
		[]string{"reason"},
	)

	ComponentSkips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sherpa_component_skips_total",
			Help: "Total number of components skipped during planning by reason",
		},
		[]string{"reason"},
	)

	PlanningLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sherpa_planning_latency_seconds",
			Help:    "Time taken to plan a sequence in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Configuration merge metrics
	MergesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sherpa_config_merges_total",
			Help: "Total number of per-service configuration reconciliations by outcome",
		},
		[]string{"outcome"},
	)

	MergeLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sherpa_config_merge_latency_seconds",
			Help:    "Time taken to reconcile configurations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(PlansTotal)
	prometheus.MustRegister(GroupsEmitted)
	prometheus.MustRegister(GroupsSkipped)
	prometheus.MustRegister(ComponentSkips)
	prometheus.MustRegister(PlanningLatency)
	prometheus.MustRegister(MergesTotal)
	prometheus.MustRegister(MergeLatency)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures elapsed time for histogram observations
type Timer struct {
	start time.Time
}

// NewTimer creates a timer starting now
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time on the given histogram
func (t *Timer) ObserveDuration(h prometheus.Histogram) {
	h.Observe(t.Duration().Seconds())
}
