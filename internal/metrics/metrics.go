// Package metrics exposes Prometheus counters and gauges for job and
// frame throughput, registered against the default registry and served
// over the control plane's /metrics endpoint.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every counter and gauge this binary exports.
type Metrics struct {
	JobsAccepted  prometheus.Counter
	JobsScheduled prometheus.Counter
	JobsCompleted prometheus.Counter
	JobsErrored   prometheus.Counter

	FramesDecoded *prometheus.CounterVec
	FramesDropped *prometheus.CounterVec

	JobsInFlight prometheus.Gauge
}

// New constructs and registers a Metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		JobsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groundstation_jobs_accepted_total",
			Help: "The total number of jobs accepted at ingress.",
		}),
		JobsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groundstation_jobs_scheduled_total",
			Help: "The total number of jobs successfully scheduled.",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groundstation_jobs_completed_total",
			Help: "The total number of passes completed without a fatal failure.",
		}),
		JobsErrored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groundstation_jobs_errored_total",
			Help: "The total number of jobs that ended in an Error status.",
		}),
		FramesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "groundstation_frames_decoded_total",
			Help: "The total number of HDLC frames successfully decoded, by satellite id.",
		}, []string{"satellite_id"}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "groundstation_frames_dropped_total",
			Help: "The total number of candidate frames dropped, by reason.",
		}, []string{"reason"}),
		JobsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "groundstation_jobs_in_flight",
			Help: "The current number of jobs that have not yet reached a terminal status.",
		}),
	}
	reg.MustRegister(
		m.JobsAccepted, m.JobsScheduled, m.JobsCompleted, m.JobsErrored,
		m.FramesDecoded, m.FramesDropped, m.JobsInFlight,
	)
	return m
}
