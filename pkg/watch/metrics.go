// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package watch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/icmptrace/internal/traceroute"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

// metrics defines the metric collectors of the watch mode
type metrics struct {
	hops       *prometheus.GaugeVec
	reached    *prometheus.GaugeVec
	unanswered *prometheus.GaugeVec
	duration   *prometheus.HistogramVec
	runs       *prometheus.CounterVec
}

// newMetrics initializes metric collectors of the watch mode
func newMetrics() metrics {
	return metrics{
		hops: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "icmptrace_hops",
				Help: "Number of hops probed in the last trace. Equals the distance to the target if it was reached.",
			},
			[]string{"target"},
		),
		reached: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "icmptrace_reached",
				Help: "Specifies if the target answered the last trace with an echo reply.",
			},
			[]string{"target"},
		),
		unanswered: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "icmptrace_unanswered_hops",
				Help: "Number of hops without any reply in the last trace.",
			},
			[]string{"target"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "icmptrace_duration_seconds",
				Help:    "Histogram of the duration of the traces in seconds.",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"target"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "icmptrace_runs_total",
				Help: "Total number of traces to the target and if they were successful.",
			},
			[]string{"target", "status"},
		),
	}
}

// GetCollectors returns all metric collectors
func (m *metrics) GetCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.hops,
		m.reached,
		m.unanswered,
		m.duration,
		m.runs,
	}
}

// Set sets the metrics of one successful trace
func (m *metrics) Set(target string, hops []traceroute.Hop, duration time.Duration) {
	var reached, unanswered float64
	for _, h := range hops {
		if h.Reached {
			reached = 1
		}
		if !h.Answered() {
			unanswered++
		}
	}

	m.hops.WithLabelValues(target).Set(float64(len(hops)))
	m.reached.WithLabelValues(target).Set(reached)
	m.unanswered.WithLabelValues(target).Set(unanswered)
	m.duration.WithLabelValues(target).Observe(duration.Seconds())
	m.runs.WithLabelValues(target, statusSuccess).Inc()
}

// Failed counts a trace that ended with an error
func (m *metrics) Failed(target string) {
	m.runs.WithLabelValues(target, statusFailed).Inc()
}

// Remove removes the metrics of one target
func (m *metrics) Remove(target string) error {
	if m.runs.DeletePartialMatch(prometheus.Labels{"target": target}) == 0 {
		return ErrMetricNotFound{Label: target}
	}

	// A target whose traces all failed has no gauges yet.
	m.hops.DeleteLabelValues(target)
	m.reached.DeleteLabelValues(target)
	m.unanswered.DeleteLabelValues(target)
	m.duration.DeleteLabelValues(target)
	return nil
}
