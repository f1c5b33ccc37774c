// Package stats is the Logging/Monitoring Sink (spec §2.11): structured
// counters/gauges/histograms for every pipeline stage, grounded on the
// teacher's stats package naming convention (".n" counter, ".ns" latency,
// ".size" bytes, ".bps" throughput), translated to Prometheus-valid metric
// names (Prometheus forbids dots) via the same suffix vocabulary spelled
// with underscores, and backed by github.com/prometheus/client_golang
// instead of the teacher's own StatsD-notifying runner.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "resource_sniffer"

// Sink bundles every metric the core emits. One Sink per process, injected
// into each package's worker-pool/dispatch constructor rather than reached
// through a global (spec §9 Design Note on avoiding hidden singletons).
type Sink struct {
	ResourcesAddedTotal   *prometheus.CounterVec   // by source
	ResourcesDedupedTotal *prometheus.CounterVec   // by outcome: duplicate|similar
	AnalysisLatencySec    prometheus.Histogram
	DownloadsTotal        *prometheus.CounterVec // by end state: complete, cancelled, paused or interrupted
	DownloadBytesTotal    prometheus.Counter
	DownloadThroughputBps prometheus.Gauge
	QueueDepth            prometheus.Gauge
}

// NewSink constructs a Sink and registers every metric against reg. Callers
// typically pass prometheus.NewRegistry() in tests and
// prometheus.DefaultRegisterer in production, matching the teacher's own
// separation between a runner's internal tracker and its exported registry.
func NewSink(reg prometheus.Registerer) *Sink {
	s := &Sink{
		ResourcesAddedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "resources_added_count", Help: "resources added to the graph, by source",
		}, []string{"source"}),
		ResourcesDedupedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "resources_deduped_count", Help: "resources removed from uniques by the deduplicator",
		}, []string{"outcome"}),
		AnalysisLatencySec: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "analysis_latency_seconds", Help: "time to score and enrich one resource",
			Buckets: prometheus.DefBuckets,
		}),
		DownloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "downloads_count", Help: "downloads reaching a terminal or interrupted state",
		}, []string{"state"}),
		DownloadBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "download_bytes_size", Help: "total bytes written across completed downloads",
		}),
		DownloadThroughputBps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "download_throughput_bps", Help: "most recent completed download's bytes/sec",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "download_queue_depth", Help: "downloads currently queued",
		}),
	}

	reg.MustRegister(
		s.ResourcesAddedTotal, s.ResourcesDedupedTotal, s.AnalysisLatencySec,
		s.DownloadsTotal, s.DownloadBytesTotal, s.DownloadThroughputBps, s.QueueDepth,
	)
	return s
}

// NewNopSink is the no-metrics stand-in tests and callers that don't care
// about monitoring can use, avoiding a nil-Sink check at every call site.
func NewNopSink() *Sink {
	return NewSink(prometheus.NewRegistry())
}
