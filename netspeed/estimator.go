// Package netspeed implements the Network-Speed Estimator (spec §4.6):
// rolling throughput averages feeding the Download Scheduler's
// factor_network and answering "best download time" queries.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package netspeed

import (
	"sync"
)

const defaultMbps = 1.0

// Sample is one completed download's observed throughput.
type Sample struct {
	Timestamp int64 // millis since epoch
	Mbps      float64
}

// maxSamples bounds the in-memory history; spec names no cap explicitly,
// so this follows the same "bounded ring, drop oldest" shape as the
// resumable store (spec §4.5) rather than growing unbounded across a long
// browsing session.
const maxSamples = 1000

// Estimator maintains the rolling history spec §4.6 names. It is the single
// writer of its own state (spec §5's "Network-Speed History" is one of the
// named single-writer resources); callers access it only through this API.
type Estimator struct {
	mu      sync.Mutex
	samples []Sample
}

func New() *Estimator {
	return &Estimator{}
}

// Record adds one completed download's throughput sample, computed from
// bytesReceived / elapsedSeconds (spec §4.6 Input).
func (e *Estimator) Record(timestamp int64, bytesReceived int64, elapsedSeconds float64) {
	if elapsedSeconds <= 0 {
		return
	}
	mbps := bytesToMbps(float64(bytesReceived), elapsedSeconds)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.samples = append(e.samples, Sample{Timestamp: timestamp, Mbps: mbps})
	if len(e.samples) > maxSamples {
		e.samples = e.samples[len(e.samples)-maxSamples:]
	}
}

func bytesToMbps(bytes, seconds float64) float64 {
	bitsPerSec := (bytes * 8) / seconds
	return bitsPerSec / 1_000_000
}

// Current implements spec §4.6's current(): average of the last 5
// completed downloads' speeds, defaulting to 1 Mbps with no data.
func (e *Estimator) Current() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.samples) == 0 {
		return defaultMbps
	}
	n := 5
	if n > len(e.samples) {
		n = len(e.samples)
	}
	recent := e.samples[len(e.samples)-n:]
	sum := 0.0
	for _, s := range recent {
		sum += s.Mbps
	}
	return sum / float64(n)
}
