// Package cluster owns the per-tab Resource Graph: the authoritative,
// in-memory collection of discovered resources (spec §4.4), grounded on the
// teacher's cluster package, which likewise owns the cluster's authoritative
// maps (Smap, BMD) behind a narrow read/write API rather than exposing its
// internal structures.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package cluster

import (
	"github.com/resourcesniffer/sniffercore/cmn"
)

// ScoreDetail is one component of Resource.ScoreDetails (spec §3
// score_details: "mapping label->{score, value}").
type ScoreDetail struct {
	Score int         `json:"score"`
	Value interface{} `json:"value"`
}

// Resource is the canonical value type flowing through every pipeline (spec
// §3 Resource Record). Field names mirror the spec table; json tags use the
// spec's snake_case wire names since Resource Records cross the worker
// protocol boundary (spec §6 Worker protocol) as jsoniter-encoded messages.
type Resource struct {
	URL         string            `json:"url"`
	Type        cmn.ResourceType  `json:"type"`
	ContentType string            `json:"content_type,omitempty"`
	Source      cmn.SourceKind    `json:"source"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	hasDim bool

	SizeBytes    int64 `json:"size_bytes,omitempty"`
	hasSizeBytes bool

	Quality cmn.Quality `json:"quality"`

	Filename  string `json:"filename"`
	Timestamp int64  `json:"timestamp"` // monotonic millis since epoch

	IsStream           bool           `json:"is_stream"`
	StreamType         cmn.StreamType `json:"stream_type,omitempty"`
	IsPredicted        bool           `json:"is_predicted"`
	IsPredictedVariant bool           `json:"is_predicted_variant"`
	Confidence         float64        `json:"confidence,omitempty"`

	Score        int                    `json:"score,omitempty"`
	scored       bool
	ScoreDetails map[string]ScoreDetail `json:"score_details,omitempty"`

	Fingerprint string `json:"fingerprint,omitempty"`

	SimilarTo   string `json:"similar_to,omitempty"`
	DuplicateOf string `json:"duplicate_of,omitempty"`

	OriginalURL string `json:"original_url,omitempty"`
	RequestID   string `json:"request_id,omitempty"`

	// ContentHash, when present, backs the content_hash arm of
	// resource_fingerprint (spec §4.1).
	ContentHash string `json:"content_hash,omitempty"`
}

// SetDims records known pixel dimensions; HasDims reports whether they were
// ever set, distinguishing "0x0 observed" from "unknown" per spec's
// "optional" fields.
func (r *Resource) SetDims(w, h int) { r.Width, r.Height, r.hasDim = w, h, true }
func (r *Resource) HasDims() bool    { return r.hasDim }

func (r *Resource) SetSizeBytes(n int64) { r.SizeBytes, r.hasSizeBytes = n, true }
func (r *Resource) HasSizeBytes() bool   { return r.hasSizeBytes }

func (r *Resource) SetScore(n int) { r.Score, r.scored = n, true }
func (r *Resource) Scored() bool   { return r.scored }

// Area returns width*height, or 0 if dimensions are unknown.
func (r *Resource) Area() int64 {
	if !r.hasDim {
		return 0
	}
	return int64(r.Width) * int64(r.Height)
}

// TextualQuality derives the presentation {high,medium,low,unknown} set from
// the stored band, per SPEC_FULL.md Open Question 1.
func (r *Resource) TextualQuality() string {
	switch r.Quality {
	case cmn.QualityHD:
		return "high"
	case cmn.QualitySD:
		return "medium"
	case cmn.QualityLD:
		return "low"
	default:
		return "unknown"
	}
}

// cmn.ResourceFingerprinter implementation, keeping the fingerprint
// algorithm itself (spec §4.1) independent of this package's field layout.
func (r *Resource) FingerprintURL() string         { return r.URL }
func (r *Resource) FingerprintContentHash() string { return r.ContentHash }
func (r *Resource) FingerprintType() string        { return string(r.Type) }
func (r *Resource) FingerprintSizeBytes() int64     { return r.SizeBytes }
func (r *Resource) FingerprintDims() (int, int, bool) {
	return r.Width, r.Height, r.hasDim
}

// EnsureFingerprint computes and stores Fingerprint if absent (spec §4.4
// add/merge needs this before any map insert), returning the value either
// way.
func (r *Resource) EnsureFingerprint() string {
	if r.Fingerprint == "" {
		r.Fingerprint = cmn.ResourceFingerprint(r)
	}
	return r.Fingerprint
}

// Clone returns a deep-enough copy for safe cross-goroutine handoff (the
// analyzer and dedup workers each receive their own copy rather than
// sharing the graph's value, matching spec §5's single-writer-owns-state
// rule: workers never mutate the graph's copy directly).
func (r *Resource) Clone() *Resource {
	cp := *r
	if r.ScoreDetails != nil {
		cp.ScoreDetails = make(map[string]ScoreDetail, len(r.ScoreDetails))
		for k, v := range r.ScoreDetails {
			cp.ScoreDetails[k] = v
		}
	}
	return &cp
}
