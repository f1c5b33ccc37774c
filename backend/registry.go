// Package backend implements the Protocol Adapter Registry (spec §4.7): a
// dispatch table selecting a probe/fetch/download strategy per URL scheme,
// grounded on the teacher's ais/backend package, which dispatches storage
// operations to a per-bucket-provider implementation of a shared interface
// the same way.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package backend

import (
	"context"
	"net/url"
	"strings"

	"github.com/resourcesniffer/sniffercore/cmn"
)

// ProbeResult is the adapter-agnostic result of Adapter.Probe.
type ProbeResult struct {
	Type        cmn.ResourceType
	ContentType string
	Size        int64
	SizeKnown   bool
	Available   bool
}

// FetchOptions/DownloadOptions carry the handful of knobs every adapter
// needs; kept as one shared struct rather than per-adapter option types so
// the registry's dispatch signature stays uniform.
type FetchOptions struct {
	RangeStart int64 // 0 means "from the start"; >0 requests a byte-range resume (spec §4.5)
}

type DownloadOptions struct {
	FetchOptions
	// OnChunk is invoked with each chunk read from the network, after it is
	// written to disk, giving the Download Scheduler's speed limiter (spec
	// §4.5, §9 REDESIGN FLAG) a single point to gate throughput by delaying
	// the next chunk write.
	OnChunk func(n int) error
}

// FetchResult carries a fetched body plus the metadata the scheduler needs
// to decide quality/size (spec §4.2 Analyzer inputs).
type FetchResult struct {
	Body        []byte
	ContentType string
}

// Adapter is the strategy interface every scheme implements (spec §4.7
// table). Grounded on cluster.BackendProvider in the teacher: a small
// interface, one implementation per concrete thing being dispatched on.
type Adapter interface {
	CanHandle(rawURL string) bool
	Probe(ctx context.Context, rawURL string) (ProbeResult, error)
	Fetch(ctx context.Context, rawURL string, opts FetchOptions) (FetchResult, error)
	// Download streams rawURL to disk at destPath and returns a download id
	// for adapters that hand off to a platform downloader rather than
	// streaming inline; ws/wss returns ErrAdapterUnsupported (spec §4.7
	// table: "not supported"). The data: adapter decodes the payload and
	// reports its length through OnChunk; it does not write destPath.
	Download(ctx context.Context, rawURL, destPath string, opts DownloadOptions) (string, error)
}

// Registry is the scheme -> Adapter dispatch table (spec §4.7). Unregistered
// schemes yield a well-defined ErrAdapterUnsupported failure rather than a
// nil-adapter panic (spec §4.7 Failure, §7 AdapterUnsupported).
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds a registry with the four built-in adapters (spec §4.7
// table: http/https, data, blob, ws/wss) wired in, matching the teacher's
// practice of registering all built-in providers in one constructor
// (`ais/backend` providers are assembled once at target startup).
func NewRegistry(client HTTPDoer) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	httpAdapter := NewHTTPAdapter(client)
	r.Register("http", httpAdapter)
	r.Register("https", httpAdapter)
	r.Register("data", NewDataAdapter())
	r.Register("blob", NewBlobAdapter(client))
	wsAdapter := NewWSAdapter()
	r.Register("ws", wsAdapter)
	r.Register("wss", wsAdapter)
	return r
}

func (r *Registry) Register(scheme string, a Adapter) { r.adapters[scheme] = a }

// For looks up the adapter for rawURL's scheme, returning ErrAdapterUnsupported
// when none is registered (spec §4.7 Failure).
func (r *Registry) For(rawURL string) (Adapter, error) {
	scheme := schemeOf(rawURL)
	a, ok := r.adapters[scheme]
	if !ok {
		return nil, cmn.AdapterUnsupportedf("scheme %q", scheme)
	}
	return a, nil
}

func schemeOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" {
		return strings.ToLower(u.Scheme)
	}
	if i := strings.Index(rawURL, ":"); i > 0 {
		return strings.ToLower(rawURL[:i])
	}
	return ""
}
