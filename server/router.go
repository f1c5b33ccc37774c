// Package server is the inbound message router (spec §6): the single
// entry point a content-script/background-page bridge calls into, wiring
// together detect.Pipeline, analyzer.Pool, dedup.Pool, downloader.Scheduler
// and cluster.Graph behind one action-dispatch surface. Grounded on the
// teacher's ais/proxy.go request handlers, which likewise switch on a verb
// (there an HTTP method, here a message action) and translate domain errors
// into one response envelope rather than letting each handler write its own
// wire format.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package server

import (
	"context"
	"sync"

	"github.com/resourcesniffer/sniffercore/analyzer"
	"github.com/resourcesniffer/sniffercore/backend"
	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/dedup"
	"github.com/resourcesniffer/sniffercore/detect"
	"github.com/resourcesniffer/sniffercore/downloader"
	"github.com/resourcesniffer/sniffercore/internal/xlog"
	"github.com/resourcesniffer/sniffercore/netspeed"
	"github.com/resourcesniffer/sniffercore/stats"
	"github.com/resourcesniffer/sniffercore/xaction"
)

// Action is one of spec §6's Worker protocol message actions.
type Action string

const (
	ActionAddResource            Action = "ADD_RESOURCE"
	ActionAddDOMResources        Action = "ADD_DOM_RESOURCES"
	ActionAddPredictedResources  Action = "ADD_PREDICTED_RESOURCES"
	ActionGetResources           Action = "GET_RESOURCES"
	ActionClearResources         Action = "CLEAR_RESOURCES"
	ActionAnalyzeResource        Action = "ANALYZE_RESOURCE"
	ActionPredictResources       Action = "PREDICT_RESOURCES"
	ActionGetSimilarResources    Action = "GET_SIMILAR_RESOURCES"
	ActionGetResourceStats       Action = "GET_RESOURCE_STATS"
	ActionStreamingResource      Action = "STREAMING_RESOURCE"
	ActionDownloadResource       Action = "DOWNLOAD_RESOURCE"
	ActionBatchDownloadResources Action = "BATCH_DOWNLOAD_RESOURCES"
	ActionGetDownloadQueue       Action = "GET_DOWNLOAD_QUEUE"
	ActionGetDownloadHistory     Action = "GET_DOWNLOAD_HISTORY"
	ActionCancelDownload         Action = "CANCEL_DOWNLOAD"
	ActionPauseDownload          Action = "PAUSE_DOWNLOAD"
	ActionResumeDownload         Action = "RESUME_DOWNLOAD"
	ActionUpdateDownloadSettings Action = "UPDATE_DOWNLOAD_SETTINGS"
)

// Message is one inbound request (spec §6 Worker protocol: {action,
// tab_id, payload}).
type Message struct {
	Action  Action      `json:"action"`
	TabID   string      `json:"tab_id"`
	Payload interface{} `json:"payload,omitempty"`
}

// Response is the one envelope every handler returns, matching spec §6's
// "{success, error, ...data}" shape and the teacher's own convention of a
// single error-translation boundary instead of each handler writing raw
// HTTP status/body pairs.
type Response struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func ok(data interface{}) Response { return Response{Success: true, Data: data} }
func fail(err error) Response      { return Response{Success: false, Error: err.Error()} }
func failf(msg string) Response    { return Response{Success: false, Error: msg} }

// Core owns every collaborator a Message handler needs and is the single
// instance a browser-extension host constructs per running session, the
// same "one runner, many handlers hung off it" shape as the teacher's
// proxyrunner/targetrunner.
type Core struct {
	graph     *cluster.Graph
	detect    *detect.Pipeline
	analyzers *analyzer.Pool
	dedupers  *dedup.Pool
	scheduler *downloader.Scheduler
	speed     *netspeed.Estimator
}

// NewCore wires every collaborator from its own constructor (spec §9 Design
// Note: no hidden globals besides cmn.GCO); parallel bounds the worker pools
// detect/analyzer/dedup each use.
func NewCore(adapters *backend.Registry, resumable *downloader.ResumableStore, sink *stats.Sink, parallel int) *Core {
	reg := xaction.NewRegistry()
	speed := netspeed.New()
	return &Core{
		graph:     cluster.NewGraph(),
		detect:    detect.DefaultPipeline(parallel),
		analyzers: analyzer.NewPool(reg, parallel, sink),
		dedupers:  dedup.NewPool(reg, parallel, sink),
		scheduler: downloader.NewScheduler(adapters, speed, resumable, sink),
		speed:     speed,
	}
}

// Handle dispatches one Message to its handler, translating any returned
// error into the {success:false, error} shape instead of propagating raw
// Go errors across the protocol boundary.
func (c *Core) Handle(ctx context.Context, msg Message) Response {
	switch msg.Action {
	case ActionAddResource:
		return c.handleAddResource(msg)
	case ActionAddDOMResources, ActionAddPredictedResources:
		return c.handleAddMany(ctx, msg)
	case ActionGetResources:
		return ok(c.graph.Get(msg.TabID))
	case ActionClearResources:
		c.graph.Clear(msg.TabID)
		return ok(nil)
	case ActionAnalyzeResource:
		return c.handleAnalyzeResource(msg)
	case ActionPredictResources:
		return c.handlePredictResources(ctx, msg)
	case ActionGetSimilarResources:
		return c.handleGetSimilar(msg)
	case ActionGetResourceStats:
		return ok(c.graph.GetStats(msg.TabID))
	case ActionStreamingResource:
		return c.handleAddResource(msg) // spec §6: same shape as ADD_RESOURCE, is_stream already set by caller
	case ActionDownloadResource:
		return c.handleDownloadResource(msg)
	case ActionBatchDownloadResources:
		return c.handleBatchDownload(msg)
	case ActionGetDownloadQueue:
		return ok(c.scheduler.QueueSnapshot())
	case ActionGetDownloadHistory:
		return ok(c.scheduler.History())
	case ActionCancelDownload:
		return c.handleDownloadID(msg, c.scheduler.Cancel)
	case ActionPauseDownload:
		return c.handleDownloadID(msg, c.scheduler.Pause)
	case ActionResumeDownload:
		return c.handleResume(msg)
	case ActionUpdateDownloadSettings:
		return c.handleUpdateSettings(msg)
	default:
		xlog.Warningf("server: unknown action %q", msg.Action)
		return failf("unknown action: " + string(msg.Action))
	}
}

func (c *Core) handleAddResource(msg Message) Response {
	r, asserted := msg.Payload.(*cluster.Resource)
	if !asserted || r == nil {
		return fail(cmn.InvalidInputf("ADD_RESOURCE payload must be a resource"))
	}
	added := c.graph.Add(msg.TabID, r)
	return ok(map[string]interface{}{"added": added})
}

// handleAddMany implements ADD_DOM_RESOURCES/ADD_PREDICTED_RESOURCES: the
// payload already carries built Resource Records (spec §6 "{tab,
// records[]}"; DOM-traversal mechanics that produce them are out of this
// module's scope). Each batch is run through the analyzer and deduplicator
// worker pools before insertion, so invariants I2/I3 (scored, fingerprinted,
// deduped before the graph sees it) hold for bulk adds the same way
// ANALYZE_RESOURCE holds them for a single record.
func (c *Core) handleAddMany(ctx context.Context, msg Message) Response {
	records, asserted := msg.Payload.([]*cluster.Resource)
	if !asserted {
		return fail(cmn.InvalidInputf("%s payload must be a record batch", msg.Action))
	}
	enriched := c.analyzeAll(ctx, records)
	result, err := c.dedupers.Dispatch(ctx, enriched)
	if err != nil {
		return fail(cmn.WorkerErrorf("dedup pipeline: %v", err))
	}
	added := c.graph.AddMany(msg.TabID, result.Uniques)
	return ok(map[string]interface{}{"added": added, "total": len(records)})
}

// analyzeAll runs every record through the analyzer pool and collects the
// enriched records, preserving spec §7 WorkerError semantics: a record whose
// analysis task panics or is dropped by cancellation still makes it into the
// batch unenriched rather than disappearing.
func (c *Core) analyzeAll(ctx context.Context, records []*cluster.Resource) []*cluster.Resource {
	var mu sync.Mutex
	seen := make(map[string]bool, len(records))
	out := make([]*cluster.Resource, 0, len(records))
	for _, r := range records {
		seen[r.URL] = false
	}
	err := c.analyzers.Dispatch(ctx, records, func(res *analyzer.Result) {
		mu.Lock()
		seen[res.Record.URL] = true
		out = append(out, res.Record)
		mu.Unlock()
	})
	if err != nil {
		xlog.Warningf("server: analyze batch: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	for _, r := range records {
		if !seen[r.URL] {
			out = append(out, r) // spec §7 WorkerError: preserve unenriched
		}
	}
	return out
}

// handleAnalyzeResource implements ANALYZE_RESOURCE (spec §6 "{record} ->
// {ok, analysis}"): a standalone scoring call against a caller-supplied
// record, independent of whatever the tab's graph currently holds.
func (c *Core) handleAnalyzeResource(msg Message) Response {
	r, asserted := msg.Payload.(*cluster.Resource)
	if !asserted || r == nil {
		return fail(cmn.InvalidInputf("ANALYZE_RESOURCE payload must be a resource"))
	}
	return ok(analyzer.Analyze(r))
}

// predictRequest is the PREDICT_RESOURCES payload shape (spec §6 "{tab,
// url, html}"); url is carried separately from Message.TabID since the
// predictor resolves relative URLs against the page url, not the tab id.
type predictRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

func (c *Core) handlePredictResources(ctx context.Context, msg Message) Response {
	req, asserted := msg.Payload.(predictRequest)
	if !asserted {
		return fail(cmn.InvalidInputf("PREDICT_RESOURCES payload must be {url, html}"))
	}
	job := detect.Job{Extractor: "predicted", PageURL: req.URL, Input: detect.PredictedInput{HTML: req.HTML}}
	records, err := c.detect.Run(ctx, []detect.Job{job})
	if err != nil {
		return fail(cmn.WorkerErrorf("predict: %v", err))
	}
	added := c.graph.AddMany(msg.TabID, records)
	return ok(map[string]interface{}{"added": added, "records": records})
}

func (c *Core) handleGetSimilar(msg Message) Response {
	url, asserted := msg.Payload.(string)
	if !asserted {
		return fail(cmn.InvalidInputf("GET_SIMILAR_RESOURCES payload must be a url string"))
	}
	return ok(c.graph.GetSimilar(msg.TabID, url))
}

// handleDownloadResource implements DOWNLOAD_RESOURCE (spec §6 "{record,
// options} -> {ok, download_id}").
func (c *Core) handleDownloadResource(msg Message) Response {
	payload, asserted := msg.Payload.(downloadRequest)
	if !asserted || payload.Record == nil {
		return fail(cmn.InvalidInputf("DOWNLOAD_RESOURCE payload malformed"))
	}
	d, enqueued := c.scheduler.Enqueue(payload.Record, payload.Options)
	if !enqueued {
		return failf("a download for this resource is already in progress")
	}
	return ok(map[string]interface{}{"download_id": d.ID, "download": d})
}

// handleBatchDownload implements BATCH_DOWNLOAD_RESOURCES (spec §6
// "{records[], options} -> {ok, batch_id}"); one download_id per record is
// assigned by the scheduler, grouped here under a single batch_id the caller
// can use to correlate progress across the batch.
func (c *Core) handleBatchDownload(msg Message) Response {
	payload, asserted := msg.Payload.(batchDownloadRequest)
	if !asserted {
		return fail(cmn.InvalidInputf("BATCH_DOWNLOAD_RESOURCES payload malformed"))
	}
	started := make([]*downloader.Download, 0, len(payload.Records))
	skipped := 0
	for i, r := range payload.Records {
		opts := payload.Options
		opts.Index = i
		d, enqueued := c.scheduler.Enqueue(r, opts)
		if !enqueued {
			skipped++
			continue
		}
		started = append(started, d)
	}
	return ok(map[string]interface{}{"batch_id": cmn.GenID(), "started": started, "skipped": skipped})
}

// downloadRequest is the DOWNLOAD_RESOURCE payload shape (spec §6).
type downloadRequest struct {
	Record  *cluster.Resource  `json:"record"`
	Options downloader.Options `json:"options"`
}

// batchDownloadRequest is the BATCH_DOWNLOAD_RESOURCES payload shape (spec §6).
type batchDownloadRequest struct {
	Records []*cluster.Resource `json:"records"`
	Options downloader.Options  `json:"options"`
}

func (c *Core) handleDownloadID(msg Message, fn func(string) bool) Response {
	id, asserted := msg.Payload.(string)
	if !asserted {
		return fail(cmn.InvalidInputf("%s payload must be a download id string", msg.Action))
	}
	if !fn(id) {
		return failf("no such in-flight download: " + id)
	}
	return ok(nil)
}

func (c *Core) handleResume(msg Message) Response {
	id, asserted := msg.Payload.(string)
	if !asserted {
		return fail(cmn.InvalidInputf("RESUME_DOWNLOAD payload must be a download id string"))
	}
	d, found := c.scheduler.Resume(id)
	if !found {
		return failf("no resumable download for id: " + id)
	}
	return ok(d)
}

func (c *Core) handleUpdateSettings(msg Message) Response {
	kbs, asserted := msg.Payload.(int)
	if !asserted {
		return fail(cmn.InvalidInputf("UPDATE_DOWNLOAD_SETTINGS payload must be an int (kb/s, 0=unlimited)"))
	}
	c.scheduler.UpdateSettings(kbs)
	return ok(nil)
}

// SpeedAnalysis implements spec §4.6's operator-facing "best time to
// download" query, exposed to the router's cmd/sniffctl consumer even
// though it has no dedicated Message action of its own in spec §6's table.
func (c *Core) SpeedAnalysis() netspeed.Analysis {
	return c.speed.Analyze()
}

