package downloader

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/resourcesniffer/sniffercore/backend"
	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/internal/xatomic"
	"github.com/resourcesniffer/sniffercore/internal/xlog"
	"github.com/resourcesniffer/sniffercore/netspeed"
	"github.com/resourcesniffer/sniffercore/stats"
)

const (
	maxRetries       = 3
	retryBaseDelay   = 1 * time.Second
)

// Scheduler drives records to disk subject to the concurrency cap,
// priority ordering, speed limit, conflict resolution, and pause/resume
// rules of spec §4.5. It is the single writer of download state (spec §5);
// every exported method is safe for concurrent callers, serialized behind
// mu the same way cluster.Graph serializes tab-graph mutation.
type Scheduler struct {
	mu sync.Mutex

	adapters  *backend.Registry
	speed     *netspeed.Estimator
	resumable *ResumableStore
	limiter   *Limiter
	sink      *stats.Sink

	queue       *Queue
	inProgress  map[string]*Download
	history     []*Download
	cancelFuncs map[string]context.CancelFunc
	activeByFP  map[string]string // fingerprint -> download id, spec §4.5 single-active-per-fingerprint
	inProgressN xatomic.Int32
}

// NewScheduler wires a Scheduler from its collaborators (spec §9 Design
// Note "avoid hidden globals": every dependency is constructor-injected).
func NewScheduler(adapters *backend.Registry, speed *netspeed.Estimator, resumable *ResumableStore, sink *stats.Sink) *Scheduler {
	cfg := cmn.GCO.Get()
	return &Scheduler{
		adapters:    adapters,
		speed:       speed,
		resumable:   resumable,
		limiter:     NewLimiter(cfg.DownloadSpeedLimitKBs),
		sink:        sink,
		queue:       NewQueue(),
		inProgress:  make(map[string]*Download),
		cancelFuncs: make(map[string]context.CancelFunc),
		activeByFP:  make(map[string]string),
	}
}

// Enqueue implements spec §6 DOWNLOAD_RESOURCE/BATCH_DOWNLOAD_RESOURCES:
// derive a filename, compute priority, and add the download to the queue,
// unless its fingerprint already has a non-terminal download in flight
// (spec §4.5 Failure semantics), in which case the enqueue is ignored and
// ok is false.
func (s *Scheduler) Enqueue(r *cluster.Resource, opts Options) (d *Download, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp := r.EnsureFingerprint()
	if existingID, busy := s.activeByFP[fp]; busy {
		if existing, found := s.inProgress[existingID]; found && !existing.State.terminal() {
			return nil, false
		}
	}

	cfg := cmn.GCO.Get()
	filename := DeriveFilename(r, opts.FilenameFormat, cfg.CustomFilenameTemplate, opts.Index)
	filename = ResolveConflict(filename, s.nameTaken)

	d = &Download{
		ID:          cmn.GenID(),
		URL:         r.URL,
		Filename:    filename,
		Fingerprint: fp,
		Type:        r.Type,
		Quality:     r.Quality,
		Score:       r.Score,
		State:       StateQueued,
		TotalBytes:  r.SizeBytes,
		MimeType:    r.ContentType,
		AddedTime:   nowMillis(),
	}
	d.Priority = Priority(d, s.speed.Current())
	s.queue.Enqueue(d, d.Priority)
	s.activeByFP[fp] = d.ID
	xlog.Infof("downloader: queued %s (%s) priority=%.2f", d.ID, d.URL, d.Priority)

	s.promoteLocked()
	s.sink.QueueDepth.Set(float64(s.queue.Len()))
	return d, true
}

// nameTaken reports whether filename is already used by an in-flight
// download, the conflict predicate ResolveConflict needs.
func (s *Scheduler) nameTaken(name string) bool {
	for _, d := range s.inProgress {
		if d.Filename == name {
			return true
		}
	}
	return false
}

// promoteLocked starts queued downloads until the concurrency cap (spec
// §4.5, default 2, range 1-10) is reached. Caller must hold mu.
func (s *Scheduler) promoteLocked() {
	maxConcurrent := cmn.GCO.Get().MaxConcurrentDownloads
	for int(s.inProgressN.Load()) < maxConcurrent {
		d := s.queue.Pop()
		if d == nil {
			return
		}
		s.startLocked(d)
	}
}

func (s *Scheduler) startLocked(d *Download) {
	d.State = StateInProgress
	d.StartedTime = nowMillis()
	s.inProgress[d.ID] = d
	s.inProgressN.Inc()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFuncs[d.ID] = cancel
	go s.run(ctx, d)
}

// run performs the actual transfer with retry/backoff (spec §4.5 "Network
// errors are retried at most 3 times with exponential backoff 1s/2s/4s,
// then marked interrupted"). Runs on its own goroutine per in-progress
// download; state transitions are re-taken under mu (spec §5 "linearizable
// per download-id").
func (s *Scheduler) run(ctx context.Context, d *Download) {
	cfg := cmn.GCO.Get()
	destPath := filepath.Join(cfg.DefaultPath, d.Filename)

	adapter, err := s.adapters.For(d.URL)
	if err != nil {
		s.finishInterrupted(d, err.Error())
		return
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryBaseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
		}

		_, err := adapter.Download(ctx, d.URL, destPath, backend.DownloadOptions{
			FetchOptions: backend.FetchOptions{RangeStart: d.BytesReceived},
			OnChunk: func(n int) error {
				s.limiter.Wait(n)
				s.mu.Lock()
				d.BytesReceived += int64(n)
				s.mu.Unlock()
				return nil
			},
		})
		if err == nil {
			s.finishComplete(d)
			return
		}
		if ctx.Err() != nil {
			return // cancelled, not a network failure
		}
		lastErr = err
		d.Retries++
		xlog.Warningf("downloader: %s attempt %d failed: %v", d.ID, attempt+1, err)
	}

	s.finishInterrupted(d, lastErr.Error())
}

func (s *Scheduler) finishComplete(d *Download) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.State = StateComplete
	s.retireLocked(d)
	if err := s.resumable.Purge(d.ID); err != nil {
		xlog.Warningf("downloader: purge resumable entry %s: %v", d.ID, err)
	}
	if d.ResumeOf != "" {
		if err := s.resumable.Purge(d.ResumeOf); err != nil {
			xlog.Warningf("downloader: purge resumable entry %s: %v", d.ResumeOf, err)
		}
	}
	elapsed := float64(nowMillis()-d.StartedTime) / 1000
	s.speed.Record(nowMillis(), d.BytesReceived, elapsed)
	s.sink.DownloadsTotal.WithLabelValues(string(StateComplete)).Inc()
	s.sink.DownloadBytesTotal.Add(float64(d.BytesReceived))
	if elapsed > 0 {
		s.sink.DownloadThroughputBps.Set(float64(d.BytesReceived) / elapsed)
	}
	xlog.Infof("downloader: %s complete", d.ID)
}

func (s *Scheduler) finishInterrupted(d *Download, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.State = StateInterrupted
	d.LastError = reason
	s.retireLocked(d)
	if err := s.resumable.Put(ResumableEntry{
		DownloadID: d.ID, URL: d.URL, Filename: d.Filename,
		TotalBytes: d.TotalBytes, BytesReceived: d.BytesReceived,
		Mime: d.MimeType, Timestamp: nowMillis(),
	}); err != nil {
		xlog.Warningf("downloader: persist resumable entry %s: %v", d.ID, err)
	}
	s.sink.DownloadsTotal.WithLabelValues(string(StateInterrupted)).Inc()
	xlog.Warningf("downloader: %s interrupted: %s", d.ID, reason)
}

// retireLocked removes d from inProgress bookkeeping and promotes the next
// queued download. Caller must hold mu.
func (s *Scheduler) retireLocked(d *Download) {
	delete(s.inProgress, d.ID)
	delete(s.cancelFuncs, d.ID)
	if d.State.terminal() {
		delete(s.activeByFP, d.Fingerprint)
	}
	s.inProgressN.Dec()
	s.history = append(s.history, d)
	s.promoteLocked()
}

// Cancel implements spec §6 CANCEL_DOWNLOAD: atomic transition to
// cancelled from any non-terminal state (spec §5 Cancellation).
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.Remove(id) {
		s.sink.DownloadsTotal.WithLabelValues(string(StateCancelled)).Inc()
		s.sink.QueueDepth.Set(float64(s.queue.Len()))
		return true
	}
	d, ok := s.inProgress[id]
	if !ok || d.State.terminal() {
		return false
	}
	if cancel, ok := s.cancelFuncs[id]; ok {
		cancel()
	}
	d.State = StateCancelled
	if err := s.resumable.Purge(id); err != nil {
		xlog.Warningf("downloader: purge on cancel %s: %v", id, err)
	}
	s.retireLocked(d)
	s.sink.DownloadsTotal.WithLabelValues(string(StateCancelled)).Inc()
	return true
}

// Pause implements spec §6 PAUSE_DOWNLOAD: interrupts the network call
// (like Cancel) but persists the partial transfer for resume instead of
// discarding it.
func (s *Scheduler) Pause(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.inProgress[id]
	if !ok || d.State.terminal() {
		return false
	}
	if cancel, ok := s.cancelFuncs[id]; ok {
		cancel()
	}
	d.State = StatePaused
	if err := s.resumable.Put(ResumableEntry{
		DownloadID: d.ID, URL: d.URL, Filename: d.Filename,
		TotalBytes: d.TotalBytes, BytesReceived: d.BytesReceived,
		Mime: d.MimeType, Timestamp: nowMillis(),
	}); err != nil {
		xlog.Warningf("downloader: persist on pause %s: %v", id, err)
	}
	s.retireLocked(d)
	s.sink.DownloadsTotal.WithLabelValues(string(StatePaused)).Inc()
	return true
}

// Resume implements spec §6 RESUME_DOWNLOAD: a paused or interrupted
// download resumes under a brand-new download-id with an HTTP
// Range:bytes=N- request (spec §4.5).
func (s *Scheduler) Resume(id string) (*Download, bool) {
	entries, err := s.resumable.All()
	if err != nil {
		xlog.Warningf("downloader: load resumable store for resume %s: %v", id, err)
		return nil, false
	}
	var found *ResumableEntry
	for i := range entries {
		if entries[i].DownloadID == id {
			found = &entries[i]
			break
		}
	}
	if found == nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := &Download{
		ID:            cmn.GenID(),
		URL:           found.URL,
		Filename:      found.Filename,
		Type:          cmn.InferType(found.URL, found.Mime),
		State:         StateQueued,
		TotalBytes:    found.TotalBytes,
		BytesReceived: found.BytesReceived,
		MimeType:      found.Mime,
		AddedTime:     nowMillis(),
		ResumeOf:      id,
	}
	d.Priority = Priority(d, s.speed.Current())
	s.queue.Enqueue(d, d.Priority)
	s.promoteLocked()
	s.sink.QueueDepth.Set(float64(s.queue.Len()))
	return d, true
}

// QueueSnapshot returns a snapshot of queued downloads in priority order,
// followed by the in-progress ones (spec §6 GET_DOWNLOAD_QUEUE).
func (s *Scheduler) QueueSnapshot() []*Download {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.queue.Items()
	for _, d := range s.inProgress {
		out = append(out, d)
	}
	return out
}

// History returns completed/terminal downloads (spec §6 GET_DOWNLOAD_HISTORY).
func (s *Scheduler) History() []*Download {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Download, len(s.history))
	copy(out, s.history)
	return out
}

// UpdateSettings implements spec §6 UPDATE_DOWNLOAD_SETTINGS for the
// speed-limit knob; the concurrency cap is read fresh from cmn.GCO on every
// promoteLocked call, so no separate wiring is needed for it here.
func (s *Scheduler) UpdateSettings(speedLimitKBs int) {
	s.limiter.SetRateKBs(speedLimitKBs)
}

func nowMillis() int64 { return time.Now().UnixMilli() }
