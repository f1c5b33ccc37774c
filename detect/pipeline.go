package detect

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/internal/xlog"
)

// Job is one unit of extraction work: run a named extractor against one
// piece of normalized input. The host (content-script bridge) enqueues one
// Job per DOM element, CSS declaration, attribute, network response, or
// page scan it wants processed.
type Job struct {
	Extractor string
	PageURL   string
	Input     interface{}
}

// Pipeline runs a batch of Jobs across a registered Extractor set
// concurrently, grounded on the per-mountpath jogger group's fan-out shape:
// many independent workers, one shared errgroup, results merged under a
// single lock. Unlike the jogger group, one job's error does not abort its
// siblings — a bad DOMElement shouldn't discard an otherwise-good batch, so
// per-job errors are logged and skipped rather than propagated.
type Pipeline struct {
	extractors map[string]Extractor
	parallel   int
}

// NewPipeline builds a Pipeline from a extractor set. parallel bounds how
// many Jobs run concurrently; values <= 0 fall back to 4.
func NewPipeline(extractors []Extractor, parallel int) *Pipeline {
	if parallel <= 0 {
		parallel = 4
	}
	m := make(map[string]Extractor, len(extractors))
	for _, e := range extractors {
		m[e.Name()] = e
	}
	return &Pipeline{extractors: m, parallel: parallel}
}

// DefaultPipeline wires up the five spec-named extractors (spec §2.5).
func DefaultPipeline(parallel int) *Pipeline {
	return NewPipeline([]Extractor{
		DOMExtractor{},
		CSSExtractor{},
		AttributeExtractor{},
		NetworkExtractor{},
		PredictedExtractor{},
	}, parallel)
}

// Run executes jobs concurrently, bounded by p.parallel, and returns every
// resource every job produced. Context cancellation stops dispatching new
// jobs and returns ctx.Err(); jobs already in flight are allowed to finish.
func (p *Pipeline) Run(ctx context.Context, jobs []Job) ([]*cluster.Resource, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	sema := make(chan struct{}, p.parallel)
	wg, gctx := errgroup.WithContext(ctx)

	var (
		mu  sync.Mutex
		out []*cluster.Resource
	)

	for i := range jobs {
		job := jobs[i]
		select {
		case sema <- struct{}{}:
		case <-gctx.Done():
			return out, gctx.Err()
		}
		wg.Go(func() error {
			defer func() { <-sema }()
			res, err := p.runOne(job)
			if err != nil {
				xlog.Warningf("detect: job %s failed: %v", job.Extractor, err)
				return nil
			}
			if len(res) == 0 {
				return nil
			}
			mu.Lock()
			out = append(out, res...)
			mu.Unlock()
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

func (p *Pipeline) runOne(job Job) ([]*cluster.Resource, error) {
	ex, ok := p.extractors[job.Extractor]
	if !ok {
		xlog.Warningf("detect: no extractor registered for %q", job.Extractor)
		return nil, nil
	}
	return ex.Extract(job.PageURL, job.Input)
}
