// Package xaction is a generic worker-task registry shared by the
// analyzer, dedup, and detect packages' worker dispatch (spec §5
// "Scheduling model"), grounded on the teacher's xaction/xreg registry: a
// named-provider table with renew-or-reuse semantics, here generalized from
// "one xaction per bucket" to "one bounded worker pool per task kind".
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package xaction

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/resourcesniffer/sniffercore/internal/xlog"
)

// Task is one unit of dispatched work; Run's error is logged but never
// aborts sibling tasks (spec §5 "Analyzer tasks are fire-and-forget").
type Task func(ctx context.Context) error

// Pool runs Tasks with bounded concurrency, the shape every §5 worker kind
// (analyze/dedupe/detect) shares. One Pool per task kind, matching the
// teacher's one-xaction-per-name convention.
type Pool struct {
	name string
	sema chan struct{}
}

// NewPool builds a Pool named for logging/stats purposes (spec §2.11),
// bounded to parallel concurrent Tasks. parallel <= 0 falls back to 4.
func NewPool(name string, parallel int) *Pool {
	if parallel <= 0 {
		parallel = 4
	}
	return &Pool{name: name, sema: make(chan struct{}, parallel)}
}

// Run dispatches tasks concurrently and waits for all of them, mirroring
// the teacher's JoggerGroup.Run+Stop pairing collapsed into one call since
// callers here never need to observe in-flight Pools from elsewhere.
func (p *Pool) Run(ctx context.Context, tasks []Task) error {
	wg, gctx := errgroup.WithContext(ctx)
	for i := range tasks {
		t := tasks[i]
		select {
		case p.sema <- struct{}{}:
		case <-gctx.Done():
			return gctx.Err()
		}
		wg.Go(func() error {
			defer func() { <-p.sema }()
			if err := t(gctx); err != nil {
				xlog.Warningf("xaction[%s]: task failed: %v", p.name, err)
			}
			return nil
		})
	}
	return wg.Wait()
}

// Registry tracks one renewable Pool per named task kind, so repeated
// renew calls reuse the same bounded pool instead of spawning unbounded
// pools per invocation.
type Registry struct {
	mu    sync.Mutex
	pools map[string]*Pool
}

func NewRegistry() *Registry {
	return &Registry{pools: make(map[string]*Pool)}
}

// Renew returns the existing Pool registered for name, creating one bounded
// to parallel if none exists yet (spec §5's single shared pool per worker
// kind: analyze, dedupe, detect).
func (reg *Registry) Renew(name string, parallel int) *Pool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if p, ok := reg.pools[name]; ok {
		return p
	}
	p := NewPool(name, parallel)
	reg.pools[name] = p
	return p
}
