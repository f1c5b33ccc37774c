package analyzer

import (
	"context"
	"time"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/stats"
	"github.com/resourcesniffer/sniffercore/xaction"
)

// poolName is this package's xaction.Registry key (spec §6 Worker protocol
// "analyze" action).
const poolName = "analyze"

// Listener receives one Result per completed analysis. Analyzer tasks are
// fire-and-forget (spec §5): if ctx is already cancelled by the time a task
// finishes, Dispatch drops the result instead of calling Listener, matching
// "a cancelled task's result is dropped silently when delivered".
type Listener func(*Result)

// Pool runs Analyze across a worker pool registered in reg, posting each
// completed analysis to on.
type Pool struct {
	pool *xaction.Pool
	sink *stats.Sink
}

// NewPool registers (or reuses) the "analyze" pool in reg, bounded to
// parallel concurrent analyses.
func NewPool(reg *xaction.Registry, parallel int, sink *stats.Sink) *Pool {
	return &Pool{pool: reg.Renew(poolName, parallel), sink: sink}
}

// Dispatch analyzes every record concurrently, invoking on for each
// surviving result. It blocks until every task has been attempted;
// individual analysis failures can't happen (Analyze never errors), but the
// signature matches xaction.Task's contract for consistency with dedup/
// detect's pool usage.
func (p *Pool) Dispatch(ctx context.Context, records []*cluster.Resource, on Listener) error {
	tasks := make([]xaction.Task, len(records))
	for i := range records {
		r := records[i]
		tasks[i] = func(taskCtx context.Context) error {
			start := time.Now()
			res := Analyze(r)
			p.sink.AnalysisLatencySec.Observe(time.Since(start).Seconds())
			select {
			case <-taskCtx.Done():
				return nil // dropped silently per spec §5 Cancellation
			default:
				on(res)
				return nil
			}
		}
	}
	return p.pool.Run(ctx, tasks)
}
