package dedup

import (
	"context"
	"sync"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/stats"
	"github.com/resourcesniffer/sniffercore/xaction"
)

// poolName is this package's xaction.Registry key (spec §6 Worker protocol
// "deduplicate" action).
const poolName = "deduplicate"

// Pool runs per-type partitions of Dedup's stage 2/3 algorithm concurrently,
// one of the "parallel threads for ... the deduplicator" spec §5 names.
type Pool struct {
	pool *xaction.Pool
	sink *stats.Sink
}

// NewPool registers (or reuses) the "deduplicate" pool in reg.
func NewPool(reg *xaction.Registry, parallel int, sink *stats.Sink) *Pool {
	return &Pool{pool: reg.Renew(poolName, parallel), sink: sink}
}

// Dispatch partitions records by type and runs resolveExact+
// similarityCluster for each partition concurrently, merging results under
// one lock. Equivalent to Dedup, but fans out across partitions instead of
// running them one at a time.
func (p *Pool) Dispatch(ctx context.Context, records []*cluster.Resource) (*Result, error) {
	byType := make(map[cmn.ResourceType][]*cluster.Resource, 4)
	for _, r := range records {
		byType[r.Type] = append(byType[r.Type], r)
	}

	var (
		mu  sync.Mutex
		res = &Result{}
	)

	tasks := make([]xaction.Task, 0, len(byType))
	for _, partition := range byType {
		part := partition
		tasks = append(tasks, func(context.Context) error {
			partial := &Result{}
			uniques := resolveExact(part, partial)
			similarityCluster(uniques, partial)

			mu.Lock()
			res.Uniques = append(res.Uniques, partial.Uniques...)
			res.Duplicates = append(res.Duplicates, partial.Duplicates...)
			res.Similars = append(res.Similars, partial.Similars...)
			mu.Unlock()
			return nil
		})
	}

	if err := p.pool.Run(ctx, tasks); err != nil {
		return res, err
	}
	p.sink.ResourcesDedupedTotal.WithLabelValues("duplicate").Add(float64(len(res.Duplicates)))
	p.sink.ResourcesDedupedTotal.WithLabelValues("similar").Add(float64(len(res.Similars)))
	return res, nil
}
