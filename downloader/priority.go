package downloader

import (
	"container/heap"

	"github.com/resourcesniffer/sniffercore/cmn"
)

// factorType/factorSize/factorNetwork implement spec §4.5's priority
// formula P = factor_type * factor_size * factor_network. archiveType has
// no corresponding cmn.ResourceType value (the Data Model's type enum is
// {image,video,audio,document,other}); the factor is kept for fidelity to
// the spec's literal table, and Priority applies it to any type missing
// from factorType, such as an empty Type (DESIGN.md).
var factorType = map[cmn.ResourceType]float64{
	cmn.TypeImage:    1.2,
	cmn.TypeVideo:    1.5,
	cmn.TypeAudio:    1.3,
	cmn.TypeDocument: 1.0,
	cmn.TypeOther:    0.7,
}

const factorArchive = 0.8

func sizeFactor(bytes int64) float64 {
	const mb = 1 << 20
	switch {
	case bytes < mb:
		return 1.3
	case bytes <= 10*mb:
		return 1.0
	default:
		return 0.7
	}
}

func networkFactor(mbps float64) float64 {
	switch {
	case mbps > 5:
		return 1.2
	case mbps >= 1:
		return 1.0
	default:
		return 0.5
	}
}

// Priority computes spec §4.5's P for a queued download given the current
// network estimate (factor_network, fed by the netspeed package).
func Priority(d *Download, networkMbps float64) float64 {
	ft, ok := factorType[d.Type]
	if !ok {
		ft = factorArchive
	}
	return ft * sizeFactor(d.TotalBytes) * networkFactor(networkMbps)
}

// queueItem is one heap entry: the download plus its priority snapshot at
// enqueue time (re-priced on every enqueue per spec §5's "re-sorted on
// every enqueue" guarantee — existing items keep their already-computed
// priority, matching "insertion order among equal priorities is preserved").
type queueItem struct {
	download *Download
	priority float64
	seq      int64 // insertion sequence, the FIFO tie-break key
	index    int   // heap.Interface bookkeeping
}

// priorityQueue is a max-heap on priority with FIFO tie-break by insertion
// sequence (spec §4.5 "max-heap ... FIFO tie-break by added_time").
type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority > pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}

func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*queueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// Queue wraps priorityQueue behind heap.Interface bookkeeping the scheduler
// doesn't need to see directly.
type Queue struct {
	items priorityQueue
	seq   int64
}

func NewQueue() *Queue {
	q := &Queue{}
	heap.Init(&q.items)
	return q
}

// Enqueue adds d at the given priority, assigning it the next FIFO
// sequence number.
func (q *Queue) Enqueue(d *Download, priority float64) {
	q.seq++
	heap.Push(&q.items, &queueItem{download: d, priority: priority, seq: q.seq})
}

// Pop removes and returns the highest-priority download, or nil if empty.
func (q *Queue) Pop() *Download {
	if q.items.Len() == 0 {
		return nil
	}
	item := heap.Pop(&q.items).(*queueItem)
	return item.download
}

func (q *Queue) Len() int { return q.items.Len() }

// Remove drops d from the queue if present (e.g. CANCEL_DOWNLOAD on a
// still-queued item), preserving heap invariants.
func (q *Queue) Remove(id string) bool {
	for i, item := range q.items {
		if item.download.ID == id {
			heap.Remove(&q.items, i)
			return true
		}
	}
	return false
}

// Items returns a snapshot of queued downloads in priority order without
// mutating the queue (spec §6 GET_DOWNLOAD_QUEUE).
func (q *Queue) Items() []*Download {
	cp := make(priorityQueue, len(q.items))
	copy(cp, q.items)
	heap.Init(&cp)
	out := make([]*Download, 0, len(cp))
	for cp.Len() > 0 {
		out = append(out, heap.Pop(&cp).(*queueItem).download)
	}
	return out
}
