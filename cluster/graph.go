package cluster

import (
	"sort"
	"sync"

	"github.com/resourcesniffer/sniffercore/cmn"
)

// Stats is the result of Graph.GetStats: counts by type, source, and
// quality (spec §4.4 get_stats).
type Stats struct {
	ByType    map[string]int `json:"by_type"`
	BySource  map[string]int `json:"by_source"`
	ByQuality map[string]int `json:"by_quality"`
	Total     int            `json:"total"`
}

// tabGraph is one tab's ordered-by-insertion collection, keyed by URL (spec
// §3 invariant I1: url is unique within a tab).
type tabGraph struct {
	mu      sync.Mutex
	byURL   map[string]*Resource
	insertSeq []string // records first-insertion order; Get does not read it
}

func newTabGraph() *tabGraph {
	return &tabGraph{byURL: make(map[string]*Resource)}
}

// Graph is the per-tab Resource Graph (spec §4.4). It is the authoritative
// store: the single-writer core loop owns it (spec §5), but its exported
// methods are safe for concurrent callers the way the teacher's cluster
// package guards Smap access, since extractor and analyzer completions
// arrive from worker goroutines even though application-level ordering is
// serialized by the caller.
type Graph struct {
	mu   sync.RWMutex
	tabs map[string]*tabGraph
}

func NewGraph() *Graph {
	return &Graph{tabs: make(map[string]*tabGraph)}
}

func (g *Graph) tab(tabID string, create bool) *tabGraph {
	g.mu.RLock()
	t, ok := g.tabs[tabID]
	g.mu.RUnlock()
	if ok || !create {
		return t
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if t, ok = g.tabs[tabID]; ok {
		return t
	}
	t = newTabGraph()
	g.tabs[tabID] = t
	return t
}

// Add implements spec §4.4 add: inserts a new record, or merges into an
// existing one with the same URL (invariant I1), returning true iff a new
// record was inserted.
func (g *Graph) Add(tabID string, r *Resource) bool {
	t := g.tab(tabID, true)
	t.mu.Lock()
	defer t.mu.Unlock()
	existing, ok := t.byURL[r.URL]
	if !ok {
		cp := r.Clone()
		t.byURL[r.URL] = cp
		t.insertSeq = append(t.insertSeq, r.URL)
		return true
	}
	Merge(existing, r)
	return false
}

// AddMany implements spec §4.4 add_many, returning the count of newly
// inserted (non-merge) records.
func (g *Graph) AddMany(tabID string, rs []*Resource) int {
	added := 0
	for _, r := range rs {
		if g.Add(tabID, r) {
			added++
		}
	}
	return added
}

// Get implements spec §4.4 get: a snapshot sorted by score desc, ties by
// timestamp asc (spec invariant I5), computed fresh at call time over the
// current contents (spec §5 ordering guarantees).
func (g *Graph) Get(tabID string) []*Resource {
	t := g.tab(tabID, false)
	if t == nil {
		return nil
	}
	t.mu.Lock()
	out := make([]*Resource, 0, len(t.byURL))
	for _, r := range t.byURL {
		out = append(out, r.Clone())
	}
	t.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// GetStats implements spec §4.4 get_stats.
func (g *Graph) GetStats(tabID string) Stats {
	s := Stats{ByType: map[string]int{}, BySource: map[string]int{}, ByQuality: map[string]int{}}
	t := g.tab(tabID, false)
	if t == nil {
		return s
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.byURL {
		s.ByType[string(r.Type)]++
		s.BySource[string(r.Source)]++
		s.ByQuality[string(r.Quality)]++
		s.Total++
	}
	return s
}

// GetSimilar implements spec §4.4 get_similar: other records sharing the
// same url_fingerprint, or whose similar_to/duplicate_of points at url.
func (g *Graph) GetSimilar(tabID, url string) []*Resource {
	t := g.tab(tabID, false)
	if t == nil {
		return nil
	}
	target, ok := t.byURL[url]
	if !ok {
		return nil
	}
	targetFP := cmn.URLFingerprint(target.URL)

	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*Resource
	for u, r := range t.byURL {
		if u == url {
			continue
		}
		if r.SimilarTo == url || r.DuplicateOf == url {
			out = append(out, r.Clone())
			continue
		}
		if cmn.URLFingerprint(r.URL) == targetFP {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Clear implements spec §4.4 clear: drops the per-tab collection entirely.
func (g *Graph) Clear(tabID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.tabs, tabID)
}

// Lookup returns the live record for url within tabID, or nil. Used by the
// scheduler (per-fingerprint single-active-download check, spec §4.5) and
// by tests; it is the one accessor that does NOT clone, so callers must
// treat the result as read-only.
func (g *Graph) Lookup(tabID, url string) (*Resource, bool) {
	t := g.tab(tabID, false)
	if t == nil {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.byURL[url]
	return r, ok
}
