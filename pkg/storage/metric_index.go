package storage

import (
	"sort"
	"sync"
)

// metricIndex is an in-memory secondary index from metric name to the set of
// TSUID hex keys carrying that metric. It is rebuilt from the store on open
// and maintained on every write, so lookups never touch disk until the
// matched records are fetched.
type metricIndex struct {
	mu      sync.RWMutex
	entries map[string]map[string]struct{}
}

func newMetricIndex() *metricIndex {
	return &metricIndex{
		entries: make(map[string]map[string]struct{}),
	}
}

// Put adds a tsuid hex under the given metric.
func (idx *metricIndex) Put(metric, hex string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	set, ok := idx.entries[metric]
	if !ok {
		set = make(map[string]struct{})
		idx.entries[metric] = set
	}
	set[hex] = struct{}{}
}

// Delete removes a tsuid hex from the given metric's set.
func (idx *metricIndex) Delete(metric, hex string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	set, ok := idx.entries[metric]
	if !ok {
		return
	}
	delete(set, hex)
	if len(set) == 0 {
		delete(idx.entries, metric)
	}
}

// Lookup returns the tsuid hex keys for a metric in ascending order.
func (idx *metricIndex) Lookup(metric string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	set, ok := idx.entries[metric]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for hex := range set {
		out = append(out, hex)
	}
	sort.Strings(out)
	return out
}

// Metrics returns the distinct indexed metric names in ascending order.
func (idx *metricIndex) Metrics() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]string, 0, len(idx.entries))
	for metric := range idx.entries {
		out = append(out, metric)
	}
	sort.Strings(out)
	return out
}

// Size returns the number of distinct metrics in the index.
func (idx *metricIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.entries)
}
