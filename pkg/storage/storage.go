// Package storage persists TSMeta records in a sorted, disk-backed
// key-value store. Records are keyed by their uppercase TSUID hex string,
// so Pebble's default bytewise key order is exactly the record storage
// order defined by codec.CompareStorageOrder.
package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/zuodh/OpenTSDBMeta/pkg/codec"
	"github.com/zuodh/OpenTSDBMeta/pkg/tsuid"
)

// ErrNotFound is returned when no record exists for the requested TSUID.
var ErrNotFound = errors.New("storage: tsuid not found")

// MetaStore is a Pebble-backed cache of TSMeta records with an in-memory
// metric index on top.
type MetaStore struct {
	db  *pebble.DB
	idx *metricIndex
}

// Open opens or creates the store at the given path and rebuilds the metric
// index from the persisted records.
func Open(path string) (*MetaStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	s := &MetaStore{db: db, idx: newMetricIndex()}
	if err := s.rebuildIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MetaStore) rebuildIndex() error {
	records, err := s.Scan("", 0)
	if err != nil {
		return fmt.Errorf("storage: rebuild index: %w", err)
	}
	for _, m := range records {
		s.idx.Put(m.Metric(), m.TSUIDHex())
	}
	return nil
}

// Put serializes the record and writes it under its TSUID hex key.
func (s *MetaStore) Put(m *codec.TSMeta) error {
	// An overwrite may change the metric; unindex the old record first.
	if old, err := s.Get(m.TSUIDHex()); err == nil {
		s.idx.Delete(old.Metric(), old.TSUIDHex())
	}

	value, err := codec.Encode(m)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", m.TSUIDHex(), err)
	}
	if err := s.db.Set([]byte(m.TSUIDHex()), value, pebble.Sync); err != nil {
		return fmt.Errorf("storage: put %s: %w", m.TSUIDHex(), err)
	}
	s.idx.Put(m.Metric(), m.TSUIDHex())
	return nil
}

// Get looks up a record by its uppercase TSUID hex string.
func (s *MetaStore) Get(hex string) (*codec.TSMeta, error) {
	value, closer, err := s.db.Get([]byte(hex))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: get %s: %w", hex, err)
	}
	defer closer.Close()

	m, err := codec.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", hex, err)
	}
	if m == nil {
		// An empty value is a deleted/absent slot.
		return nil, ErrNotFound
	}
	return m, nil
}

// GetByTSUID looks up a record by raw identifier bytes.
func (s *MetaStore) GetByTSUID(uid []byte) (*codec.TSMeta, error) {
	return s.Get(tsuid.Encode(uid))
}

// Delete removes the record for the given TSUID hex, if any.
func (s *MetaStore) Delete(hex string) error {
	if old, err := s.Get(hex); err == nil {
		s.idx.Delete(old.Metric(), old.TSUIDHex())
	}
	if err := s.db.Delete([]byte(hex), pebble.Sync); err != nil {
		return fmt.Errorf("storage: delete %s: %w", hex, err)
	}
	return nil
}

// FindByMetric returns the records registered under a metric name, in
// ascending TSUID hex order.
func (s *MetaStore) FindByMetric(metric string) ([]*codec.TSMeta, error) {
	hexes := s.idx.Lookup(metric)
	out := make([]*codec.TSMeta, 0, len(hexes))
	for _, hex := range hexes {
		m, err := s.Get(hex)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Metrics returns the distinct metric names present in the store, in
// ascending order.
func (s *MetaStore) Metrics() []string {
	return s.idx.Metrics()
}

// Scan returns up to limit records whose TSUID hex starts with prefix, in
// ascending storage order. An empty prefix scans from the start; limit <= 0
// means no limit.
func (s *MetaStore) Scan(prefix string, limit int) ([]*codec.TSMeta, error) {
	opts := &pebble.IterOptions{}
	if prefix != "" {
		opts.LowerBound = []byte(prefix)
		opts.UpperBound = prefixUpperBound([]byte(prefix))
	}
	iter, err := s.db.NewIter(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: iterator: %w", err)
	}
	defer iter.Close()

	var out []*codec.TSMeta
	for valid := iter.First(); valid; valid = iter.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		m, err := codec.Decode(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("storage: decode %s: %w", iter.Key(), err)
		}
		if m == nil {
			continue
		}
		out = append(out, m)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("storage: scan: %w", err)
	}
	return out, nil
}

// Len counts live records. It walks the whole store; intended for stats and
// small deployments, not hot paths.
func (s *MetaStore) Len() (int, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return 0, fmt.Errorf("storage: iterator: %w", err)
	}
	defer iter.Close()

	n := 0
	for valid := iter.First(); valid; valid = iter.Next() {
		n++
	}
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("storage: count: %w", err)
	}
	return n, nil
}

// Close flushes and closes the underlying store.
func (s *MetaStore) Close() error {
	return s.db.Close()
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil // prefix is all 0xFF, no upper bound
}
