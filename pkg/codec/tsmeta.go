package codec

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zuodh/OpenTSDBMeta/pkg/tsuid"
)

// ErrInvalidArgument is returned when a TSMeta is constructed with an empty
// metric, an empty tag map, or an empty identifier.
var ErrInvalidArgument = errors.New("codec: invalid TSMeta argument")

// Tag is one key/value pair of a series tag map.
type Tag struct {
	Key   string
	Value string
}

// TSMeta is an immutable time-series metadata record: metric name, tag map
// and the TSUID bytes identifying the series. The tag pairs are held sorted
// by key for the lifetime of the record, so iteration and serialization
// order is deterministic without sorting at use sites.
type TSMeta struct {
	metric string
	tags   []Tag
	uid    []byte
	uidHex string
}

// NewTSMeta validates and constructs a record. The metric is trimmed of
// surrounding whitespace, the tag map is copied into key-sorted
// order, and the identifier bytes are copied so the record never aliases a
// caller buffer. Validation failures return ErrInvalidArgument; a record is
// never partially constructed.
func NewTSMeta(metric string, tags map[string]string, uid []byte) (*TSMeta, error) {
	metric = strings.TrimSpace(metric)
	if metric == "" {
		return nil, fmt.Errorf("%w: metric is empty or blank", ErrInvalidArgument)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: tag map is empty", ErrInvalidArgument)
	}
	if len(uid) == 0 {
		return nil, fmt.Errorf("%w: tsuid is empty", ErrInvalidArgument)
	}

	sorted := make([]Tag, 0, len(tags))
	for k, v := range tags {
		sorted = append(sorted, Tag{Key: k, Value: v})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	owned := make([]byte, len(uid))
	copy(owned, uid)

	return &TSMeta{
		metric: metric,
		tags:   sorted,
		uid:    owned,
		uidHex: tsuid.Encode(owned),
	}, nil
}

// newTSMetaTrusted builds a record from already-canonical fields without
// re-running validation. Used by Decode under the trusted-store assumption.
func newTSMetaTrusted(metric string, tags []Tag, uid []byte) *TSMeta {
	return &TSMeta{
		metric: metric,
		tags:   tags,
		uid:    uid,
		uidHex: tsuid.Encode(uid),
	}
}

// Metric returns the trimmed metric name.
func (m *TSMeta) Metric() string {
	return m.metric
}

// Tags returns the tag pairs in key-sorted order. The returned slice is a
// copy; mutating it does not affect the record.
func (m *TSMeta) Tags() []Tag {
	out := make([]Tag, len(m.tags))
	copy(out, m.tags)
	return out
}

// TagMap returns the tags as a fresh map.
func (m *TSMeta) TagMap() map[string]string {
	out := make(map[string]string, len(m.tags))
	for _, t := range m.tags {
		out[t.Key] = t.Value
	}
	return out
}

// TSUID returns a copy of the identifier bytes.
func (m *TSMeta) TSUID() []byte {
	out := make([]byte, len(m.uid))
	copy(out, m.uid)
	return out
}

// TSUIDHex returns the cached uppercase hex rendering of the identifier.
func (m *TSMeta) TSUIDHex() string {
	return m.uidHex
}

// EqualsTSUID reports whether the record's identifier equals the given bytes.
func (m *TSMeta) EqualsTSUID(uid []byte) bool {
	return bytes.Equal(m.uid, uid)
}

// EqualsHex reports whether the record's identifier hex equals the given
// string. Comparison is exact; callers holding lowercase hex should decode
// and use EqualsTSUID.
func (m *TSMeta) EqualsHex(hex string) bool {
	return m.uidHex == hex
}

// Equals reports whether two records name the same series. Identity is
// defined solely by the identifier bytes; records with equal TSUIDs but
// different metric or tags are still equal.
func (m *TSMeta) Equals(other *TSMeta) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(m.uid, other.uid)
}

// String renders the record as "metric:k1=v1,k2=v2 (HEX)".
func (m *TSMeta) String() string {
	var b strings.Builder
	b.WriteString(m.metric)
	b.WriteByte(':')
	for i, t := range m.tags {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteString(" (")
	b.WriteString(m.uidHex)
	b.WriteByte(')')
	return b.String()
}

// CompareStorageOrder ranks two records by the lexicographic order of their
// TSUID hex strings. This is the order records take in the sorted persistent
// store, distinct from the byte-identity equality used for lookups.
func CompareStorageOrder(a, b *TSMeta) int {
	return strings.Compare(a.uidHex, b.uidHex)
}
