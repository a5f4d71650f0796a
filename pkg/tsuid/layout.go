package tsuid

import (
	"errors"
	"fmt"
)

// ErrInvalidKeyLength is returned when a composite row key is too short to
// contain the metric and timestamp segments the layout requires.
var ErrInvalidKeyLength = errors.New("tsuid: row key shorter than metric+timestamp segments")

// Layout describes the fixed-width segments of a composite row key. Widths
// are deployment constants; both the writer of the keys and this package must
// agree on them out-of-band.
type Layout struct {
	MetricWidth    int
	TimestampWidth int
}

// DefaultLayout matches the reference deployment: 3-byte metric identifier
// followed by a 4-byte timestamp.
var DefaultLayout = Layout{MetricWidth: 3, TimestampWidth: 4}

// Validate reports whether the layout widths are usable.
func (l Layout) Validate() error {
	if l.MetricWidth <= 0 {
		return fmt.Errorf("tsuid: metric width must be positive, got %d", l.MetricWidth)
	}
	if l.TimestampWidth <= 0 {
		return fmt.Errorf("tsuid: timestamp width must be positive, got %d", l.TimestampWidth)
	}
	return nil
}

// headerWidth is the combined width of the metric and timestamp segments.
func (l Layout) headerWidth() int {
	return l.MetricWidth + l.TimestampWidth
}

// ExtractTSUID cuts the timestamp segment out of a composite row key and
// returns the TSUID: metric prefix concatenated with the tag suffix, in a
// freshly allocated buffer of length len(rowKey)-TimestampWidth.
//
// A nil or empty row key yields (nil, nil); callers signal "no value" with an
// empty result rather than an error. A non-empty key shorter than
// MetricWidth+TimestampWidth returns ErrInvalidKeyLength.
func (l Layout) ExtractTSUID(rowKey []byte) ([]byte, error) {
	if len(rowKey) == 0 {
		return nil, nil
	}
	if len(rowKey) < l.headerWidth() {
		return nil, fmt.Errorf("%w: key is %d bytes, need at least %d",
			ErrInvalidKeyLength, len(rowKey), l.headerWidth())
	}
	uid := make([]byte, len(rowKey)-l.TimestampWidth)
	copy(uid, rowKey[:l.MetricWidth])
	copy(uid[l.MetricWidth:], rowKey[l.headerWidth():])
	return uid, nil
}

// ExtractTSUIDHex is ExtractTSUID followed by Encode. An empty row key
// yields the empty string.
func (l Layout) ExtractTSUIDHex(rowKey []byte) (string, error) {
	uid, err := l.ExtractTSUID(rowKey)
	if err != nil {
		return "", err
	}
	return Encode(uid), nil
}

// CompareRowKeys defines a total order over raw composite row keys that
// ignores the timestamp segment: the metric prefixes are compared as unsigned
// bytes, then the tag bytes after the timestamp, and a tie is broken by key
// length. Keys that differ only in their timestamp compare as equal, so a
// scan over the underlying store can treat all rows of one series as a single
// logical group.
//
// Both keys must contain the metric and timestamp segments; a nil key or one
// shorter than MetricWidth+TimestampWidth returns ErrInvalidKeyLength.
func (l Layout) CompareRowKeys(a, b []byte) (int, error) {
	if len(a) < l.headerWidth() {
		return 0, fmt.Errorf("%w: left key is %d bytes, need at least %d",
			ErrInvalidKeyLength, len(a), l.headerWidth())
	}
	if len(b) < l.headerWidth() {
		return 0, fmt.Errorf("%w: right key is %d bytes, need at least %d",
			ErrInvalidKeyLength, len(b), l.headerWidth())
	}
	for i := 0; i < l.MetricWidth; i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i]), nil
		}
	}
	limit := min(len(a), len(b))
	for i := l.headerWidth(); i < limit; i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i]), nil
		}
	}
	return len(a) - len(b), nil
}
