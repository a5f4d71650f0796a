package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrMalformedRecord is returned when a serialized blob is truncated or its
// declared lengths are inconsistent with the bytes that follow.
var ErrMalformedRecord = errors.New("codec: malformed TSMeta encoding")

// Encode serializes a record into the binary format documented in the
// package comment. The output is a fresh buffer.
func Encode(m *TSMeta) ([]byte, error) {
	size := 4 + len(m.uid) + 2 + len(m.metric) + 4
	for _, t := range m.tags {
		size += 2 + len(t.Key) + 2 + len(t.Value)
	}

	buf := make([]byte, 0, size)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(m.uid)))
	buf = append(buf, m.uid...)

	var err error
	if buf, err = appendString(buf, m.metric); err != nil {
		return nil, fmt.Errorf("metric: %w", err)
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(m.tags)))
	for _, t := range m.tags {
		if buf, err = appendString(buf, t.Key); err != nil {
			return nil, fmt.Errorf("tag key %q: %w", t.Key, err)
		}
		if buf, err = appendString(buf, t.Value); err != nil {
			return nil, fmt.Errorf("tag value for %q: %w", t.Key, err)
		}
	}
	return buf, nil
}

// Decode reconstructs a record from its binary form. A nil or empty blob
// decodes to (nil, nil): the store represents deleted or absent slots with
// an empty value. Record invariants are not re-validated; the store is
// trusted to hold only blobs produced by Encode.
func Decode(data []byte) (*TSMeta, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := reader{data: data}
	uidLen, err := r.uint32()
	if err != nil {
		return nil, err
	}
	uid, err := r.bytes(int(uidLen))
	if err != nil {
		return nil, err
	}
	metric, err := r.str()
	if err != nil {
		return nil, err
	}
	tagCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if int(tagCount) > r.remaining()/4 {
		// Each tag needs at least two length prefixes; a count larger than
		// that cannot be satisfied by the remaining bytes.
		return nil, fmt.Errorf("%w: tag count %d exceeds remaining %d bytes",
			ErrMalformedRecord, tagCount, r.remaining())
	}
	tags := make([]Tag, 0, tagCount)
	for i := 0; i < int(tagCount); i++ {
		k, err := r.str()
		if err != nil {
			return nil, err
		}
		v, err := r.str()
		if err != nil {
			return nil, err
		}
		tags = append(tags, Tag{Key: k, Value: v})
	}
	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedRecord, r.remaining())
	}

	owned := make([]byte, len(uid))
	copy(owned, uid)
	return newTSMetaTrusted(metric, tags, owned), nil
}

// appendString writes a uint16 length prefix followed by the UTF-8 bytes.
func appendString(buf []byte, s string) ([]byte, error) {
	if len(s) > math.MaxUint16 {
		return nil, fmt.Errorf("string of %d bytes exceeds 16-bit length prefix", len(s))
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(s)))
	return append(buf, s...), nil
}

// reader walks a blob with bounds checking, turning any overrun into
// ErrMalformedRecord instead of a slice panic.
type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrMalformedRecord, n, r.off, r.remaining())
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) uint32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) uint16() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) str() (string, error) {
	n, err := r.uint16()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
