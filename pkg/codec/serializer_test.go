package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		metric string
		tags   map[string]string
		uid    []byte
	}{
		{
			name:   "reference record",
			metric: "sys.cpu",
			tags:   map[string]string{"host": "a", "dc": "east"},
			uid:    []byte{0xDE, 0xAD, 0xBE, 0xEF},
		},
		{
			name:   "single tag",
			metric: "net.bytes.in",
			tags:   map[string]string{"iface": "eth0"},
			uid:    []byte{0x00},
		},
		{
			name:   "many tags unsorted input",
			metric: "app.latency",
			tags: map[string]string{
				"zone": "a", "host": "web01", "dc": "east",
				"app": "api", "env": "prod", "build": "1234",
			},
			uid: []byte{0x00, 0x01, 0xF5, 0x02, 0xA3},
		},
		{
			name:   "unicode metric and tags",
			metric: "température",
			tags:   map[string]string{"ville": "Montréal", "🌍": "🌡️"},
			uid:    []byte{0x42},
		},
		{
			name:   "long identifier",
			metric: "m",
			tags:   map[string]string{"k": "v"},
			uid:    bytes.Repeat([]byte{0xAB}, 300),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			original, err := NewTSMeta(tc.metric, tc.tags, tc.uid)
			if err != nil {
				t.Fatalf("NewTSMeta failed: %v", err)
			}

			encoded, err := Encode(original)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if !bytes.Equal(decoded.TSUID(), original.TSUID()) {
				t.Errorf("TSUID mismatch: got %v, want %v", decoded.TSUID(), original.TSUID())
			}
			if decoded.Metric() != original.Metric() {
				t.Errorf("Metric mismatch: got %q, want %q", decoded.Metric(), original.Metric())
			}
			got, want := decoded.Tags(), original.Tags()
			if len(got) != len(want) {
				t.Fatalf("tag count mismatch: got %d, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("tag[%d] mismatch: got %v, want %v", i, got[i], want[i])
				}
			}
			if !decoded.Equals(original) {
				t.Error("decoded record not equal to original")
			}
			if decoded.TSUIDHex() != original.TSUIDHex() {
				t.Errorf("hex mismatch: got %q, want %q", decoded.TSUIDHex(), original.TSUIDHex())
			}
		})
	}
}

func TestEncode_Layout(t *testing.T) {
	m, err := NewTSMeta("cpu", map[string]string{"h": "a"}, []byte{0xDE, 0xAD})
	if err != nil {
		t.Fatalf("NewTSMeta failed: %v", err)
	}
	encoded, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := []byte{
		0, 0, 0, 2, // tsuid length, int32 big-endian
		0xDE, 0xAD, // tsuid
		0, 3, 'c', 'p', 'u', // metric, uint16 length prefix
		0, 0, 0, 1, // tag count
		0, 1, 'h', // tag key
		0, 1, 'a', // tag value
	}
	if !bytes.Equal(encoded, want) {
		t.Errorf("Encode layout mismatch:\n got %v\nwant %v", encoded, want)
	}
}

func TestEncode_TagsSerializedKeySorted(t *testing.T) {
	m, err := NewTSMeta("m", map[string]string{"zz": "1", "aa": "2", "mm": "3"}, []byte{0x01})
	if err != nil {
		t.Fatalf("NewTSMeta failed: %v", err)
	}
	encoded, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// The tag keys must appear in sorted order in the byte stream.
	aa := bytes.Index(encoded, []byte("aa"))
	mm := bytes.Index(encoded, []byte("mm"))
	zz := bytes.Index(encoded, []byte("zz"))
	if aa == -1 || mm == -1 || zz == -1 || !(aa < mm && mm < zz) {
		t.Errorf("tags not key-sorted in encoding: aa=%d mm=%d zz=%d", aa, mm, zz)
	}
}

func TestEncode_OversizedString(t *testing.T) {
	m, err := NewTSMeta(strings.Repeat("x", 70000), map[string]string{"k": "v"}, []byte{0x01})
	if err != nil {
		t.Fatalf("NewTSMeta failed: %v", err)
	}
	if _, err := Encode(m); err == nil {
		t.Error("Encode accepted a metric longer than the 16-bit length prefix")
	}
}

func TestDecode_AbsentSlot(t *testing.T) {
	for _, blob := range [][]byte{nil, {}} {
		m, err := Decode(blob)
		if err != nil {
			t.Fatalf("Decode(%v) failed: %v", blob, err)
		}
		if m != nil {
			t.Errorf("Decode(%v) = %v, want no record", blob, m)
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	valid := func() []byte {
		m, err := NewTSMeta("sys.cpu", map[string]string{"host": "a"}, []byte{0xDE, 0xAD})
		if err != nil {
			t.Fatalf("NewTSMeta failed: %v", err)
		}
		b, err := Encode(m)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		return b
	}

	testCases := []struct {
		name string
		data []byte
	}{
		{
			name: "too short for tsuid length",
			data: []byte{0x00, 0x00},
		},
		{
			name: "declared tsuid length exceeds buffer",
			data: func() []byte {
				b := make([]byte, 6)
				binary.BigEndian.PutUint32(b, 100)
				return b
			}(),
		},
		{
			name: "truncated mid metric",
			data: valid()[:9],
		},
		{
			name: "truncated mid tags",
			data: func() []byte {
				b := valid()
				return b[:len(b)-3]
			}(),
		},
		{
			name: "tag count exceeds remaining bytes",
			data: func() []byte {
				b := valid()
				// Tag count sits right after the metric string.
				off := 4 + 2 + 2 + len("sys.cpu")
				binary.BigEndian.PutUint32(b[off:], 1<<30)
				return b
			}(),
		},
		{
			name: "trailing garbage",
			data: append(valid(), 0xFF),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			if !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("Decode error = %v, want ErrMalformedRecord", err)
			}
		})
	}
}

func BenchmarkEncode(b *testing.B) {
	m, err := NewTSMeta("sys.cpu.user", map[string]string{
		"host": "web01", "dc": "east", "env": "prod",
	}, []byte{0x00, 0x01, 0xF5, 0x02, 0xA3, 0x04, 0xB1})
	if err != nil {
		b.Fatalf("NewTSMeta failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(m); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	m, err := NewTSMeta("sys.cpu.user", map[string]string{
		"host": "web01", "dc": "east", "env": "prod",
	}, []byte{0x00, 0x01, 0xF5, 0x02, 0xA3, 0x04, 0xB1})
	if err != nil {
		b.Fatalf("NewTSMeta failed: %v", err)
	}
	encoded, err := Encode(m)
	if err != nil {
		b.Fatalf("Encode failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(encoded); err != nil {
			b.Fatal(err)
		}
	}
}
