package tsuid

import (
	"bytes"
	"errors"
	"math/rand"
	"sort"
	"testing"
)

func TestLayout_ExtractTSUID(t *testing.T) {
	layout := DefaultLayout

	testCases := []struct {
		name    string
		rowKey  []byte
		want    []byte
		wantErr error
	}{
		{
			name:   "nil row key yields no value",
			rowKey: nil,
			want:   nil,
		},
		{
			name:   "empty row key yields no value",
			rowKey: []byte{},
			want:   nil,
		},
		{
			name: "reference vector",
			// prefix 0001F5, timestamp 00000064, suffix 02A3
			rowKey: []byte{0x00, 0x01, 0xF5, 0x00, 0x00, 0x00, 0x64, 0x02, 0xA3},
			want:   []byte{0x00, 0x01, 0xF5, 0x02, 0xA3},
		},
		{
			name:   "minimal key with no tag suffix",
			rowKey: []byte{0x00, 0x00, 0x01, 0x11, 0x22, 0x33, 0x44},
			want:   []byte{0x00, 0x00, 0x01},
		},
		{
			name:    "one byte short of the header",
			rowKey:  []byte{0x00, 0x00, 0x01, 0x11, 0x22, 0x33},
			wantErr: ErrInvalidKeyLength,
		},
		{
			name:    "single byte key",
			rowKey:  []byte{0x01},
			wantErr: ErrInvalidKeyLength,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := layout.ExtractTSUID(tc.rowKey)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ExtractTSUID error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractTSUID failed: %v", err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("ExtractTSUID = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLayout_ExtractTSUID_NoAliasing(t *testing.T) {
	layout := DefaultLayout
	rowKey := []byte{0x00, 0x01, 0xF5, 0x00, 0x00, 0x00, 0x64, 0x02, 0xA3}

	uid, err := layout.ExtractTSUID(rowKey)
	if err != nil {
		t.Fatalf("ExtractTSUID failed: %v", err)
	}

	// Mutating the row key must not change the extracted identifier.
	for i := range rowKey {
		rowKey[i] = 0xFF
	}
	want := []byte{0x00, 0x01, 0xF5, 0x02, 0xA3}
	if !bytes.Equal(uid, want) {
		t.Errorf("identifier aliases the row key: got %v, want %v", uid, want)
	}
}

func TestLayout_ExtractTSUIDHex(t *testing.T) {
	layout := DefaultLayout
	rowKey := []byte{0x00, 0x01, 0xF5, 0x00, 0x00, 0x00, 0x64, 0x02, 0xA3}

	hex, err := layout.ExtractTSUIDHex(rowKey)
	if err != nil {
		t.Fatalf("ExtractTSUIDHex failed: %v", err)
	}
	if hex != "0001F502A3" {
		t.Errorf("ExtractTSUIDHex = %q, want %q", hex, "0001F502A3")
	}

	hex, err = layout.ExtractTSUIDHex(nil)
	if err != nil {
		t.Fatalf("ExtractTSUIDHex(nil) failed: %v", err)
	}
	if hex != "" {
		t.Errorf("ExtractTSUIDHex(nil) = %q, want empty", hex)
	}
}

func TestLayout_ExtractTSUID_CustomWidths(t *testing.T) {
	layout := Layout{MetricWidth: 2, TimestampWidth: 6}
	rowKey := []byte{0xAA, 0xBB, 1, 2, 3, 4, 5, 6, 0xCC}

	uid, err := layout.ExtractTSUID(rowKey)
	if err != nil {
		t.Fatalf("ExtractTSUID failed: %v", err)
	}
	want := []byte{0xAA, 0xBB, 0xCC}
	if !bytes.Equal(uid, want) {
		t.Errorf("ExtractTSUID = %v, want %v", uid, want)
	}
}

func TestLayout_CompareRowKeys_TimestampInvariance(t *testing.T) {
	layout := DefaultLayout
	k1 := []byte{0x00, 0x01, 0xF5, 0x00, 0x00, 0x00, 0x64, 0x02, 0xA3}
	k2 := []byte{0x00, 0x01, 0xF5, 0xDE, 0xAD, 0xBE, 0xEF, 0x02, 0xA3}

	cmp, err := layout.CompareRowKeys(k1, k2)
	if err != nil {
		t.Fatalf("CompareRowKeys failed: %v", err)
	}
	if cmp != 0 {
		t.Errorf("keys differing only in timestamp compare as %d, want 0", cmp)
	}
}

func TestLayout_CompareRowKeys(t *testing.T) {
	layout := DefaultLayout

	key := func(prefix, ts, suffix []byte) []byte {
		k := append([]byte{}, prefix...)
		k = append(k, ts...)
		return append(k, suffix...)
	}
	ts := []byte{0, 0, 0, 1}

	testCases := []struct {
		name string
		a, b []byte
		want int // sign only
	}{
		{
			name: "metric prefix decides",
			a:    key([]byte{0, 0, 1}, ts, []byte{9}),
			b:    key([]byte{0, 0, 2}, ts, []byte{0}),
			want: -1,
		},
		{
			name: "prefix compares as unsigned bytes",
			a:    key([]byte{0, 0, 0x7F}, ts, nil),
			b:    key([]byte{0, 0, 0x80}, ts, nil),
			want: -1,
		},
		{
			name: "tag suffix decides after timestamp skip",
			a:    key([]byte{0, 0, 1}, []byte{9, 9, 9, 9}, []byte{0x01, 0x02}),
			b:    key([]byte{0, 0, 1}, []byte{0, 0, 0, 0}, []byte{0x01, 0x03}),
			want: -1,
		},
		{
			name: "suffix compares as unsigned bytes",
			a:    key([]byte{0, 0, 1}, ts, []byte{0xFF}),
			b:    key([]byte{0, 0, 1}, ts, []byte{0x00}),
			want: 1,
		},
		{
			name: "shorter key sorts first on shared prefix",
			a:    key([]byte{0, 0, 1}, ts, []byte{5}),
			b:    key([]byte{0, 0, 1}, ts, []byte{5, 6}),
			want: -1,
		},
		{
			name: "identical keys",
			a:    key([]byte{0, 0, 1}, ts, []byte{5, 6}),
			b:    key([]byte{0, 0, 1}, ts, []byte{5, 6}),
			want: 0,
		},
	}

	sign := func(n int) int {
		switch {
		case n < 0:
			return -1
		case n > 0:
			return 1
		}
		return 0
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := layout.CompareRowKeys(tc.a, tc.b)
			if err != nil {
				t.Fatalf("CompareRowKeys failed: %v", err)
			}
			if sign(got) != tc.want {
				t.Errorf("CompareRowKeys = %d, want sign %d", got, tc.want)
			}

			// Antisymmetry.
			rev, err := layout.CompareRowKeys(tc.b, tc.a)
			if err != nil {
				t.Fatalf("CompareRowKeys reversed failed: %v", err)
			}
			if sign(rev) != -tc.want {
				t.Errorf("CompareRowKeys reversed = %d, want sign %d", rev, -tc.want)
			}
		})
	}
}

func TestLayout_CompareRowKeys_ShortKeys(t *testing.T) {
	layout := DefaultLayout
	ok := []byte{0, 0, 1, 0, 0, 0, 1}

	for _, bad := range [][]byte{nil, {}, {1, 2, 3}, {1, 2, 3, 4, 5, 6}} {
		if _, err := layout.CompareRowKeys(bad, ok); !errors.Is(err, ErrInvalidKeyLength) {
			t.Errorf("CompareRowKeys(%v, ok) error = %v, want ErrInvalidKeyLength", bad, err)
		}
		if _, err := layout.CompareRowKeys(ok, bad); !errors.Is(err, ErrInvalidKeyLength) {
			t.Errorf("CompareRowKeys(ok, %v) error = %v, want ErrInvalidKeyLength", bad, err)
		}
	}
}

// TestLayout_CompareRowKeys_TotalOrder sorts random keys with the comparator
// and checks transitivity by verifying the result is totally ordered.
func TestLayout_CompareRowKeys_TotalOrder(t *testing.T) {
	layout := DefaultLayout
	rng := rand.New(rand.NewSource(42))

	keys := make([][]byte, 64)
	for i := range keys {
		k := make([]byte, layout.headerWidth()+rng.Intn(6))
		rng.Read(k)
		keys[i] = k
	}

	sort.SliceStable(keys, func(i, j int) bool {
		cmp, err := layout.CompareRowKeys(keys[i], keys[j])
		if err != nil {
			t.Fatalf("CompareRowKeys failed: %v", err)
		}
		return cmp < 0
	})

	for i := 1; i < len(keys); i++ {
		cmp, err := layout.CompareRowKeys(keys[i-1], keys[i])
		if err != nil {
			t.Fatalf("CompareRowKeys failed: %v", err)
		}
		if cmp > 0 {
			t.Fatalf("keys not totally ordered at %d: %v > %v", i, keys[i-1], keys[i])
		}
	}
}

func TestLayout_Validate(t *testing.T) {
	if err := DefaultLayout.Validate(); err != nil {
		t.Errorf("DefaultLayout invalid: %v", err)
	}
	if err := (Layout{MetricWidth: 0, TimestampWidth: 4}).Validate(); err == nil {
		t.Error("zero metric width accepted")
	}
	if err := (Layout{MetricWidth: 3, TimestampWidth: -1}).Validate(); err == nil {
		t.Error("negative timestamp width accepted")
	}
}
