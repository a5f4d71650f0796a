package tsuid

import "fmt"

// hexDigits is the canonical alphabet for TSUID hex strings. Uppercase is
// load-bearing: stored identifiers are keyed by these strings and the
// rendering must stay stable across versions.
const hexDigits = "0123456789ABCDEF"

// Encode returns the uppercase hex rendering of b, two characters per byte.
// A nil or empty input yields the empty string.
func Encode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0x0F]
	}
	return string(out)
}

// Decode is the inverse of Encode. It accepts upper- and lowercase digits so
// externally produced identifiers round-trip regardless of case. An empty
// string decodes to an empty slice.
func Decode(s string) ([]byte, error) {
	if len(s) == 0 {
		return []byte{}, nil
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("tsuid: odd-length hex string (%d chars)", len(s))
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		hi, ok := hexNibble(s[i])
		if !ok {
			return nil, fmt.Errorf("tsuid: invalid hex digit %q at index %d", s[i], i)
		}
		lo, ok := hexNibble(s[i+1])
		if !ok {
			return nil, fmt.Errorf("tsuid: invalid hex digit %q at index %d", s[i+1], i+1)
		}
		out[i/2] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
