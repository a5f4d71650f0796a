// Package tsuid extracts stable time-series identifiers (TSUIDs) from
// OpenTSDB-style composite row keys.
//
// A composite row key interleaves a fixed-width metric identifier with a
// fixed-width timestamp, followed by the tag identifier bytes:
//
//	[metric: Wm bytes][timestamp: Wt bytes][tags: remaining bytes]
//
// The TSUID is what remains when the timestamp field is cut out: the metric
// prefix concatenated with the tag suffix. Its canonical human-readable form
// is the uppercase hex string produced by Encode, which doubles as a sortable
// lookup key.
//
// The segment widths are deployment constants carried by a Layout value
// (3-byte metric, 4-byte timestamp by default). Both sides of a deployment
// must agree on them out-of-band; they are configuration, not protocol.
//
// All functions are pure and safe for concurrent use. Every extraction
// returns a freshly allocated buffer, never a view into the caller's key.
package tsuid
