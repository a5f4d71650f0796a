// Package codec provides the TSMeta record and its binary serialization.
//
// A TSMeta names one time series: the metric name, the tag map, and the
// TSUID bytes that identify the series independently of any sample
// timestamp. Records are immutable once constructed and are persisted in a
// sorted key-value store keyed by their uppercase TSUID hex string.
//
// # Record Format
//
// Records are serialized in a binary format, big-endian throughout:
//
//	[TSUIDLen(int32)][TSUID][MetricLen(uint16)][Metric][TagCount(int32)]
//	then per tag, in key-sorted order:
//	[KeyLen(uint16)][Key][ValueLen(uint16)][Value]
//
// Strings are UTF-8 with a 16-bit length prefix. An empty blob decodes to
// "no record", which the surrounding store uses for deleted or absent slots.
//
// # Identity
//
// Two records are equal when their TSUID bytes are equal; metric and tags do
// not participate. The TSUID is the cache key, so a record fetched by
// identifier is by definition the record asked for. Storage order is the
// lexicographic order of the TSUID hex strings, which for uppercase hex
// coincides with bytewise order of the keys.
//
// # Thread Safety
//
// TSMeta values are immutable after construction and safe to share between
// goroutines. Encode and Decode allocate fresh buffers on every call.
package codec
