// Package snappy implements a byte-oriented, general-purpose lossless
// compression codec optimized for speed over ratio.
//
// The wire format is a varint-encoded uncompressed length followed by a
// stream of tagged tokens: literals, which copy bytes verbatim from the
// compressed stream, and copies, which back-reference earlier output. The
// format carries no magic number, version byte, or checksum; any byte
// sequence that decodes according to the rules in this package is a valid
// block, and any encoder producing such a stream interoperates with any
// decoder in this package.
//
// # Basic usage
//
//	compressed := snappy.Encode(nil, data)
//	original, err := snappy.Decode(nil, compressed)
//
// Decompression can also target a pre-existing set of fixed-size buffers
// (an iovec-style scatter write) via UncompressToSegments, and a compressed blob can
// be checked for structural validity without allocating an output buffer
// via IsValidCompressed.
//
// # Concurrency
//
// All operations are synchronous and reentrant. Working memory (the
// compressor's hash table) is owned exclusively by the active call;
// independent calls on disjoint inputs may run concurrently.
package snappy
