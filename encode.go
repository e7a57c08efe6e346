package snappy

import "encoding/binary"

// maxUncompressedLength is the format's length-field ceiling: the varint
// header is a 32-bit unsigned quantity.
const maxUncompressedLength = 1<<32 - 1

// inputMargin is the number of trailing bytes of a fragment that the match
// finder leaves unexamined by its main loop, so that the loop's 4-byte
// lookahead hash never reads past the fragment end.
const inputMargin = 15

// minNonLiteralFragmentSize is the smallest fragment the match finder will
// bother scanning for copies; anything shorter is emitted as one literal,
// since there isn't room for both a 4-byte match and the inputMargin.
const minNonLiteralFragmentSize = 1 + 1 + inputMargin

// MaxEncodedLen returns the largest number of bytes Encode could produce
// for an input of n bytes, or -1 if n is negative, larger than the
// format's 32-bit length field allows, or so large that the bound itself
// would exceed 2^32-1.
//
// The bound is the classic Snappy-family one: a varint-length header plus
// per-block overhead dominated by 1 tag byte per 6 bytes of literal data,
// summed across all blocks, happens to stay within 32 + n + n/6 regardless
// of how many block boundaries the input is split across.
func MaxEncodedLen(n int) int {
	if n < 0 {
		return -1
	}
	u := uint64(n)
	if u > maxUncompressedLength {
		return -1
	}
	total := 32 + u + u/6
	if total > maxUncompressedLength {
		return -1
	}
	return int(total)
}

// Encode compresses src and returns the result, using dst as storage if it
// is large enough. It is valid to pass a nil dst. The returned slice is the
// entire compressed blob: a varint length header followed by one or more
// fragments' worth of tokens, each fragment independently compressed
// against its own hash table but transparent to the decoder.
func Encode(dst, src []byte) []byte {
	need := MaxEncodedLen(len(src))
	if need < 0 {
		panic(ErrTooLarge)
	}
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:cap(dst)]

	d := len(appendVarint(dst[:0], uint32(len(src))))
	for len(src) > 0 {
		frag := src
		if len(frag) > blockSize {
			frag = frag[:blockSize]
		}
		d += encodeFragment(dst[d:], frag)
		src = src[len(frag):]
	}
	return dst[:d]
}

// EncodeSegments compresses the logical concatenation of segments and
// returns the result, using dst as storage if large enough. This is the
// gather-side counterpart of SegmentSink: compression has no invariant
// that requires avoiding the intermediate copy (only the decoder's scatter
// write is performance-sensitive per fragment boundary), so segments are
// flattened before compressing.
func EncodeSegments(dst []byte, segments [][]byte) []byte {
	total := 0
	for _, s := range segments {
		total += len(s)
	}
	flat := make([]byte, 0, total)
	for _, s := range segments {
		flat = append(flat, s...)
	}
	return Encode(dst, flat)
}

// encodeFragment compresses one fragment (at most blockSize bytes) into
// dst, which the caller guarantees is at least MaxEncodedLen(len(src))
// bytes. It returns the number of bytes written.
//
// The algorithm: hash every 4-byte window, look up the table for a prior
// position with the same fingerprint, and verify the candidate really does
// match before accepting it. On a miss, advance with a skip distance that
// grows the longer the fragment goes without a match, so incompressible
// input is scanned quickly. On a hit, emit the pending literal run
// followed by the extended copy, then keep matching copies back to back as
// long as the position right after each copy also starts a match.
func encodeFragment(dst, src []byte) int {
	n := len(src)
	if n < minNonLiteralFragmentSize {
		return emitLiteral(dst, src)
	}

	tableSize := hashTableSize(n)
	shift := hashShiftFor(tableSize)
	table := make([]uint16, tableSize)
	mask := uint32(tableSize - 1)

	sLimit := n - inputMargin
	nextEmit := 0
	s := 1
	nextHash := hash4(load32(src, s), shift)
	d := 0

	for {
		skip := 32
		nextS := s
		candidate := 0
		for {
			s = nextS
			bytesBetween := skip >> 5
			nextS = s + bytesBetween
			skip += bytesBetween
			if nextS > sLimit {
				goto emitRemainder
			}
			candidate = int(table[nextHash&mask])
			table[nextHash&mask] = uint16(s)
			nextHash = hash4(load32(src, nextS), shift)
			if load32(src, s) == load32(src, candidate) {
				break
			}
		}

		// src[nextEmit:s] did not take part in any match; emit as literal.
		d += emitLiteral(dst[d:], src[nextEmit:s])

		// Chain copies: each time a copy ends, check whether the very next
		// bytes also start a match before falling back to literal mode.
		for {
			base := s
			s += minMatchLength
			for s < n && src[candidate+(s-base)] == src[s] {
				s++
			}
			d += emitCopy(dst[d:], base-candidate, s-base)
			nextEmit = s
			if s >= sLimit {
				goto emitRemainder
			}

			if s+minMatchLength > n {
				break
			}
			prevHash := hash4(load32(src, s-1), shift)
			table[prevHash&mask] = uint16(s - 1)
			currHash := hash4(load32(src, s), shift)
			candidate = int(table[currHash&mask])
			table[currHash&mask] = uint16(s)
			if load32(src, candidate) != load32(src, s) {
				if s+1+minMatchLength <= n {
					nextHash = hash4(load32(src, s+1), shift)
				}
				s++
				break
			}
		}
	}

emitRemainder:
	if nextEmit < n {
		d += emitLiteral(dst[d:], src[nextEmit:])
	}
	return d
}

func load32(b []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(b[i : i+4])
}

// emitLiteral writes a literal token for lit and returns the bytes written.
// It assumes dst is long enough and 0 <= len(lit) <= 1<<32-1.
func emitLiteral(dst, lit []byte) int {
	if len(lit) == 0 {
		return 0
	}
	n := uint32(len(lit)) - 1
	i := 0
	switch {
	case n < 60:
		dst[0] = byte(n<<2) | tagLiteral
		i = 1
	case n < 1<<8:
		dst[0] = 60<<2 | tagLiteral
		dst[1] = byte(n)
		i = 2
	case n < 1<<16:
		dst[0] = 61<<2 | tagLiteral
		dst[1] = byte(n)
		dst[2] = byte(n >> 8)
		i = 3
	case n < 1<<24:
		dst[0] = 62<<2 | tagLiteral
		dst[1] = byte(n)
		dst[2] = byte(n >> 8)
		dst[3] = byte(n >> 16)
		i = 4
	default:
		dst[0] = 63<<2 | tagLiteral
		dst[1] = byte(n)
		dst[2] = byte(n >> 8)
		dst[3] = byte(n >> 16)
		dst[4] = byte(n >> 24)
		i = 5
	}
	return i + copy(dst[i:], lit)
}

// emitCopy writes a copy token for the given offset/length and returns the
// bytes written. It assumes 1 <= offset && 4 <= length.
//
// A single copy token can express at most length 64 (tagCopy2/tagCopy4) or
// 11 (tagCopy1), so a long match is chunked: lengths of 68 or more peel off
// 64-byte pieces, leaving a final piece no smaller than 4 (the chunking
// stops one piece early, at 60, specifically so the remainder is never
// 1-3 bytes, which no tag could express).
func emitCopy(dst []byte, offset, length int) int {
	i := 0
	for length >= 68 {
		i += emitCopy2(dst[i:], offset, 64)
		length -= 64
	}
	if length > 64 {
		i += emitCopy2(dst[i:], offset, 60)
		length -= 60
	}
	if length >= 12 || offset >= 2048 {
		return i + emitCopy2(dst[i:], offset, length)
	}
	return i + emitCopy1(dst[i:], offset, length)
}

// emitCopy1 writes the 2-byte copy form: length in [4,11], offset in
// [0,2047].
func emitCopy1(dst []byte, offset, length int) int {
	dst[0] = byte(offset>>8)<<5 | byte(length-4)<<2 | tagCopy1
	dst[1] = byte(offset)
	return 2
}

// emitCopy2 writes the 3-byte copy form for offsets that fit in 16 bits,
// falling back to the 5-byte form otherwise. Fragment-local compression
// never needs the 5-byte form (a fragment's offsets never exceed its own
// length, which is capped at blockSize), but it is here for callers that
// hand-assemble longer-range copies, and so every tag kind the decoder
// accepts has an encoder-side counterpart.
func emitCopy2(dst []byte, offset, length int) int {
	if offset < 1<<16 {
		dst[0] = byte(length-1)<<2 | tagCopy2
		dst[1] = byte(offset)
		dst[2] = byte(offset >> 8)
		return 3
	}
	dst[0] = byte(length-1)<<2 | tagCopy4
	dst[1] = byte(offset)
	dst[2] = byte(offset >> 8)
	dst[3] = byte(offset >> 16)
	dst[4] = byte(offset >> 24)
	return 5
}
