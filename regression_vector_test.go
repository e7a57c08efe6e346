package snappy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These cases pin down the exact byte-level boundary behavior the format
// specifies: empty input, single-byte input, self-overlapping runs, and
// the zero-offset rejection rule. Where the format fixes Encode's output
// (empty and single-byte input) the bytes are asserted exactly; the other
// cases feed Decode the encoded form or a hand-built malformed variant.

func TestEmptyInput(t *testing.T) {
	got := Encode(nil, nil)
	assert.Equal(t, []byte{0x00}, got)

	out, err := Decode(nil, got)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSingleByteInput(t *testing.T) {
	got := Encode(nil, []byte("a"))
	assert.Equal(t, []byte{0x01, 0x00, 0x61}, got)

	out, err := Decode(nil, got)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), out)
}

func TestSelfOverlappingRun(t *testing.T) {
	// A run long enough to force a copy whose offset is smaller than its
	// length, exercising the self-overlap path in bufferSink.appendCopy.
	input := bytes.Repeat([]byte("x"), 200)
	enc := Encode(nil, input)
	out, err := Decode(nil, enc)
	require.NoError(t, err)
	assert.Equal(t, input, out)

	input2 := bytes.Repeat([]byte("ab"), 200)
	enc2 := Encode(nil, input2)
	out2, err := Decode(nil, enc2)
	require.NoError(t, err)
	assert.Equal(t, input2, out2)
}

func TestZeroOffsetCopyRejected(t *testing.T) {
	// Hand-build a stream: declared length 5, one literal "a", then a
	// copy token with offset 0 - which the format forbids regardless of
	// how it would otherwise decode.
	var buf []byte
	buf = appendVarint(buf, 5)
	buf = append(buf, 0x00, 0x61) // literal "a" (length 1)
	buf = append(buf, emitCopy1Bytes(0, 4)...)

	_, err := Decode(nil, buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}

// emitCopy1Bytes builds a raw 2-byte copy token without going through
// emitCopy1's offset-range assumptions, so a test can construct the
// otherwise-illegal zero-offset token.
func emitCopy1Bytes(offset, length int) []byte {
	return []byte{
		byte(offset>>8)<<5 | byte(length-4)<<2 | tagCopy1,
		byte(offset),
	}
}

func TestSegmentStraddle(t *testing.T) {
	input := bytes.Repeat([]byte("0123456789"), 15)[:143]
	enc := Encode(nil, input)

	sizes := []int{2, 1, 4, 8, 128}
	segs := make([][]byte, len(sizes))
	total := 0
	for i, s := range sizes {
		segs[i] = make([]byte, s)
		total += s
	}
	require.Equal(t, len(input), total)

	err := UncompressToSegments(segs, enc)
	require.NoError(t, err)

	var got []byte
	for _, s := range segs {
		got = append(got, s...)
	}
	assert.Equal(t, input, got)
}

func TestOverDeclaredLengthRejectedWithoutAllocating(t *testing.T) {
	// A declared length far larger than any data backing it must be
	// rejected by IsValidCompressed without panicking or allocating an
	// output buffer of that size.
	var buf []byte
	buf = appendVarint(buf, 1<<30)
	buf = append(buf, 0x00, 0x61) // one literal byte, nowhere near enough

	assert.False(t, IsValidCompressed(buf))

	_, err := Decode(nil, buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestTrailingGarbageRejected(t *testing.T) {
	enc := Encode(nil, []byte("hello"))
	enc = append(enc, 0xff)

	_, err := Decode(nil, enc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestTruncatedStreamRejected(t *testing.T) {
	enc := Encode(nil, bytes.Repeat([]byte("truncate me please"), 20))
	short := enc[:len(enc)-3]

	_, err := Decode(nil, short)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}
