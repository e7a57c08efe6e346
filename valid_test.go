package snappy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCompressedAcceptsOwnOutput(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		bytes.Repeat([]byte("hello world "), 500),
	}
	for _, in := range inputs {
		assert.True(t, IsValidCompressed(Encode(nil, in)))
	}
}

func TestIsValidCompressedRejectsGarbage(t *testing.T) {
	cases := [][]byte{
		{0x80, 0x80, 0x80, 0x80, 0x80},
		{0xff, 0xff, 0xff, 0xff, 0x10},
		append(appendVarint(nil, 1<<28), 0x00),
	}
	for _, c := range cases {
		assert.False(t, IsValidCompressed(c))
	}
}

func TestIsValidCompressedNeverAllocatesForHugeDeclaredLength(t *testing.T) {
	// A declared length near the 32-bit ceiling, backed by almost no real
	// token data: validation must fail fast from the short token stream
	// rather than attempting to materialize an output buffer.
	var buf []byte
	buf = appendVarint(buf, 1<<32-1)
	buf = append(buf, 0x00, 0x61)
	assert.False(t, IsValidCompressed(buf))
}

func TestIsValidCompressedRejectsTrailingGarbage(t *testing.T) {
	enc := Encode(nil, []byte("trailing"))
	enc = append(enc, 0x00)
	assert.False(t, IsValidCompressed(enc))
}
