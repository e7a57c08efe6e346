package snappy

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This package's wire format is Snappy's, of which s2 is a documented
// superset: s2.Decode accepts plain Snappy-formatted blocks. These tests
// confirm our Encode output is consumable by an independent, widely used
// implementation, and that blocks produced by that implementation's
// Snappy-compatible encoder decode correctly here.
func TestEncodeInteropWithS2Decoder(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		bytes.Repeat([]byte("interop "), 2000),
		randomBytes(1<<17, 99),
	}
	for i, in := range inputs {
		enc := Encode(nil, in)
		out, err := s2.Decode(nil, enc)
		require.NoError(t, err, "case %d", i)
		assert.True(t, bytes.Equal(in, out), "case %d", i)
	}
}

func TestDecodeInteropWithS2SnappyEncoder(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("b"),
		bytes.Repeat([]byte("round-trip "), 2000),
	}
	for i, in := range inputs {
		enc := s2.EncodeSnappy(nil, in)
		out, err := Decode(nil, enc)
		require.NoError(t, err, "case %d", i)
		assert.True(t, bytes.Equal(in, out), "case %d", i)
	}
}
