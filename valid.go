package snappy

// IsValidCompressed reports whether src is a structurally valid compressed
// blob: every token is well formed, every copy offset is in bounds, and
// the declared length is reached exactly with no trailing bytes. It never
// allocates an output buffer, so a pathologically large declared length
// costs no more to reject than it costs to read the token stream that
// follows (which, for an attacker-controlled blob, is typically short).
//
// IsValidCompressed does not mutate src and is safe to call repeatedly.
func IsValidCompressed(src []byte) bool {
	u, n, err := readVarint(src)
	if err != nil {
		return false
	}
	s := &nullSink{}
	return decodeTokens[*nullSink](s, src[n:], u) == nil
}
