package snappy

// findMatchLength returns the length of the longest common prefix of a and
// b, bounded by limit, and reports whether that length is short (under 8
// bytes). It never reads past limit, nor past the end of either slice,
// even though callers may pass slices that extend further.
//
// encodeFragment does not call it: the fragment compressor extends matches
// with its own inline loop, and emitCopy chooses the copy tag from the
// match length and offset alone, without the short flag.
func findMatchLength(a, b []byte, limit int) (length int, short bool) {
	n := limit
	if len(a) < n {
		n = len(a)
	}
	if len(b) < n {
		n = len(b)
	}
	for length < n && a[length] == b[length] {
		length++
	}
	return length, length < 8
}
