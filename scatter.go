package snappy

import "sort"

// SegmentSink decompresses into an ordered list of fixed-size segments
// (an iovec-style scatter buffer) instead of one contiguous allocation,
// for callers that want delivery directly into existing buffers. The
// segments' combined length becomes the sink's declared capacity; empty
// segments (leading, trailing, or interior) are permitted.
type SegmentSink struct {
	segs   [][]byte
	starts []int
	total  int
	op     int
}

// NewSegmentSink builds a SegmentSink over segs.
func NewSegmentSink(segs [][]byte) *SegmentSink {
	starts := make([]int, len(segs))
	total := 0
	for i, s := range segs {
		starts[i] = total
		total += len(s)
	}
	return &SegmentSink{segs: segs, starts: starts, total: total}
}

func (w *SegmentSink) pos() int { return w.op }

type segCursor struct {
	seg, off int
}

// locate returns a cursor for logical position p, skipping over any empty
// segments so the cursor always points at a real byte slot (or one past
// the end, for p == w.total).
func (w *SegmentSink) locate(p int) segCursor {
	i := sort.Search(len(w.starts), func(i int) bool { return w.starts[i] > p }) - 1
	if i < 0 {
		i = 0
	}
	c := segCursor{seg: i, off: p - w.starts[i]}
	for c.seg < len(w.segs) && c.off >= len(w.segs[c.seg]) && c.seg+1 < len(w.segs) {
		c.seg++
		c.off = 0
	}
	return c
}

func (w *SegmentSink) advance(c *segCursor) {
	c.off++
	for c.seg < len(w.segs) && c.off >= len(w.segs[c.seg]) && c.seg+1 < len(w.segs) {
		c.seg++
		c.off = 0
	}
}

func (w *SegmentSink) appendLiteral(b []byte) error {
	if w.op+len(b) > w.total {
		return errLiteralOverrun
	}
	c := w.locate(w.op)
	for _, ch := range b {
		w.segs[c.seg][c.off] = ch
		w.advance(&c)
	}
	w.op += len(b)
	return nil
}

// appendCopy walks a read cursor and a write cursor across the segment
// list in lockstep, one byte at a time. There is no separate block-copy
// fast path: every copy, straddling or self-overlapping or neither, takes
// this loop, and it is always correct since each destination byte is
// written before any later position could read it back as a source byte.
func (w *SegmentSink) appendCopy(offset, length int) error {
	if w.op+length > w.total {
		return errCopyOverrun
	}
	rc := w.locate(w.op - offset)
	wc := w.locate(w.op)
	for i := 0; i < length; i++ {
		b := w.segs[rc.seg][rc.off]
		w.segs[wc.seg][wc.off] = b
		w.advance(&rc)
		w.advance(&wc)
	}
	w.op += length
	return nil
}

// UncompressToSegments decompresses src into segs, whose combined length
// must equal the declared uncompressed length exactly.
func UncompressToSegments(segs [][]byte, src []byte) error {
	u, n, err := readVarint(src)
	if err != nil {
		return err
	}
	sink := NewSegmentSink(segs)
	if sink.total != int(u) {
		return errCopyOverrun
	}
	return decodeTokens[*SegmentSink](sink, src[n:], u)
}
