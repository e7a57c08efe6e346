package snappy

import (
	"encoding/binary"

	pkgerrors "github.com/pkg/errors"
)

// sink is the decompressor's output abstraction: a capability set rather
// than a single concrete buffer, so the same token-consuming loop drives
// either a contiguous buffer or a segmented one. decodeTokens is generic
// over sink implementations so the dispatch monomorphizes at compile time
// instead of going through an interface vtable per token.
type sink interface {
	pos() int
	appendLiteral(b []byte) error
	appendCopy(offset, length int) error
}

// bufferSink is a contiguous-buffer writer sized for exactly the declared
// uncompressed length.
type bufferSink struct {
	buf []byte
	op  int
}

func (w *bufferSink) pos() int { return w.op }

func (w *bufferSink) appendLiteral(b []byte) error {
	if w.op+len(b) > len(w.buf) {
		return errLiteralOverrun
	}
	copy(w.buf[w.op:], b)
	w.op += len(b)
	return nil
}

// appendCopy performs an overlap-safe copy of length bytes from
// w.op-offset to w.op. When offset >= length the regions are disjoint and
// a single copy suffices. When offset < length the copy is self
// overlapping: advancing one output-sized slice over another that starts
// offset bytes earlier, byte by byte, reproduces the logical replication
// model exactly, because each destination byte is written before it is
// ever read as a source byte for a later position.
func (w *bufferSink) appendCopy(offset, length int) error {
	d := w.op
	if d+length > len(w.buf) {
		return errCopyOverrun
	}
	if offset >= length {
		copy(w.buf[d:d+length], w.buf[d-offset:d-offset+length])
	} else {
		src := w.buf[d-offset : d+length-offset]
		dst := w.buf[d : d+length]
		for i := range dst {
			dst[i] = src[i]
		}
	}
	w.op += length
	return nil
}

// nullSink tracks the output position without writing any bytes. It backs
// IsValidCompressed, which answers a structural question without paying
// for an allocation the caller never asked for.
type nullSink struct{ p int }

func (s *nullSink) pos() int                           { return s.p }
func (s *nullSink) appendLiteral(b []byte) error        { s.p += len(b); return nil }
func (s *nullSink) appendCopy(offset, length int) error { s.p += length; return nil }

// decodeTokens drives s through the token stream in src until s has
// produced exactly u bytes, or a format violation is found. On success, ip
// must also have consumed every byte of src (trailing bytes are an error).
func decodeTokens[S sink](s S, src []byte, u uint32) error {
	ip := 0
	for uint32(s.pos()) < u {
		if ip >= len(src) {
			return errShortStream
		}
		ent := tagTable[src[ip]]
		ip++

		switch ent.kind {
		case kindLiteral:
			length := ent.length
			if ent.extra > 0 {
				if ip+int(ent.extra) > len(src) {
					return errTruncatedToken
				}
				length = leUint32(src[ip:ip+int(ent.extra)]) + 1
				ip += int(ent.extra)
			}
			if ip+int(length) > len(src) {
				return errLiteralOverrun
			}
			if uint64(s.pos())+uint64(length) > uint64(u) {
				return errLiteralOverrun
			}
			if err := s.appendLiteral(src[ip : ip+int(length)]); err != nil {
				return err
			}
			ip += int(length)

		case kindCopy1:
			if ip+1 > len(src) {
				return errTruncatedToken
			}
			offset := ent.offsetHigh<<8 | uint32(src[ip])
			ip++
			if err := doCopy(s, offset, ent.length, u); err != nil {
				return err
			}

		case kindCopy2:
			if ip+2 > len(src) {
				return errTruncatedToken
			}
			offset := uint32(src[ip]) | uint32(src[ip+1])<<8
			ip += 2
			if err := doCopy(s, offset, ent.length, u); err != nil {
				return err
			}

		case kindCopy4:
			if ip+4 > len(src) {
				return errTruncatedToken
			}
			offset := binary.LittleEndian.Uint32(src[ip : ip+4])
			ip += 4
			if err := doCopy(s, offset, ent.length, u); err != nil {
				return err
			}
		}
	}
	if ip != len(src) {
		return errTrailingGarbage
	}
	return nil
}

func doCopy[S sink](s S, offset, length, u uint32) error {
	if offset == 0 || offset > uint32(s.pos()) {
		return errBadOffset
	}
	if uint64(s.pos())+uint64(length) > uint64(u) {
		return errCopyOverrun
	}
	return s.appendCopy(int(offset), int(length))
}

func leUint32(b []byte) uint32 {
	var v uint32
	for i, c := range b {
		v |= uint32(c) << (8 * uint(i))
	}
	return v
}

// DecodedLen reads only the leading varint of src and returns the declared
// uncompressed length, without validating the rest of the stream.
func DecodedLen(src []byte) (int, error) {
	u, _, err := readVarint(src)
	if err != nil {
		return 0, err
	}
	return int(u), nil
}

// Decode decompresses src, using dst as storage if it is large enough, and
// returns the decompressed bytes. It is valid to pass a nil dst.
func Decode(dst, src []byte) ([]byte, error) {
	u, n, err := readVarint(src)
	if err != nil {
		return nil, err
	}
	if cap(dst) < int(u) {
		dst = make([]byte, u)
	} else {
		dst = dst[:int(u)]
	}
	w := &bufferSink{buf: dst}
	if err := decodeTokens[*bufferSink](w, src[n:], u); err != nil {
		return nil, pkgerrors.Wrapf(err, "snappy: decode failed at output position %d", w.pos())
	}
	return dst, nil
}

// Uncompress decompresses src into a freshly allocated buffer sized for
// exactly the declared length.
func Uncompress(src []byte) ([]byte, error) {
	return Decode(nil, src)
}

// UncompressBudget behaves like Uncompress, but rejects src before
// allocating output if its declared length exceeds maxLen. This is the
// caller-supplied maximum mentioned in the format's configuration surface:
// RawUncompress-style APIs that take an unchecked output pointer leave the
// output-size budget to the caller; this entry point makes that budget
// explicit instead.
func UncompressBudget(src []byte, maxLen uint32) ([]byte, error) {
	u, n, err := readVarint(src)
	if err != nil {
		return nil, err
	}
	if u > maxLen {
		return nil, ErrOutputBudgetExceeded
	}
	dst := make([]byte, u)
	w := &bufferSink{buf: dst}
	if err := decodeTokens[*bufferSink](w, src[n:], u); err != nil {
		return nil, pkgerrors.Wrapf(err, "snappy: decode failed at output position %d", w.pos())
	}
	return dst, nil
}
