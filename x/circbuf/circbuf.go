// Package circbuf provides a fixed-size byte ring with a single movable
// bookmark, used to stream-parse HTTP bodies that arrive in blocks which do
// not line up with records.
//
// Stores overwrite the oldest bytes once the ring is full. A store that
// overwrites the marked byte drops the mark and reports errcode.LostMark.
package circbuf

import (
	"trafficdots-go/errcode"
	"trafficdots-go/x/mathx"
)

// Origin selects what Mark measures its distance from.
type Origin uint8

const (
	// FromPrevMark moves the mark forward from its current position. It may
	// not pass the most recent byte.
	FromPrevMark Origin = iota
	// FromRecentChar places the mark dist bytes before the most recent byte.
	FromRecentChar
	// FromOldestChar places the mark dist bytes after the oldest byte.
	FromOldestChar
)

// Buffer is a byte ring. It is not safe for concurrent use.
type Buffer struct {
	buf     []byte
	end     int // next write index
	n       int // stored bytes, <= len(buf)
	mark    int
	hasMark bool
}

// New returns an empty buffer with size bytes of backing.
func New(size int) (*Buffer, error) {
	if size < 1 {
		return nil, errcode.InvalidSize
	}
	return &Buffer{buf: make([]byte, size)}, nil
}

// Cap returns the size of the backing store.
func (b *Buffer) Cap() int { return len(b.buf) }

// Len returns the number of stored bytes.
func (b *Buffer) Len() int { return b.n }

// HasMark reports whether a bookmark is set.
func (b *Buffer) HasMark() bool { return b.hasMark }

// Reset empties the buffer and clears the mark.
func (b *Buffer) Reset() {
	b.end, b.n, b.mark, b.hasMark = 0, 0, 0, false
}

func (b *Buffer) add(a, d int) int {
	r, _ := mathx.ModAdd(a, d, len(b.buf))
	return r
}

func (b *Buffer) sub(a, d int) int {
	r, _ := mathx.ModSub(a, d, len(b.buf))
	return r
}

// oldest returns the index of the oldest stored byte.
func (b *Buffer) oldest() int { return b.sub(b.end, b.n) }

// markOffset returns the distance of the mark from the oldest byte.
func (b *Buffer) markOffset() int { return b.sub(b.mark, b.oldest()) }

// Store appends p, overwriting the oldest bytes if the ring is full.
// p must be non-empty and no longer than the backing store. When the write
// window covers the marked byte the data is still stored, the mark is
// dropped and errcode.LostMark is returned.
func (b *Buffer) Store(p []byte) error {
	size := len(b.buf)
	if size == 0 {
		return errcode.Uninitialized
	}
	if len(p) == 0 || len(p) > size {
		return errcode.InvalidSize
	}
	lost := false
	if b.hasMark && b.sub(b.mark, b.end) < len(p) {
		lost = true
	}
	first := copy(b.buf[b.end:], p)
	copy(b.buf, p[first:])
	b.end = b.add(b.end, len(p))
	b.n = mathx.Min(b.n+len(p), size)
	if lost {
		b.hasMark = false
		return errcode.LostMark
	}
	return nil
}

// Mark places the bookmark dist bytes from origin. The target must lie
// within the stored range, otherwise errcode.InvalidSize is returned and the
// mark is unchanged.
func (b *Buffer) Mark(dist int, origin Origin) error {
	if len(b.buf) == 0 {
		return errcode.Uninitialized
	}
	if dist < 0 {
		return errcode.InvalidSize
	}
	switch origin {
	case FromPrevMark:
		if !b.hasMark {
			return errcode.LostMark
		}
		if b.markOffset()+dist >= b.n {
			return errcode.InvalidSize
		}
		b.mark = b.add(b.mark, dist)
	case FromRecentChar:
		if dist >= b.n {
			return errcode.InvalidSize
		}
		b.mark = b.sub(b.end, dist+1)
		b.hasMark = true
	case FromOldestChar:
		if dist >= b.n {
			return errcode.InvalidSize
		}
		b.mark = b.add(b.oldest(), dist)
		b.hasMark = true
	default:
		return errcode.InvalidParams
	}
	return nil
}

// Read copies the n most recent bytes into dst in insertion order and
// NUL-terminates when dst has room. It returns n.
func (b *Buffer) Read(dst []byte, n int) (int, error) {
	if n <= 0 || n > b.n || n > len(dst) {
		return 0, errcode.InvalidSize
	}
	b.copyOut(dst, b.sub(b.end, n), n)
	if len(dst) > n {
		dst[n] = 0
	}
	return n, nil
}

// ReadFromMark copies bytes from the mark up to and including the most
// recent byte, at most max bytes and never more than len(dst)-1, then writes
// a NUL. It returns the number of bytes copied. The mark does not move.
func (b *Buffer) ReadFromMark(dst []byte, max int) (int, error) {
	if !b.hasMark {
		return 0, errcode.LostMark
	}
	if len(dst) == 0 || max < 0 {
		return 0, errcode.InvalidSize
	}
	cnt := mathx.Min(mathx.Min(max, len(dst)-1), b.FromMark())
	b.copyOut(dst, b.mark, cnt)
	dst[cnt] = 0
	return cnt, nil
}

// FromMark returns the number of stored bytes from the mark through the most
// recent byte, or 0 without a mark.
func (b *Buffer) FromMark() int {
	if !b.hasMark {
		return 0
	}
	return b.n - b.markOffset()
}

func (b *Buffer) copyOut(dst []byte, start, cnt int) {
	first := copy(dst[:cnt], b.buf[start:])
	copy(dst[first:cnt], b.buf)
}
