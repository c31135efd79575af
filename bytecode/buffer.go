// Package bytecode implements the append-only byte buffer the syntax parser
// emits instructions into, and the 16-byte image header every compiled
// program starts with.
//
// The buffer grows by doubling (minimum 64 bytes) and never panics on
// allocation failure: a failed grow sets a sticky error, after which every
// further Emit/Put/Insert call becomes a no-op. Callers check Err before
// finalizing, matching spec.md Section 4.C.
package bytecode

import (
	"encoding/binary"
	"errors"
)

// ErrAllocation is returned once the buffer's backing array can no longer
// grow (e.g. a pattern pathological enough to exceed int range).
var ErrAllocation = errors.New("bytecode: allocation failure")

const minCapacity = 64

// Buffer is a growable, append-only byte buffer supporting little-endian
// fixed-width emits, in-place patches, and mid-buffer inserts.
type Buffer struct {
	buf []byte
	err error
}

// NewBuffer returns an empty buffer with the default minimum capacity.
func NewBuffer() *Buffer {
	return NewBufferWithCapacity(minCapacity)
}

// NewBufferWithCapacity returns an empty buffer pre-sized to at least
// capacity bytes, falling back to the default minimum when capacity is
// smaller. Callers compiling many patterns of a known rough size (e.g.
// the root package's Config.InitialBufferCapacity) use this to avoid the
// first few doublings grow would otherwise do starting from minCapacity.
func NewBufferWithCapacity(capacity int) *Buffer {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// Err returns the sticky allocation error, if any. Once set it never
// clears; all further mutating calls on the buffer are no-ops.
func (b *Buffer) Err() error {
	return b.err
}

// Size returns the number of bytes currently in the buffer.
func (b *Buffer) Size() int {
	return len(b.buf)
}

// Bytes returns the buffer's contents. The caller must not retain the
// slice across further mutating calls; it may be reallocated.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

func (b *Buffer) fail() {
	if b.err == nil {
		b.err = ErrAllocation
	}
}

// grow ensures at least n more bytes of capacity, doubling the backing
// array (or allocating minCapacity if empty).
func (b *Buffer) grow(n int) bool {
	if b.err != nil {
		return false
	}
	need := len(b.buf) + n
	if need < 0 {
		b.fail()
		return false
	}
	if cap(b.buf) >= need {
		return true
	}
	newCap := cap(b.buf)
	if newCap == 0 {
		newCap = minCapacity
	}
	for newCap < need {
		newCap *= 2
	}
	grown := make([]byte, len(b.buf), newCap)
	copy(grown, b.buf)
	b.buf = grown
	return true
}

// EmitU8 appends a single byte.
func (b *Buffer) EmitU8(v uint8) {
	if !b.grow(1) {
		return
	}
	b.buf = append(b.buf, v)
}

// EmitU16 appends v as two little-endian bytes.
func (b *Buffer) EmitU16(v uint16) {
	if !b.grow(2) {
		return
	}
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// EmitU32 appends v as four little-endian bytes.
func (b *Buffer) EmitU32(v uint32) {
	if !b.grow(4) {
		return
	}
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// EmitI32 appends v as four little-endian bytes, two's complement.
func (b *Buffer) EmitI32(v int32) {
	b.EmitU32(uint32(v))
}

// EmitU64 appends v as eight little-endian bytes.
func (b *Buffer) EmitU64(v uint64) {
	if !b.grow(8) {
		return
	}
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// PutU8 overwrites the byte at off.
func (b *Buffer) PutU8(off int, v uint8) {
	if b.err != nil || off < 0 || off+1 > len(b.buf) {
		return
	}
	b.buf[off] = v
}

// PutU16 overwrites the two bytes at off with v, little-endian.
func (b *Buffer) PutU16(off int, v uint16) {
	if b.err != nil || off < 0 || off+2 > len(b.buf) {
		return
	}
	binary.LittleEndian.PutUint16(b.buf[off:off+2], v)
}

// PutU32 overwrites the four bytes at off with v, little-endian.
func (b *Buffer) PutU32(off int, v uint32) {
	if b.err != nil || off < 0 || off+4 > len(b.buf) {
		return
	}
	binary.LittleEndian.PutUint32(b.buf[off:off+4], v)
}

// PutI32 overwrites the four bytes at off with v, two's complement.
func (b *Buffer) PutI32(off int, v int32) {
	b.PutU32(off, uint32(v))
}

// RotateSuffixToFront moves the newest term, buf[termStart:], in front of
// the older terms buf[outerStart:termStart], leaving the total span
// buf[outerStart:] containing the same bytes in swapped order. Used by the
// parser's backward-emission mode (lookbehind) to make each newly-parsed
// term run right-to-left relative to its older siblings.
func (b *Buffer) RotateSuffixToFront(outerStart, termStart int) {
	if b.err != nil || outerStart < 0 || termStart < outerStart || termStart > len(b.buf) {
		return
	}
	newest := append([]byte(nil), b.buf[termStart:]...)
	older := append([]byte(nil), b.buf[outerStart:termStart]...)
	copy(b.buf[outerStart:outerStart+len(newest)], newest)
	copy(b.buf[outerStart+len(newest):], older)
}

// Insert shifts buf[off:] forward by length bytes, zeroing the gap, and
// returns the offset of the gap so the caller can fill it in (typically via
// PutU8/PutU16/PutU32 or another Insert-adjacent write). Used by the parser
// to reserve space for a PUSH/SPLIT_NEXT/SPLIT_FIRST/SAVE_RESET instruction
// whose position is only known after the body it guards has been emitted.
func (b *Buffer) Insert(off, length int) int {
	if !b.grow(length) {
		return off
	}
	if off < 0 || off > len(b.buf) {
		b.fail()
		return off
	}
	b.buf = b.buf[:len(b.buf)+length]
	copy(b.buf[off+length:], b.buf[off:len(b.buf)-length])
	for i := off; i < off+length; i++ {
		b.buf[i] = 0
	}
	return off
}
