package bytecode

import (
	"bytes"
	"testing"

	"github.com/coregx/ecmaregex/opcode"
)

func TestEmitLittleEndian(t *testing.T) {
	b := NewBuffer()
	b.EmitU8(0xAB)
	b.EmitU16(0x1234)
	b.EmitU32(0x89ABCDEF)

	want := []byte{0xAB, 0x34, 0x12, 0xEF, 0xCD, 0xAB, 0x89}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("Bytes() = % x, want % x", b.Bytes(), want)
	}
	if b.Err() != nil {
		t.Errorf("Err() = %v, want nil", b.Err())
	}
}

func TestPutPatchesInPlace(t *testing.T) {
	b := NewBuffer()
	b.EmitU32(0)
	b.EmitU8(0)

	b.PutU32(0, 42)
	b.PutU8(4, 7)

	want := []byte{42, 0, 0, 0, 7}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("Bytes() = % x, want % x", b.Bytes(), want)
	}
}

func TestInsertShiftsAndZeros(t *testing.T) {
	b := NewBuffer()
	b.EmitU8(1)
	b.EmitU8(2)
	b.EmitU8(3)

	off := b.Insert(1, 2)
	if off != 1 {
		t.Fatalf("Insert returned %d, want 1", off)
	}

	want := []byte{1, 0, 0, 2, 3}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("Bytes() = % x, want % x", b.Bytes(), want)
	}

	b.PutU16(1, 0x0201)
	want2 := []byte{1, 1, 2, 2, 3}
	if !bytes.Equal(b.Bytes(), want2) {
		t.Errorf("Bytes() after PutU16 = % x, want % x", b.Bytes(), want2)
	}
}

func TestGrowsPastInitialCapacity(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < 1000; i++ {
		b.EmitU8(byte(i))
	}
	if b.Size() != 1000 {
		t.Fatalf("Size() = %d, want 1000", b.Size())
	}
	for i := 0; i < 1000; i++ {
		if b.Bytes()[i] != byte(i) {
			t.Fatalf("Bytes()[%d] = %d, want %d", i, b.Bytes()[i], byte(i))
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	b := NewBuffer()
	WriteHeader(b)
	b.EmitU8(0xFF) // one instruction byte of "program"

	FinalizeHeader(b, 3, 5, opcode.FlagIgnoreCase|opcode.FlagUnicode)

	h, err := ReadHeader(b.Bytes())
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if h.Size != uint32(b.Size()) {
		t.Errorf("Size = %d, want %d", h.Size, b.Size())
	}
	if h.NumCaptures != 3 {
		t.Errorf("NumCaptures = %d, want 3", h.NumCaptures)
	}
	if h.NumStack != 5 {
		t.Errorf("NumStack = %d, want 5", h.NumStack)
	}
	if !h.Flags.Has(opcode.FlagIgnoreCase) || !h.Flags.Has(opcode.FlagUnicode) {
		t.Errorf("Flags = %v, want i|u set", h.Flags)
	}
}

func TestReadHeaderTooShort(t *testing.T) {
	_, err := ReadHeader([]byte{1, 2, 3})
	if err != ErrImageTooShort {
		t.Errorf("ReadHeader() error = %v, want ErrImageTooShort", err)
	}
}

func TestNewBufferWithCapacityHonorsLargerRequest(t *testing.T) {
	b := NewBufferWithCapacity(1024)
	if cap(b.buf) < 1024 {
		t.Errorf("cap(buf) = %d, want >= 1024", cap(b.buf))
	}
}

func TestNewBufferWithCapacityFloorsAtMinimum(t *testing.T) {
	b := NewBufferWithCapacity(1)
	if cap(b.buf) < minCapacity {
		t.Errorf("cap(buf) = %d, want >= minCapacity (%d)", cap(b.buf), minCapacity)
	}
}
