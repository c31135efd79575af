package bytecode

import (
	"encoding/binary"
	"errors"

	"github.com/coregx/ecmaregex/opcode"
)

// ErrImageTooShort is returned by ReadHeader when the image is smaller than
// the fixed header.
var ErrImageTooShort = errors.New("bytecode: image shorter than header")

// Header is the decoded form of the 16-byte preamble every bytecode image
// starts with (spec.md Section 3 / Section 4.F).
type Header struct {
	Size         uint32
	NumCaptures  uint32
	NumStack     uint32
	Flags        opcode.Flag
}

// WriteHeader reserves and zero-fills the 16-byte header at the start of an
// otherwise-empty buffer. The caller patches the real values in once they
// are known, via FinalizeHeader.
func WriteHeader(b *Buffer) {
	b.EmitU32(0)
	b.EmitU32(0)
	b.EmitU32(0)
	b.EmitU32(0)
}

// FinalizeHeader patches the header fields once the parser has finished
// emitting the program body.
func FinalizeHeader(b *Buffer, numCaptures, numStack uint32, flags opcode.Flag) {
	b.PutU32(0, uint32(b.Size()))
	b.PutU32(4, numCaptures)
	b.PutU32(8, numStack)
	b.PutU32(12, uint32(flags))
}

// ReadHeader decodes the header from a finished bytecode image.
func ReadHeader(image []byte) (Header, error) {
	if len(image) < opcode.HeaderSize {
		return Header{}, ErrImageTooShort
	}
	return Header{
		Size:        binary.LittleEndian.Uint32(image[0:4]),
		NumCaptures: binary.LittleEndian.Uint32(image[4:8]),
		NumStack:    binary.LittleEndian.Uint32(image[8:12]),
		Flags:       opcode.Flag(binary.LittleEndian.Uint32(image[12:16])),
	}, nil
}
