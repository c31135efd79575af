package vm

import "encoding/binary"

func readU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

func readU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func readI32(b []byte, off int) int32 {
	return int32(readU32(b, off))
}
