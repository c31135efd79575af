// Package cpuinfo exposes host CPU feature detection and a pure-Go SWAR
// ASCII fast path, grounded on the teacher's simd package but trimmed to
// what the bytecode executor can actually use: an 8-bit-mode ALL/DOTS/
// RANGE scan never needs assembly to outrun a byte-by-byte loop, so this
// package carries golang.org/x/sys/cpu for informational feature
// reporting (surfaced through the public facade's HostFeatures) without
// adding the teacher's arch-specific assembly files.
package cpuinfo

import "golang.org/x/sys/cpu"

// Features summarizes the SIMD-relevant instruction sets x/sys/cpu can
// detect on the running host. It is informational only: nothing in the
// executor reads these flags, so match results never depend on them,
// mirroring the teacher's "feature detection gates an optional
// fast path, never a correctness path" rule.
type Features struct {
	X86AVX2    bool
	X86SSE42   bool
	ARM64ASIMD bool
}

// Detect reads the process-wide feature flags x/sys/cpu already populated
// at init time.
func Detect() Features {
	return Features{
		X86AVX2:    cpu.X86.HasAVX2,
		X86SSE42:   cpu.X86.HasSSE42,
		ARM64ASIMD: cpu.ARM64.HasASIMD,
	}
}

const hiBits = uint64(0x8080808080808080)

// IsASCII reports whether every byte in b has its high bit clear. vm's
// NewByteInput calls it once per input to record Input.ASCIIOnly; the
// executor's opcode handlers do not consult that result. Pure-Go SWAR,
// 8 bytes at a time; grounded on the teacher's simd.isASCIIGeneric, the
// fallback path it keeps alongside its AVX2 assembly.
func IsASCII(b []byte) bool {
	n := len(b)
	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := uint64(b[i]) | uint64(b[i+1])<<8 | uint64(b[i+2])<<16 | uint64(b[i+3])<<24 |
			uint64(b[i+4])<<32 | uint64(b[i+5])<<40 | uint64(b[i+6])<<48 | uint64(b[i+7])<<56
		if chunk&hiBits != 0 {
			return false
		}
	}
	for ; i < n; i++ {
		if b[i] >= 0x80 {
			return false
		}
	}
	return true
}
