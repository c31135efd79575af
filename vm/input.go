// Package vm implements the backtracking bytecode executor described in
// spec.md Section 4.E: an explicit state machine over (pc, ptr, captures,
// push stack, backtrack stack), with no recursion, panics, or goroutines.
// Grounded on the teacher's nfa/backtrack.go (BoundedBacktracker) for the
// overall "explicit visited/backtrack bookkeeping instead of recursion"
// shape, generalized here from a byte-oriented NFA-state walk to direct
// interpretation of the opcode stream original_source's regexp_executor.cpp
// compiles ECMAScript patterns down to.
package vm

import (
	"unicode/utf16"

	"github.com/coregx/ecmaregex/internal/cpuinfo"
)

// Input is the code-unit sequence the executor matches against. Matching
// the original's dual UTF-8/UTF-16 entry points, a code unit is a raw byte
// in 8-bit mode or a uint16 in 16-bit mode; neither mode decodes multi-byte
// UTF-8 sequences into runes; a code point above 0xFFFF only ever appears
// as a combined surrogate pair under the u flag in 16-bit mode.
type Input struct {
	wide  bool
	ascii bool
	b     []byte
	u     []uint16
}

// NewByteInput wraps an 8-bit code-unit sequence (a Latin-1/binary string,
// or raw UTF-8 bytes matched byte-by-byte exactly as original_source's
// 8-bit path does). The sequence is classified as all-ASCII up front via
// cpuinfo.IsASCII and the result is reported by ASCIIOnly; the executor's
// opcode handlers, word-boundary and line-terminator checks included, do
// not read it.
func NewByteInput(b []byte) Input { return Input{b: b, ascii: cpuinfo.IsASCII(b)} }

// ASCIIOnly reports whether every code unit in a byte-mode Input is below
// 0x80. Always false for 16-bit input, which is not classified.
func (in Input) ASCIIOnly() bool { return !in.wide && in.ascii }

// NewUTF16Input wraps a 16-bit code-unit sequence.
func NewUTF16Input(u []uint16) Input { return Input{wide: true, u: u} }

// NewStringInput decodes s into UTF-16 code units, the representation
// ECMAScript source strings use natively.
func NewStringInput(s string) Input {
	return Input{wide: true, u: utf16.Encode([]rune(s))}
}

// Len reports the input's length in code units.
func (in Input) Len() int {
	if in.wide {
		return len(in.u)
	}
	return len(in.b)
}

// at returns the raw code unit at i, with no surrogate combination.
func (in Input) at(i int) uint32 {
	if in.wide {
		return uint32(in.u[i])
	}
	return uint32(in.b[i])
}

const (
	surrogateHighLo = 0xD800
	surrogateHighHi = 0xDBFF
	surrogateLowLo  = 0xDC00
	surrogateLowHi  = 0xDFFF
)

// peekChar reads the code point starting at ptr, combining a surrogate
// pair into one code point when unicodeMode is set and wide input has a
// high surrogate at ptr immediately followed by a low surrogate. Returns
// width 0 at end of input.
func (in Input) peekChar(ptr int, unicodeMode bool) (cp uint32, width int) {
	if ptr >= in.Len() {
		return 0, 0
	}
	c := in.at(ptr)
	if in.wide && unicodeMode && c >= surrogateHighLo && c <= surrogateHighHi && ptr+1 < in.Len() {
		c2 := in.at(ptr + 1)
		if c2 >= surrogateLowLo && c2 <= surrogateLowHi {
			return combineSurrogates(c, c2), 2
		}
	}
	return c, 1
}

// prevChar reads the code point ending at ptr (i.e. the one a PREV would
// step back over), combining a surrogate pair ending at ptr the same way
// peekChar combines one starting at ptr.
func (in Input) prevChar(ptr int, unicodeMode bool) (cp uint32, width int) {
	if ptr <= 0 {
		return 0, 0
	}
	c := in.at(ptr - 1)
	if in.wide && unicodeMode && c >= surrogateLowLo && c <= surrogateLowHi && ptr-2 >= 0 {
		c1 := in.at(ptr - 2)
		if c1 >= surrogateHighLo && c1 <= surrogateHighHi {
			return combineSurrogates(c1, c), 2
		}
	}
	return c, 1
}

func combineSurrogates(hi, lo uint32) uint32 {
	return 0x10000 + (hi-surrogateHighLo)<<10 + (lo - surrogateLowLo)
}
