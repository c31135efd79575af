// Package opcode defines the bytecode instruction set the syntax parser
// emits and the vm executor interprets.
//
// Each opcode has a fixed total size (opcode byte + operands) except RANGE
// and RANGE32, whose size depends on the number of intervals they carry.
// Offsets carried by GOTO, SPLIT_*, and the lookaround opcodes are relative
// to the address of the *next* instruction, matching the teacher's
// assembler convention in github.com/chronos-tachyon/go-peggy/peggyvm
// (OpJMP/OpCHOICE offsets are likewise relative to the following op).
package opcode

// Op identifies a single bytecode instruction.
type Op uint8

const (
	SaveStart Op = iota
	SaveEnd
	SaveReset
	Char
	Char32
	Goto
	SplitFirst
	SplitNext
	MatchAhead
	NegativeMatchAhead
	Match
	MatchEnd
	Loop
	LoopGreedy
	Push
	PushChar
	CheckChar
	Pop
	LineStart
	LineEnd
	WordBoundary
	NotWordBoundary
	All
	Dots
	Prev
	Range
	Range32
	Backreference
	BackwardBackreference

	// invalid is a sentinel one past the last real opcode; used to size
	// lookup tables and to reject corrupt bytecode.
	invalid
)

// FixedSize is the encoded size in bytes of every opcode except Range and
// Range32, whose size depends on their interval count. 0 is used as a
// placeholder for those two; use RangeSize to compute their real size.
var FixedSize = [invalid]int{
	SaveStart:              2,
	SaveEnd:                2,
	SaveReset:              3,
	Char:                   3,
	Char32:                 5,
	Goto:                   5,
	SplitFirst:             5,
	SplitNext:              5,
	MatchAhead:             5,
	NegativeMatchAhead:     5,
	Match:                  1,
	MatchEnd:               1,
	Loop:                   13,
	LoopGreedy:             13,
	Push:                   1,
	PushChar:               1,
	CheckChar:              5,
	Pop:                    1,
	LineStart:              1,
	LineEnd:                1,
	WordBoundary:           1,
	NotWordBoundary:        1,
	All:                    1,
	Dots:                   1,
	Prev:                   1,
	Range:                  0,
	Range32:                0,
	Backreference:          2,
	BackwardBackreference: 2,
}

// RangeSize returns the encoded size of a RANGE (wide=false) or RANGE32
// (wide=true) instruction carrying n intervals.
func RangeSize(wide bool, n int) int {
	if wide {
		return 3 + 8*n
	}
	return 3 + 4*n
}

// Valid reports whether op names a real instruction.
func (op Op) Valid() bool {
	return op < invalid
}

// String returns the opcode's mnemonic, matching the names used in
// spec.md's ISA table.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "ILLEGAL"
}

var opNames = [invalid]string{
	SaveStart:              "SAVE_START",
	SaveEnd:                "SAVE_END",
	SaveReset:              "SAVE_RESET",
	Char:                   "CHAR",
	Char32:                 "CHAR32",
	Goto:                   "GOTO",
	SplitFirst:             "SPLIT_FIRST",
	SplitNext:              "SPLIT_NEXT",
	MatchAhead:             "MATCH_AHEAD",
	NegativeMatchAhead:     "NEGATIVE_MATCH_AHEAD",
	Match:                  "MATCH",
	MatchEnd:               "MATCH_END",
	Loop:                   "LOOP",
	LoopGreedy:             "LOOP_GREEDY",
	Push:                   "PUSH",
	PushChar:               "PUSH_CHAR",
	CheckChar:              "CHECK_CHAR",
	Pop:                    "POP",
	LineStart:              "LINE_START",
	LineEnd:                "LINE_END",
	WordBoundary:           "WORD_BOUNDARY",
	NotWordBoundary:        "NOT_WORD_BOUNDARY",
	All:                    "ALL",
	Dots:                   "DOTS",
	Prev:                   "PREV",
	Range:                  "RANGE",
	Range32:                "RANGE32",
	Backreference:          "BACKREFERENCE",
	BackwardBackreference: "BACKWARD_BACKREFERENCE",
}

// Flag bits stored in the bytecode header, per spec.md Section 3/6.
type Flag uint32

const (
	FlagGlobal Flag = 1 << iota
	FlagIgnoreCase
	FlagMultiline
	FlagDotAll
	FlagUnicode
	FlagSticky
)

// Has reports whether f is set in the flag bitfield.
func (flags Flag) Has(f Flag) bool {
	return flags&f != 0
}

// HeaderSize is the size in bytes of the bytecode image's fixed-size
// preamble (size, num_captures, num_stack, flags), each a little-endian
// u32. Execution always begins at this offset.
const HeaderSize = 16
