package syntax

import (
	"github.com/coregx/ecmaregex/opcode"
	"github.com/coregx/ecmaregex/rangeset"
)

// unbounded is the quantifier max stored when a repetition has no upper
// bound (`*`, `+`, `{n,}`). Mirrors INT32_MAX, the sentinel
// original_source/ecmascript/regexp/regexp_parser.cpp stores in the same
// field for the same reason: it must fit the u32 operand untouched while
// comparing as "never reached" against any realistic repeat count.
const unbounded = 0x7FFFFFFF

// emitOp appends a single zero-operand opcode byte.
func (p *Parser) emitOp(op opcode.Op) {
	p.buf.EmitU8(uint8(op))
}

func (p *Parser) emitSaveStart(k uint32) {
	p.buf.EmitU8(uint8(opcode.SaveStart))
	p.buf.EmitU8(uint8(k))
}

func (p *Parser) emitSaveEnd(k uint32) {
	p.buf.EmitU8(uint8(opcode.SaveEnd))
	p.buf.EmitU8(uint8(k))
}

// emitChar appends CHAR or CHAR32 depending on whether c fits a u16,
// applying the active case-fold canonicalization first.
func (p *Parser) emitChar(c rune) {
	if p.flags.Has(opcode.FlagIgnoreCase) {
		c = Canonicalize(c, p.unicodeMode)
	}
	if uint32(c) <= 0xFFFF {
		p.buf.EmitU8(uint8(opcode.Char))
		p.buf.EmitU16(uint16(c))
	} else {
		p.buf.EmitU8(uint8(opcode.Char32))
		p.buf.EmitU32(uint32(c))
	}
}

// reserveJump appends a placeholder opcode + i32 offset, returning the
// instruction's start offset for a later patchJump call. Used for
// forward-referencing constructs (GOTO past an alternative not yet
// parsed) per spec.md Section 9's "record the patch site, not a pointer".
func (p *Parser) reserveJump(op opcode.Op) int {
	start := p.buf.Size()
	p.buf.EmitU8(uint8(op))
	p.buf.EmitI32(0)
	return start
}

// patchJump resolves a reserveJump site once its target is known. The
// offset is relative to the end of the 5-byte instruction, matching every
// GOTO/SPLIT_*/MATCH_AHEAD/NEGATIVE_MATCH_AHEAD in the ISA.
func (p *Parser) patchJump(instrStart, target int) {
	end := instrStart + 5
	p.buf.PutI32(instrStart+1, int32(target-end))
}

// insertJump opens a 5-byte gap at pos and fills it with op plus an
// offset computed against target, shifting everything at or after pos
// to the right by 5 bytes. Used by quantifier and disjunction emission,
// which both need to plant a SPLIT_* before code that is already
// written.
func (p *Parser) insertJump(pos int, op opcode.Op, target int) {
	p.buf.Insert(pos, 5)
	p.buf.PutU8(pos, uint8(op))
	end := pos + 5
	p.buf.PutI32(pos+1, int32(target-end))
}

// matchAheadOp picks MATCH_AHEAD or NEGATIVE_MATCH_AHEAD for a lookaround.
func matchAheadOp(negative bool) opcode.Op {
	if negative {
		return opcode.NegativeMatchAhead
	}
	return opcode.MatchAhead
}

func (p *Parser) emitMatch()            { p.emitOp(opcode.Match) }
func (p *Parser) emitMatchEnd()         { p.emitOp(opcode.MatchEnd) }
func (p *Parser) emitPop()              { p.emitOp(opcode.Pop) }
func (p *Parser) emitLineStart()        { p.emitOp(opcode.LineStart) }
func (p *Parser) emitLineEnd()          { p.emitOp(opcode.LineEnd) }
func (p *Parser) emitWordBoundary()     { p.emitOp(opcode.WordBoundary) }
func (p *Parser) emitNotWordBoundary()  { p.emitOp(opcode.NotWordBoundary) }

// emitAny appends ALL (when the s flag is set) or DOTS, bracketed by PREV
// in backward-emission mode so the cursor straddles the consumed code
// point (spec.md Section 4.D, "Backward emission mode").
func (p *Parser) emitAny() {
	if p.backward {
		p.emitOp(opcode.Prev)
	}
	if p.flags.Has(opcode.FlagDotAll) {
		p.emitOp(opcode.All)
	} else {
		p.emitOp(opcode.Dots)
	}
	if p.backward {
		p.emitOp(opcode.Prev)
	}
}

func (p *Parser) emitBackreference(k uint32) {
	if p.backward {
		p.emitOp(opcode.Prev)
	}
	op := opcode.Backreference
	if p.backward {
		op = opcode.BackwardBackreference
	}
	p.buf.EmitU8(uint8(op))
	p.buf.EmitU8(uint8(k))
	if p.backward {
		p.emitOp(opcode.Prev)
	}
}

// emitCharWithPrev wraps emitChar with the PREV bracketing backward mode
// requires for every code-unit-consuming op.
func (p *Parser) emitCharWithPrev(c rune) {
	if p.backward {
		p.emitOp(opcode.Prev)
	}
	p.emitChar(c)
	if p.backward {
		p.emitOp(opcode.Prev)
	}
}

// emitRangeSet appends RANGE (intervals fit in 16 bits) or RANGE32,
// bracketed by PREV in backward mode.
func (p *Parser) emitRangeSet(set *rangeset.Set) {
	if p.backward {
		p.emitOp(opcode.Prev)
	}
	ranges := set.Ranges()
	if set.FitsInBMP() {
		p.buf.EmitU8(uint8(opcode.Range))
		p.buf.EmitU16(uint16(len(ranges)))
		for _, r := range ranges {
			p.buf.EmitU16(uint16(r.Lo))
			p.buf.EmitU16(uint16(r.Hi))
		}
	} else {
		p.buf.EmitU8(uint8(opcode.Range32))
		p.buf.EmitU16(uint16(len(ranges)))
		for _, r := range ranges {
			p.buf.EmitU32(r.Lo)
			p.buf.EmitU32(r.Hi)
		}
	}
	if p.backward {
		p.emitOp(opcode.Prev)
	}
}
