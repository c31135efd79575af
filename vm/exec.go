package vm

import (
	"errors"

	"github.com/coregx/ecmaregex/bytecode"
	"github.com/coregx/ecmaregex/opcode"
	"github.com/coregx/ecmaregex/syntax"
)

// ErrBacktrackLimitExceeded is returned by Exec when a positive maxSteps
// budget is exhausted before the match attempt (including every retried
// start position) either succeeds or proves there is no match. Pattern +
// input combinations that are catastrophically backtracking will trip
// this instead of running unbounded; spec.md's executor has no such
// budget of its own (host-owned concern), so this is purely an optional
// guard a caller opts into via Config.MaxBacktrackSteps.
var ErrBacktrackLimitExceeded = errors.New("vm: backtrack step limit exceeded")

// machine holds everything the executor mutates while running one Exec
// call: the instruction stream, the input, the current (pc, ptr) position,
// the capture slots, the fixed-size loop-counter stack, and the backtrack
// frame stack. There is exactly one machine per Exec call; nothing here
// is reused across calls, matching spec.md Section 4.E's "no recursion,
// no panics, no goroutines, a single flat loop" requirement.
type machine struct {
	image []byte
	in    Input
	flags opcode.Flag

	unicodeMode bool
	ignoreCase  bool

	pc       int
	ptr      int
	captures []Capture
	stack    []uint32
	stackTop int
	frames   []frame

	steps         int
	maxSteps      int
	limitExceeded bool
}

// Exec runs the compiled program in image against in, starting the search
// at startIndex code units in. It returns a non-matching Result (not an
// error) when the pattern simply fails to match; an error is reserved for
// a malformed bytecode image or, when maxSteps is positive, for a match
// attempt that exceeds that many dispatch steps (ErrBacktrackLimitExceeded).
// maxSteps <= 0 means unbounded, matching spec.md's executor having no
// budget of its own.
func Exec(image []byte, in Input, startIndex, maxSteps int) (*Result, error) {
	hdr, err := bytecode.ReadHeader(image)
	if err != nil {
		return nil, err
	}
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex > in.Len() {
		return &Result{Matched: false}, nil
	}

	m := &machine{
		image:       image,
		in:          in,
		flags:       hdr.Flags,
		unicodeMode: hdr.Flags.Has(opcode.FlagUnicode),
		ignoreCase:  hdr.Flags.Has(opcode.FlagIgnoreCase),
		pc:          opcode.HeaderSize,
		ptr:         startIndex,
		captures:    make([]Capture, hdr.NumCaptures),
		stack:       make([]uint32, hdr.NumStack),
		maxSteps:    maxSteps,
	}
	for i := range m.captures {
		m.captures[i] = unsetCapture()
	}

	if !hdr.Flags.Has(opcode.FlagSticky) {
		m.pushFrame(frameSplit, opcode.HeaderSize)
	}

	if !m.run() {
		if m.limitExceeded {
			return nil, ErrBacktrackLimitExceeded
		}
		return &Result{Matched: false}, nil
	}
	return &Result{
		Matched:  true,
		Index:    m.captures[0].Start,
		EndIndex: m.captures[0].End,
		Captures: append([]Capture(nil), m.captures...),
	}, nil
}

// run is the single dispatch loop driving the whole match attempt: read
// the opcode at pc, act on it, and either fall through to the next
// instruction or unwind via matchFailed. It returns true the instant a
// MATCH_END is reached and false once the backtrack stack is fully
// exhausted with no match found.
func (m *machine) run() bool {
	sticky := m.flags.Has(opcode.FlagSticky)
	for {
		if m.maxSteps > 0 {
			m.steps++
			if m.steps > m.maxSteps {
				m.limitExceeded = true
				return false
			}
		}

		// Reusing the ordinary split frame for the non-sticky "retry at the
		// next start position" mechanism: this only fires once every other
		// choice spawned by the current attempt has been exhausted, i.e.
		// exactly when we're back at the body's first instruction with an
		// empty backtrack stack. Grounded on HandleFirstSplit in
		// regexp_executor.cpp rather than a separate outer retry loop.
		if !sticky && m.pc == opcode.HeaderSize && len(m.frames) == 0 {
			if m.ptr >= m.in.Len() {
				if m.matchFailed(false) {
					return false
				}
				continue
			}
			m.ptr++
			m.pushFrame(frameSplit, opcode.HeaderSize)
		}

		if !m.step() {
			return false
		}
		if m.pc < 0 {
			return true
		}
	}
}

// step executes exactly one instruction, returning false only when the
// whole match attempt is exhausted (matchFailed returned true). A
// successful MATCH_END sets m.pc to -1 as a sentinel the caller checks
// for, since MATCH_END has no natural "next instruction".
func (m *machine) step() bool {
	op := opcode.Op(m.image[m.pc])
	switch op {
	case opcode.SaveStart:
		k := m.image[m.pc+1]
		m.captures[k].Start = m.ptr
		m.pc += opcode.FixedSize[opcode.SaveStart]
		return true
	case opcode.SaveEnd:
		k := m.image[m.pc+1]
		m.captures[k].End = m.ptr
		m.pc += opcode.FixedSize[opcode.SaveEnd]
		return true
	case opcode.SaveReset:
		s, e := int(m.image[m.pc+1]), int(m.image[m.pc+2])
		for i := s; i <= e; i++ {
			m.captures[i] = unsetCapture()
		}
		m.pc += opcode.FixedSize[opcode.SaveReset]
		return true

	case opcode.Char, opcode.Char32:
		return m.execChar(op)
	case opcode.All, opcode.Dots:
		return m.execAny(op)
	case opcode.Range, opcode.Range32:
		return m.execRange(op)

	case opcode.Goto:
		off := readI32(m.image, m.pc+1)
		m.pc = m.pc + opcode.FixedSize[opcode.Goto] + int(off)
		return true

	case opcode.SplitFirst:
		off := readI32(m.image, m.pc+1)
		next := m.pc + opcode.FixedSize[opcode.SplitFirst]
		m.pushFrame(frameSplit, next)
		m.pc = next + int(off)
		return true

	case opcode.SplitNext, opcode.MatchAhead, opcode.NegativeMatchAhead:
		off := readI32(m.image, m.pc+1)
		next := m.pc + opcode.FixedSize[op]
		m.pushFrame(kindForOp(op), next+int(off))
		m.pc = next
		return true

	case opcode.Match:
		if m.matchFailed(true) {
			return false
		}
		return true
	case opcode.MatchEnd:
		m.pc = -1
		return true

	case opcode.Prev:
		return m.execPrev(op)
	case opcode.LineStart:
		return m.execLineStart()
	case opcode.LineEnd:
		return m.execLineEnd()
	case opcode.WordBoundary, opcode.NotWordBoundary:
		return m.execWordBoundary(op)

	case opcode.Loop, opcode.LoopGreedy:
		m.execLoop(op)
		return true

	case opcode.Push:
		m.stack[m.stackTop] = 0
		m.stackTop++
		m.pc += opcode.FixedSize[opcode.Push]
		return true
	case opcode.PushChar:
		m.stack[m.stackTop] = uint32(m.ptr)
		m.stackTop++
		m.pc += opcode.FixedSize[opcode.PushChar]
		return true
	case opcode.CheckChar:
		off := readU32(m.image, m.pc+1)
		m.stackTop--
		popped := m.stack[m.stackTop]
		m.pc += opcode.FixedSize[opcode.CheckChar]
		if popped == uint32(m.ptr) {
			m.pc += int(off)
		}
		return true
	case opcode.Pop:
		m.stackTop--
		m.pc += opcode.FixedSize[opcode.Pop]
		return true

	case opcode.Backreference, opcode.BackwardBackreference:
		return m.execBackreference(op)

	default:
		return false
	}
}

func kindForOp(op opcode.Op) frameKind {
	switch op {
	case opcode.MatchAhead:
		return frameMatchAhead
	case opcode.NegativeMatchAhead:
		return frameNegativeMatchAhead
	default:
		return frameSplit
	}
}

func (m *machine) pushFrame(kind frameKind, pc int) {
	f := frame{
		kind:     kind,
		pc:       pc,
		ptr:      m.ptr,
		stackTop: m.stackTop,
		stack:    append([]uint32(nil), m.stack...),
		captures: append([]Capture(nil), m.captures...),
	}
	m.frames = append(m.frames, f)
}

func (m *machine) popFrame(restoreCaptures bool) frame {
	f := m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	m.pc = f.pc
	m.ptr = f.ptr
	m.stackTop = f.stackTop
	copy(m.stack, f.stack)
	if restoreCaptures {
		copy(m.captures, f.captures)
	}
	return f
}

func (m *machine) dropFrame() {
	m.frames = m.frames[:len(m.frames)-1]
}

// matchFailed unwinds the backtrack stack in response to a failed
// instruction (isMatched=false) or a completed MATCH (isMatched=true),
// exactly mirroring regexp_executor.cpp's MatchFailed: a plain split
// frame simply resumes at its saved (pc, ptr) on failure and is dropped
// transparently on success (the lookaround that spawned it, if any, is
// further up the stack). A lookaround frame recomputes isMatched against
// its own polarity and either resumes (propagating a positive result
// forward, or restoring pre-lookaround captures on a negative result) or
// keeps unwinding. Returns true when the backtrack stack is exhausted
// with nothing left to resume, meaning the whole attempt has failed.
func (m *machine) matchFailed(isMatched bool) bool {
	for {
		if len(m.frames) == 0 {
			return true
		}
		f := m.frames[len(m.frames)-1]
		switch f.kind {
		case frameSplit:
			if !isMatched {
				m.popFrame(true)
				return false
			}
		case frameMatchAhead:
			if isMatched {
				m.popFrame(false)
				return false
			}
		case frameNegativeMatchAhead:
			isMatched = !isMatched
			if isMatched {
				m.popFrame(true)
				return false
			}
		}
		m.dropFrame()
	}
}

func (m *machine) execChar(op opcode.Op) bool {
	var expected uint32
	if op == opcode.Char32 {
		expected = readU32(m.image, m.pc+1)
	} else {
		expected = uint32(readU16(m.image, m.pc+1))
	}
	cp, width := m.in.peekChar(m.ptr, m.unicodeMode)
	if width == 0 {
		return !m.matchFailed(false)
	}
	if m.ignoreCase {
		cp = uint32(syntax.Canonicalize(rune(cp), m.unicodeMode))
	}
	if cp != expected {
		return !m.matchFailed(false)
	}
	m.ptr += width
	m.pc += opcode.FixedSize[op]
	return true
}

func (m *machine) execAny(op opcode.Op) bool {
	cp, width := m.in.peekChar(m.ptr, m.unicodeMode)
	if width == 0 {
		return !m.matchFailed(false)
	}
	if op == opcode.Dots && syntax.IsLineTerminator(rune(cp)) {
		return !m.matchFailed(false)
	}
	m.ptr += width
	m.pc += opcode.FixedSize[op]
	return true
}

func (m *machine) execRange(op opcode.Op) bool {
	cp, width := m.in.peekChar(m.ptr, m.unicodeMode)
	if width == 0 {
		return !m.matchFailed(false)
	}
	if m.ignoreCase {
		cp = uint32(syntax.Canonicalize(rune(cp), m.unicodeMode))
	}
	count := int(readU16(m.image, m.pc+1))
	base := m.pc + 3
	found := false
	wide := op == opcode.Range32
	if wide {
		for i := 0; i < count; i++ {
			lo := readU32(m.image, base+i*8)
			hi := readU32(m.image, base+i*8+4)
			if cp >= lo && cp <= hi {
				found = true
				break
			}
		}
	} else {
		for i := 0; i < count; i++ {
			lo := uint32(readU16(m.image, base+i*4))
			hi := uint32(readU16(m.image, base+i*4+2))
			if cp >= lo && cp <= hi {
				found = true
				break
			}
		}
	}
	if !found {
		return !m.matchFailed(false)
	}
	m.ptr += width
	m.pc += opcode.RangeSize(wide, count)
	return true
}

func (m *machine) execPrev(op opcode.Op) bool {
	if m.ptr == 0 {
		return !m.matchFailed(false)
	}
	_, width := m.in.prevChar(m.ptr, m.unicodeMode)
	m.ptr -= width
	m.pc += opcode.FixedSize[op]
	return true
}

// execLineStart follows original_source's HandleOpLineStart literally,
// including its EOF-first check: ^ fails outright when the cursor is at
// the very end of input (even on an empty string, where position 0 is
// simultaneously the end), and otherwise succeeds at position 0 or, under
// the m flag, right after a line terminator.
func (m *machine) execLineStart() bool {
	if m.ptr >= m.in.Len() {
		return !m.matchFailed(false)
	}
	if m.ptr == 0 {
		m.pc += opcode.FixedSize[opcode.LineStart]
		return true
	}
	if m.flags.Has(opcode.FlagMultiline) {
		prev, _ := m.in.prevChar(m.ptr, m.unicodeMode)
		if syntax.IsLineTerminator(rune(prev)) {
			m.pc += opcode.FixedSize[opcode.LineStart]
			return true
		}
	}
	return !m.matchFailed(false)
}

func (m *machine) execLineEnd() bool {
	if m.ptr >= m.in.Len() {
		m.pc += opcode.FixedSize[opcode.LineEnd]
		return true
	}
	if m.flags.Has(opcode.FlagMultiline) {
		next, _ := m.in.peekChar(m.ptr, m.unicodeMode)
		if syntax.IsLineTerminator(rune(next)) {
			m.pc += opcode.FixedSize[opcode.LineEnd]
			return true
		}
	}
	return !m.matchFailed(false)
}

// execWordBoundary computes both neighbors explicitly rather than
// special-casing EOF the way original_source's HandleOpWordBoundary does
// (it unconditionally succeeds \b and fails \B at EOF without consulting
// the preceding character at all, which does not match ECMA-262 for e.g.
// /\b$/ against "a "). See DESIGN.md for this deliberate divergence.
func (m *machine) execWordBoundary(op opcode.Op) bool {
	preIsWord := false
	if m.ptr > 0 {
		prev, _ := m.in.prevChar(m.ptr, m.unicodeMode)
		preIsWord = syntax.IsWordChar(rune(prev))
	}
	curIsWord := false
	if m.ptr < m.in.Len() {
		cur, _ := m.in.peekChar(m.ptr, m.unicodeMode)
		curIsWord = syntax.IsWordChar(rune(cur))
	}
	boundary := preIsWord != curIsWord
	wantBoundary := op == opcode.WordBoundary
	if boundary != wantBoundary {
		return !m.matchFailed(false)
	}
	m.pc += opcode.FixedSize[op]
	return true
}

// execLoop implements the quantifier loop-counter check: the counter
// lives on the push stack (one slot per active loop, nested loops
// stacking naturally), incremented on every re-entry. Below min it must
// keep looping; from min up to max a greedy loop prefers one more
// iteration (pushing the exit as the deferred choice) while a lazy loop
// prefers exiting now (pushing one more iteration as the deferred
// choice); at max it takes the only remaining option.
func (m *machine) execLoop(op opcode.Op) {
	back := readI32(m.image, m.pc+1)
	min := readU32(m.image, m.pc+5)
	max := readU32(m.image, m.pc+9)
	size := opcode.FixedSize[op]
	loopEnd := m.pc + size
	loopStart := loopEnd + int(back)
	greedy := op == opcode.LoopGreedy

	m.stackTop--
	count := m.stack[m.stackTop] + 1
	m.stack[m.stackTop] = count
	m.stackTop++

	if count < max {
		if count < min {
			m.pc = loopStart
			return
		}
		if greedy {
			m.pushFrame(frameSplit, loopEnd)
			m.pc = loopStart
		} else {
			m.pushFrame(frameSplit, loopStart)
			m.pc = loopEnd
		}
		return
	}
	m.pc = loopEnd
}

func (m *machine) execBackreference(op opcode.Op) bool {
	k := int(m.image[m.pc+1])
	size := opcode.FixedSize[op]
	if k >= len(m.captures) {
		return !m.matchFailed(false)
	}
	ref := m.captures[k]
	if ref.Start < 0 || ref.End < 0 {
		m.pc += size
		return true
	}

	if op == opcode.Backreference {
		refPos, ptr := ref.Start, m.ptr
		for refPos < ref.End {
			if ptr >= m.in.Len() {
				return !m.matchFailed(false)
			}
			c1, w1 := m.in.peekChar(refPos, m.unicodeMode)
			c2, w2 := m.in.peekChar(ptr, m.unicodeMode)
			if m.ignoreCase {
				c1 = uint32(syntax.Canonicalize(rune(c1), m.unicodeMode))
				c2 = uint32(syntax.Canonicalize(rune(c2), m.unicodeMode))
			}
			if c1 != c2 {
				return !m.matchFailed(false)
			}
			refPos += w1
			ptr += w2
		}
		m.ptr = ptr
		m.pc += size
		return true
	}

	refPos, ptr := ref.End, m.ptr
	for refPos > ref.Start {
		if ptr <= 0 {
			return !m.matchFailed(false)
		}
		c1, w1 := m.in.prevChar(refPos, m.unicodeMode)
		c2, w2 := m.in.prevChar(ptr, m.unicodeMode)
		if m.ignoreCase {
			c1 = uint32(syntax.Canonicalize(rune(c1), m.unicodeMode))
			c2 = uint32(syntax.Canonicalize(rune(c2), m.unicodeMode))
		}
		if c1 != c2 {
			return !m.matchFailed(false)
		}
		refPos -= w1
		ptr -= w2
	}
	m.ptr = ptr
	m.pc += size
	return true
}
