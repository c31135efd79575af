// Package syntax implements the ECMAScript RegExp grammar: a recursive
// descent parser that lexes a pattern/flags pair and emits opcode
// bytecode into a bytecode.Buffer, following spec.md Section 4.D.
//
// Parsing never panics and never returns partial results: the first
// grammar violation latches a sticky *Error (mirroring
// original_source/ecmascript/regexp/regexp_parser.cpp's "is_error_"
// flag), and every subsequent production checks it and short-circuits
// before doing further work.
package syntax

import (
	"github.com/coregx/ecmaregex/bytecode"
	"github.com/coregx/ecmaregex/opcode"
)

// Program is a finished, parsed bytecode image plus the named-capture
// table the executor's caller needs to answer CaptureNames() (the names
// section itself is not persisted in Image; spec.md Section 6 notes this
// is only needed during parsing/API surface, not execution).
type Program struct {
	Image []byte
	Names map[string]uint32
}

// Parser holds all state for a single Parse call. It is not reusable
// across patterns.
type Parser struct {
	lx            *lexer
	flags         opcode.Flag
	unicodeMode   bool
	buf           *bytecode.Buffer
	nextCapture   uint32
	totalCaptures uint32
	declaredNames map[string]uint32 // from the capture pre-scan; used to validate \k<Name> even for forward references
	names         map[string]uint32 // built as groups are actually encountered; becomes Program.Names
	seenNames     map[string]bool
	curStack      uint32
	maxStack      uint32
	backward      bool
	err           *Error
}

// Parse compiles pattern under flags into a bytecode image, per spec.md
// Sections 4.D and 6. Equivalent to ParseWithCapacity with the buffer's
// default minimum capacity.
func Parse(pattern string, flags opcode.Flag) (*Program, error) {
	return ParseWithCapacity(pattern, flags, 0)
}

// ParseWithCapacity is Parse with the emitted bytecode buffer pre-sized
// to initialCapacity bytes (0 meaning "use the default"). A caller
// compiling many similarly-sized patterns can avoid the buffer's first
// few doublings by passing its own Config.InitialBufferCapacity.
func ParseWithCapacity(pattern string, flags opcode.Flag, initialCapacity int) (*Program, error) {
	total, declared := prescan([]rune(pattern))
	p := &Parser{
		lx:            newLexer(pattern),
		flags:         flags,
		unicodeMode:   flags.Has(opcode.FlagUnicode),
		buf:           bytecode.NewBufferWithCapacity(initialCapacity),
		nextCapture:   1,
		totalCaptures: total,
		declaredNames: declared,
		names:         make(map[string]uint32, len(declared)),
		seenNames:     make(map[string]bool, len(declared)),
	}

	bytecode.WriteHeader(p.buf)
	p.emitSaveStart(0)
	if !p.parseDisjunction() {
		return nil, p.err
	}
	if p.lx.c0 != eof {
		p.fail(ErrSyntax, p.lx.pos, "unmatched ')'")
		return nil, p.err
	}
	p.emitSaveEnd(0)
	p.emitMatchEnd()

	if bufErr := p.buf.Err(); bufErr != nil {
		return nil, newError(ErrAllocation, p.lx.pos, bufErr.Error())
	}
	bytecode.FinalizeHeader(p.buf, p.nextCapture, p.maxStack, flags)
	return &Program{
		Image: append([]byte(nil), p.buf.Bytes()...),
		Names: p.names,
	}, nil
}

func (p *Parser) fail(kind ErrorKind, pos int, detail string) *Error {
	if p.err == nil {
		p.err = newError(kind, pos, detail)
	}
	return p.err
}

// parseDisjunction implements Disjunction ::= Alternative ('|' Alternative)*
// per spec.md's "Emission strategy": each '|' inserts a SPLIT_NEXT before
// the alternatives seen so far and appends a GOTO, patched once the next
// alternative is known, past it.
func (p *Parser) parseDisjunction() bool {
	if p.err != nil {
		return false
	}
	outerStart := p.buf.Size()
	if !p.parseAlternative() {
		return false
	}
	for p.lx.c0 == '|' {
		p.lx.advance()
		gotoSite := p.reserveJump(opcode.Goto)
		nextAltStart := p.buf.Size() + 5 // +5: insertJump below shifts everything at/after outerStart right by 5
		p.insertJump(outerStart, opcode.SplitNext, nextAltStart)
		gotoSite += 5
		if !p.parseAlternative() {
			return false
		}
		p.patchJump(gotoSite, p.buf.Size())
	}
	return true
}

// parseAlternative implements Alternative ::= Term*. In backward-emission
// mode (inside a lookbehind), each term's bytes are rotated to the front
// of the region this call has emitted so far, so the whole alternative
// ends up running right-to-left (spec.md Section 4.D, "Backward emission
// mode").
func (p *Parser) parseAlternative() bool {
	if p.err != nil {
		return false
	}
	altStart := p.buf.Size()
	for p.lx.c0 != eof && p.lx.c0 != '|' && p.lx.c0 != ')' {
		termStart := p.buf.Size()
		if !p.parseTerm() {
			return false
		}
		if p.backward {
			p.buf.RotateSuffixToFront(altStart, termStart)
		}
	}
	return true
}

// parseTerm implements Term ::= Assertion | Atom Quantifier?. Assertions
// never take a quantifier.
func (p *Parser) parseTerm() bool {
	if p.err != nil {
		return false
	}
	switch p.lx.c0 {
	case '^':
		p.lx.advance()
		p.emitLineStart()
		return true
	case '$':
		p.lx.advance()
		p.emitLineEnd()
		return true
	case '\\':
		switch p.lx.peek(1) {
		case 'b':
			p.lx.advance()
			p.lx.advance()
			p.emitWordBoundary()
			return true
		case 'B':
			p.lx.advance()
			p.lx.advance()
			p.emitNotWordBoundary()
			return true
		}
	}

	atomStart := p.buf.Size()
	capBefore := p.nextCapture
	outerMax := p.maxStack
	p.maxStack = p.curStack
	if !p.parseAtom() {
		return false
	}
	capAfter := p.nextCapture
	atomPeak := p.maxStack
	p.maxStack = p.curStack
	ok := p.maybeParseQuantifier(atomStart, capBefore, capAfter)
	// The quantifier's PUSH/PUSH_CHAR slots stay live under every slot the
	// atom body itself pushes, so the two depths add up.
	p.maxStack = max(outerMax, atomPeak+(p.maxStack-p.curStack))
	return ok
}

// parseAtom implements Atom ::= '.' | PatternChar | '\' AtomEscape |
// CharacterClass | '(' GroupOrAssert ')'.
func (p *Parser) parseAtom() bool {
	switch p.lx.c0 {
	case '.':
		p.lx.advance()
		p.emitAny()
		return true
	case '[':
		return p.parseCharacterClass()
	case '(':
		return p.parseGroup()
	case '\\':
		return p.parseAtomEscape()
	case eof:
		p.fail(ErrSyntax, p.lx.pos, "unexpected end of pattern")
		return false
	case '*', '+', '?':
		p.fail(ErrSyntax, p.lx.pos, "nothing to repeat")
		return false
	case '{', '}', ']':
		if p.unicodeMode {
			p.fail(ErrSyntax, p.lx.pos, "unescaped brace/bracket is invalid under the u flag")
			return false
		}
		c := p.lx.c0
		p.lx.advance()
		p.emitCharWithPrev(c)
		return true
	default:
		c := p.lx.c0
		p.lx.advance()
		p.emitCharWithPrev(c)
		return true
	}
}

// parseAtomEscape implements AtomEscape: back-references, the \d\D\s\S\w\W
// class shorthands applied directly as an Atom, and CharacterEscape.
func (p *Parser) parseAtomEscape() bool {
	pos := p.lx.pos
	p.lx.advance() // consume '\'
	c := p.lx.c0

	switch {
	case c == 'k':
		return p.parseNamedBackreference(pos)
	case c == 'd' || c == 'D' || c == 's' || c == 'S' || c == 'w' || c == 'W':
		set := p.classShorthandSet(c)
		p.lx.advance()
		p.emitRangeSet(set)
		return true
	case c == '0' && !isDecimalDigit(p.lx.peek(1)):
		p.lx.advance()
		p.emitCharWithPrev(0)
		return true
	case isDecimalDigit(c) && c != '0':
		return p.parseNumericBackreference(pos)
	}

	if v, ok := p.parseCharEscapeValue(); ok {
		p.emitCharWithPrev(v)
		return true
	}
	if p.err != nil {
		return false
	}
	v, ok := p.identityEscapeValue(c)
	if !ok {
		return false
	}
	p.emitCharWithPrev(v)
	return true
}

func (p *Parser) parseNumericBackreference(pos int) bool {
	n := uint32(0)
	for isDecimalDigit(p.lx.c0) {
		n = n*10 + uint32(p.lx.c0-'0')
		p.lx.advance()
	}
	if n == 0 || n >= p.totalCaptures {
		p.fail(ErrBackreferenceRange, pos, "back-reference exceeds capture count")
		return false
	}
	p.emitBackreference(n)
	return true
}

func (p *Parser) parseNamedBackreference(pos int) bool {
	p.lx.advance() // consume 'k'
	if p.lx.c0 != '<' {
		if p.unicodeMode || len(p.declaredNames) > 0 {
			p.fail(ErrSyntax, pos, "expected named back-reference")
			return false
		}
		p.emitCharWithPrev('k')
		return true
	}
	p.lx.advance() // consume '<'
	name, ok := p.parseGroupName()
	if !ok {
		return false
	}
	idx, exists := p.declaredNames[name]
	if !exists {
		p.fail(ErrSyntax, pos, "undefined named back-reference")
		return false
	}
	p.emitBackreference(idx)
	return true
}

// parseDecimalDigits consumes one or more decimal digits.
func (p *Parser) parseDecimalDigits() uint32 {
	var v uint32
	for isDecimalDigit(p.lx.c0) {
		v = v*10 + uint32(p.lx.c0-'0')
		p.lx.advance()
	}
	return v
}

// parseQuantifierPrefix parses the repetition-count portion of Quantifier
// (everything but the trailing lazy '?'): '*', '+', '?', or '{min,max}'.
func (p *Parser) parseQuantifierPrefix() (min, max uint32, has, ok bool) {
	switch p.lx.c0 {
	case '*':
		p.lx.advance()
		return 0, unbounded, true, true
	case '+':
		p.lx.advance()
		return 1, unbounded, true, true
	case '?':
		p.lx.advance()
		return 0, 1, true, true
	case '{':
		return p.parseIntervalQuantifier()
	default:
		return 0, 0, false, true
	}
}

// parseIntervalQuantifier parses '{' DecimalDigits (',' DecimalDigits?)? '}'.
// If the text at c0 does not have this shape, it is not a quantifier at
// all (e.g. a literal '{' under non-u patterns): position is restored and
// has=false, ok=true is returned with no error recorded.
func (p *Parser) parseIntervalQuantifier() (min, max uint32, has, ok bool) {
	save := p.lx.pos
	p.lx.advance() // consume '{'
	if !isDecimalDigit(p.lx.c0) {
		p.lx.restoreTo(save)
		return 0, 0, false, true
	}
	min = p.parseDecimalDigits()
	max = min
	if p.lx.c0 == ',' {
		p.lx.advance()
		if isDecimalDigit(p.lx.c0) {
			max = p.parseDecimalDigits()
		} else {
			max = unbounded
		}
	}
	if p.lx.c0 != '}' {
		p.lx.restoreTo(save)
		return 0, 0, false, true
	}
	p.lx.advance()
	if max < min {
		p.fail(ErrSyntax, save, "quantifier range is out of order")
		return 0, 0, false, false
	}
	return min, max, true, true
}

// maybeParseQuantifier parses an optional Quantifier following the atom
// that was just emitted at [atomStart, buf.Size()), and—if present—emits
// the PUSH/SAVE_RESET/PUSH_CHAR/LOOP/SPLIT_*/POP sequence spec.md Section
// 4.D describes.
func (p *Parser) maybeParseQuantifier(atomStart int, capBefore, capAfter uint32) bool {
	min, max, has, ok := p.parseQuantifierPrefix()
	if !ok {
		return false
	}
	if !has {
		return true
	}
	greedy := true
	if p.lx.c0 == '?' {
		p.lx.advance()
		greedy = false
	}

	switch p.lx.c0 {
	case '*', '+', '?':
		p.fail(ErrSyntax, p.lx.pos, "quantifier cannot follow a quantifier")
		return false
	case '{':
		_, _, has2, ok2 := p.parseIntervalQuantifier()
		if !ok2 {
			return false
		}
		if has2 {
			p.fail(ErrSyntax, p.lx.pos, "quantifier cannot follow a quantifier")
			return false
		}
	}

	p.emitQuantifier(atomStart, min, max, greedy, capBefore, capAfter)
	return true
}

// emitQuantifier implements spec.md Section 4.D's six-step quantifier
// emission. All positions are computed relative to the live buffer so
// each Insert's rightward shift of later bytes is accounted for as it
// happens, rather than patched after the fact.
func (p *Parser) emitQuantifier(atomStart int, min, max uint32, greedy bool, capBefore, capAfter uint32) {
	insertOff := atomStart

	p.buf.Insert(insertOff, 1)
	p.buf.PutU8(insertOff, uint8(opcode.Push))
	p.bumpStack()
	cur := insertOff + 1

	if capAfter > capBefore {
		p.buf.Insert(cur, 3)
		p.buf.PutU8(cur, uint8(opcode.SaveReset))
		p.buf.PutU8(cur+1, uint8(capBefore))
		p.buf.PutU8(cur+2, uint8(capAfter-1))
		cur += 3
	}

	// skipTarget is where a min==0 SPLIT must land: after the unconditional
	// PUSH/SAVE_RESET prefix (which always runs, paired with the closing
	// POP) but before PUSH_CHAR and the atom body, which only run when an
	// iteration actually happens. Skipping PUSH itself would leave POP
	// popping a slot that was never pushed.
	skipTarget := cur

	unboundedMax := max == unbounded
	pushCharPos := -1
	if unboundedMax {
		pushCharPos = cur
		p.buf.Insert(cur, 1)
		p.buf.PutU8(cur, uint8(opcode.PushChar))
		p.bumpStack()
		cur++
	}

	loopBack := cur
	if pushCharPos >= 0 {
		loopBack = pushCharPos
	}

	if unboundedMax {
		// CHECK_CHAR sits right after the atom body, inside the loop: it
		// pops the pointer PUSH_CHAR pushed at the top of this same
		// iteration and, if the body made no progress, skips the LOOP
		// instruction that immediately follows it (its own fixed size,
		// 13 bytes) so a zero-width body does not spin forever.
		p.buf.EmitU8(uint8(opcode.CheckChar))
		p.buf.EmitU32(13)
		p.curStack--
	}

	loopOp := opcode.Loop
	if greedy {
		loopOp = opcode.LoopGreedy
	}
	loopStart := p.buf.Size()
	p.buf.EmitU8(uint8(loopOp))
	p.buf.EmitI32(int32(loopBack - (loopStart + 13)))
	p.buf.EmitU32(min)
	p.buf.EmitU32(max)
	loopEnd := p.buf.Size()

	if min == 0 {
		op := opcode.SplitNext
		if !greedy {
			op = opcode.SplitFirst
		}
		// loopEnd was captured before this insert's own 5-byte gap; since
		// skipTarget <= loopEnd, the gap shifts loopEnd right by 5 too, so
		// the post-insert landing spot is loopEnd+5.
		p.insertJump(skipTarget, op, loopEnd+5)
	}

	p.emitPop()
	p.curStack--
}

func (p *Parser) bumpStack() {
	p.curStack++
	if p.curStack > p.maxStack {
		p.maxStack = p.curStack
	}
}
