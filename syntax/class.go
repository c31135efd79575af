package syntax

import (
	"fmt"

	"github.com/coregx/ecmaregex/opcode"
	"github.com/coregx/ecmaregex/rangeset"
)

// syntaxCharacters is the ECMAScript SyntaxCharacter set: under the u
// flag, IdentityEscape (backslash followed by a character with no other
// meaning) is only legal for these plus '/'.
const syntaxCharacters = `^$\.*+?()[]{}|`

// parseCharEscapeValue parses the value-producing half of CharacterEscape
// / legacy octal (spec.md Section 4.D's Escapes table), starting right
// after the consumed backslash. It is shared by class-atom parsing and
// plain atom-escape parsing: both need "\n means newline", "\xHH means a
// byte", etc., and only differ in whether a bare decimal digit sequence
// means a back-reference (atom context) or legacy octal (class context) —
// that distinction is handled by the two callers, not here.
func (p *Parser) parseCharEscapeValue() (rune, bool) {
	c := p.lx.c0
	switch c {
	case 'f':
		p.lx.advance()
		return '\f', true
	case 'n':
		p.lx.advance()
		return '\n', true
	case 'r':
		p.lx.advance()
		return '\r', true
	case 't':
		p.lx.advance()
		return '\t', true
	case 'v':
		p.lx.advance()
		return '\v', true
	case 'c':
		return p.parseControlEscape()
	case 'x':
		return p.parseHexEscape()
	case 'u':
		return p.parseUnicodeEscape()
	default:
		return 0, false
	}
}

// parseControlEscape parses \cX. Without the u flag an invalid form falls
// back to a literal backslash (spec.md: "without u, invalid form falls
// back to literal \"); with u it is a syntax error.
func (p *Parser) parseControlEscape() (rune, bool) {
	save := p.lx.pos
	p.lx.advance() // consume 'c'
	x := p.lx.c0
	if (x >= 'A' && x <= 'Z') || (x >= 'a' && x <= 'z') {
		p.lx.advance()
		return rune(x & 0x1F), true
	}
	if p.unicodeMode {
		p.fail(ErrSyntax, save, "invalid \\c control escape")
		return 0, false
	}
	p.lx.restoreTo(save)
	return '\\', true
}

// parseHexEscape parses \xHH.
func (p *Parser) parseHexEscape() (rune, bool) {
	pos := p.lx.pos
	p.lx.advance() // consume 'x'
	var v uint32
	for i := 0; i < 2; i++ {
		if !isHexDigit(p.lx.c0) {
			p.fail(ErrSyntax, pos, "incomplete \\x escape")
			return 0, false
		}
		v = v<<4 | hexValue(p.lx.c0)
		p.lx.advance()
	}
	return rune(v), true
}

// parseUnicodeEscape parses \uHHHH or, under the u flag, \u{H...H}. A
// lone high surrogate followed by \uHHHH low surrogate combines to one
// code point only when u is set (spec.md Section 4.E mirrors this same
// rule for the executor's input decoding).
func (p *Parser) parseUnicodeEscape() (rune, bool) {
	pos := p.lx.pos
	p.lx.advance() // consume 'u'
	if p.unicodeMode && p.lx.c0 == '{' {
		p.lx.advance()
		var v uint32
		digits := 0
		for isHexDigit(p.lx.c0) {
			v = v<<4 | hexValue(p.lx.c0)
			p.lx.advance()
			digits++
			if v > rangeset.MaxUnicode {
				p.fail(ErrSyntax, pos, "\\u{...} code point out of range")
				return 0, false
			}
		}
		if digits == 0 || p.lx.c0 != '}' {
			p.fail(ErrSyntax, pos, "invalid \\u{...} escape")
			return 0, false
		}
		p.lx.advance()
		return rune(v), true
	}

	v, ok := p.parseU16Hex()
	if !ok {
		p.fail(ErrSyntax, pos, "incomplete \\u escape")
		return 0, false
	}
	if p.unicodeMode && v >= 0xD800 && v <= 0xDBFF && p.lx.c0 == '\\' && p.lx.peek(1) == 'u' {
		save := p.lx.pos
		p.lx.advance()
		p.lx.advance()
		low, ok := p.parseU16Hex()
		if ok && low >= 0xDC00 && low <= 0xDFFF {
			return rune(0x10000 + (v-0xD800)*0x400 + (low - 0xDC00)), true
		}
		p.lx.pos = save
		p.lx.c0 = p.lx.src[save]
	}
	return rune(v), true
}

func (p *Parser) parseU16Hex() (uint32, bool) {
	var v uint32
	for i := 0; i < 4; i++ {
		if !isHexDigit(p.lx.c0) {
			return 0, false
		}
		v = v<<4 | hexValue(p.lx.c0)
		p.lx.advance()
	}
	return v, true
}

// parseLegacyOctal parses up to three octal digits (value < 256),
// starting at the already-consumed first digit d. Only reachable when the
// u flag is unset, per the Section 9 open-question resolution: any octal
// escape under u is a syntax error, so callers never invoke this in
// unicode mode.
func (p *Parser) parseLegacyOctal(d rune) rune {
	v := uint32(d - '0')
	for i := 0; i < 2 && isOctalDigit(p.lx.c0); i++ {
		next := v*8 + uint32(p.lx.c0-'0')
		if next > 0xFF {
			break
		}
		v = next
		p.lx.advance()
	}
	return rune(v)
}

// identityEscapeValue implements IdentityEscape: the escaped character
// itself. Under u, only SyntaxCharacter or '/' may be escaped this way;
// anything else is a syntax error.
func (p *Parser) identityEscapeValue(c rune) (rune, bool) {
	if p.unicodeMode {
		for _, s := range syntaxCharacters {
			if s == c {
				p.lx.advance()
				return c, true
			}
		}
		if c == '/' {
			p.lx.advance()
			return c, true
		}
		p.fail(ErrSyntax, p.lx.pos, fmt.Sprintf("invalid escape \\%c under u flag", c))
		return 0, false
	}
	p.lx.advance()
	return c, true
}

// classShorthandSet returns the predefined range set for d/D/s/S/w/W, or
// nil if c does not name one.
func (p *Parser) classShorthandSet(c rune) *rangeset.Set {
	switch c {
	case 'd':
		return digitSet()
	case 'D':
		s := digitSet()
		s.Invert(p.unicodeMode)
		return s
	case 's':
		return whitespaceSet()
	case 'S':
		s := whitespaceSet()
		s.Invert(p.unicodeMode)
		return s
	case 'w':
		return wordSet()
	case 'W':
		s := wordSet()
		s.Invert(p.unicodeMode)
		return s
	default:
		return nil
	}
}

// classAtom is the result of parsing one ClassAtom: either a single code
// point (usable as a '-'-range endpoint) or a predefined shorthand set
// (never usable as a range endpoint).
type classAtom struct {
	set *rangeset.Set
	cp  rune
}

// parseClassAtom parses one atom inside [...], handling escapes per
// spec.md Section 4.D's Escapes table plus the class-only rule that \b
// means backspace and a bare '-' is literal.
func (p *Parser) parseClassAtom() (classAtom, bool) {
	pos := p.lx.pos
	c := p.lx.c0
	if c == '\\' {
		p.lx.advance()
		esc := p.lx.c0
		if set := p.classShorthandSet(esc); set != nil {
			p.lx.advance()
			return classAtom{set: set}, true
		}
		switch {
		case esc == 'b':
			p.lx.advance()
			return classAtom{cp: '\b'}, true
		case esc == '0' && !isDecimalDigit(p.lx.peek(1)):
			p.lx.advance()
			return classAtom{cp: 0}, true
		case isOctalDigit(esc):
			if p.unicodeMode {
				p.fail(ErrSyntax, pos, "octal escapes are invalid under the u flag")
				return classAtom{}, false
			}
			p.lx.advance()
			return classAtom{cp: p.parseLegacyOctal(esc)}, true
		case esc == '8' || esc == '9':
			if p.unicodeMode {
				p.fail(ErrSyntax, pos, "invalid escape under the u flag")
				return classAtom{}, false
			}
			p.lx.advance()
			return classAtom{cp: esc}, true
		}
		if v, ok := p.parseCharEscapeValue(); ok {
			return classAtom{cp: v}, true
		}
		if p.err != nil {
			return classAtom{}, false
		}
		v, ok := p.identityEscapeValue(esc)
		return classAtom{cp: v}, ok
	}
	p.lx.advance()
	return classAtom{cp: c}, true
}

// parseCharacterClass parses '[' ClassRanges ']' and emits the resulting
// RANGE/RANGE32, inverted relative to the active code-point universe if
// the class opened with '^'.
func (p *Parser) parseCharacterClass() bool {
	pos := p.lx.pos
	p.lx.advance() // consume '['
	negate := p.lx.eat('^')

	set := rangeset.NewSet()
	for p.lx.c0 != ']' && p.lx.c0 != eof {
		a, ok := p.parseClassAtom()
		if !ok {
			return false
		}
		if a.set != nil {
			set.InsertSet(a.set)
			continue
		}
		if p.lx.c0 == '-' && p.lx.peek(1) != ']' && p.lx.peek(1) != eof {
			save := p.lx.pos
			p.lx.advance() // consume '-'
			b, ok := p.parseClassAtom()
			if !ok {
				return false
			}
			if b.set != nil {
				// '-' is literal when either side is a shorthand class.
				set.Insert(uint32(a.cp), uint32(a.cp))
				set.Insert('-', '-')
				set.InsertSet(b.set)
				continue
			}
			if b.cp < a.cp {
				p.fail(ErrSyntax, save, "character class range out of order")
				return false
			}
			set.Insert(uint32(a.cp), uint32(b.cp))
			continue
		}
		set.Insert(uint32(a.cp), uint32(a.cp))
	}
	if p.lx.c0 != ']' {
		p.fail(ErrSyntax, pos, "unterminated character class")
		return false
	}
	p.lx.advance() // consume ']'

	if p.flags.Has(opcode.FlagIgnoreCase) {
		folded := set.Clone()
		for _, r := range set.Ranges() {
			for c := r.Lo; c <= r.Hi; c++ {
				if f := uint32(Canonicalize(rune(c), p.unicodeMode)); f != c {
					folded.Insert(f, f)
				}
			}
		}
		set = folded
	}
	if negate {
		set.Invert(p.unicodeMode)
	}
	p.emitRangeSet(set)
	return true
}
