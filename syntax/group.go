package syntax

// parseGroup parses a parenthesized construct starting at '(' (already
// the current token) through its closing ')'. It dispatches to capturing,
// non-capturing, lookaround, or named-capturing emission per spec.md
// Section 4.D's "Group emission".
func (p *Parser) parseGroup() bool {
	pos := p.lx.pos
	p.lx.advance() // consume '('

	if p.lx.c0 == '?' {
		switch p.lx.peek(1) {
		case ':':
			p.lx.advance()
			p.lx.advance()
			return p.parseGroupBody(pos, p.backward)
		case '=':
			p.lx.advance()
			p.lx.advance()
			return p.parseLookaround(pos, false, false)
		case '!':
			p.lx.advance()
			p.lx.advance()
			return p.parseLookaround(pos, true, false)
		case '<':
			switch p.lx.peek(2) {
			case '=':
				p.lx.advance()
				p.lx.advance()
				p.lx.advance()
				return p.parseLookaround(pos, false, true)
			case '!':
				p.lx.advance()
				p.lx.advance()
				p.lx.advance()
				return p.parseLookaround(pos, true, true)
			default:
				p.lx.advance() // consume '?'
				return p.parseNamedCapture(pos)
			}
		default:
			p.fail(ErrSyntax, pos, "invalid group")
			return false
		}
	}

	return p.parseCapture(pos, "")
}

// parseGroupBody parses a bare Disjunction up to ')', used by
// non-capturing groups and as the shared tail of every other group form.
func (p *Parser) parseGroupBody(pos int, backward bool) bool {
	saved := p.backward
	p.backward = backward
	ok := p.parseDisjunction()
	p.backward = saved
	if !ok {
		return false
	}
	if p.lx.c0 != ')' {
		p.fail(ErrSyntax, pos, "unterminated group")
		return false
	}
	p.lx.advance()
	return true
}

// parseCapture emits a capturing group: SAVE_START(k) ... body ...
// SAVE_END(k), with the save order swapped when backward is active: the
// body then runs right-to-left, so SAVE_END executes first and records the
// group's right edge, and SAVE_START executes after the body and records
// its left edge (spec.md Section 4.D).
func (p *Parser) parseCapture(pos int, name string) bool {
	k := p.nextCapture
	p.nextCapture++
	if name != "" {
		if p.seenNames[name] {
			p.fail(ErrSyntax, pos, "duplicate capture group name")
			return false
		}
		p.seenNames[name] = true
		p.names[name] = k
	}

	if p.backward {
		p.emitSaveEnd(k)
	} else {
		p.emitSaveStart(k)
	}
	if !p.parseGroupBody(pos, p.backward) {
		return false
	}
	if p.backward {
		p.emitSaveStart(k)
	} else {
		p.emitSaveEnd(k)
	}
	return true
}

func (p *Parser) parseNamedCapture(pos int) bool {
	p.lx.advance() // consume '<'
	name, ok := p.parseGroupName()
	if !ok {
		return false
	}
	return p.parseCapture(pos, name)
}

// parseGroupName parses the Name in (?<Name>...) or \k<Name>, per
// spec.md Section 4.D: IdentifierStart IdentifierPart* with \uXXXX
// escapes, terminated by '>'.
func (p *Parser) parseGroupName() (string, bool) {
	var out []rune
	first := true
	for {
		c := p.lx.c0
		if c == eof {
			p.fail(ErrSyntax, p.lx.pos, "unterminated group name")
			return "", false
		}
		if c == '>' {
			p.lx.advance()
			break
		}
		if c == '\\' {
			save := p.lx.pos
			p.lx.advance()
			if p.lx.c0 != 'u' {
				p.fail(ErrSyntax, save, "invalid escape in group name")
				return "", false
			}
			v, ok := p.parseUnicodeEscape()
			if !ok {
				return "", false
			}
			c = v
		} else {
			p.lx.advance()
		}
		if first {
			if !isIdentFirst(c) {
				p.fail(ErrSyntax, p.lx.pos, "invalid group name")
				return "", false
			}
			first = false
		} else if !isIdentPart(c) {
			p.fail(ErrSyntax, p.lx.pos, "invalid group name")
			return "", false
		}
		out = append(out, c)
	}
	return string(out), true
}

// parseLookaround emits MATCH_AHEAD/NEGATIVE_MATCH_AHEAD wrapping an
// inner Disjunction terminated by MATCH. Lookbehind (behind=true) parses
// its body in backward-emission mode; lookahead does not.
func (p *Parser) parseLookaround(pos int, negative, behind bool) bool {
	instr := p.reserveJump(matchAheadOp(negative))
	if !p.parseGroupBody(pos, behind) {
		return false
	}
	p.emitMatch()
	p.patchJump(instr, p.buf.Size())
	return true
}
