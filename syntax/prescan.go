package syntax

// prescan walks the pattern once, before real parsing, to determine the
// total capture count and the name -> index map. Grounded on
// original_source/ecmascript/regexp/regexp_parser.cpp's
// RegExpParser::ParseCaptureCount, which performs the identical
// lookahead-only walk so that forward numeric/named back-references
// (\2 or \k<Name> referring to a group that appears later in the source)
// can be validated during the main left-to-right parse instead of
// requiring a second pass over the emitted bytecode.
//
// This walk is deliberately lenient: it skips anything it cannot
// confidently classify rather than erroring, because the authoritative
// syntax errors are raised by the real recursive-descent parser that
// follows. A best-effort total/name map is all forward-reference
// validation needs.
func prescan(src []rune) (total uint32, names map[string]uint32) {
	total = 1 // group 0, the whole match
	names = make(map[string]uint32)
	n := len(src)
	for i := 0; i < n; i++ {
		switch src[i] {
		case '\\':
			i++ // skip the escaped rune; no further interpretation needed here
		case '[':
			i++
			for i < n && src[i] != ']' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
		case '(':
			if i+1 < n && src[i+1] == '?' {
				if i+2 < n && (src[i+2] == ':' || src[i+2] == '=' || src[i+2] == '!') {
					continue // non-capturing or lookahead
				}
				if i+3 < n && src[i+2] == '<' && (src[i+3] == '=' || src[i+3] == '!') {
					continue // lookbehind
				}
				if i+2 < n && src[i+2] == '<' {
					// Named capturing group: (?<Name>...). Scan the name
					// verbatim; \u escapes inside a name are rare enough
					// that losing one here only costs a missed forward
					// back-reference pre-validation, not a wrong program.
					j := i + 3
					start := j
					for j < n && src[j] != '>' {
						j++
					}
					if j < n {
						names[string(src[start:j])] = total
						i = j
					}
					total++
				}
			} else {
				total++
			}
		}
	}
	return total, names
}
