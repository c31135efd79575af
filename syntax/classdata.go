package syntax

import (
	"unicode"

	"github.com/coregx/ecmaregex/rangeset"
)

// digitSet returns \d: ASCII 0-9.
func digitSet() *rangeset.Set {
	s := rangeset.NewSet()
	s.Insert('0', '9')
	return s
}

// wordSet returns \w: [A-Za-z0-9_].
func wordSet() *rangeset.Set {
	s := rangeset.NewSet()
	s.Insert('0', '9')
	s.Insert('A', 'Z')
	s.Insert('a', 'z')
	s.Insert('_', '_')
	return s
}

// spaceCodePoints lists the individual WhiteSpace and LineTerminator code
// points from ECMA-262's \s definition that are not contiguous ASCII
// ranges. Grounded on original_source/ecmascript/regexp/regexp_parser.cpp's
// whitespace table (read during the corpus survey): tab, line feed,
// vertical tab, form feed, carriage return, space, NBSP, line/paragraph
// separator, BOM, plus the Unicode Space_Separator category.
var spaceCodePoints = []uint32{
	0x0009, 0x000A, 0x000B, 0x000C, 0x000D, 0x0020,
	0x00A0, 0x1680,
	0x2028, 0x2029,
	0x202F, 0x205F, 0x3000,
	0xFEFF,
}

// spaceRangeStart/End cover the contiguous Space_Separator block
// U+2000-U+200A that the single-code-point table above would otherwise
// have to enumerate one by one.
const (
	spaceRangeStart = 0x2000
	spaceRangeEnd   = 0x200A
)

// whitespaceSet returns \s per ECMA-262: WhiteSpace or LineTerminator.
func whitespaceSet() *rangeset.Set {
	s := rangeset.NewSet()
	for _, cp := range spaceCodePoints {
		s.Insert(cp, cp)
	}
	s.Insert(spaceRangeStart, spaceRangeEnd)
	return s
}

// IsWordChar reports whether c is in \w's set: [A-Za-z0-9_]. Exported for
// the vm package's \b/\B boundary test; it lives here alongside the other
// class tables since classShorthandSet's 'w'/'W' cases build the same set.
func IsWordChar(c rune) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

// IsLineTerminator reports whether c ends a line for ^/$ under the m flag
// and for . without the s flag. Exported for the vm package.
func IsLineTerminator(c rune) bool {
	switch c {
	case '\n', '\r', 0x2028, 0x2029:
		return true
	default:
		return false
	}
}

// foldASCII implements the non-u, non-unicode case-folding rule: map
// lowercase ASCII letters to uppercase, leave everything else alone. This
// mirrors the "canonicalize" step ECMA-262 uses for the i flag without u.
func foldASCII(c rune) rune {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// foldUnicode implements the u-flag case-folding rule: Unicode simple case
// folding via the stdlib unicode tables, with the smallest code point of
// c's unicode.SimpleFold orbit as the representative. No library in the
// retrieved corpus offers Unicode case-folding or category classification
// (see DESIGN.md); the standard library's unicode package is the universal
// idiomatic choice for this even among dependency-heavy Go codebases.
func foldUnicode(c rune) rune {
	min := c
	for f := unicode.SimpleFold(c); f != c; f = unicode.SimpleFold(f) {
		if f < min {
			min = f
		}
	}
	return min
}

// Canonicalize maps c to the single representative code point used for
// equality comparisons under the i flag: both the parser (when emitting a
// literal CHAR/CHAR32, and when adding each class member's canonical form
// to a character class's set) and the executor (when
// comparing an input code point) apply this same function, so that
// CHAR/RANGE's "match equal to c" semantics stay case-insensitive without
// the VM needing to know about folding rules itself. Matches spec.md
// Section 4.D: ASCII canonicalization without u, Unicode case-folding with
// u.
func Canonicalize(c rune, unicodeMode bool) rune {
	if unicodeMode {
		return foldUnicode(c)
	}
	return foldASCII(c)
}
