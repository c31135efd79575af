package syntax

import "testing"

func TestIsWordChar(t *testing.T) {
	for _, c := range []rune{'a', 'Z', '5', '_'} {
		if !IsWordChar(c) {
			t.Errorf("IsWordChar(%q) = false, want true", c)
		}
	}
	for _, c := range []rune{' ', '-', '.', '\n'} {
		if IsWordChar(c) {
			t.Errorf("IsWordChar(%q) = true, want false", c)
		}
	}
}

func TestIsLineTerminator(t *testing.T) {
	for _, c := range []rune{'\n', '\r', 0x2028, 0x2029} {
		if !IsLineTerminator(c) {
			t.Errorf("IsLineTerminator(%U) = false, want true", c)
		}
	}
	if IsLineTerminator('a') {
		t.Error("IsLineTerminator('a') = true, want false")
	}
}

func TestCanonicalizeASCII(t *testing.T) {
	if Canonicalize('a', false) != 'A' {
		t.Fatal("expected ASCII fold to uppercase")
	}
	if Canonicalize('A', false) != 'A' {
		t.Fatal("uppercase should be stable")
	}
	if Canonicalize('5', false) != '5' {
		t.Fatal("non-letter should be stable")
	}
}

func TestCanonicalizeUnicode(t *testing.T) {
	if Canonicalize('a', true) != 'A' {
		t.Fatal("expected unicode fold to uppercase for ASCII input too")
	}
}

func TestDigitWordWhitespaceSets(t *testing.T) {
	d := digitSet()
	if !d.Contains('5') || d.Contains('a') {
		t.Fatal("digitSet mismatch")
	}
	w := wordSet()
	if !w.Contains('_') || !w.Contains('Z') || w.Contains('-') {
		t.Fatal("wordSet mismatch")
	}
	s := whitespaceSet()
	if !s.Contains(' ') || !s.Contains('\t') || !s.Contains(0xFEFF) || s.Contains('a') {
		t.Fatal("whitespaceSet mismatch")
	}
}
