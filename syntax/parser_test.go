package syntax

import (
	"testing"

	"github.com/coregx/ecmaregex/opcode"
)

func mustParse(t *testing.T, pattern string, flags opcode.Flag) *Program {
	t.Helper()
	prog, err := Parse(pattern, flags)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return prog
}

func TestParseValidPatterns(t *testing.T) {
	tests := []string{
		"",
		"abc",
		"a|b|c",
		"a*b+c?",
		"a{2,4}",
		"a{2,}",
		"a{2}",
		"(abc)",
		"(?:abc)",
		"(?<name>abc)",
		`\d\w\s`,
		`\D\W\S`,
		"[a-z0-9_]",
		"[^a-z]",
		`\bfoo\B`,
		"^abc$",
		"(?=abc)",
		"(?!abc)",
		"(?<=abc)",
		"(?<!abc)",
		`(a)\1`,
		`(?<x>a)\k<x>`,
		".",
		`A`,
		`\cA`,
		"a{0,0}",
	}
	for _, p := range tests {
		t.Run(p, func(t *testing.T) {
			mustParse(t, p, 0)
		})
	}
}

func TestParseInvalidPatterns(t *testing.T) {
	tests := []string{
		"(",
		")",
		"[a-",
		"a{2,1}",
		"a**",
		`(?<x>a)(?<x>b)`,
		`\k<missing>`,
		`(a)\2`,
	}
	for _, p := range tests {
		t.Run(p, func(t *testing.T) {
			if _, err := Parse(p, 0); err == nil {
				t.Fatalf("Parse(%q): expected error, got none", p)
			}
		})
	}
}

func TestParseHeaderFields(t *testing.T) {
	prog := mustParse(t, "(a)(b)", 0)
	if len(prog.Image) < opcode.HeaderSize {
		t.Fatalf("image too short: %d bytes", len(prog.Image))
	}
}

func TestParseNamedCapturesRecorded(t *testing.T) {
	prog := mustParse(t, `(?<first>a)(?<last>b)`, 0)
	if prog.Names["first"] != 1 || prog.Names["last"] != 2 {
		t.Fatalf("Names = %v", prog.Names)
	}
}

func TestParseUnicodeFlagRejectsInvalidEscape(t *testing.T) {
	if _, err := Parse(`\08`, opcode.FlagUnicode); err == nil {
		t.Fatal("expected octal-like escape under u to be a syntax error")
	}
}

func TestParseDuplicateNamedGroupIsError(t *testing.T) {
	if _, err := Parse(`(?<a>x)(?<a>y)`, 0); err == nil {
		t.Fatal("expected duplicate named group to be a syntax error")
	}
}

func TestParseWithCapacityProducesIdenticalImage(t *testing.T) {
	a := mustParse(t, `(a|b)+c`, 0)
	b, err := ParseWithCapacity(`(a|b)+c`, 0, 4096)
	if err != nil {
		t.Fatalf("ParseWithCapacity: %v", err)
	}
	if len(a.Image) != len(b.Image) {
		t.Fatalf("image length differs: %d vs %d", len(a.Image), len(b.Image))
	}
	for i := range a.Image {
		if a.Image[i] != b.Image[i] {
			t.Fatalf("image differs at byte %d: %d vs %d", i, a.Image[i], b.Image[i])
		}
	}
}
