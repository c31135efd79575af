package vm_test

import (
	"testing"

	"github.com/coregx/ecmaregex/opcode"
	"github.com/coregx/ecmaregex/syntax"
	"github.com/coregx/ecmaregex/vm"
)

func compile(t *testing.T, pattern string, flags opcode.Flag) *syntax.Program {
	t.Helper()
	prog, err := syntax.Parse(pattern, flags)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return prog
}

func run(t *testing.T, pattern, input string, flags opcode.Flag, start int) *vm.Result {
	t.Helper()
	prog := compile(t, pattern, flags)
	res, err := vm.Exec(prog.Image, vm.NewStringInput(input), start, 0)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	return res
}

func TestExecLiteral(t *testing.T) {
	res := run(t, "abc", "xxabcxx", 0, 0)
	if !res.Matched || res.Index != 2 || res.EndIndex != 5 {
		t.Fatalf("got %+v", res)
	}
}

func TestExecNoMatch(t *testing.T) {
	res := run(t, "abc", "xyz", 0, 0)
	if res.Matched {
		t.Fatalf("expected no match, got %+v", res)
	}
}

func TestExecAlternation(t *testing.T) {
	res := run(t, "cat|dog", "I have a dog", 0, 0)
	if !res.Matched || res.Index != 9 || res.EndIndex != 12 {
		t.Fatalf("got %+v", res)
	}
}

func TestExecGreedyQuantifier(t *testing.T) {
	res := run(t, "a.*b", "axxbxxb", 0, 0)
	if !res.Matched || res.Index != 0 || res.EndIndex != 7 {
		t.Fatalf("greedy should consume to the last b: %+v", res)
	}
}

func TestExecLazyQuantifier(t *testing.T) {
	res := run(t, "a.*?b", "axxbxxb", 0, 0)
	if !res.Matched || res.Index != 0 || res.EndIndex != 4 {
		t.Fatalf("lazy should stop at the first b: %+v", res)
	}
}

func TestExecIntervalQuantifier(t *testing.T) {
	res := run(t, "a{2,3}", "aaaa", 0, 0)
	if !res.Matched || res.EndIndex-res.Index != 3 {
		t.Fatalf("expected 3 a's (greedy capped at max): %+v", res)
	}
}

func TestExecCaptureGroups(t *testing.T) {
	res := run(t, "(a+)(b+)", "aaabb", 0, 0)
	if !res.Matched {
		t.Fatalf("expected match")
	}
	if len(res.Captures) != 3 {
		t.Fatalf("expected 3 capture slots, got %d", len(res.Captures))
	}
	if res.Captures[1] != (vm.Capture{Start: 0, End: 3}) {
		t.Fatalf("group 1: %+v", res.Captures[1])
	}
	if res.Captures[2] != (vm.Capture{Start: 3, End: 5}) {
		t.Fatalf("group 2: %+v", res.Captures[2])
	}
}

func TestExecNamedBackreference(t *testing.T) {
	res := run(t, `(?<x>ab)\k<x>`, "abab", 0, 0)
	if !res.Matched || res.EndIndex != 4 {
		t.Fatalf("got %+v", res)
	}
	res = run(t, `(?<x>ab)\k<x>`, "abxy", 0, 0)
	if res.Matched {
		t.Fatalf("expected no match: %+v", res)
	}
}

func TestExecIgnoreCase(t *testing.T) {
	res := run(t, "abc", "ABC", opcode.FlagIgnoreCase, 0)
	if !res.Matched {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestExecCharacterClass(t *testing.T) {
	res := run(t, "[a-c]+", "xxabcxx", 0, 0)
	if !res.Matched || res.Index != 2 || res.EndIndex != 5 {
		t.Fatalf("got %+v", res)
	}
}

func TestExecNegatedCharacterClass(t *testing.T) {
	res := run(t, "[^0-9]+", "123abc456", 0, 0)
	if !res.Matched || res.Index != 3 || res.EndIndex != 6 {
		t.Fatalf("got %+v", res)
	}
}

func TestExecAnchors(t *testing.T) {
	res := run(t, "^abc$", "abc", 0, 0)
	if !res.Matched {
		t.Fatalf("expected match")
	}
	res = run(t, "^abc$", "xabc", 0, 0)
	if res.Matched {
		t.Fatalf("expected no match: %+v", res)
	}
}

func TestExecMultilineAnchors(t *testing.T) {
	res := run(t, "^b", "a\nb", opcode.FlagMultiline, 0)
	if !res.Matched || res.Index != 2 {
		t.Fatalf("got %+v", res)
	}
}

func TestExecWordBoundary(t *testing.T) {
	res := run(t, `\bcat\b`, "a cat sat", 0, 0)
	if !res.Matched || res.Index != 2 || res.EndIndex != 5 {
		t.Fatalf("got %+v", res)
	}
	res = run(t, `\bcat\b`, "concatenate", 0, 0)
	if res.Matched {
		t.Fatalf("expected no match inside a larger word: %+v", res)
	}
}

func TestExecWordBoundaryAtEOF(t *testing.T) {
	res := run(t, `t\b`, "cat", 0, 0)
	if !res.Matched {
		t.Fatalf("expected boundary at end of input after a word char")
	}
	res = run(t, `\B$`, "cat ", 0, 0)
	if !res.Matched {
		t.Fatalf(`expected \B to hold between a trailing space and end of input`)
	}
}

func TestExecPositiveLookahead(t *testing.T) {
	res := run(t, "foo(?=bar)", "foobar", 0, 0)
	if !res.Matched || res.EndIndex != 3 {
		t.Fatalf("lookahead must not be consumed: %+v", res)
	}
	res = run(t, "foo(?=bar)", "foobaz", 0, 0)
	if res.Matched {
		t.Fatalf("expected no match: %+v", res)
	}
}

func TestExecNegativeLookahead(t *testing.T) {
	res := run(t, "foo(?!bar)", "foobaz", 0, 0)
	if !res.Matched || res.EndIndex != 3 {
		t.Fatalf("got %+v", res)
	}
	res = run(t, "foo(?!bar)", "foobar", 0, 0)
	if res.Matched {
		t.Fatalf("expected no match: %+v", res)
	}
}

func TestExecStickyDoesNotSlide(t *testing.T) {
	res := run(t, "abc", "xabc", opcode.FlagSticky, 0)
	if res.Matched {
		t.Fatalf("sticky must not search forward: %+v", res)
	}
	res = run(t, "abc", "xabc", opcode.FlagSticky, 1)
	if !res.Matched || res.Index != 1 {
		t.Fatalf("sticky should match exactly at lastIndex: %+v", res)
	}
}

func TestExecNonStickySlidesForward(t *testing.T) {
	res := run(t, "abc", "xxxabc", 0, 0)
	if !res.Matched || res.Index != 3 {
		t.Fatalf("expected the search to slide to the first match: %+v", res)
	}
}

func TestExecStartIndexBeyondInput(t *testing.T) {
	res := run(t, "a", "abc", 0, 10)
	if res.Matched {
		t.Fatalf("expected no match when start index exceeds input length: %+v", res)
	}
}

func TestExecUnicodeSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE, outside the BMP: one code point under the u
	// flag, two UTF-16 code units without it.
	res := run(t, ".", "\U0001F600", opcode.FlagUnicode, 0)
	if !res.Matched || res.EndIndex != 2 {
		t.Fatalf("expected . to consume the whole surrogate pair under u: %+v", res)
	}
	res = run(t, "..", "\U0001F600", 0, 0)
	if !res.Matched || res.EndIndex != 2 {
		t.Fatalf("without u, . should match each surrogate half separately: %+v", res)
	}
}

func TestExecBackreferenceUnsetGroupIsVacuous(t *testing.T) {
	res := run(t, `(a)?\1b`, "b", 0, 0)
	if !res.Matched {
		t.Fatalf("an unset capture's backreference should match vacuously: %+v", res)
	}
}

func TestExecBacktrackLimitExceeded(t *testing.T) {
	prog := compile(t, `(a*)*b`, 0)
	input := make([]byte, 30)
	for i := range input {
		input[i] = 'a'
	}
	_, err := vm.Exec(prog.Image, vm.NewByteInput(input), 0, 50)
	if err != vm.ErrBacktrackLimitExceeded {
		t.Fatalf("Exec with a tight step budget = %v, want ErrBacktrackLimitExceeded", err)
	}
}

func TestExecMaxStepsZeroIsUnbounded(t *testing.T) {
	res := run(t, "abc", "abc", 0, 0)
	if !res.Matched {
		t.Fatal("expected a plain match to succeed with no step budget")
	}
}
