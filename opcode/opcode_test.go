package opcode

import "testing"

func TestFixedSizeMatchesSpec(t *testing.T) {
	tests := []struct {
		op   Op
		want int
	}{
		{SaveStart, 2},
		{SaveEnd, 2},
		{SaveReset, 3},
		{Char, 3},
		{Char32, 5},
		{Goto, 5},
		{SplitFirst, 5},
		{SplitNext, 5},
		{MatchAhead, 5},
		{NegativeMatchAhead, 5},
		{Match, 1},
		{MatchEnd, 1},
		{Loop, 13},
		{LoopGreedy, 13},
		{Push, 1},
		{PushChar, 1},
		{CheckChar, 5},
		{Pop, 1},
		{LineStart, 1},
		{LineEnd, 1},
		{WordBoundary, 1},
		{NotWordBoundary, 1},
		{All, 1},
		{Dots, 1},
		{Prev, 1},
		{Backreference, 2},
		{BackwardBackreference, 2},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			if got := FixedSize[tt.op]; got != tt.want {
				t.Errorf("FixedSize[%s] = %d, want %d", tt.op, got, tt.want)
			}
		})
	}
}

func TestRangeSize(t *testing.T) {
	if got := RangeSize(false, 0); got != 3 {
		t.Errorf("RangeSize(false, 0) = %d, want 3", got)
	}
	if got := RangeSize(false, 2); got != 11 {
		t.Errorf("RangeSize(false, 2) = %d, want 11", got)
	}
	if got := RangeSize(true, 2); got != 19 {
		t.Errorf("RangeSize(true, 2) = %d, want 19", got)
	}
}

func TestValid(t *testing.T) {
	if !Char.Valid() {
		t.Error("Char.Valid() = false, want true")
	}
	if Op(200).Valid() {
		t.Error("Op(200).Valid() = true, want false")
	}
}

func TestStringUnknown(t *testing.T) {
	if got := Op(250).String(); got != "ILLEGAL" {
		t.Errorf("String() = %q, want ILLEGAL", got)
	}
}

func TestFlagHas(t *testing.T) {
	f := FlagIgnoreCase | FlagUnicode
	if !f.Has(FlagIgnoreCase) {
		t.Error("Has(FlagIgnoreCase) = false, want true")
	}
	if f.Has(FlagMultiline) {
		t.Error("Has(FlagMultiline) = true, want false")
	}
}
