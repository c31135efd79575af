package syntax

import (
	"testing"

	"github.com/coregx/ecmaregex/opcode"
)

func TestParseFlagsValid(t *testing.T) {
	tests := []struct {
		in   string
		want opcode.Flag
	}{
		{"", 0},
		{"g", opcode.FlagGlobal},
		{"i", opcode.FlagIgnoreCase},
		{"gimsuy", opcode.FlagGlobal | opcode.FlagIgnoreCase | opcode.FlagMultiline |
			opcode.FlagDotAll | opcode.FlagUnicode | opcode.FlagSticky},
		{"yu", opcode.FlagSticky | opcode.FlagUnicode},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFlags(tt.in)
			if err != nil {
				t.Fatalf("ParseFlags(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseFlags(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFlagsRejectsUnknown(t *testing.T) {
	if _, err := ParseFlags("x"); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestParseFlagsRejectsDuplicate(t *testing.T) {
	if _, err := ParseFlags("gg"); err == nil {
		t.Fatal("expected error for duplicate flag")
	}
}
