package syntax

import (
	"fmt"

	"github.com/coregx/ecmaregex/opcode"
)

// ParseFlags decodes an ECMAScript RegExp flag string (e.g. "gimsuy") into
// the header bitfield spec.md Section 6 defines: 1=g, 2=i, 4=m, 8=s,
// 16=u, 32=y. Unknown letters or a repeated flag are syntax errors.
func ParseFlags(flags string) (opcode.Flag, error) {
	var out opcode.Flag
	seen := make(map[rune]bool, len(flags))
	for i, c := range flags {
		if seen[c] {
			return 0, newError(ErrSyntax, i, fmt.Sprintf("duplicate flag %q", c))
		}
		seen[c] = true
		var bit opcode.Flag
		switch c {
		case 'g':
			bit = opcode.FlagGlobal
		case 'i':
			bit = opcode.FlagIgnoreCase
		case 'm':
			bit = opcode.FlagMultiline
		case 's':
			bit = opcode.FlagDotAll
		case 'u':
			bit = opcode.FlagUnicode
		case 'y':
			bit = opcode.FlagSticky
		default:
			return 0, newError(ErrSyntax, i, fmt.Sprintf("unknown flag %q", c))
		}
		out |= bit
	}
	return out, nil
}
