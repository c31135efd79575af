package ecmaregex

import (
	"fmt"

	"github.com/coregx/ecmaregex/bytecode"
	"github.com/coregx/ecmaregex/internal/cpuinfo"
	"github.com/coregx/ecmaregex/opcode"
	"github.com/coregx/ecmaregex/syntax"
	"github.com/coregx/ecmaregex/vm"
)

// Flags is the ECMAScript RegExp flag bitfield (g|i|m|s|u|y), passed
// straight through to the parser and stored in the compiled bytecode's
// header for the executor to read back.
type Flags = opcode.Flag

// Flag bits, re-exported from opcode for callers who only import the
// facade package.
const (
	FlagGlobal     = opcode.FlagGlobal
	FlagIgnoreCase = opcode.FlagIgnoreCase
	FlagMultiline  = opcode.FlagMultiline
	FlagDotAll     = opcode.FlagDotAll
	FlagUnicode    = opcode.FlagUnicode
	FlagSticky     = opcode.FlagSticky
)

// Regexp is a compiled ECMAScript regular expression: a bytecode image
// plus the source text and named-capture table needed to answer
// String()/CaptureNames(). It owns no executor state — every Exec call
// allocates a fresh vm.machine internally — so a *Regexp is safe to use
// concurrently from multiple goroutines, matching the teacher's Regex.
type Regexp struct {
	source string
	flags  Flags
	prog   *syntax.Program
	config Config
}

// Compile parses source under flags into a Regexp, using DefaultConfig().
// The returned error is always a *syntax.Error on a malformed pattern;
// Compile never panics.
func Compile(source string, flags Flags) (*Regexp, error) {
	return CompileWithConfig(source, flags, DefaultConfig())
}

// CompileWithConfig is Compile with an explicit Config, for a caller that
// wants a backtrack-step budget on every Exec or a pre-sized bytecode
// buffer for a batch of similarly-shaped patterns.
func CompileWithConfig(source string, flags Flags, config Config) (*Regexp, error) {
	prog, err := syntax.ParseWithCapacity(source, flags, config.InitialBufferCapacity)
	if err != nil {
		return nil, err
	}
	return &Regexp{source: source, flags: flags, prog: prog, config: config}, nil
}

// MustCompile is like Compile but panics on error, for patterns known to
// be valid at init time.
func MustCompile(source string, flags Flags) *Regexp {
	re, err := Compile(source, flags)
	if err != nil {
		panic(fmt.Sprintf("ecmaregex: Compile(%q): %v", source, err))
	}
	return re
}

// Exec runs the compiled pattern against an 8-bit/Latin-1 byte sequence,
// starting the search at startIndex code units in. The returned error is
// non-nil only for a malformed bytecode image (host misuse) or, when
// Config.MaxBacktrackSteps is positive, vm.ErrBacktrackLimitExceeded; a
// failed match is a non-nil *vm.Result with Matched == false, never an
// error.
func (re *Regexp) Exec(input []byte, startIndex int) (*vm.Result, error) {
	return vm.Exec(re.prog.Image, vm.NewByteInput(input), startIndex, re.config.MaxBacktrackSteps)
}

// ExecString runs the compiled pattern against a Go string, decoded to
// UTF-16 code units the way ECMAScript source strings are represented.
func (re *Regexp) ExecString(input string, startIndex int) (*vm.Result, error) {
	return vm.Exec(re.prog.Image, vm.NewStringInput(input), startIndex, re.config.MaxBacktrackSteps)
}

// ExecUTF16 runs the compiled pattern against an already-encoded UTF-16
// code unit sequence, for callers that already hold one (e.g. a host
// embedding this engine in a JS runtime).
func (re *Regexp) ExecUTF16(input []uint16, startIndex int) (*vm.Result, error) {
	return vm.Exec(re.prog.Image, vm.NewUTF16Input(input), startIndex, re.config.MaxBacktrackSteps)
}

// Match reports whether input contains any match of the pattern anywhere
// at or after position 0.
func (re *Regexp) Match(input []byte) bool {
	res, err := re.Exec(input, 0)
	return err == nil && res.Matched
}

// MatchString is the string equivalent of Match.
func (re *Regexp) MatchString(input string) bool {
	res, err := re.ExecString(input, 0)
	return err == nil && res.Matched
}

// FindAllStringIndex returns the start/end code-unit index pairs of every
// non-overlapping match in input, in left-to-right order. If n >= 0, at
// most n matches are returned. A zero-width match advances the search by
// one code unit to guarantee termination, matching ECMA-262's lastIndex
// bump on an empty RegExp.prototype.exec match.
func (re *Regexp) FindAllStringIndex(input string, n int) [][2]int {
	if n == 0 {
		return nil
	}
	u := vm.NewStringInput(input)
	var out [][2]int
	pos := 0
	for {
		res, err := vm.Exec(re.prog.Image, u, pos, re.config.MaxBacktrackSteps)
		if err != nil || !res.Matched {
			break
		}
		out = append(out, [2]int{res.Index, res.EndIndex})
		if n > 0 && len(out) >= n {
			break
		}
		if res.EndIndex > res.Index {
			pos = res.EndIndex
		} else {
			pos = res.EndIndex + 1
		}
		if pos > u.Len() {
			break
		}
	}
	return out
}

// NumCaptures returns the total number of capturing groups, including the
// implicit group 0 for the whole match.
func (re *Regexp) NumCaptures() int {
	hdr, err := bytecode.ReadHeader(re.prog.Image)
	if err != nil {
		return 0
	}
	return int(hdr.NumCaptures)
}

// CaptureNames returns one entry per capturing group (group 0 first, so
// CaptureNames()[k] lines up with Result.Captures[k]); unnamed groups
// report an empty string.
func (re *Regexp) CaptureNames() []string {
	names := make([]string, re.NumCaptures())
	for name, idx := range re.prog.Names {
		if int(idx) < len(names) {
			names[idx] = name
		}
	}
	return names
}

// String returns the pattern's original source text.
func (re *Regexp) String() string { return re.source }

// HostFeatures reports which SIMD instruction sets the running CPU
// supports. Informational only: it has no influence on match results,
// per the cpuinfo package doc comment.
func (re *Regexp) HostFeatures() cpuinfo.Features { return cpuinfo.Detect() }
