package ecmaregex

// Config holds the tunable knobs a host embedding this engine can set at
// compile time. Neither knob changes match semantics: they only bound
// resource use, modeled on the teacher's meta.Config / DefaultCompilerConfig
// style (a small options struct with a DefaultConfig constructor, no env
// vars or files per spec.md Section 6's "no persisted state").
type Config struct {
	// MaxBacktrackSteps caps the number of VM dispatch steps a single Exec
	// call (including every retried non-sticky start position) may take
	// before giving up with ErrBacktrackLimitExceeded, guarding against
	// catastrophic backtracking on adversarial input. Zero means
	// unbounded.
	MaxBacktrackSteps int

	// InitialBufferCapacity pre-sizes the bytecode buffer Compile emits
	// into, in bytes, avoiding the buffer's first few doublings for a
	// caller that knows its patterns tend to compile to roughly this
	// size. Zero (or any value below the buffer's own minimum) falls
	// back to that minimum.
	InitialBufferCapacity int
}

// DefaultConfig returns the Config Compile/MustCompile use: no backtrack
// budget, default buffer sizing.
func DefaultConfig() Config {
	return Config{MaxBacktrackSteps: 0, InitialBufferCapacity: 0}
}
