package vm

// Capture is one capturing group's span, in code-unit indices into the
// Input that was matched. Start and End are both -1 when the group never
// participated in the match (SAVE_RESET's "unset" state, or a group the
// match simply never reached).
type Capture struct {
	Start int
	End   int
}

func unsetCapture() Capture { return Capture{Start: -1, End: -1} }

// frameKind mirrors original_source's RegExpState::StateType: every
// backtrack frame is either a plain choice point (SPLIT_NEXT/SPLIT_FIRST/
// LOOP's deferred branch/the non-sticky retry-at-next-position frame) or
// the entry point of a lookaround construct.
type frameKind uint8

const (
	frameSplit frameKind = iota
	frameMatchAhead
	frameNegativeMatchAhead
)

// frame is a snapshot taken when a choice point is created: enough state
// to resume execution exactly as if that choice had been made instead,
// per spec.md Section 4.E's backtrack stack. Captures and the push stack
// are copied in full rather than structurally shared, trading memory for
// the simplicity of a plain value snapshot; spec.md's "Loop counter
// storage" notes a pooled-arena alternative, not a requirement.
type frame struct {
	kind     frameKind
	pc       int
	ptr      int
	stackTop int
	stack    []uint32
	captures []Capture
}
