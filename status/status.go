// Package status carries the error taxonomy shared by every component of
// the cut-cell pipeline. Every fallible operation in knife returns one of
// these codes instead of a bare bool, mirroring the KNIFE_STATUS convention
// of the original knife sources (near.c, intersection.c, segment.c).
package status

import "github.com/cpmech/gosl/io"

// Code is the result of a fallible geometric or bookkeeping operation.
type Code int

const (
	// SUCCESS indicates the operation completed normally.
	SUCCESS Code = iota
	// NULL indicates a required collaborator or input was nil.
	NULL
	// NOT_FOUND indicates an expected lookup miss (not an error).
	NOT_FOUND
	// BIGGER indicates a caller-supplied capacity was exceeded.
	BIGGER
	// DEGENERATE indicates a geometric predicate landed on its tolerance.
	DEGENERATE
	// SINGULAR is an alias classification for degenerate numerical cases.
	SINGULAR
	// INCONSISTENT indicates an invariant was violated.
	INCONSISTENT
	// ARRAY_BOUND indicates an internal sizing bug.
	ARRAY_BOUND
	// MISSING indicates a mismatch between a measurement and emission pass.
	MISSING
	// DIV_ZERO indicates a numerical fallback path must be taken.
	DIV_ZERO
	// NO_INT is the normal negative result of an intersection test.
	NO_INT
)

var names = [...]string{
	"SUCCESS", "NULL", "NOT_FOUND", "BIGGER", "DEGENERATE", "SINGULAR",
	"INCONSISTENT", "ARRAY_BOUND", "MISSING", "DIV_ZERO", "NO_INT",
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if c < 0 || int(c) >= len(names) {
		return "UNKNOWN"
	}
	return names[c]
}

// Ok reports whether c is SUCCESS.
func (c Code) Ok() bool { return c == SUCCESS }

// Fatal reports whether c must abort the pipeline if it escapes local
// recovery. NOT_FOUND and NO_INT are expected negative results and are
// never fatal; every other non-success code is.
func (c Code) Fatal() bool {
	return c != SUCCESS && c != NOT_FOUND && c != NO_INT
}

// Error pairs a Code with a formatted message, for diagnostic dumping at
// the Domain boundary.
type Error struct {
	Code Code
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return io.Sf("%s: %s", e.Code, e.Msg)
}

// Errf builds an *Error with a formatted message, using gosl/io.Sf the
// way the teacher codebase formats its own error strings.
func Errf(code Code, msg string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: io.Sf(msg, args...)}
}
