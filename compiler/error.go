// Package compiler translates a regex HIR tree into the two-character
// Thompson NFA defined by the nfa package.
package compiler

import (
	"errors"
	"fmt"

	"github.com/coregx/rexdfs/hir"
	"github.com/coregx/rexdfs/nfa"
)

// Sentinel error kinds, matching the three fatal compile-time failure modes
// named in the specification.
var (
	// ErrUnsupportedConstruct is returned for a recognized HIR node the
	// compiler does not implement (lookaround, backreferences).
	ErrUnsupportedConstruct = errors.New("compiler: unsupported construct")

	// ErrCapacityExceeded is returned when compilation would need more than
	// 254 user states (the two reserved states plus 254 leaves exactly 256,
	// the 8-bit state ID ceiling).
	ErrCapacityExceeded = errors.New("compiler: capacity exceeded")

	// ErrInternalInvariantViolation marks a compiler bug: a dangling slot
	// unpatched at finalization, a transition targeting an unallocated
	// state, or any other structural invariant failure that should be
	// impossible for a correct compiler to produce.
	ErrInternalInvariantViolation = errors.New("compiler: internal invariant violation")
)

// UnsupportedConstructError names the specific HIR op that could not be
// compiled.
type UnsupportedConstructError struct {
	Op hir.Op
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("compiler: unsupported construct: op %v", e.Op)
}

func (e *UnsupportedConstructError) Unwrap() error { return ErrUnsupportedConstruct }

// wrapBuildError classifies an *nfa.BuildError (or other nfa package error)
// into the compiler's own error vocabulary so callers only need to check
// against this package's sentinels.
func wrapBuildError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, nfa.ErrCapacityExceeded) {
		return fmt.Errorf("%w: %v", ErrCapacityExceeded, err)
	}
	return fmt.Errorf("%w: %v", ErrInternalInvariantViolation, err)
}
