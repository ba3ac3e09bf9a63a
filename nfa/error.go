// Package nfa provides a Thompson NFA (Non-deterministic Finite Automaton)
// implementation for regex matching.
//
// This package implements the two-character-transition Thompson NFA that the
// compiler package emits and that the matcher and hdl packages consume as a
// shared, canonical intermediate representation.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrInvalidState indicates an invalid NFA state ID was encountered
	ErrInvalidState = errors.New("invalid NFA state")

	// ErrCapacityExceeded indicates the 8-bit state ID space (256 states,
	// including the two reserved states) has been exhausted
	ErrCapacityExceeded = errors.New("NFA state capacity exceeded")

	// ErrNoStart indicates Build was called before a start state was set
	ErrNoStart = errors.New("NFA start state not set")

	// ErrDanglingSlot indicates a transition's target was never patched
	ErrDanglingSlot = errors.New("NFA transition slot never patched")

	// ErrCompilation indicates a general NFA compilation failure
	ErrCompilation = errors.New("NFA compilation failed")
)

// CompileError wraps compilation errors with additional context
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("NFA compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	StateID StateID
	Err     error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *BuildError) Unwrap() error {
	return e.Err
}
