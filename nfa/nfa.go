package nfa

import "github.com/coregx/rexdfs/predicate"

// StateID identifies a state in an NFA. The ID space is 8 bits wide because
// the HDL port contract fixes current_state/next_state/second_state at
// [7:0] — the hardware transition function this package compiles toward has
// no room for a wider encoding.
type StateID uint8

// MaxStates is the number of distinct states an NFA may contain, including
// the two reserved states.
const MaxStates = 256

// Reserved state IDs. MATCH and REJECT are terminal: neither may be the
// source of a transition, and every live path through the NFA ends at one or
// the other.
const (
	MATCH  StateID = 0
	REJECT StateID = 1

	// InvalidState is never a legal StateID produced by a Builder; it marks
	// an unpatched (dangling) transition target during construction.
	InvalidState StateID = 0xFF
)

// TwoCharTransition is a single guarded edge out of a state. It fires when
// First matches the character at the current cursor position and, if Second
// is non-nil, Second also matches the character one position ahead — the
// "two-character lookahead" that lets the compiled automaton disambiguate
// possessive repetition without backtracking. Second is evaluated against
// the lookahead character regardless of whether this transition consumes
// input; a transition with Second set but Consumes false is legal, though
// no construction in the compiler package produces one (anchors compile to
// non-consuming transitions with a nil Second).
type TwoCharTransition struct {
	First    predicate.Predicate
	Second   *predicate.Predicate
	Target   StateID
	Consumes bool
}

// State is a single NFA state: an ordered list of outgoing transitions,
// tried in order. The first transition whose guard fires is explored first;
// later firing transitions remain as lower-priority alternatives — this
// priority order is what gives alternation and greedy/possessive repetition
// their defined, deterministic semantics.
type State struct {
	id          StateID
	transitions []TwoCharTransition
}

// ID returns the state's identifier.
func (s *State) ID() StateID { return s.id }

// Transitions returns the state's outgoing transitions in priority order.
// The returned slice must not be mutated.
func (s *State) Transitions() []TwoCharTransition { return s.transitions }

// NFA is the compiled, immutable automaton shared by the reference matcher
// and the HDL emitter. Every well-formed NFA satisfies:
//
//   - States 0 (MATCH) and 1 (REJECT) exist, have no outgoing transitions,
//     and are absorbing.
//   - Every transition Target refers to an allocated state.
//   - The start state is set.
//
// An *NFA is safe for concurrent read-only use by multiple goroutines.
type NFA struct {
	states []State
	start  StateID
}

// NumStates returns the number of allocated states, including MATCH and
// REJECT.
func (n *NFA) NumStates() int { return len(n.states) }

// Start returns the start state.
func (n *NFA) Start() StateID { return n.start }

// State returns the state with the given ID.
func (n *NFA) State(id StateID) *State { return &n.states[id] }

// Transitions returns the outgoing transitions of the given state in
// priority order.
func (n *NFA) Transitions(id StateID) []TwoCharTransition {
	return n.states[id].transitions
}
