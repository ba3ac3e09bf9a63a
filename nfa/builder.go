package nfa

import (
	"fmt"

	"github.com/coregx/rexdfs/internal/conv"
	"github.com/coregx/rexdfs/predicate"
)

// Slot identifies a single dangling transition target inside a
// not-yet-complete NFA: the State it belongs to and its index within that
// state's transition list. The compiler patches slots once it knows which
// state a fragment's exits should flow into. A Slot is only meaningful
// relative to the Builder that produced it; it does not outlive a Build().
type Slot struct {
	State StateID
	Index int
}

// Builder constructs an NFA incrementally. States are allocated with
// AddState, wired together with AddTransition, and dangling transition
// targets are resolved later with Patch — the standard Thompson-fragment
// construction discipline, generalized here from byte-oriented single-char
// transitions to two-character rune transitions.
type Builder struct {
	states   []State
	start    StateID
	hasStart bool
}

// NewBuilder returns a Builder pre-seeded with the two reserved states,
// MATCH and REJECT.
func NewBuilder() *Builder {
	b := &Builder{}
	b.states = append(b.states, State{id: MATCH}, State{id: REJECT})
	return b
}

// AddState allocates a new, transition-free state and returns its ID.
// Returns ErrCapacityExceeded once MaxStates states have been allocated.
func (b *Builder) AddState() (StateID, error) {
	if len(b.states) >= MaxStates {
		return InvalidState, &BuildError{Message: "state capacity exceeded", StateID: InvalidState, Err: ErrCapacityExceeded}
	}
	id := conv.IntToUint8(len(b.states))
	b.states = append(b.states, State{id: StateID(id)})
	return StateID(id), nil
}

// AddTransition appends a transition to from's transition list and returns
// a Slot identifying it, so the caller can Patch its target once known.
// Target may be left as InvalidState and patched later, or set directly if
// already known (e.g. a loop-back edge).
//
// MATCH and REJECT may never be the source of a transition: they are
// absorbing states by construction.
func (b *Builder) AddTransition(from StateID, t TwoCharTransition) (Slot, error) {
	if from == MATCH || from == REJECT {
		return Slot{}, &BuildError{Message: "cannot add transition from a terminal state", StateID: from, Err: ErrInvalidState}
	}
	if int(from) >= len(b.states) {
		return Slot{}, &BuildError{Message: "unknown source state", StateID: from, Err: ErrInvalidState}
	}
	st := &b.states[from]
	idx := len(st.transitions)
	st.transitions = append(st.transitions, t)
	return Slot{State: from, Index: idx}, nil
}

// Patch sets the target of a previously added transition.
func (b *Builder) Patch(slot Slot, target StateID) error {
	if int(slot.State) >= len(b.states) {
		return &BuildError{Message: "patch: unknown state", StateID: slot.State, Err: ErrInvalidState}
	}
	st := &b.states[slot.State]
	if slot.Index < 0 || slot.Index >= len(st.transitions) {
		return &BuildError{Message: "patch: unknown slot index", StateID: slot.State, Err: ErrInvalidState}
	}
	st.transitions[slot.Index].Target = target
	return nil
}

// PatchAll patches every slot in slots to target, a convenience used when
// closing out a fragment's exit list.
func (b *Builder) PatchAll(slots []Slot, target StateID) error {
	for _, s := range slots {
		if err := b.Patch(s, target); err != nil {
			return err
		}
	}
	return nil
}

// SetStart designates the NFA's start state.
func (b *Builder) SetStart(id StateID) error {
	if int(id) >= len(b.states) {
		return &BuildError{Message: "set start: unknown state", StateID: id, Err: ErrInvalidState}
	}
	b.start = id
	b.hasStart = true
	return nil
}

// NumStates returns the number of states allocated so far.
func (b *Builder) NumStates() int { return len(b.states) }

// Transitions returns the current transition list for id, for inspection
// during compiler passes (e.g. the two-character lifting pass).
func (b *Builder) Transitions(id StateID) []TwoCharTransition {
	return b.states[id].transitions
}

// ReplaceTransitions overwrites id's entire transition list. Used by
// compiler passes that rewrite a state's guards in place (the lookahead
// lifting pass).
func (b *Builder) ReplaceTransitions(id StateID, transitions []TwoCharTransition) {
	b.states[id].transitions = transitions
}

// Validate checks structural invariants: a start state is set, every
// transition target refers to an allocated state (no dangling slots), and
// MATCH/REJECT have no outgoing transitions.
func (b *Builder) Validate() error {
	if !b.hasStart {
		return &BuildError{Message: "validate", StateID: InvalidState, Err: ErrNoStart}
	}
	if len(b.states[MATCH].transitions) != 0 || len(b.states[REJECT].transitions) != 0 {
		return &BuildError{Message: "terminal state has outgoing transitions", StateID: MATCH, Err: ErrInvalidState}
	}
	for i := range b.states {
		for _, t := range b.states[i].transitions {
			if t.Target == InvalidState {
				return &BuildError{Message: "dangling transition slot", StateID: StateID(i), Err: ErrDanglingSlot}
			}
			if int(t.Target) >= len(b.states) {
				return &BuildError{Message: fmt.Sprintf("transition target %d out of range", t.Target), StateID: StateID(i), Err: ErrInvalidState}
			}
		}
	}
	return nil
}

// Build validates the builder's state and, if valid, returns the finished
// immutable NFA.
func (b *Builder) Build() (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	states := make([]State, len(b.states))
	for i, s := range b.states {
		transitions := make([]TwoCharTransition, len(s.transitions))
		copy(transitions, s.transitions)
		states[i] = State{id: s.id, transitions: transitions}
	}
	return &NFA{states: states, start: b.start}, nil
}

// PendingTransition builds a transition whose target is not yet known; pass
// it to AddTransition and Patch the returned Slot once the target state
// exists.
func PendingTransition(first predicate.Predicate, second *predicate.Predicate, consumes bool) TwoCharTransition {
	return TwoCharTransition{First: first, Second: second, Target: InvalidState, Consumes: consumes}
}
