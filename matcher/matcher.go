// Package matcher implements the reference software executor that defines
// ground-truth matching semantics for a compiled *nfa.NFA: the same
// depth-first exploration of two-character transitions that the hdl package
// projects into combinational logic. The two packages never call one
// another; they are validated against each other by running both over the
// same (pattern, input) pairs and comparing verdicts.
//
// Grounded on nfa.BoundedBacktracker (the teacher's recursive
// (state, position) backtracker with a visited bit-set keyed by
// state*(inputLen+1)+pos), reimplemented here as an explicit stack per the
// specification's "stack of (state, position) frames" requirement rather
// than Go call recursion.
package matcher

import (
	"fmt"
	"strings"

	"github.com/coregx/rexdfs/internal/sparse"
	"github.com/coregx/rexdfs/nfa"
	"github.com/coregx/rexdfs/predicate"
)

// Matcher runs the reference DFS over a single *nfa.NFA. A Matcher is not
// safe for concurrent use: its methods share an internal scratch stack
// across calls.
type Matcher struct {
	n     *nfa.NFA
	stack []frame
	accel *accel

	// lastAcceptPos is the position the most recent accepting exploreFrom
	// call reached MATCH at. Only meaningful for a wantPos == -1 call
	// (matchFrom); Match/MatchTrace already know their accept position is
	// len(input) and never read this field.
	lastAcceptPos int
}

// frame is a single (state, position) pair on the explicit DFS stack. path
// is populated only when the caller asked for a Trace; it is the sequence
// of fired (state, index) steps that led to this frame, stored as its own
// slice per frame (not shared with siblings) so that trimming one branch's
// path on backtrack can never corrupt another's.
type frame struct {
	state nfa.StateID
	pos   int
	path  []TraceStep
}

// New returns a Matcher over n with no literal-prefilter acceleration.
func New(n *nfa.NFA) *Matcher {
	return &Matcher{n: n}
}

// NewFromResult returns a Matcher over result's NFA, additionally building
// a literal-prefilter fast path when the compiler judged the pattern's
// top-level alternation literal-heavy enough to be worth it (result's
// literal list is empty otherwise), and falling back to a narrower
// required-leading-class prefilter (\d, \w, \W) when there's no literal
// branch to key a scan off of at all. See accel.go.
func NewFromResult(result CompileResulter) *Matcher {
	m := &Matcher{n: result.NFAValue()}
	if lits := result.LiteralsValue(); len(lits) > 0 {
		m.accel = newAccel(lits)
	} else if rc := RequiredClass(result.RequiredClassValue()); rc != RequiredClassNone {
		m.accel = newClassAccel(rc)
	}
	return m
}

// CompileResulter is the subset of compiler.CompileResult the matcher
// package needs, expressed as an interface so that matcher does not need to
// import compiler (compiler already imports nfa; a direct matcher
// dependency on the compiler's concrete CompileResult type would be an
// unnecessary coupling of ground-truth execution to the compiler's own
// result bookkeeping).
type CompileResulter interface {
	NFAValue() *nfa.NFA
	LiteralsValue() []string
	RequiredClassValue() int
}

// Trace records the sequence of fired (state, transition index) pairs along
// the accepting path found by the most recent MatchTrace call.
type Trace struct {
	Steps []TraceStep
}

// TraceStep names a single fired transition: the state it fired from and
// its index within that state's priority-ordered transition list.
type TraceStep struct {
	State nfa.StateID
	Index int
}

func (t *Trace) String() string {
	if t == nil || len(t.Steps) == 0 {
		return "<empty trace>"
	}
	var b strings.Builder
	for i, s := range t.Steps {
		if i > 0 {
			b.WriteString(" -> ")
		}
		fmt.Fprintf(&b, "s%d[%d]", s.State, s.Index)
	}
	return b.String()
}

// cursor reports the two guard characters at pos: c1 is the character to
// consume (or the EndText sentinel past the last codepoint), c2 is the
// lookahead character one position further, and secondValid reports
// whether a real lookahead character exists (false past end-of-input, per
// spec §4.4 and boundary behavior 10 in §8).
func cursor(input []rune, pos int) (c1, c2 rune, secondValid bool) {
	if pos >= len(input) {
		c1 = predicate.EndText
	} else {
		c1 = input[pos]
	}
	if pos+1 < len(input) {
		c2 = input[pos+1]
		secondValid = true
	}
	return c1, c2, secondValid
}

// fires reports whether t's guard holds at the given cursor.
//
// §9's open question on boundary-anchor semantics is resolved here: a
// transition's First predicate is tested against the real cursor character
// first (c1, which is already the EndText sentinel past end-of-input per
// cursor() above); if that alone doesn't match, and pos sits at a text
// boundary, First is tested a second time against the corresponding
// StartText/EndText sentinel. Ordinary content predicates (Literal, Range,
// Set, Any, their negations) never contain either sentinel value, so this
// second test is a no-op for them — it only ever fires for a transition
// built by compileNonConsuming(StartAnchor()/EndAnchor()), which contains
// nothing else. This lets both AnchorStart and AnchorEnd fire correctly on
// the empty input, where pos is simultaneously position 0 and
// position len(input), without forcing every ordinary consuming transition
// to special-case the boundary. The hdl package needs no equivalent special
// case in its own guard lowering: see DESIGN.md's "Anchor-driver contract"
// entry for why, and for the resulting external-driver protocol that keeps
// software and hardware verdicts in agreement.
func fires(t nfa.TwoCharTransition, input []rune, pos int, c1, c2 rune, secondValid bool) bool {
	matched := t.First.Contains(c1)
	if !matched && pos == 0 {
		matched = t.First.Contains(predicate.StartText)
	}
	if !matched && pos == len(input) {
		matched = t.First.Contains(predicate.EndText)
	}
	if !matched {
		return false
	}
	if t.Second == nil {
		return true
	}
	return secondValid && t.Second.Contains(c2)
}

// Match reports whether the entire input matches the pattern the Matcher
// was built from: exploration starts at (start, 0) and accepts only when a
// frame (MATCH, len(input)) is reached, exactly as specified in §4.4.
func (m *Matcher) Match(input []rune) bool {
	ok, _ := m.exploreFrom(input, 0, len(input), false)
	return ok
}

// MatchTrace behaves like Match but additionally returns the accepting
// path, or nil if the input was rejected.
func (m *Matcher) MatchTrace(input []rune) (bool, *Trace) {
	return m.exploreFrom(input, 0, len(input), true)
}

// matchFrom runs the same DFS anchored at startPos but accepts as soon as
// MATCH is reached at any position, reporting that position as the match
// end. It backs Search's leftmost-start scan (search.go); nothing about the
// DFS itself changes, only which reached MATCH frame counts as acceptance.
func (m *Matcher) matchFrom(input []rune, startPos int) (end int, ok bool) {
	accepted, _ := m.exploreFrom(input, startPos, -1, false)
	if !accepted {
		return 0, false
	}
	return m.lastAcceptPos, true
}

// exploreFrom runs the reverse-priority-push explicit stack DFS from
// (start, startPos). When wantPos >= 0, a MATCH frame accepts only if its
// position equals wantPos (Match's whole-input semantics); when wantPos is
// negative, any MATCH frame accepts immediately, and its position is
// recorded in m.lastAcceptPos (Search's prefix semantics). Repeat visits to
// a (state, position) pair are silently skipped, bounding the search to at
// most numStates*(inputLen+1) distinct frames and guarding against
// ε-cycles a compiler bug might introduce.
func (m *Matcher) exploreFrom(input []rune, startPos, wantPos int, trace bool) (bool, *Trace) {
	width := uint32(len(input) + 1)
	seen := sparse.NewSparseSet(uint32(m.n.NumStates()) * width)

	m.stack = m.stack[:0]
	m.stack = append(m.stack, frame{state: m.n.Start(), pos: startPos})

	for len(m.stack) > 0 {
		f := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]

		if f.state == nfa.MATCH {
			if wantPos >= 0 && f.pos != wantPos {
				continue
			}
			m.lastAcceptPos = f.pos
			if trace {
				return true, &Trace{Steps: f.path}
			}
			return true, nil
		}
		if f.state == nfa.REJECT {
			continue
		}

		key := uint32(f.state)*width + uint32(f.pos)
		if seen.Contains(key) {
			continue
		}
		seen.Insert(key)

		c1, c2, secondValid := cursor(input, f.pos)
		trans := m.n.Transitions(f.state)

		type hit struct {
			next nfa.StateID
			pos  int
			idx  int
		}
		var hits []hit
		for i, t := range trans {
			if !fires(t, input, f.pos, c1, c2, secondValid) {
				continue
			}
			next := f.pos
			if t.Consumes {
				next++
			}
			hits = append(hits, hit{next: t.Target, pos: next, idx: i})
		}
		for i := len(hits) - 1; i >= 0; i-- {
			h := hits[i]
			nf := frame{state: h.next, pos: h.pos}
			if trace {
				nf.path = append(append([]TraceStep{}, f.path...), TraceStep{State: f.state, Index: h.idx})
			}
			m.stack = append(m.stack, nf)
		}
	}
	return false, nil
}
