package compiler

import (
	"github.com/coregx/rexdfs/internal/sparse"
	"github.com/coregx/rexdfs/nfa"
	"github.com/coregx/rexdfs/predicate"
)

// liftTwoChar is a semantics-preserving post-pass: for every *consuming*
// transition s -> t that does not already carry a Second predicate, if t's
// entire transition list is exactly one consuming transition (guarded by
// q), it annotates s -> t with Second = &q. This never changes the Target a
// transition leads to — it only adds an early-exit guard the matcher (and
// the emitted hardware guard cascade) can use to reject one character
// sooner, without entering t at all.
//
// Both restrictions are load-bearing, not cosmetic:
//
//   - Only s's *consuming* transitions are ever candidates for lifting. A
//     non-consuming (ε) transition does not advance pos, so its target is
//     examined at the *same* position the matcher is already at — the
//     lookahead character cursor() computed for the popped frame belongs
//     to that same position, not to "one past" where t would look from
//     t's own consuming edge. Attaching Second to an ε-move conflates
//     those two positions and can reject a frame that should instead have
//     taken the ε-move unconditionally and let t's own transitions decide.
//     This is exactly the bug a split state's (greedy quantifier loop
//     exit's) two ε-moves triggered: both moves used to qualify off their
//     single-transition targets and both got a Second requirement that
//     had no business gating an ε-move, rejecting valid matches whenever
//     no lookahead character happened to be available.
//
//   - computeQualify requires t's transition list to contain *nothing but*
//     the one qualifying consuming transition, not merely "the unique
//     consuming transition among however many t has". A state can
//     legitimately mix one consuming and one non-consuming transition —
//     the possessive-quantifier primitive construction in possessive.go
//     builds exactly this shape (a committed consuming match next to a
//     negated-predicate non-consuming "no match" branch) — and entering
//     such a state does not guarantee the consuming branch is the one
//     taken. Qualifying on the consuming branch alone and ignoring the
//     sibling would wrongly require lookahead to satisfy q even along
//     paths that take the non-consuming branch instead.
//
// Per spec.md §4.3, a target that is a genuine two-way split (so that
// lifting would need two different Second values duplicated across
// disjoint outgoing transitions) is a case this compiler's own
// constructions never produce as a lift *target*: every split this
// compiler builds (compileAlternate, the greedy/possessive repetition
// constructions) already materializes its branches as separate, already-
// non-consuming transitions out of the split state itself, so a
// consuming predecessor's only legitimate qualifying successor is a state
// with exactly one transition. Requiring len(trans) == 1 is therefore not
// just conservative, it is the correct rule for this NFA shape; there is
// no reachable construction here needing the disjoint-duplicate form.
//
// Results are memoized per target state, since the same state is commonly
// the Target of several transitions (every exit of a fragment patched to
// the same continuation, for instance).
func liftTwoChar(b *nfa.Builder) {
	n := b.NumStates()
	computed := sparse.NewSparseSetForStates(n)
	cache := make([]qualifyResult, n)

	qualifies := func(target nfa.StateID) (predicate.Predicate, bool) {
		if target == nfa.MATCH || target == nfa.REJECT {
			return predicate.Predicate{}, false
		}
		if computed.Contains(uint32(target)) {
			r := cache[target]
			return r.pred, r.ok
		}
		computed.Insert(uint32(target))
		r := computeQualify(b.Transitions(target))
		cache[target] = r
		return r.pred, r.ok
	}

	for s := 2; s < n; s++ {
		trans := b.Transitions(nfa.StateID(s))
		changed := false
		out := make([]nfa.TwoCharTransition, len(trans))
		copy(out, trans)
		for i := range out {
			if !out[i].Consumes || out[i].Second != nil {
				continue
			}
			q, ok := qualifies(out[i].Target)
			if !ok {
				continue
			}
			qq := q
			out[i].Second = &qq
			changed = true
		}
		if changed {
			b.ReplaceTransitions(nfa.StateID(s), out)
		}
	}
}

type qualifyResult struct {
	pred predicate.Predicate
	ok   bool
}

// computeQualify reports t's predicate when trans is *exactly* one
// consuming transition and nothing else — not merely when exactly one of
// however many transitions happens to be consuming. See liftTwoChar's doc
// comment for why the stricter, whole-list rule is required.
func computeQualify(trans []nfa.TwoCharTransition) qualifyResult {
	if len(trans) != 1 || !trans[0].Consumes {
		return qualifyResult{}
	}
	return qualifyResult{pred: trans[0].First, ok: true}
}
