package compiler

import (
	"github.com/coregx/rexdfs/hir"
	"github.com/coregx/rexdfs/nfa"
	"github.com/coregx/rexdfs/predicate"
)

// compilePossessiveRepetition dispatches a possessive Star/Plus/Quest/Repeat
// node. When the repeated body is a single primitive consuming node (a
// literal, a class, or "."), it gets the exact two-character-lookahead
// construction: a self-looping state whose high-priority transition checks
// the same predicate one character ahead before committing to another
// iteration, and whose low-priority transition is the only way out once the
// lookahead fails. That shape genuinely never gives back a repetition once
// committed, because there is no second transition back into the loop body
// left for the matcher to retry.
//
// For a repeated body with internal structure (its own alternation or
// nested quantifiers), committing to "never give back a repetition" would
// require pruning already-pushed matcher stack frames belonging to the
// body's own internal choices — something this NFA's static topology can't
// express. For that case this falls back to the plain greedy construction,
// which is exact except in the narrow case where the continuation's failure
// would, under true possessive semantics, force the whole match to fail
// rather than hand back one iteration of the body.
func (c *Compiler) compilePossessiveRepetition(n *hir.Node, min, max int) (Fragment, error) {
	child := n.Sub[0]
	pred, isPrimitive := primitivePredicate(child)
	switch {
	case min == 0 && max == 1:
		if isPrimitive {
			return c.compilePossessiveQuestPrimitive(pred)
		}
		return c.compileGreedyQuest(child)
	case min == 0 && max == -1:
		if isPrimitive {
			return c.compilePossessiveStarPrimitive(pred)
		}
		return c.compileGreedyStar(child)
	case min == 1 && max == -1:
		if isPrimitive {
			return c.compilePossessivePlusPrimitive(pred)
		}
		return c.compileGreedyPlus(child)
	default:
		return c.compilePossessiveRepeatRange(child, min, max, pred, isPrimitive)
	}
}

// primitivePredicate reports whether child is a single consuming node whose
// entire match condition is one predicate, and returns that predicate.
func primitivePredicate(child *hir.Node) (predicate.Predicate, bool) {
	switch child.Op {
	case hir.OpLiteral:
		return predicate.Literal(child.Rune), true
	case hir.OpAnyChar:
		return predicate.Any(), true
	case hir.OpClass:
		if len(child.Ranges) == 0 {
			return predicate.Predicate{}, false
		}
		ranges := make([]predicate.Range, len(child.Ranges))
		for i, r := range child.Ranges {
			ranges[i] = predicate.Range{Lo: r.Lo, Hi: r.Hi}
		}
		return predicate.Set(ranges...), true
	default:
		return predicate.Predicate{}, false
	}
}

// compilePossessivePlusPrimitive builds `a++` for a primitive a: a single
// self-looping state. The high-priority transition consumes one a and
// simultaneously checks, via the second character slot, that another a
// follows — only then does it loop back. The low-priority transition is the
// actual exit: it fires whenever the high-priority guard does not, which is
// exactly when no further a is available.
func (c *Compiler) compilePossessivePlusPrimitive(pred predicate.Predicate) (Fragment, error) {
	s, err := c.b.AddState()
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	lookahead := pred
	if _, err := c.b.AddTransition(s, nfa.TwoCharTransition{
		First: pred, Second: &lookahead, Target: s, Consumes: true,
	}); err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	stopSlot, err := c.b.AddTransition(s, nfa.PendingTransition(pred, nil, true))
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	return Fragment{Entry: s, Exits: []nfa.Slot{stopSlot}}, nil
}

// compilePossessiveStarPrimitive builds `a*+`: an outer, one-time-only
// decision between entering the possessive-plus loop and skipping it
// entirely. The zero-repetition skip is a distinct, never-reused split —
// folding it into the loop body's own low-priority exit would let the
// matcher retry the "skip" choice after having already committed to one or
// more iterations, reintroducing exactly the give-back behavior this
// construction exists to prevent.
func (c *Compiler) compilePossessiveStarPrimitive(pred predicate.Predicate) (Fragment, error) {
	plus, err := c.compilePossessivePlusPrimitive(pred)
	if err != nil {
		return Fragment{}, err
	}
	s0, err := c.b.AddState()
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	if _, err := c.addSplitEdge(s0, plus.Entry); err != nil {
		return Fragment{}, err
	}
	skipSlot, err := c.addDanglingSplitEdge(s0)
	if err != nil {
		return Fragment{}, err
	}
	exits := append(append([]nfa.Slot{}, plus.Exits...), skipSlot)
	return Fragment{Entry: s0, Exits: exits}, nil
}

// compilePossessiveQuestPrimitive builds `a?+`: a single state with two
// mutually exclusive, mutually exhaustive consuming-vs-not transitions — the
// negation of pred (plus the end-of-text sentinel, since running off the
// end of input also means "no a here") stands in for "a did not match",
// removing any dangling low-priority alternative a matcher could fall back
// into after having taken the high-priority match branch.
func (c *Compiler) compilePossessiveQuestPrimitive(pred predicate.Predicate) (Fragment, error) {
	s, err := c.b.AddState()
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	matchSlot, err := c.b.AddTransition(s, nfa.PendingTransition(pred, nil, true))
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	notPred := predicate.Negate(pred).Union(predicate.Set(predicate.Range{Lo: predicate.EndText, Hi: predicate.EndText}))
	skipSlot, err := c.b.AddTransition(s, nfa.PendingTransition(notPred, nil, false))
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	return Fragment{Entry: s, Exits: []nfa.Slot{matchSlot, skipSlot}}, nil
}

// compilePossessiveRepeatRange desugars a possessive a{min,max}: min
// mandatory copies (plain, unconditional consumption — no choice point, so
// nothing to give back), followed by a possessive tail covering the
// optional repetitions.
func (c *Compiler) compilePossessiveRepeatRange(child *hir.Node, min, max int, pred predicate.Predicate, isPrimitive bool) (Fragment, error) {
	if min == 0 && max == 0 {
		return c.compileEmpty()
	}
	var frags []Fragment
	for i := 0; i < min; i++ {
		f, err := c.compileNode(child)
		if err != nil {
			return Fragment{}, err
		}
		frags = append(frags, f)
	}
	if max == -1 {
		f, err := c.possessiveOrGreedyStar(child, pred, isPrimitive)
		if err != nil {
			return Fragment{}, err
		}
		frags = append(frags, f)
	} else {
		for i := 0; i < max-min; i++ {
			f, err := c.possessiveOrGreedyQuest(child, pred, isPrimitive)
			if err != nil {
				return Fragment{}, err
			}
			frags = append(frags, f)
		}
	}
	return c.concatFragments(frags)
}

func (c *Compiler) possessiveOrGreedyStar(child *hir.Node, pred predicate.Predicate, isPrimitive bool) (Fragment, error) {
	if isPrimitive {
		return c.compilePossessiveStarPrimitive(pred)
	}
	return c.compileGreedyStar(child)
}

func (c *Compiler) possessiveOrGreedyQuest(child *hir.Node, pred predicate.Predicate, isPrimitive bool) (Fragment, error) {
	if isPrimitive {
		return c.compilePossessiveQuestPrimitive(pred)
	}
	return c.compileGreedyQuest(child)
}
