package compiler

import (
	"github.com/coregx/rexdfs/hir"
	"github.com/coregx/rexdfs/nfa"
)

// compileRepetition dispatches a Star/Plus/Quest/Repeat node to its greedy
// or possessive construction based on the node's quantifier.
func (c *Compiler) compileRepetition(n *hir.Node, min, max int) (Fragment, error) {
	if n.Quant == hir.Possessive {
		return c.compilePossessiveRepetition(n, min, max)
	}
	switch {
	case min == 0 && max == 1:
		return c.compileGreedyQuest(n.Sub[0])
	case min == 0 && max == -1:
		return c.compileGreedyStar(n.Sub[0])
	case min == 1 && max == -1:
		return c.compileGreedyPlus(n.Sub[0])
	default:
		return c.compileGreedyRepeatRange(n.Sub[0], min, max)
	}
}

// compileGreedyQuest implements `a?`: a split preferring to enter a, with a
// dangling low-priority skip alternative — real backtracking support, since
// both ε-moves are unconditional and always fire.
func (c *Compiler) compileGreedyQuest(child *hir.Node) (Fragment, error) {
	sub, err := c.compileNode(child)
	if err != nil {
		return Fragment{}, err
	}
	s, err := c.b.AddState()
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	if _, err := c.addSplitEdge(s, sub.Entry); err != nil {
		return Fragment{}, err
	}
	skipSlot, err := c.addDanglingSplitEdge(s)
	if err != nil {
		return Fragment{}, err
	}
	exits := append(append([]nfa.Slot{}, sub.Exits...), skipSlot)
	return Fragment{Entry: s, Exits: exits}, nil
}

// compileGreedyStar implements `a*`: a split entering a (looping back to
// itself on every exit of a) with a dangling low-priority skip.
func (c *Compiler) compileGreedyStar(child *hir.Node) (Fragment, error) {
	sub, err := c.compileNode(child)
	if err != nil {
		return Fragment{}, err
	}
	s, err := c.b.AddState()
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	if _, err := c.addSplitEdge(s, sub.Entry); err != nil {
		return Fragment{}, err
	}
	skipSlot, err := c.addDanglingSplitEdge(s)
	if err != nil {
		return Fragment{}, err
	}
	if err := c.b.PatchAll(sub.Exits, s); err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	return Fragment{Entry: s, Exits: []nfa.Slot{skipSlot}}, nil
}

// compileGreedyPlus implements `a+`: compile a once, then a split after it
// looping back to a's entry or falling through to a dangling skip.
func (c *Compiler) compileGreedyPlus(child *hir.Node) (Fragment, error) {
	sub, err := c.compileNode(child)
	if err != nil {
		return Fragment{}, err
	}
	s, err := c.b.AddState()
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	if _, err := c.addSplitEdge(s, sub.Entry); err != nil {
		return Fragment{}, err
	}
	skipSlot, err := c.addDanglingSplitEdge(s)
	if err != nil {
		return Fragment{}, err
	}
	if err := c.b.PatchAll(sub.Exits, s); err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	return Fragment{Entry: sub.Entry, Exits: []nfa.Slot{skipSlot}}, nil
}

// compileGreedyRepeatRange desugars a{min,max} into min mandatory copies
// followed either by a trailing a* (unbounded) or by (max-min) independent
// trailing a? copies, each concatenated in sequence.
func (c *Compiler) compileGreedyRepeatRange(child *hir.Node, min, max int) (Fragment, error) {
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
		f, err := c.compileGreedyStar(child)
		if err != nil {
			return Fragment{}, err
		}
		frags = append(frags, f)
	} else {
		for i := 0; i < max-min; i++ {
			f, err := c.compileGreedyQuest(child)
			if err != nil {
				return Fragment{}, err
			}
			frags = append(frags, f)
		}
	}
	return c.concatFragments(frags)
}

// concatFragments patches each fragment's exits to the entry of the next,
// the same wiring compileConcat performs over HIR children directly.
func (c *Compiler) concatFragments(frags []Fragment) (Fragment, error) {
	if len(frags) == 0 {
		return c.compileEmpty()
	}
	result := frags[0]
	for _, f := range frags[1:] {
		if err := c.b.PatchAll(result.Exits, f.Entry); err != nil {
			return Fragment{}, wrapBuildError(err)
		}
		result.Exits = f.Exits
	}
	return result, nil
}
