package compiler

import (
	"testing"

	"github.com/coregx/rexdfs/hir"
	"github.com/coregx/rexdfs/nfa"
)

// TestLiftSkipsNonConsumingTransitions is the direct regression test for
// the [ab]+c defect: a greedy loop-exit split state's two ε-moves must
// never pick up a Second guard, since their target is examined at the same
// position the split itself sits at, not one further on.
func TestLiftSkipsNonConsumingTransitions(t *testing.T) {
	root := hir.Concat(
		hir.Plus(hir.Class(hir.Range{Lo: 'a', Hi: 'b'}), hir.Greedy),
		hir.Literal('c'),
	)
	res, err := Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	n := res.NFA
	for id := 0; id < n.NumStates(); id++ {
		sid := nfa.StateID(id)
		if sid == nfa.MATCH || sid == nfa.REJECT {
			continue
		}
		for _, tr := range n.Transitions(sid) {
			if !tr.Consumes && tr.Second != nil {
				t.Fatalf("state %d: non-consuming transition to %d must not carry a Second guard, got %v", id, tr.Target, tr.Second)
			}
		}
	}
}

// TestLiftRequiresWholeTargetTransitionList guards finding (b): a target
// state that mixes one consuming and one non-consuming transition (the
// shape compilePossessiveQuestPrimitive builds) must never qualify as a
// lift target, since entering it does not guarantee the consuming branch
// is the one taken.
func TestLiftRequiresWholeTargetTransitionList(t *testing.T) {
	root := hir.Concat(
		hir.Literal('x'),
		hir.Quest(hir.Literal('a'), hir.Possessive),
		hir.Literal('y'),
	)
	res, err := Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	n := res.NFA
	for id := 0; id < n.NumStates(); id++ {
		sid := nfa.StateID(id)
		if sid == nfa.MATCH || sid == nfa.REJECT {
			continue
		}
		trans := n.Transitions(sid)
		if len(trans) != 1 || !trans[0].Consumes {
			continue // not the x -> a?+ state; nothing to check here
		}
		target := trans[0].Target
		if target == nfa.MATCH || target == nfa.REJECT {
			continue
		}
		targetTrans := n.Transitions(target)
		if len(targetTrans) == 2 && trans[0].Second != nil {
			t.Fatalf("state %d: lifted onto a mixed consuming/non-consuming target %d, should not have qualified", id, target)
		}
	}
}
