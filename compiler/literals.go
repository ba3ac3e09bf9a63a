package compiler

import (
	"strings"

	"github.com/coregx/rexdfs/hir"
	"github.com/coregx/rexdfs/predicate"
)

// extractLiterals mirrors the teacher's literal-extraction strategy: it
// reports a pattern's top-level literal alternatives — branches of a root
// Alternate node that are each either a single Literal or a Concat made
// entirely of Literals — provided there are at least threshold of them.
// Returns nil when root isn't shaped that way or doesn't clear the
// threshold; matcher.NewFromResult treats a nil result as "no literal
// prefilter".
func extractLiterals(root *hir.Node, threshold int) []string {
	if root.Op != hir.OpAlternate || len(root.Sub) < threshold {
		return nil
	}
	out := make([]string, 0, len(root.Sub))
	for _, sub := range root.Sub {
		lit, ok := literalString(sub)
		if !ok {
			return nil
		}
		out = append(out, lit)
	}
	return out
}

// literalString reports the literal string n matches exactly, if n is a
// single Literal or a Concat of nothing but Literals.
func literalString(n *hir.Node) (string, bool) {
	switch n.Op {
	case hir.OpLiteral:
		return string(n.Rune), true
	case hir.OpConcat:
		var b strings.Builder
		for _, sub := range n.Sub {
			if sub.Op != hir.OpLiteral {
				return "", false
			}
			b.WriteRune(sub.Rune)
		}
		return b.String(), true
	default:
		return "", false
	}
}

// RequiredClass identifies a mandatory leading character class a pattern's
// match must begin with — one of \d, \w or \W, found at the root of the
// pattern (through leading ^ anchors and any Plus/Repeat-with-Min>=1 node,
// both of which cannot contribute a character before their own first
// repetition). This is a second, narrower prefilter than extractLiterals:
// it exists for patterns like \d+ or \w{3,} that have no literal branch to
// key off of at all, but do have a single mandatory class the matcher's
// accel can narrow a scan down to with one of the simd package's
// class-scanning primitives (see matcher/accel.go's newClassAccel).
//
// matcher.CompileResulter.RequiredClassValue reports this value as a plain
// int rather than this named type, so that this package and matcher do not
// need to import one another just to share four integers (matcher already
// defines CompileResulter precisely so it never needs to import compiler).
// matcher/accel.go mirrors this exact encoding under the same constant
// names; keep the two declarations in lockstep if this set ever grows.
type RequiredClass int

const (
	RequiredClassNone RequiredClass = iota
	RequiredClassDigit
	RequiredClassWord
	RequiredClassNotWord
)

// wordPredicate and digitPredicate are the canonical \w and \d predicates,
// built from the same Set/RangeP constructors every other predicate in this
// compiler goes through, so comparing a parsed class against them (via
// Predicate.Equal) is exact regardless of how regexp/syntax ordered or
// split the class's own range list.
var (
	digitPredicate = predicate.RangeP('0', '9')
	wordPredicate  = predicate.Set(
		predicate.Range{Lo: '0', Hi: '9'},
		predicate.Range{Lo: 'A', Hi: 'Z'},
		predicate.Range{Lo: '_', Hi: '_'},
		predicate.Range{Lo: 'a', Hi: 'z'},
	)
	notWordPredicate = predicate.Negate(wordPredicate)
)

// extractRequiredClass reports root's mandatory leading class, or
// RequiredClassNone if root has no single mandatory leading class, or that
// class isn't one of \d, \w or \W.
func extractRequiredClass(root *hir.Node) RequiredClass {
	n := firstMandatory(root)
	if n == nil || n.Op != hir.OpClass {
		return RequiredClassNone
	}
	ranges := make([]predicate.Range, len(n.Ranges))
	for i, r := range n.Ranges {
		ranges[i] = predicate.Range{Lo: r.Lo, Hi: r.Hi}
	}
	got := predicate.Set(ranges...)
	switch {
	case got.Equal(digitPredicate):
		return RequiredClassDigit
	case got.Equal(wordPredicate):
		return RequiredClassWord
	case got.Equal(notWordPredicate):
		return RequiredClassNotWord
	default:
		return RequiredClassNone
	}
}

// firstMandatory walks down n's leftmost spine, skipping constructs that
// are guaranteed to either consume nothing (a leading ^ anchor) or repeat a
// child at least once (Plus, Repeat with Min >= 1), and reports the first
// node that must consume a character whenever n matches anything at all.
// It stops and reports nil as soon as it reaches a construct that might
// contribute zero characters before whatever follows it (Star, Quest, a
// Repeat with Min == 0, an Alternate with more than one branch), since at
// that point the actual first character depends on which branch the input
// takes.
func firstMandatory(n *hir.Node) *hir.Node {
	for {
		switch n.Op {
		case hir.OpLiteral, hir.OpClass, hir.OpAnyChar:
			return n
		case hir.OpPlus:
			n = n.Sub[0]
		case hir.OpRepeat:
			if n.Min < 1 {
				return nil
			}
			n = n.Sub[0]
		case hir.OpConcat:
			i := 0
			for i < len(n.Sub) && n.Sub[i].Op == hir.OpAnchorStart {
				i++
			}
			if i >= len(n.Sub) {
				return nil
			}
			n = n.Sub[i]
		default:
			return nil
		}
	}
}
