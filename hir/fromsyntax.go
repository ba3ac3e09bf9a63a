package hir

import (
	"fmt"
	goregexpsyntax "regexp/syntax"
)

// ErrUnsupportedSyntax is returned by FromSyntax when a parsed regexp/syntax
// tree uses a construct this adapter does not convert, such as word
// boundaries (\b, \B) or line anchors. Possessive quantifiers never reach
// this adapter at all, since regexp/syntax has no concept of them; patterns
// needing them must build an *hir.Node tree directly.
type ErrUnsupportedSyntax struct {
	Op goregexpsyntax.Op
}

func (e *ErrUnsupportedSyntax) Error() string {
	return fmt.Sprintf("hir: unsupported regexp/syntax construct: %v", e.Op)
}

// FromSyntax converts a parsed regexp/syntax.Regexp tree (as produced by
// regexp/syntax.Parse) into an HIR tree.
//
// This adapter exists only for the CLI front end, which accepts textual
// regex syntax the standard library already knows how to parse; nothing in
// the compiler package depends on it, and it is never used to interpret the
// concrete spec scenarios that exercise possessive quantifiers (L++) since regexp/syntax has no possessive quantifier concept — those
// must be constructed as HIR trees directly (see Repeat/Plus/Star/Quest
// with Quant == Possessive). Capture groups are silently flattened to their
// contents: this HIR has no notion of capture, by spec.
func FromSyntax(re *goregexpsyntax.Regexp) (*Node, error) {
	switch re.Op {
	case goregexpsyntax.OpEmptyMatch:
		return Empty(), nil
	case goregexpsyntax.OpNoMatch:
		return Class(), nil
	case goregexpsyntax.OpLiteral:
		if len(re.Rune) == 0 {
			return Empty(), nil
		}
		subs := make([]*Node, len(re.Rune))
		for i, r := range re.Rune {
			subs[i] = Literal(r)
		}
		if len(subs) == 1 {
			return subs[0], nil
		}
		return Concat(subs...), nil
	case goregexpsyntax.OpCharClass:
		ranges := make([]Range, 0, len(re.Rune)/2)
		for i := 0; i+1 < len(re.Rune); i += 2 {
			ranges = append(ranges, Range{Lo: re.Rune[i], Hi: re.Rune[i+1]})
		}
		return Class(ranges...), nil
	case goregexpsyntax.OpAnyChar:
		return AnyChar(), nil
	case goregexpsyntax.OpAnyCharNotNL:
		return Class(Range{Lo: 0, Hi: '\n' - 1}, Range{Lo: '\n' + 1, Hi: 0x10FFFF}), nil
	case goregexpsyntax.OpBeginText:
		return AnchorStart(), nil
	case goregexpsyntax.OpEndText:
		return AnchorEnd(), nil
	case goregexpsyntax.OpCapture:
		return FromSyntax(re.Sub[0])
	case goregexpsyntax.OpConcat:
		subs, err := convertSubs(re.Sub)
		if err != nil {
			return nil, err
		}
		return Concat(subs...), nil
	case goregexpsyntax.OpAlternate:
		subs, err := convertSubs(re.Sub)
		if err != nil {
			return nil, err
		}
		return Alternate(subs...), nil
	case goregexpsyntax.OpStar:
		sub, err := FromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Star(sub, quantOf(re)), nil
	case goregexpsyntax.OpPlus:
		sub, err := FromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Plus(sub, quantOf(re)), nil
	case goregexpsyntax.OpQuest:
		sub, err := FromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Quest(sub, quantOf(re)), nil
	case goregexpsyntax.OpRepeat:
		sub, err := FromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		max := re.Max
		return Repeat(sub, re.Min, max, quantOf(re)), nil
	default:
		return nil, &ErrUnsupportedSyntax{Op: re.Op}
	}
}

func convertSubs(in []*goregexpsyntax.Regexp) ([]*Node, error) {
	out := make([]*Node, len(in))
	for i, s := range in {
		n, err := FromSyntax(s)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// quantOf maps regexp/syntax's non-greedy flag onto our Greedy quantifier:
// this HIR has no lazy/non-greedy quantifier (the spec's operator set only
// defines Greedy and Possessive), so a `a*?`-style pattern compiles as
// plain greedy. This is a known, documented limitation of the syntax
// adapter, not of the HIR or compiler themselves.
func quantOf(re *goregexpsyntax.Regexp) Quantifier {
	return Greedy
}
