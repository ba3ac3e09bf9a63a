package hdl

import (
	"fmt"
	"strings"

	"github.com/coregx/rexdfs/nfa"
	"github.com/coregx/rexdfs/predicate"
)

// hex32 lowers a rune to the 32-bit hex literal the emitted guard compares
// first_char/second_char against. Ordinary codepoints lower to their own
// value; the StartText/EndText sentinels (predicate.StartText == -1,
// predicate.EndText == -2) lower to 0xFFFFFFFF/0xFFFFFFFE via the same
// int32 two's-complement reinterpretation predicate.go documents as their
// reserved bit pattern — first_char is unsigned 32 bits wide, so the
// hardware comparison needs no special-casing for a sentinel versus an
// ordinary codepoint; it's the same equality/range compare either way.
func hex32(r rune) string {
	return fmt.Sprintf("32'h%08X", uint32(int32(r)))
}

// rangeGuard lowers a single inclusive range to an equality compare (for a
// singleton range) or a bounded-range compare against signal.
func rangeGuard(signal string, r predicate.Range) string {
	if r.Lo == r.Hi {
		return fmt.Sprintf("(%s == %s)", signal, hex32(r.Lo))
	}
	return fmt.Sprintf("(%s >= %s && %s <= %s)", signal, hex32(r.Lo), signal, hex32(r.Hi))
}

// predGuard lowers p to a guard expression over signal, consulting p's own
// canonical range list directly (predicate.Predicate.Ranges()) rather than
// re-deriving an approximation — the single-source-of-truth requirement
// spec.md §9 calls out for software/hardware agreement. An always-true
// Wildcard predicate (the compiler's unconditional structural ε-move
// guard) lowers to the literal constant 1'b1 rather than a range compare:
// Wildcard's [EndText, MaxRune] span does not survive the unsigned 32-bit
// reinterpretation (EndText lowers to 32'hFFFFFFFE, above MaxRune's
// 32'h0010FFFF), so a range compare over it would never hold.
func predGuard(signal string, p predicate.Predicate) string {
	if p.IsWildcard() {
		return "1'b1"
	}
	ranges := p.Ranges()
	if len(ranges) == 0 {
		return "1'b0"
	}
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = rangeGuard(signal, r)
	}
	return "(" + strings.Join(parts, " || ") + ")"
}

// transitionGuard lowers t's full guard: First tested against first_char,
// and, when Second is set, Second tested against second_char gated by
// second_valid (a transition whose Second is set never fires when
// second_valid is low, per spec §4.5's port contract).
func transitionGuard(t nfa.TwoCharTransition) string {
	first := predGuard("first_char", t.First)
	if t.Second == nil {
		return first
	}
	second := predGuard("second_char", *t.Second)
	return fmt.Sprintf("(%s && second_valid && %s)", first, second)
}
