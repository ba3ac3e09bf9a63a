package matcher

import (
	"regexp"
	"regexp/syntax"
	"testing"

	"github.com/coregx/rexdfs/compiler"
	"github.com/coregx/rexdfs/hir"
)

func mustCompile(t *testing.T, root *hir.Node) *Matcher {
	t.Helper()
	res, err := compiler.Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return NewFromResult(res)
}

func runMatch(t *testing.T, root *hir.Node, cases map[string]bool) {
	t.Helper()
	m := mustCompile(t, root)
	for s, want := range cases {
		got := m.Match([]rune(s))
		if got != want {
			t.Errorf("Match(%q) = %v, want %v", s, got, want)
		}
	}
}

// TestConcreteScenarios exercises every literal I/O example listed in
// spec.md §8.
func TestConcreteScenarios(t *testing.T) {
	t.Run("abc", func(t *testing.T) {
		root := hir.Concat(hir.Literal('a'), hir.Literal('b'), hir.Literal('c'))
		runMatch(t, root, map[string]bool{
			"abc": true, "ab": false, "abcd": false, "": false,
		})
	})

	t.Run("[abc]", func(t *testing.T) {
		root := hir.Class(hir.Range{Lo: 'a', Hi: 'a'}, hir.Range{Lo: 'b', Hi: 'b'}, hir.Range{Lo: 'c', Hi: 'c'})
		runMatch(t, root, map[string]bool{
			"a": true, "b": true, "d": false, "": false,
		})
	})

	t.Run("a|b|c", func(t *testing.T) {
		root := hir.Alternate(hir.Literal('a'), hir.Literal('b'), hir.Literal('c'))
		runMatch(t, root, map[string]bool{
			"a": true, "b": true, "c": true, "ab": false,
		})
	})

	t.Run("a+", func(t *testing.T) {
		root := hir.Plus(hir.Literal('a'), hir.Greedy)
		runMatch(t, root, map[string]bool{
			"a": true, "aaa": true, "": false, "b": false,
		})
	})

	t.Run("L++", func(t *testing.T) {
		root := hir.Plus(hir.Literal('L'), hir.Possessive)
		runMatch(t, root, map[string]bool{
			"L": true, "LL": true, "": false, "LX": false,
		})
	})

	t.Run("[ab]+c", func(t *testing.T) {
		root := hir.Concat(
			hir.Plus(hir.Class(hir.Range{Lo: 'a', Hi: 'b'}), hir.Greedy),
			hir.Literal('c'),
		)
		runMatch(t, root, map[string]bool{
			"aaac": true, "bc": true, "c": false,
		})
	})
}

// TestPossessiveDefectFix specifically targets the §9 bug fix, using the
// canonical case where possessive and greedy quantifiers diverge: "L?L"
// against input "L". A greedy L? tries consuming the "L" first, fails the
// trailing mandatory L, backtracks to matching zero, and the trailing L
// then succeeds. A possessive L?+ commits to consuming the "L" and must
// never give it back, so the trailing mandatory L finds nothing left and
// the whole match fails. The source's documented defect was a self-loop
// that never reached this failing exit at all; this test would pass
// trivially against that defect only by accident (an infinite loop would
// hang, not silently accept), so it is paired with the greedy contrast to
// show the divergence is real, not a no-op.
func TestPossessiveDefectFix(t *testing.T) {
	greedy := hir.Concat(hir.Quest(hir.Literal('L'), hir.Greedy), hir.Literal('L'))
	possessive := hir.Concat(hir.Quest(hir.Literal('L'), hir.Possessive), hir.Literal('L'))

	mGreedy := mustCompile(t, greedy)
	mPossessive := mustCompile(t, possessive)

	if !mGreedy.Match([]rune("L")) {
		t.Errorf("greedy L?L should match \"L\" by giving back the optional L")
	}
	if mPossessive.Match([]rune("L")) {
		t.Errorf("possessive L?+L must not match \"L\": the committed L?+ leaves nothing for the trailing L")
	}
	if !mPossessive.Match([]rune("LL")) {
		t.Errorf("possessive L?+L should match \"LL\": one L consumed possessively, one left for the trailing L")
	}
}

// TestEmptyInput covers boundary behavior 9: empty input matches iff the
// pattern accepts the empty string.
func TestEmptyInput(t *testing.T) {
	t.Run("star accepts empty", func(t *testing.T) {
		root := hir.Star(hir.Literal('a'), hir.Greedy)
		if !mustCompile(t, root).Match(nil) {
			t.Errorf("a* should match empty input")
		}
	})
	t.Run("plus rejects empty", func(t *testing.T) {
		root := hir.Plus(hir.Literal('a'), hir.Greedy)
		if mustCompile(t, root).Match(nil) {
			t.Errorf("a+ should reject empty input")
		}
	})
}

// TestLookaheadEndOfInput covers boundary behavior 10: a transition with a
// Second predicate must not fire when there is no lookahead character,
// exercised through the possessive construction's two-character lifting.
func TestLookaheadEndOfInput(t *testing.T) {
	root := hir.Plus(hir.Literal('L'), hir.Possessive)
	m := mustCompile(t, root)
	if !m.Match([]rune("L")) {
		t.Fatalf("single L should match L++ even with no lookahead character")
	}
	loop := m.n.Transitions(m.n.Start())[0]
	if loop.Second == nil || fires(loop, []rune("L"), 0, 'L', 0, false) {
		t.Errorf("the Second-guarded loop transition must not fire without a lookahead character")
	}
}

// TestOracleEquivalence cross-checks the reference matcher against Go's
// stdlib regexp as an independent oracle, restricted to constructs both
// engines support (property 5 in spec.md §8), grounded on
// stdlib_compat_test.go's comparison-harness idiom in the teacher repo.
func TestOracleEquivalence(t *testing.T) {
	patterns := []string{
		`abc`, `a|b|c`, `a+`, `a*`, `a?`, `[a-z]+`, `[^a-z]+`,
		`(ab|cd)+`, `a{2,4}`, `^abc$`, `.*`, `[abc]+c`,
	}
	inputs := []string{
		"", "a", "b", "c", "ab", "abc", "abcabc", "aaaa", "cdcd",
		"abcd", "Z", "zzz", "aabbcc",
	}
	for _, pat := range patterns {
		pat := pat
		t.Run(pat, func(t *testing.T) {
			syn, err := syntax.Parse(pat, syntax.Perl)
			if err != nil {
				t.Fatalf("syntax.Parse: %v", err)
			}
			node, err := hir.FromSyntax(syn)
			if err != nil {
				t.Skipf("construct unsupported by this HIR adapter: %v", err)
			}
			res, err := compiler.Compile(node)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			m := NewFromResult(res)

			anchored := regexp.MustCompile(`\A(?:` + pat + `)\z`)
			for _, in := range inputs {
				want := anchored.MatchString(in)
				got := m.Match([]rune(in))
				if got != want {
					t.Errorf("Match(%q) = %v, want %v (oracle)", in, got, want)
				}
			}
		})
	}
}

// TestMatchTraceRecordsAcceptingPath checks that a successful match returns
// a non-empty trace and a failed one returns nil.
func TestMatchTraceRecordsAcceptingPath(t *testing.T) {
	root := hir.Concat(hir.Literal('a'), hir.Literal('b'))
	m := mustCompile(t, root)

	ok, tr := m.MatchTrace([]rune("ab"))
	if !ok {
		t.Fatalf("expected match")
	}
	if tr == nil || len(tr.Steps) == 0 {
		t.Fatalf("expected non-empty trace, got %v", tr)
	}
	if tr.String() == "<empty trace>" {
		t.Errorf("String() should render recorded steps")
	}

	ok, tr = m.MatchTrace([]rune("xy"))
	if ok {
		t.Fatalf("expected rejection")
	}
	if tr != nil {
		t.Errorf("expected nil trace on rejection, got %v", tr)
	}
}
