package predicate

import "testing"

func TestLiteral(t *testing.T) {
	p := Literal('a')
	if !p.Contains('a') {
		t.Fatal("expected literal to contain itself")
	}
	if p.Contains('b') {
		t.Fatal("literal should not contain other runes")
	}
}

func TestRangeCanonicalizeCoalescesOverlaps(t *testing.T) {
	p := Set(Range{'a', 'c'}, Range{'b', 'e'}, Range{'g', 'h'})
	got := p.Ranges()
	want := []Range{{'a', 'e'}, {'g', 'h'}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRangeCanonicalizeCoalescesAdjacent(t *testing.T) {
	p := Set(Range{'a', 'c'}, Range{'d', 'f'})
	got := p.Ranges()
	if len(got) != 1 || got[0] != (Range{'a', 'f'}) {
		t.Fatalf("expected adjacent ranges merged, got %v", got)
	}
}

func TestNegateExcludesSentinels(t *testing.T) {
	p := Negate(Literal('a'))
	if p.Contains(StartText) || p.Contains(EndText) {
		t.Fatal("negated ordinary predicate must not match anchor sentinels")
	}
	if p.Contains('a') {
		t.Fatal("negated predicate must not contain the negated rune")
	}
	if !p.Contains('b') || !p.Contains(MaxRune) || !p.Contains(MinRune) {
		t.Fatal("negated predicate must contain every other rune in domain")
	}
}

func TestAnyExcludesSentinels(t *testing.T) {
	a := Any()
	if a.Contains(StartText) || a.Contains(EndText) {
		t.Fatal("Any must not match anchor sentinels")
	}
	if !a.Contains('x') {
		t.Fatal("Any must match ordinary runes")
	}
}

func TestNoneMatchesNothing(t *testing.T) {
	n := None()
	if !n.IsNone() {
		t.Fatal("None() should report IsNone")
	}
	if n.Contains('a') || n.Contains(StartText) {
		t.Fatal("None must not match any rune")
	}
}

func TestAnchorsDisjointFromOrdinaryDomain(t *testing.T) {
	start := StartAnchor()
	end := EndAnchor()
	if !start.Contains(StartText) || start.Contains(EndText) || start.Contains('a') {
		t.Fatal("StartAnchor must match only the StartText sentinel")
	}
	if !end.Contains(EndText) || end.Contains(StartText) {
		t.Fatal("EndAnchor must match only the EndText sentinel")
	}
}

func TestUnion(t *testing.T) {
	p := Literal('a').Union(Literal('c')).Union(RangeP('x', 'z'))
	for _, r := range []rune{'a', 'c', 'x', 'y', 'z'} {
		if !p.Contains(r) {
			t.Fatalf("expected union to contain %q", r)
		}
	}
	if p.Contains('b') {
		t.Fatal("union should not contain 'b'")
	}
}

func TestEqual(t *testing.T) {
	a := Set(Range{'a', 'f'})
	b := Set(Range{'a', 'c'}, Range{'d', 'f'})
	if !a.Equal(b) {
		t.Fatalf("expected canonicalized equal predicates, got %v vs %v", a, b)
	}
}

func TestSentinelBitPatterns(t *testing.T) {
	start, end := StartText, EndText
	if uint32(int32(start)) != 0xFFFFFFFF {
		t.Fatalf("StartText bit pattern = %#x, want 0xFFFFFFFF", uint32(int32(start)))
	}
	if uint32(int32(end)) != 0xFFFFFFFE {
		t.Fatalf("EndText bit pattern = %#x, want 0xFFFFFFFE", uint32(int32(end)))
	}
}
