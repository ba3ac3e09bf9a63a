package matcher

import (
	"github.com/coregx/ahocorasick"
	"golang.org/x/sys/cpu"

	"github.com/coregx/rexdfs/simd"
)

// hasAVX2 mirrors the teacher's simd package's capability flag
// (simd/memchr_amd64.go's hasAVX2 = cpu.X86.HasAVX2), read once at package
// init. It gates nothing about correctness — only whether the ASCII fast
// path additionally scans with a SIMD-accelerated memchr before handing off
// to the Aho-Corasick automaton, or goes straight to the automaton.
var hasAVX2 = cpu.X86.HasAVX2

// accel is the literal-prefilter fast path described in SPEC_FULL.md §4.3: a
// search over a pattern's top-level literal alternation branches, used to
// skip over starting positions Search cannot possibly match at before
// falling back to the DFS in exploreFrom for the exact verdict. It never
// decides accept/reject itself.
//
// A single literal branch (possible only when the compiler's
// AhoLiteralThreshold is 1 or less and the root Alternate has one branch)
// is searched directly with simd.Memmem rather than through an
// automaton — mirroring the teacher's own split between a one-needle
// search (simd.Memmem, which already applies its own rare-byte heuristic
// internally) and a multi-needle one (ahocorasick.Automaton). Building an
// automaton for exactly one pattern would just be a slower Memmem.
//
// A pattern with no literal branch at all, but a mandatory leading \d, \w
// or \W (RequiredClass, set by newClassAccel), is narrowed instead with the
// matching simd class-scanning primitive (MemchrDigit, MemchrWord,
// MemchrNotWord) — these skip past positions the class can never start a
// match at, the same role the literal paths play for literal-shaped
// patterns.
type accel struct {
	auto   *ahocorasick.Automaton // nil when single or class is set
	single []byte
	class  RequiredClass // RequiredClassNone unless this is a class accel

	// firstByte/useFirstByteGate gate an AVX2 memchr pre-scan ahead of the
	// automaton, valid only when every literal shares one leading byte (so
	// skipping past a non-matching occurrence of it can never skip a real
	// literal start). rareByteGateThreshold additionally requires that
	// shared byte be uncommon enough (per simd.ByteFrequencies) for the
	// pre-scan to actually skip meaningful ground; gating on a common byte
	// like ' ' would cost a full scan for little benefit.
	firstByte        byte
	useFirstByteGate bool
}

// RequiredClass mirrors compiler.RequiredClass's encoding (see that type's
// doc comment for why the two packages share it by convention rather than
// by a common import): RequiredClassNone/Digit/Word/NotWord in that order.
type RequiredClass int

const (
	RequiredClassNone RequiredClass = iota
	RequiredClassDigit
	RequiredClassWord
	RequiredClassNotWord
)

// newClassAccel builds an accel that narrows a scan to positions rc's
// class can start a match at, using whichever of simd's class-scanning
// primitives corresponds to rc.
func newClassAccel(rc RequiredClass) *accel {
	return &accel{class: rc}
}

// classIndex finds the first position in hay that satisfies rc.
func classIndex(rc RequiredClass, hay []byte) int {
	switch rc {
	case RequiredClassDigit:
		return simd.MemchrDigit(hay)
	case RequiredClassWord:
		return simd.MemchrWord(hay)
	case RequiredClassNotWord:
		return simd.MemchrNotWord(hay)
	default:
		return -1
	}
}

// rareByteGateThreshold is the simd.ByteRank ceiling below which a shared
// leading byte is considered rare enough to gate the AVX2 memchr pre-scan.
const rareByteGateThreshold = 150

// newAccel builds an accel over literals. literals is never empty when
// called (matcher.NewFromResult only calls this when len(lits) > 0).
func newAccel(literals []string) *accel {
	if len(literals) == 1 {
		lit := []byte(literals[0])
		if len(lit) == 0 {
			return nil
		}
		return &accel{single: lit}
	}

	builder := ahocorasick.NewBuilder()
	var firstBytes []byte
	for _, lit := range literals {
		builder.AddPattern([]byte(lit))
		if len(lit) > 0 {
			firstBytes = append(firstBytes, lit[0])
		}
	}
	auto, err := builder.Build()
	if err != nil {
		// A malformed literal set disables acceleration; Search falls back
		// to scanning every start position with the plain DFS.
		return nil
	}
	a := &accel{auto: auto}
	if len(firstBytes) == len(literals) && allSame(firstBytes) && simd.ByteRank(firstBytes[0]) < rareByteGateThreshold {
		a.firstByte = firstBytes[0]
		a.useFirstByteGate = true
	}
	return a
}

// asciiBytes returns a []byte view of input when every rune is ASCII
// (codepoint == byte value, so the view is a faithful reinterpretation with
// no UTF-8 re-encoding), and false otherwise. Non-ASCII input always takes
// the rune-by-rune DFS path in Search.
func asciiBytes(input []rune) ([]byte, bool) {
	out := make([]byte, len(input))
	for i, r := range input {
		if r < 0 || r > 0x7F {
			return nil, false
		}
		out[i] = byte(r)
	}
	if !simd.IsASCII(out) {
		return nil, false // defensive cross-check against the SIMD detector
	}
	return out, true
}

// nextCandidate reports the earliest position at or after from where a
// literal (or required class) could begin to match, or ok=false if nothing
// can start anywhere in ascii[from:]. A single-literal accel searches
// directly with simd.Memmem. A class accel searches with whichever simd
// class-scanning primitive matches its RequiredClass. A multi-literal
// accel narrows the scan with simd.Memchr (when useFirstByteGate and AVX2
// are both available) before confirming with the automaton — exactly
// mirroring the teacher's prefilter-before-automaton layering in
// meta/compile.go, where a cheap byte-level prefilter gates a more
// expensive multi-pattern search.
func (a *accel) nextCandidate(ascii []byte, from int) (int, bool) {
	if a == nil {
		return from, true
	}
	if a.single != nil {
		idx := simd.Memmem(ascii[from:], a.single)
		if idx < 0 {
			return 0, false
		}
		return from + idx, true
	}
	if a.class != RequiredClassNone {
		idx := classIndex(a.class, ascii[from:])
		if idx < 0 {
			return 0, false
		}
		return from + idx, true
	}
	if hasAVX2 && a.useFirstByteGate {
		idx := simd.Memchr(ascii[from:], a.firstByte)
		if idx < 0 {
			return 0, false
		}
		from += idx
	}
	m := a.auto.Find(ascii, from)
	if m == nil {
		return 0, false
	}
	return m.Start, true
}

func allSame(b []byte) bool {
	for i := 1; i < len(b); i++ {
		if b[i] != b[0] {
			return false
		}
	}
	return true
}
