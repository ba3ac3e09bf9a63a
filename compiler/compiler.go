package compiler

import (
	"github.com/coregx/rexdfs/hir"
	"github.com/coregx/rexdfs/nfa"
	"github.com/coregx/rexdfs/predicate"
)

// Fragment is a partially-built piece of NFA: an entry state plus a list of
// dangling exit slots still waiting to be patched to whatever comes next.
// This is the standard Thompson-construction fragment, generalized from
// single-character to two-character transitions. Fragments hold only
// indices into the Compiler's builder — they never outlive it.
type Fragment struct {
	Entry nfa.StateID
	Exits []nfa.Slot
}

// Compiler builds an *nfa.NFA from an *hir.Node tree. The zero value is not
// usable; construct one with New or NewWithConfig.
type Compiler struct {
	b   *nfa.Builder
	cfg Config
}

// New returns a ready-to-use Compiler with the default Config.
func New() *Compiler {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig returns a ready-to-use Compiler tuned by cfg.
func NewWithConfig(cfg Config) *Compiler {
	return &Compiler{b: nfa.NewBuilder(), cfg: cfg}
}

// CompileResult bundles the compiled NFA with metadata downstream packages
// need but that isn't part of the NFA's own contract.
type CompileResult struct {
	NFA *nfa.NFA
	// Literals holds root's top-level literal alternatives when there are
	// enough of them to be worth prefiltering (see Config.
	// AhoLiteralThreshold); nil otherwise.
	Literals []string
	// RequiredClass holds root's mandatory leading \d/\w/\W class, when it
	// has one and Literals doesn't (see extractRequiredClass); used as a
	// narrower fallback prefilter by matcher.NewFromResult when there's no
	// literal branch to key a scan off of at all.
	RequiredClass RequiredClass
}

// NFAValue, LiteralsValue and RequiredClassValue implement
// matcher.CompileResulter, letting matcher.NewFromResult accept a
// *CompileResult directly without this package needing to import matcher
// (which would invert the intended compiler -> {matcher, hdl} dependency
// direction).
func (r *CompileResult) NFAValue() *nfa.NFA      { return r.NFA }
func (r *CompileResult) LiteralsValue() []string { return r.Literals }
func (r *CompileResult) RequiredClassValue() int { return int(r.RequiredClass) }

// Compile is a convenience wrapper around New().Compile(root).
func Compile(root *hir.Node) (*CompileResult, error) {
	return New().Compile(root)
}

// Compile translates root into a complete NFA: it compiles the tree into a
// fragment, patches the fragment's exits to MATCH, runs the mandatory
// two-character lifting pass, and finalizes the builder.
func (c *Compiler) Compile(root *hir.Node) (*CompileResult, error) {
	frag, err := c.compileNode(root)
	if err != nil {
		return nil, err
	}
	if err := c.b.PatchAll(frag.Exits, nfa.MATCH); err != nil {
		return nil, wrapBuildError(err)
	}
	if err := c.b.SetStart(frag.Entry); err != nil {
		return nil, wrapBuildError(err)
	}
	liftTwoChar(c.b)
	n, err := c.b.Build()
	if err != nil {
		return nil, wrapBuildError(err)
	}
	return &CompileResult{
		NFA:           n,
		Literals:      extractLiterals(root, c.cfg.AhoLiteralThreshold),
		RequiredClass: extractRequiredClass(root),
	}, nil
}

func (c *Compiler) compileNode(n *hir.Node) (Fragment, error) {
	switch n.Op {
	case hir.OpEmpty:
		return c.compileEmpty()
	case hir.OpLiteral:
		return c.compileConsuming(predicate.Literal(n.Rune))
	case hir.OpClass:
		return c.compileClass(n)
	case hir.OpAnyChar:
		return c.compileConsuming(predicate.Any())
	case hir.OpAnchorStart:
		return c.compileNonConsuming(predicate.StartAnchor())
	case hir.OpAnchorEnd:
		return c.compileNonConsuming(predicate.EndAnchor())
	case hir.OpConcat:
		return c.compileConcat(n)
	case hir.OpAlternate:
		return c.compileAlternate(n)
	case hir.OpStar:
		return c.compileRepetition(n, 0, -1)
	case hir.OpPlus:
		return c.compileRepetition(n, 1, -1)
	case hir.OpQuest:
		return c.compileRepetition(n, 0, 1)
	case hir.OpRepeat:
		return c.compileRepetition(n, n.Min, n.Max)
	default:
		return Fragment{}, &UnsupportedConstructError{Op: n.Op}
	}
}

// compileEmpty compiles a node matching the empty string: a state with one
// dangling, non-consuming, unconditional transition.
func (c *Compiler) compileEmpty() (Fragment, error) {
	return c.compileNonConsuming(predicate.Wildcard())
}

// compileClass compiles a character class. An empty class never matches
// anything and is wired directly to REJECT rather than left as a dead
// transition.
func (c *Compiler) compileClass(n *hir.Node) (Fragment, error) {
	if len(n.Ranges) == 0 {
		return Fragment{Entry: nfa.REJECT}, nil
	}
	ranges := make([]predicate.Range, len(n.Ranges))
	for i, r := range n.Ranges {
		ranges[i] = predicate.Range{Lo: r.Lo, Hi: r.Hi}
	}
	return c.compileConsuming(predicate.Set(ranges...))
}

// compileConsuming builds a single state with one dangling consuming
// transition guarded by pred.
func (c *Compiler) compileConsuming(pred predicate.Predicate) (Fragment, error) {
	s, err := c.b.AddState()
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	slot, err := c.b.AddTransition(s, nfa.PendingTransition(pred, nil, true))
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	return Fragment{Entry: s, Exits: []nfa.Slot{slot}}, nil
}

// compileNonConsuming builds a single state with one dangling,
// non-consuming transition guarded by pred (used for anchors and the
// empty-match node).
func (c *Compiler) compileNonConsuming(pred predicate.Predicate) (Fragment, error) {
	s, err := c.b.AddState()
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	slot, err := c.b.AddTransition(s, nfa.PendingTransition(pred, nil, false))
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	return Fragment{Entry: s, Exits: []nfa.Slot{slot}}, nil
}

// compileConcat compiles each child in turn, patching each fragment's exits
// directly to the entry of the next.
func (c *Compiler) compileConcat(n *hir.Node) (Fragment, error) {
	if len(n.Sub) == 0 {
		return c.compileEmpty()
	}
	first, err := c.compileNode(n.Sub[0])
	if err != nil {
		return Fragment{}, err
	}
	result := first
	for _, sub := range n.Sub[1:] {
		next, err := c.compileNode(sub)
		if err != nil {
			return Fragment{}, err
		}
		if err := c.b.PatchAll(result.Exits, next.Entry); err != nil {
			return Fragment{}, wrapBuildError(err)
		}
		result.Exits = next.Exits
	}
	return result, nil
}

// compileAlternate compiles an N-ary alternation as a right-leaning cascade
// of binary splits, so that every split state carries exactly two
// transitions regardless of branch count. This keeps every state within
// the two-candidate shape the HDL port contract (next_state/second_state)
// can represent, matching the teacher's buildSplitChain strategy.
func (c *Compiler) compileAlternate(n *hir.Node) (Fragment, error) {
	if len(n.Sub) == 0 {
		return Fragment{Entry: nfa.REJECT}, nil
	}
	if len(n.Sub) == 1 {
		return c.compileNode(n.Sub[0])
	}
	branch, err := c.compileNode(n.Sub[0])
	if err != nil {
		return Fragment{}, err
	}
	rest, err := c.compileAlternate(&hir.Node{Op: hir.OpAlternate, Sub: n.Sub[1:]})
	if err != nil {
		return Fragment{}, err
	}
	s, err := c.b.AddState()
	if err != nil {
		return Fragment{}, wrapBuildError(err)
	}
	if _, err := c.addSplitEdge(s, branch.Entry); err != nil {
		return Fragment{}, err
	}
	if _, err := c.addSplitEdge(s, rest.Entry); err != nil {
		return Fragment{}, err
	}
	exits := append(append([]nfa.Slot{}, branch.Exits...), rest.Exits...)
	return Fragment{Entry: s, Exits: exits}, nil
}

// addSplitEdge adds a high-to-low priority ordered, non-consuming,
// unconditional ε-move from s to target.
func (c *Compiler) addSplitEdge(s, target nfa.StateID) (nfa.Slot, error) {
	slot, err := c.b.AddTransition(s, nfa.PendingTransition(predicate.Wildcard(), nil, false))
	if err != nil {
		return nfa.Slot{}, wrapBuildError(err)
	}
	if err := c.b.Patch(slot, target); err != nil {
		return nfa.Slot{}, wrapBuildError(err)
	}
	return slot, nil
}

// addDanglingSplitEdge adds a high-to-low priority ordered, non-consuming,
// unconditional ε-move from s whose target is not yet known.
func (c *Compiler) addDanglingSplitEdge(s nfa.StateID) (nfa.Slot, error) {
	slot, err := c.b.AddTransition(s, nfa.PendingTransition(predicate.Wildcard(), nil, false))
	if err != nil {
		return nfa.Slot{}, wrapBuildError(err)
	}
	return slot, nil
}
