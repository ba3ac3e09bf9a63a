// Package hir defines the high-level regex intermediate representation the
// compiler package consumes. A *Node tree is assumed to already exist —
// this package owns its shape and a constructor set, plus (in
// fromsyntax.go) an adapter from Go's standard regexp/syntax tree for the
// CLI front end. Nothing in the compiler package parses regex syntax
// itself.
package hir

// Op identifies the kind of node.
type Op int

const (
	// OpEmpty matches the empty string.
	OpEmpty Op = iota
	// OpLiteral matches a single literal rune.
	OpLiteral
	// OpClass matches any rune in one of the given ranges.
	OpClass
	// OpAnyChar matches any single rune (the "." construct).
	OpAnyChar
	// OpConcat matches its children in sequence.
	OpConcat
	// OpAlternate matches the first child whose branch succeeds, trying
	// children in order (priority order, matching the source left-to-right
	// alternation order).
	OpAlternate
	// OpStar matches its single child zero or more times.
	OpStar
	// OpPlus matches its single child one or more times.
	OpPlus
	// OpQuest matches its single child zero or one times.
	OpQuest
	// OpRepeat matches its single child between Min and Max times
	// (Max == -1 means unbounded).
	OpRepeat
	// OpAnchorStart matches the start-of-text position, consuming nothing.
	OpAnchorStart
	// OpAnchorEnd matches the end-of-text position, consuming nothing.
	OpAnchorEnd
)

// Quantifier selects the repetition discipline for Star, Plus, Quest and
// Repeat nodes.
type Quantifier int

const (
	// Greedy prefers to repeat as many times as possible, falling back
	// (backtracking, in the reference matcher's explicit-stack sense) to
	// fewer repetitions if required to let the continuation match.
	Greedy Quantifier = iota
	// Possessive prefers to repeat as many times as possible and never
	// gives a repetition back, even if the continuation would otherwise
	// match.
	Possessive
)

// Range is an inclusive rune range used by OpClass nodes.
type Range struct {
	Lo, Hi rune
}

// Node is a single node in the HIR tree.
type Node struct {
	Op       Op
	Rune     rune       // OpLiteral
	Ranges   []Range    // OpClass
	Sub      []*Node    // children: 1 for unary ops, N for Concat/Alternate
	Quant    Quantifier // Star, Plus, Quest, Repeat
	Min, Max int        // OpRepeat; Max == -1 means unbounded
}

// Empty returns a node matching the empty string.
func Empty() *Node { return &Node{Op: OpEmpty} }

// Literal returns a node matching exactly r.
func Literal(r rune) *Node { return &Node{Op: OpLiteral, Rune: r} }

// Class returns a node matching any rune in ranges.
func Class(ranges ...Range) *Node { return &Node{Op: OpClass, Ranges: ranges} }

// AnyChar returns a node matching any single rune.
func AnyChar() *Node { return &Node{Op: OpAnyChar} }

// Concat returns a node matching subs in sequence.
func Concat(subs ...*Node) *Node { return &Node{Op: OpConcat, Sub: subs} }

// Alternate returns a node matching the first of subs whose branch matches,
// tried in the given order.
func Alternate(subs ...*Node) *Node { return &Node{Op: OpAlternate, Sub: subs} }

// Star returns a node matching sub zero or more times.
func Star(sub *Node, q Quantifier) *Node { return &Node{Op: OpStar, Sub: []*Node{sub}, Quant: q} }

// Plus returns a node matching sub one or more times.
func Plus(sub *Node, q Quantifier) *Node { return &Node{Op: OpPlus, Sub: []*Node{sub}, Quant: q} }

// Quest returns a node matching sub zero or one times.
func Quest(sub *Node, q Quantifier) *Node { return &Node{Op: OpQuest, Sub: []*Node{sub}, Quant: q} }

// Repeat returns a node matching sub between min and max times. max == -1
// means unbounded.
func Repeat(sub *Node, min, max int, q Quantifier) *Node {
	return &Node{Op: OpRepeat, Sub: []*Node{sub}, Min: min, Max: max, Quant: q}
}

// AnchorStart returns a node matching the start-of-text position.
func AnchorStart() *Node { return &Node{Op: OpAnchorStart} }

// AnchorEnd returns a node matching the end-of-text position.
func AnchorEnd() *Node { return &Node{Op: OpAnchorEnd} }
