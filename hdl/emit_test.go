package hdl

import (
	"strconv"
	"strings"
	"testing"

	"github.com/coregx/rexdfs/compiler"
	"github.com/coregx/rexdfs/hir"
	"github.com/coregx/rexdfs/nfa"
)

func mustCompile(t *testing.T, root *hir.Node) *compiler.CompileResult {
	t.Helper()
	res, err := compiler.Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return res
}

// TestEmitPortContract checks the emitted header matches spec.md §4.5's
// verbatim port list byte-for-byte, modulo the substituted module name.
func TestEmitPortContract(t *testing.T) {
	root := hir.Concat(hir.Literal('a'), hir.Literal('b'), hir.Literal('c'))
	res := mustCompile(t, root)

	out, err := Emit(res.NFA, "abc_matcher")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	want := `module abc_matcher(
    input  [7:0]  current_state,
    input  [31:0] first_char,
    input  [31:0] second_char,
    input         second_valid,
    output [7:0]  next_state,
    output [7:0]  second_state,
    output        consumed,
    output        enabled
);`
	if !strings.HasPrefix(out, want) {
		t.Errorf("Emit header mismatch:\ngot:\n%s\nwant prefix:\n%s", out, want)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "endmodule") {
		t.Errorf("Emit output should end with endmodule, got:\n%s", out)
	}
}

// TestEmitDeterminism covers spec.md §8 property 7: emitting the same NFA
// twice under the same name yields byte-identical text.
func TestEmitDeterminism(t *testing.T) {
	root := hir.Alternate(hir.Literal('a'), hir.Literal('b'), hir.Plus(hir.Literal('c'), hir.Possessive))
	res := mustCompile(t, root)

	first, err := Emit(res.NFA, "m")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	second, err := Emit(res.NFA, "m")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if first != second {
		t.Errorf("Emit is not deterministic across identical calls")
	}
}

// TestEmitRejectsEmptyName checks the module-name validation guard.
func TestEmitRejectsEmptyName(t *testing.T) {
	root := hir.Literal('a')
	res := mustCompile(t, root)
	if _, err := Emit(res.NFA, ""); err == nil {
		t.Errorf("expected error for empty module name")
	}
}

// TestEmitLiteralGuardsUseCanonicalHex checks that a literal transition's
// guard is lowered to an equality compare against the literal's own 32-bit
// codepoint value, not an approximation.
func TestEmitLiteralGuardsUseCanonicalHex(t *testing.T) {
	root := hir.Literal('a')
	res := mustCompile(t, root)

	out, err := Emit(res.NFA, "lit")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	want := "32'h00000061" // 'a' == 0x61
	if !strings.Contains(out, want) {
		t.Errorf("Emit output missing expected literal guard %s:\n%s", want, out)
	}
}

// TestEmitEveryStateHasCaseArm checks that every non-terminal, reachable
// state with outgoing transitions gets its own case arm, so the driver
// can query any state the NFA might report.
func TestEmitEveryStateHasCaseArm(t *testing.T) {
	root := hir.Concat(hir.Literal('a'), hir.Literal('b'))
	res := mustCompile(t, root)

	out, err := Emit(res.NFA, "ab")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	for id := 2; id < res.NFA.NumStates(); id++ {
		if len(res.NFA.Transitions(nfa.StateID(id))) == 0 {
			continue
		}
		marker := "8'd" + strconv.Itoa(id) + ":"
		if !strings.Contains(out, marker) {
			t.Errorf("Emit output missing case arm for state %d", id)
		}
	}
}
