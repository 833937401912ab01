package pipeline

import (
	"testing"

	"ikos/internal/ar"
	"ikos/internal/varid"
)

// indirectCallFunction builds a single block that assigns a function
// address to f from a constant, then calls through f.
func indirectCallFunction(vf *varid.Factory) *ar.Function {
	f := vf.Get("f")

	b := ar.NewBasicBlock("entry")
	assign := ar.NewStatement(0, ar.Assign)
	assign.Result = f
	assign.Operands = []ar.Operand{ar.ConstOperand("foo")}
	b.Append(assign)

	call := ar.NewStatement(1, ar.Call)
	call.Operands = []ar.Operand{ar.VarOperand(f)}
	b.Append(call)

	cfg := ar.NewCFG("entry")
	cfg.AddBlock(b)
	return &ar.Function{Name: "caller", CFG: cfg}
}

func TestIsIndirectCallDistinguishesFromDirect(t *testing.T) {
	vf := varid.NewFactory()
	f := vf.Get("f")

	indirect := ar.NewStatement(0, ar.Call)
	indirect.Operands = []ar.Operand{ar.VarOperand(f)}
	if _, ok := isIndirectCall(indirect); !ok {
		t.Error("a call dialed through a variable should be indirect")
	}

	direct := ar.NewStatement(1, ar.Call)
	direct.Callee = "foo"
	if _, ok := isIndirectCall(direct); ok {
		t.Error("a call with a statically named Callee should not be indirect")
	}
}

func TestAnalyzeFunctionPointersResolvesAssignedCandidate(t *testing.T) {
	vf := varid.NewFactory()
	fn := indirectCallFunction(vf)

	info := AnalyzeFunctionPointers(fn)

	got := info.Candidates[1]
	if len(got) != 1 || got[0] != "foo" {
		t.Errorf("candidates for call site 1 = %v, want [foo]", got)
	}
}

func TestAnalyzeFunctionPointersDeclarationIsEmpty(t *testing.T) {
	fn := &ar.Function{Name: "decl"}
	info := AnalyzeFunctionPointers(fn)
	if len(info.Candidates) != 0 {
		t.Error("a declaration should have no candidates")
	}
}
