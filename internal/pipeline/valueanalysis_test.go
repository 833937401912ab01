package pipeline

import (
	"testing"

	"ikos/internal/ar"
	"ikos/internal/domain/interval"
	"ikos/internal/fixpoint"
	"ikos/internal/memory"
	"ikos/internal/number"
	"ikos/internal/varid"
)

func intervalsEqual(a, b interval.Interval[number.Z]) bool {
	return a.Leq(b) && b.Leq(a)
}

func mustSingleton(t *testing.T, v int64) interval.Interval[number.Z] {
	t.Helper()
	return interval.Singleton(number.NewZ(v))
}

func singleBlockFunction(name string, build func(vf *varid.Factory, b *ar.BasicBlock)) (*varid.Factory, *ar.Function) {
	vf := varid.NewFactory()
	b := ar.NewBasicBlock("entry")
	build(vf, b)
	cfg := ar.NewCFG("entry")
	cfg.AddBlock(b)
	return vf, &ar.Function{Name: name, CFG: cfg}
}

func runSingleFunctionBundle(t *testing.T, fn *ar.Function, vf *varid.Factory, strategy CallStrategy) map[string]memory.Domain {
	t.Helper()
	bundle := ar.NewBundle("test")
	bundle.AddFunction(fn)
	lf := memory.NewLocFactory()
	pointers := AnalyzePointers(bundle, vf, lf, map[string]PointerInfo{})
	return AnalyzeValue(bundle, vf, lf, pointers, strategy, fixpoint.Policy{}, nil, memory.ScalarInterval)
}

func TestValueAnalysisComputesArithmeticInterval(t *testing.T) {
	var x, y varid.Var
	vf, fn := singleBlockFunction("add1", func(vf *varid.Factory, b *ar.BasicBlock) {
		x, y = vf.Get("x"), vf.Get("y")
		assign := ar.NewStatement(0, ar.Assign)
		assign.Result = x
		assign.Operands = []ar.Operand{ar.ConstOperand("5")}
		b.Append(assign)

		add := ar.NewStatement(1, ar.Arithmetic)
		add.Result = y
		add.Op = "add"
		add.Operands = []ar.Operand{ar.VarOperand(x), ar.ConstOperand("3")}
		b.Append(add)

		ret := ar.NewStatement(2, ar.ReturnValue)
		ret.Operands = []ar.Operand{ar.VarOperand(y)}
		b.Append(ret)
	})

	values := runSingleFunctionBundle(t, fn, vf, ContextInsensitive)
	got := values["add1"].Scalars.Get(y)
	want := mustSingleton(t, 8)
	if !intervalsEqual(got, want) {
		t.Errorf("y = %s, want %s", got, want)
	}
}

func TestValueAnalysisUnreachableBlockIsBottom(t *testing.T) {
	vf, fn := singleBlockFunction("dead", func(vf *varid.Factory, b *ar.BasicBlock) {
		b.Append(ar.NewStatement(0, ar.Unreachable))
	})
	values := runSingleFunctionBundle(t, fn, vf, ContextInsensitive)
	if !values["dead"].IsBottom() {
		t.Error("a function whose only block is unreachable should end bottom")
	}
}

func TestValueAnalysisContextInsensitiveHavocsCallResult(t *testing.T) {
	var result varid.Var
	vf, fn := singleBlockFunction("caller", func(vf *varid.Factory, b *ar.BasicBlock) {
		x := vf.Get("x")
		assign := ar.NewStatement(0, ar.Assign)
		assign.Result = x
		assign.Operands = []ar.Operand{ar.ConstOperand("1")}
		b.Append(assign)

		result = vf.Get("result")
		call := ar.NewStatement(1, ar.Call)
		call.Callee = "unknown"
		call.Result = result
		b.Append(call)
	})

	values := runSingleFunctionBundle(t, fn, vf, ContextInsensitive)
	got := values["caller"].Scalars.Get(result)
	if !got.IsTop() {
		t.Errorf("a context-insensitive call to an unresolved callee should leave the result Top, got %s", got)
	}
}

func TestValueAnalysisAllocatorMintsFreshLocation(t *testing.T) {
	var result varid.Var
	vf, fn := singleBlockFunction("allocator", func(vf *varid.Factory, b *ar.BasicBlock) {
		result = vf.Get("p")
		call := ar.NewStatement(0, ar.Call)
		call.Callee = "malloc"
		call.Result = result
		call.Args = []ar.Operand{ar.ConstOperand("16")}
		b.Append(call)
	})

	values := runSingleFunctionBundle(t, fn, vf, ContextInsensitive)
	pts := values["allocator"].Ptr.Get(result)
	if pts.IsTop() || pts.Len() != 1 {
		t.Errorf("malloc's result should point to exactly one fresh location, got %s", pts)
	}
}

func TestValueAnalysisInlineBindsCalleeReturnValue(t *testing.T) {
	vf := varid.NewFactory()

	calleeBlock := ar.NewBasicBlock("entry")
	double := ar.NewStatement(0, ar.Arithmetic)
	formal := paramVar(vf, &ar.Function{Name: "double"}, 0)
	doubled := vf.Get("doubled")
	double.Result = doubled
	double.Op = "add"
	double.Operands = []ar.Operand{ar.VarOperand(formal), ar.VarOperand(formal)}
	calleeBlock.Append(double)
	ret := ar.NewStatement(1, ar.ReturnValue)
	ret.Operands = []ar.Operand{ar.VarOperand(doubled)}
	calleeBlock.Append(ret)
	calleeCFG := ar.NewCFG("entry")
	calleeCFG.AddBlock(calleeBlock)
	callee := &ar.Function{Name: "double", Params: []ar.Param{{Name: "n"}}, CFG: calleeCFG}

	callerBlock := ar.NewBasicBlock("entry")
	n := vf.Get("n")
	assign := ar.NewStatement(0, ar.Assign)
	assign.Result = n
	assign.Operands = []ar.Operand{ar.ConstOperand("4")}
	callerBlock.Append(assign)
	result := vf.Get("result")
	call := ar.NewStatement(1, ar.Call)
	call.Callee = "double"
	call.Result = result
	call.Args = []ar.Operand{ar.VarOperand(n)}
	callerBlock.Append(call)
	callerCFG := ar.NewCFG("entry")
	callerCFG.AddBlock(callerBlock)
	caller := &ar.Function{Name: "caller", CFG: callerCFG}

	bundle := ar.NewBundle("test")
	bundle.AddFunction(caller)
	bundle.AddFunction(callee)
	lf := memory.NewLocFactory()
	pointers := AnalyzePointers(bundle, vf, lf, map[string]PointerInfo{})
	values := AnalyzeValue(bundle, vf, lf, pointers, Inline, fixpoint.Policy{}, nil, memory.ScalarInterval)

	got := values["caller"].Scalars.Get(result)
	want := mustSingleton(t, 8)
	if !intervalsEqual(got, want) {
		t.Errorf("inlined double(4) = %s, want %s", got, want)
	}
}
