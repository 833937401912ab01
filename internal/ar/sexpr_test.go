package ar

import (
	"testing"

	"ikos/internal/varid"
)

func TestLoadBundleParsesGlobalsAndDeclarations(t *testing.T) {
	src := `(bundle $prog
		(global $counter)
		(function $memset (params (param $dst) (param $val) (param $n)) (decl)))`
	b, err := LoadBundle(src, varid.NewFactory())
	if err != nil {
		t.Fatalf("LoadBundle error: %v", err)
	}
	if b.Name != "prog" {
		t.Errorf("Name = %q, want prog", b.Name)
	}
	if len(b.Globals) != 1 || b.Globals[0].Name != "counter" {
		t.Errorf("Globals = %+v, want one global named counter", b.Globals)
	}
	fn, ok := b.Function("memset")
	if !ok {
		t.Fatal("expected a function named memset")
	}
	if !fn.IsDecl() {
		t.Error("memset should be a declaration (no cfg)")
	}
	if len(fn.Params) != 3 {
		t.Fatalf("len(Params) = %d, want 3", len(fn.Params))
	}
	if fn.Params[0].Name != "dst" || fn.Params[2].Name != "n" {
		t.Errorf("Params = %+v", fn.Params)
	}
}

func TestLoadBundleParsesCFGWithBlocksAndSuccessors(t *testing.T) {
	src := `(bundle $prog
		(function $main
			(params)
			(cfg $entry
				(block $entry
					(succ $exit)
					(stmt !1 $arithmetic (result $x) (op $add)
						(operand (const $1)) (operand (const $2))))
				(block $exit
					(stmt !2 $unreachable)))))`
	b, err := LoadBundle(src, varid.NewFactory())
	if err != nil {
		t.Fatalf("LoadBundle error: %v", err)
	}
	fn, ok := b.Function("main")
	if !ok {
		t.Fatal("expected a function named main")
	}
	if fn.IsDecl() {
		t.Fatal("main has a cfg, should not be a declaration")
	}
	if fn.CFG.Entry != "entry" {
		t.Errorf("Entry = %q, want entry", fn.CFG.Entry)
	}
	entry, ok := fn.CFG.Block("entry")
	if !ok {
		t.Fatal("expected block entry")
	}
	if len(entry.Successors) != 1 || entry.Successors[0] != "exit" {
		t.Errorf("Successors = %v, want [exit]", entry.Successors)
	}
	if len(entry.Statements) != 1 {
		t.Fatalf("len(Statements) = %d, want 1", len(entry.Statements))
	}
	stmt := entry.Statements[0]
	if stmt.ID != 1 || stmt.Kind != Arithmetic || stmt.Op != "add" {
		t.Errorf("stmt = %+v", stmt)
	}
	if stmt.Result == nil || stmt.Result.String() != "x" {
		t.Errorf("Result = %v, want x", stmt.Result)
	}
	if len(stmt.Operands) != 2 || !stmt.Operands[0].IsConst() || stmt.Operands[0].Const != "1" {
		t.Errorf("Operands = %+v", stmt.Operands)
	}

	exit, ok := fn.CFG.Block("exit")
	if !ok {
		t.Fatal("expected block exit")
	}
	if len(exit.Statements) != 1 || exit.Statements[0].Kind != Unreachable {
		t.Errorf("exit.Statements = %+v", exit.Statements)
	}
}

func TestLoadBundleParsesCallWithCalleeAndArgs(t *testing.T) {
	src := `(bundle $prog
		(function $main (params)
			(cfg $entry
				(block $entry
					(stmt !1 $call (result $r) (callee $helper)
						(arg (var $a)) (arg (const $7)))))))`
	vf := varid.NewFactory()
	b, err := LoadBundle(src, vf)
	if err != nil {
		t.Fatalf("LoadBundle error: %v", err)
	}
	fn, _ := b.Function("main")
	block, _ := fn.CFG.Block("entry")
	stmt := block.Statements[0]
	if stmt.Kind != Call || stmt.Callee != "helper" {
		t.Errorf("stmt = %+v", stmt)
	}
	if len(stmt.Args) != 2 {
		t.Fatalf("len(Args) = %d, want 2", len(stmt.Args))
	}
	if stmt.Args[0].IsConst() || stmt.Args[0].Var.String() != "a" {
		t.Errorf("Args[0] = %+v, want var a", stmt.Args[0])
	}
	if !stmt.Args[1].IsConst() || stmt.Args[1].Const != "7" {
		t.Errorf("Args[1] = %+v, want const 7", stmt.Args[1])
	}
}

func TestLoadBundleVariablesShareOneFactory(t *testing.T) {
	src := `(bundle $prog
		(function $main (params)
			(cfg $entry
				(block $entry
					(stmt !1 $assign (result $x) (operand (var $x)))))))`
	vf := varid.NewFactory()
	pre := vf.Get("x")
	b, err := LoadBundle(src, vf)
	if err != nil {
		t.Fatalf("LoadBundle error: %v", err)
	}
	fn, _ := b.Function("main")
	block, _ := fn.CFG.Block("entry")
	stmt := block.Statements[0]
	if stmt.Result.Index() != pre.Index() {
		t.Errorf("Result.Index() = %d, want %d (same variable, reused from the factory)", stmt.Result.Index(), pre.Index())
	}
}

func TestLoadBundleParsesMemsetWithSize(t *testing.T) {
	src := `(bundle $prog
		(function $main (params)
			(cfg $entry
				(block $entry
					(stmt !1 $memset (operand (var $dst)) (size (const $16)))))))`
	b, err := LoadBundle(src, varid.NewFactory())
	if err != nil {
		t.Fatalf("LoadBundle error: %v", err)
	}
	fn, _ := b.Function("main")
	block, _ := fn.CFG.Block("entry")
	stmt := block.Statements[0]
	if stmt.Kind != Memset || !stmt.Size.IsConst() || stmt.Size.Const != "16" {
		t.Errorf("stmt = %+v", stmt)
	}
}

func TestLoadBundleParsesConvStatement(t *testing.T) {
	src := `(bundle $prog
		(function $main (params)
			(cfg $entry
				(block $entry
					(stmt !1 $conv (result $p) (conv $inttoptr) (operand (var $i)))))))`
	b, err := LoadBundle(src, varid.NewFactory())
	if err != nil {
		t.Fatalf("LoadBundle error: %v", err)
	}
	fn, _ := b.Function("main")
	block, _ := fn.CFG.Block("entry")
	stmt := block.Statements[0]
	if stmt.Kind != Conv || stmt.Conv != IntToPtr {
		t.Errorf("stmt = %+v", stmt)
	}
}

func TestLoadBundleParsesVarArgFunction(t *testing.T) {
	src := `(bundle $prog (function $printf (params (param $fmt)) (vararg) (decl)))`
	b, err := LoadBundle(src, varid.NewFactory())
	if err != nil {
		t.Fatalf("LoadBundle error: %v", err)
	}
	fn, _ := b.Function("printf")
	if !fn.IsVarArg {
		t.Error("printf should be vararg")
	}
}

func TestLoadBundleRejectsWrongTopLevelFunctor(t *testing.T) {
	if _, err := LoadBundle(`(program $x)`, varid.NewFactory()); err == nil {
		t.Error("LoadBundle should reject a non-bundle top-level expression")
	}
}

func TestLoadBundleRejectsUnknownStatementKind(t *testing.T) {
	src := `(bundle $prog
		(function $main (params)
			(cfg $entry
				(block $entry
					(stmt !1 $not-a-kind)))))`
	if _, err := LoadBundle(src, varid.NewFactory()); err == nil {
		t.Error("LoadBundle should reject an unknown statement kind")
	}
}

func TestLoadBundleRejectsUnknownConv(t *testing.T) {
	src := `(bundle $prog
		(function $main (params)
			(cfg $entry
				(block $entry
					(stmt !1 $conv (conv $not-a-conv))))))`
	if _, err := LoadBundle(src, varid.NewFactory()); err == nil {
		t.Error("LoadBundle should reject an unknown conversion kind")
	}
}

func TestLoadBundleRejectsMalformedStatementID(t *testing.T) {
	src := `(bundle $prog
		(function $main (params)
			(cfg $entry
				(block $entry
					(stmt ($bad-id) $unreachable)))))`
	if _, err := LoadBundle(src, varid.NewFactory()); err == nil {
		t.Error("LoadBundle should reject a non-index64 statement id")
	}
}
