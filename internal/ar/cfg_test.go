package ar

import "testing"

func TestCFGSuccessorsSkipsUnknownBlocks(t *testing.T) {
	g := NewCFG("entry")
	entry := NewBasicBlock("entry")
	entry.AddSuccessor("body")
	entry.AddSuccessor("missing")
	body := NewBasicBlock("body")
	g.AddBlock(entry)
	g.AddBlock(body)

	succs := g.Successors("entry")
	if len(succs) != 1 || succs[0].Name != "body" {
		t.Errorf("Successors = %v, want [body]", succs)
	}
}

func TestFunctionIsDeclWhenCFGMissing(t *testing.T) {
	decl := &Function{Name: "malloc"}
	if !decl.IsDecl() {
		t.Error("function with nil CFG should be a declaration")
	}

	defined := &Function{Name: "main", CFG: NewCFG("entry")}
	if defined.IsDecl() {
		t.Error("function with a CFG should not be a declaration")
	}
}

func TestBundleFunctionLookup(t *testing.T) {
	b := NewBundle("unit")
	b.AddFunction(&Function{Name: "foo"})
	b.AddFunction(&Function{Name: "bar"})

	f, ok := b.Function("bar")
	if !ok || f.Name != "bar" {
		t.Errorf("Function(bar) = %v, %v", f, ok)
	}
	if _, ok := b.Function("baz"); ok {
		t.Error("Function(baz) should not be found")
	}
}
