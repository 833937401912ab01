package pipeline

import "testing"

func TestRootContextIsCallSiteLess(t *testing.T) {
	c := RootContext("main")
	if c.Function != "main" || c.CallSite != -1 {
		t.Errorf("RootContext(main) = %+v, want Function=main CallSite=-1", c)
	}
}

func TestChildContextGetsFreshID(t *testing.T) {
	root := RootContext("main")
	child := root.Child("helper", 7)
	if child.Function != "helper" || child.CallSite != 7 {
		t.Errorf("Child(helper, 7) = %+v", child)
	}
	if child.ID == root.ID {
		t.Error("a child context should get its own uuid, not reuse the parent's")
	}
}

func TestCallContextStringIncludesFunctionName(t *testing.T) {
	c := RootContext("main")
	if got := c.String(); got == "" || got[:4] != "main" {
		t.Errorf("String() = %q, want it to start with the function name", got)
	}
}
