// internal/pipeline/context.go
// Call-context identity for the inline call strategy (spec §4.8/§4.9):
// each virtual substitution of a callee's CFG at a call site gets its
// own uuid so the per-function invariant maps inlining produces don't
// collide across different call sites of the same function.
package pipeline

import "github.com/google/uuid"

type CallContext struct {
	ID uuid.UUID
	// Function is the name of the function this context is analyzing.
	Function string
	// CallSite is the statement ID of the call that created this
	// context, or -1 for the bundle's entry points.
	CallSite int
}

func RootContext(function string) CallContext {
	return CallContext{ID: uuid.New(), Function: function, CallSite: -1}
}

func (c CallContext) Child(function string, callSite int) CallContext {
	return CallContext{ID: uuid.New(), Function: function, CallSite: callSite}
}

func (c CallContext) String() string {
	return c.Function + "@" + c.ID.String()
}
