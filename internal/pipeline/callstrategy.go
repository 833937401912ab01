// internal/pipeline/callstrategy.go
// Call-handling strategies (spec §4.8/§6.3): inline virtually substitutes
// a callee's CFG at each call, guarded against cycles and re-analysis of
// a function already in progress; context_insensitive treats every call
// as havoc except recognized allocators, which introduce a fresh heap
// memory location.
package pipeline

type CallStrategy uint8

const (
	Inline CallStrategy = iota
	ContextInsensitive
)

func (s CallStrategy) String() string {
	if s == Inline {
		return "inline"
	}
	return "context_insensitive"
}
