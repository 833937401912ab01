package ar

import "testing"

type recordingVisitor struct {
	DefaultVisitor
	seen []StmtKind
}

func (r *recordingVisitor) VisitArithmetic(s Statement) { r.seen = append(r.seen, s.Kind) }
func (r *recordingVisitor) VisitCall(s Statement)       { r.seen = append(r.seen, s.Kind) }
func (r *recordingVisitor) VisitMemcpy(s Statement)     { r.seen = append(r.seen, s.Kind) }

func TestDispatchRoutesToMatchingMethod(t *testing.T) {
	v := &recordingVisitor{}
	Dispatch(v, NewStatement(0, Arithmetic))
	Dispatch(v, NewStatement(1, Call))
	Dispatch(v, NewStatement(2, Memcpy))
	Dispatch(v, NewStatement(3, BlockStart)) // structural marker, no dispatch

	want := []StmtKind{Arithmetic, Call, Memcpy}
	if len(v.seen) != len(want) {
		t.Fatalf("dispatched %d statements, want %d", len(v.seen), len(want))
	}
	for i, k := range want {
		if v.seen[i] != k {
			t.Errorf("seen[%d] = %v, want %v", i, v.seen[i], k)
		}
	}
}

func TestDefaultVisitorHandlesEveryKindWithoutPanicking(t *testing.T) {
	v := DefaultVisitor{}
	for k := Arithmetic; k <= VaCopy; k++ {
		Dispatch(v, NewStatement(0, k))
	}
}
