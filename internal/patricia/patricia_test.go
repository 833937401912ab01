package patricia

import "testing"

func TestInsertLookup(t *testing.T) {
	tr := Empty[string]()
	tr = tr.Insert(3, "three")
	tr = tr.Insert(7, "seven")
	tr = tr.Insert(1, "one")

	if v, ok := tr.Lookup(7); !ok || v != "seven" {
		t.Fatalf("lookup(7) = %q, %v", v, ok)
	}
	if _, ok := tr.Lookup(42); ok {
		t.Fatal("lookup(42) should miss")
	}
	if tr.Len() != 3 {
		t.Fatalf("len = %d, want 3", tr.Len())
	}
}

func TestPersistentInsertDoesNotMutate(t *testing.T) {
	tr1 := Empty[int]().Insert(1, 10)
	tr2 := tr1.Insert(2, 20)

	if _, ok := tr1.Lookup(2); ok {
		t.Fatal("tr1 should not see keys inserted into tr2")
	}
	if v, ok := tr2.Lookup(1); !ok || v != 10 {
		t.Fatal("tr2 should still see tr1's bindings")
	}
}

func TestRemove(t *testing.T) {
	tr := Empty[int]().Insert(1, 1).Insert(2, 2).Insert(3, 3)
	tr2 := tr.Remove(2)
	if _, ok := tr2.Lookup(2); ok {
		t.Fatal("2 should be removed")
	}
	if _, ok := tr.Lookup(2); !ok {
		t.Fatal("original tree should be untouched by Remove")
	}
}

func TestMergeJoinSemantics(t *testing.T) {
	left := Empty[int]().Insert(1, 1).Insert(2, 2)
	right := Empty[int]().Insert(2, 20).Insert(3, 30)

	// join-like: keep only keys on both sides, take the max.
	joined := left.Merge(right, MergeOps[int]{
		Combine: func(_ int, l, r int) (int, bool) {
			if l > r {
				return l, true
			}
			return r, true
		},
	})
	if joined.Len() != 1 {
		t.Fatalf("join should keep only the shared key 2, got len %d", joined.Len())
	}
	if v, _ := joined.Lookup(2); v != 20 {
		t.Fatalf("joined[2] = %d, want 20", v)
	}
}

func TestMergeMeetSemantics(t *testing.T) {
	left := Empty[int]().Insert(1, 1).Insert(2, 2)
	right := Empty[int]().Insert(2, 20).Insert(3, 30)

	// meet-like: union of keys, identity for one-sided keys.
	met := left.Merge(right, MergeOps[int]{
		Combine:   func(_ int, l, r int) (int, bool) { return l + r, true },
		LeftOnly:  func(_ int, l int) (int, bool) { return l, true },
		RightOnly: func(_ int, r int) (int, bool) { return r, true },
	})
	if met.Len() != 3 {
		t.Fatalf("meet should union keys, got len %d", met.Len())
	}
	if v, _ := met.Lookup(2); v != 22 {
		t.Fatalf("met[2] = %d, want 22", v)
	}
	if v, _ := met.Lookup(1); v != 1 {
		t.Fatalf("met[1] = %d, want 1", v)
	}
}

func TestTransformDropsKeys(t *testing.T) {
	tr := Empty[int]().Insert(1, 1).Insert(2, 2).Insert(3, 3)
	out := tr.Transform(func(k, v int) (int, bool) {
		if v%2 == 0 {
			return 0, false
		}
		return v * 10, true
	})
	if out.Len() != 2 {
		t.Fatalf("expected 2 odd keys kept, got %d", out.Len())
	}
	if v, ok := out.Lookup(1); !ok || v != 10 {
		t.Fatalf("transform(1) = %d, %v", v, ok)
	}
}

func TestForEachVisitsAllKeys(t *testing.T) {
	tr := Empty[int]()
	for i := 0; i < 50; i++ {
		tr = tr.Insert(i, i*i)
	}
	count := 0
	tr.ForEach(func(k, v int) bool {
		if v != k*k {
			t.Fatalf("key %d has value %d, want %d", k, v, k*k)
		}
		count++
		return true
	})
	if count != 50 {
		t.Fatalf("visited %d keys, want 50", count)
	}
}
