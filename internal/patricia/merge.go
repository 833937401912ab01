// internal/patricia/merge.go
package patricia

// MergeOps is the single combinator spec §4.3 asks for: every
// join/meet/leq/equal across the non-relational domains is implemented by
// supplying one of these and calling Tree.Merge, instead of each domain
// re-deriving its own key-matching traversal.
type MergeOps[V any] struct {
	// Combine handles a key present in both trees. Returning ok=false
	// drops the key from the result.
	Combine func(key int, left, right V) (V, bool)

	// LeftOnly/RightOnly handle a key present in only one side. Returning
	// ok=false (or a nil func) drops the key — this is how join/widen
	// implement "keep only variables present on both sides" (spec §4.4)
	// while meet/narrow implement "union keys" by passing the identity.
	LeftOnly  func(key int, left V) (V, bool)
	RightOnly func(key int, right V) (V, bool)
}

// Merge performs the key-parallel binary operation described by ops. Keys
// are visited once per tree; the result is assembled by inserting every
// kept key into a fresh empty tree, so it shares no nodes with t or o
// (only the stored values themselves are reused).
func (t Tree[V]) Merge(o Tree[V], ops MergeOps[V]) Tree[V] {
	result := Empty[V]()
	visited := make(map[int]struct{}, t.Len())
	t.ForEach(func(k int, lv V) bool {
		visited[k] = struct{}{}
		if rv, ok := o.Lookup(k); ok {
			if nv, keep := ops.Combine(k, lv, rv); keep {
				result = result.Insert(k, nv)
			}
			return true
		}
		if ops.LeftOnly != nil {
			if nv, keep := ops.LeftOnly(k, lv); keep {
				result = result.Insert(k, nv)
			}
		}
		return true
	})
	o.ForEach(func(k int, rv V) bool {
		if _, already := visited[k]; already {
			return true
		}
		if ops.RightOnly != nil {
			if nv, keep := ops.RightOnly(k, rv); keep {
				result = result.Insert(k, nv)
			}
		}
		return true
	})
	return result
}
