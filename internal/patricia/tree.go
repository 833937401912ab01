// internal/patricia/tree.go
// Package patricia implements the persistent, structurally-shared integer
// Patricia tree every non-relational abstract domain in this module is
// built on (spec §3.3/§4.3). It is the classic Okasaki/Gill "fast
// mergeable integer maps" representation: a leaf for each key, and
// branch nodes that record the highest bit at which the keys below them
// first differ. Every mutating operation returns a new tree that shares
// whatever subtrees it did not touch; nothing is ever mutated in place.
package patricia

import "math/bits"

// node is either a leaf (key, value) or a branch splitting its subtree on
// one bit of the key. Keys are treated as non-negative machine words
// (variable indices, spec §3.3's "variables expose an index").
type node[V any] struct {
	leaf bool

	// leaf fields
	key int
	val V

	// branch fields: prefix is the common bits above branchBit, branchBit
	// is the single set bit distinguishing left (bit clear) from right
	// (bit set) subtrees.
	prefix    int
	branchBit int
	left      *node[V]
	right     *node[V]
}

// Tree is a persistent map from non-negative int keys to values of type V.
type Tree[V any] struct {
	root *node[V]
}

// Empty returns the empty tree.
func Empty[V any]() Tree[V] { return Tree[V]{} }

func (t Tree[V]) IsEmpty() bool { return t.root == nil }

func mkLeaf[V any](key int, val V) *node[V] {
	return &node[V]{leaf: true, key: key, val: val}
}

func mkBranch[V any](prefix, branchBit int, left, right *node[V]) *node[V] {
	return &node[V]{prefix: prefix, branchBit: branchBit, left: left, right: right}
}

// branchingBit returns a single bit isolating the highest bit at which p0
// and p1 differ: the classic Patricia discriminator (Okasaki/Gill).
func branchingBit(p0, p1 int) int {
	diff := uint(p0) ^ uint(p1)
	return 1 << (bits.Len(diff) - 1)
}

func matchPrefix(key, prefix, branchBit int) bool {
	mask := ^(branchBit | (branchBit - 1))
	return (key & mask) == (prefix & mask)
}

func zeroBit(key, branchBit int) bool { return key&branchBit == 0 }

// Lookup returns the value stored at key, if any.
func (t Tree[V]) Lookup(key int) (V, bool) {
	n := t.root
	for n != nil {
		if n.leaf {
			if n.key == key {
				return n.val, true
			}
			var zero V
			return zero, false
		}
		if !matchPrefix(key, n.prefix, n.branchBit) {
			break
		}
		if zeroBit(key, n.branchBit) {
			n = n.left
		} else {
			n = n.right
		}
	}
	var zero V
	return zero, false
}

func join[V any](p0 int, t0 *node[V], p1 int, t1 *node[V]) *node[V] {
	b := branchingBit(p0, p1)
	if zeroBit(p0, b) {
		return mkBranch(p0&^(b|(b-1)), b, t0, t1)
	}
	return mkBranch(p0&^(b|(b-1)), b, t1, t0)
}

// Insert returns a new tree with key bound to val, replacing any prior
// binding (InsertOrMerge combines the two instead).
func (t Tree[V]) Insert(key int, val V) Tree[V] {
	return Tree[V]{root: insert(t.root, key, val, nil)}
}

// InsertOrMerge is like Insert but, on collision with an existing value,
// calls merge(old, new) to compute the stored value instead of overwriting.
func (t Tree[V]) InsertOrMerge(key int, val V, merge func(old, new V) V) Tree[V] {
	return Tree[V]{root: insert(t.root, key, val, merge)}
}

func insert[V any](n *node[V], key int, val V, merge func(old, new V) V) *node[V] {
	if n == nil {
		return mkLeaf(key, val)
	}
	if n.leaf {
		if n.key == key {
			if merge != nil {
				return mkLeaf(key, merge(n.val, val))
			}
			return mkLeaf(key, val)
		}
		return join[V](key, mkLeaf(key, val), n.key, n)
	}
	if !matchPrefix(key, n.prefix, n.branchBit) {
		return join[V](key, mkLeaf(key, val), n.prefix, n)
	}
	if zeroBit(key, n.branchBit) {
		return mkBranch(n.prefix, n.branchBit, insert(n.left, key, val, merge), n.right)
	}
	return mkBranch(n.prefix, n.branchBit, n.left, insert(n.right, key, val, merge))
}

// Remove returns a new tree with key unbound.
func (t Tree[V]) Remove(key int) Tree[V] {
	return Tree[V]{root: remove(t.root, key)}
}

func remove[V any](n *node[V], key int) *node[V] {
	if n == nil {
		return nil
	}
	if n.leaf {
		if n.key == key {
			return nil
		}
		return n
	}
	if !matchPrefix(key, n.prefix, n.branchBit) {
		return n
	}
	if zeroBit(key, n.branchBit) {
		newLeft := remove(n.left, key)
		if newLeft == nil {
			return n.right
		}
		if newLeft == n.left {
			return n
		}
		return mkBranch(n.prefix, n.branchBit, newLeft, n.right)
	}
	newRight := remove(n.right, key)
	if newRight == nil {
		return n.left
	}
	if newRight == n.right {
		return n
	}
	return mkBranch(n.prefix, n.branchBit, n.left, newRight)
}

// ForEach visits every (key, value) pair in unspecified order. Returning
// false from f stops iteration early.
func (t Tree[V]) ForEach(f func(key int, val V) bool) {
	forEach(t.root, f)
}

func forEach[V any](n *node[V], f func(key int, val V) bool) bool {
	if n == nil {
		return true
	}
	if n.leaf {
		return f(n.key, n.val)
	}
	if !forEach(n.left, f) {
		return false
	}
	return forEach(n.right, f)
}

// Len returns the number of bindings.
func (t Tree[V]) Len() int {
	n := 0
	t.ForEach(func(int, V) bool { n++; return true })
	return n
}

// Transform applies f to every leaf, producing a new tree; if f returns
// ok=false the key is dropped (spec §3.3, "Transform: unary op applied to
// each leaf, producing possibly-absent value").
func (t Tree[V]) Transform(f func(key int, val V) (V, bool)) Tree[V] {
	return Tree[V]{root: transform(t.root, f)}
}

func transform[V any](n *node[V], f func(key int, val V) (V, bool)) *node[V] {
	if n == nil {
		return nil
	}
	if n.leaf {
		nv, ok := f(n.key, n.val)
		if !ok {
			return nil
		}
		return mkLeaf(n.key, nv)
	}
	l := transform(n.left, f)
	r := transform(n.right, f)
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	return mkBranch(n.prefix, n.branchBit, l, r)
}
