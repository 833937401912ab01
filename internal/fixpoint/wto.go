// internal/fixpoint/wto.go
// Bourdoncle's weak topological order (spec §4.7): a partition of a CFG's
// nodes into simple nodes and nested cycles, each cycle carrying the
// head that dominates its re-entry and a WTO of its own body. This is
// the structure the iterator (iterator.go) walks to decide where to
// apply widening/narrowing instead of plain join.
package fixpoint

// Component is either a single node (Cycle == false, Node set) or a
// cycle (Cycle == true, Head + Body set).
type Component struct {
	Cycle bool
	Node  string
	Head  string
	Body  []Component
}

// Build constructs the WTO of the graph reachable from entry via succs,
// following Bourdoncle's 1993 "Efficient chaotic iteration strategies
// with widenings" recursive algorithm.
func Build(entry string, succs func(string) []string) []Component {
	b := &builder{succs: succs, dfn: make(map[string]int)}
	var partition []Component
	b.visit(entry, &partition)
	return partition
}

const infinity = int(^uint(0) >> 1)

type builder struct {
	succs func(string) []string
	dfn   map[string]int
	num   int
	stack []string
}

func (b *builder) push(v string) { b.stack = append(b.stack, v) }

func (b *builder) pop() string {
	n := len(b.stack) - 1
	v := b.stack[n]
	b.stack = b.stack[:n]
	return v
}

// visit returns the smallest dfn reachable from v without leaving the
// current partial component, per Bourdoncle's algorithm; dfn[v] == 0
// means unvisited.
func (b *builder) visit(v string, partition *[]Component) int {
	b.push(v)
	b.num++
	b.dfn[v] = b.num
	head := b.dfn[v]
	loop := false
	for _, w := range b.succs(v) {
		var min int
		if b.dfn[w] == 0 {
			min = b.visit(w, partition)
		} else {
			min = b.dfn[w]
		}
		// A direct back edge to vertex itself returns min == head == dfn[v]
		// on the very first comparison; using <= (not <) is what flags that
		// self-reference as a loop instead of missing it.
		if min <= head {
			head = min
			loop = true
		}
	}
	if head == b.dfn[v] {
		b.dfn[v] = infinity
		last := b.pop()
		if loop {
			for last != v {
				b.dfn[last] = 0
				last = b.pop()
			}
			b.component(v, partition)
		} else {
			b.prepend(partition, Component{Node: v})
		}
	}
	return head
}

func (b *builder) component(v string, partition *[]Component) {
	var body []Component
	for _, w := range b.succs(v) {
		if b.dfn[w] == 0 {
			b.visit(w, &body)
		}
	}
	b.prepend(partition, Component{Cycle: true, Head: v, Body: body})
}

// prepend inserts c at the front of *partition. Components finish in
// reverse topological order (deepest-finished first); prepending instead
// of appending restores forward control-flow order without a separate
// final reversal pass.
func (b *builder) prepend(partition *[]Component, c Component) {
	*partition = append([]Component{c}, *partition...)
}
