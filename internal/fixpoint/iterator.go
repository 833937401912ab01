// internal/fixpoint/iterator.go
// The fixpoint iterator proper (spec §4.7): walks a WTO, joining simple
// nodes and applying Bourdoncle's widening/narrowing schedule at cycle
// heads. There are no suspension points inside this loop; parallelism
// across functions is handled one level up, in RunBundle below and in
// internal/pipeline.
package fixpoint

// State is the abstract value every node's pre/post map holds. T is the
// concrete domain (e.g. a reduced product of scalar and memory domains);
// self-referencing the type parameter mirrors internal/domain/varpacking
// and internal/domain/reducedproduct's Relational/Integral constraints.
type State[T any] interface {
	IsBottom() bool
	Leq(T) bool
	Join(T) T
	Widen(T) T
	Narrow(T) T
}

// Policy configures the widening delay/period and narrowing iteration
// cap of a single cycle's iteration strategy (spec §4.7, steps 2-4).
type Policy struct {
	// WideningDelay is the number of iterations that use plain join
	// before widening starts being applied. Default 1.
	WideningDelay int
	// WideningPeriod applies widening every Nth iteration past the
	// delay, join otherwise. Default 1 (widen every iteration).
	WideningPeriod int
	// NarrowingIterations caps the narrowing phase; 0 means iterate
	// until a fixpoint is reached with no cap.
	NarrowingIterations int
}

func (p Policy) normalized() Policy {
	if p.WideningDelay <= 0 {
		p.WideningDelay = 1
	}
	if p.WideningPeriod <= 0 {
		p.WideningPeriod = 1
	}
	return p
}

// Engine runs the WTO-driven chaotic iteration strategy over one
// function's CFG.
type Engine[T State[T]] struct {
	Successors func(node string) []string
	Transfer   func(node string, in T) T
	Bottom     T
	Policy     Policy

	// DelayFor overrides Policy.WideningDelay for the cycle whose head is
	// passed in; a result of 0 or less keeps Policy.WideningDelay. The
	// value analysis binds it to the analyzed function's name, so one
	// per-function override (spec §4.7) covers every cycle of that
	// function. Nil means every cycle uses Policy.WideningDelay.
	DelayFor func(head string) int

	pre  map[string]T
	post map[string]T
}

func NewEngine[T State[T]](successors func(string) []string, transfer func(string, T) T, bottom T, policy Policy) *Engine[T] {
	return &Engine[T]{
		Successors: successors,
		Transfer:   transfer,
		Bottom:     bottom,
		Policy:     policy.normalized(),
		pre:        make(map[string]T),
		post:       make(map[string]T),
	}
}

// Pre returns the accumulated pre-condition at node, or Bottom if the
// node hasn't been reached yet.
func (e *Engine[T]) Pre(node string) T {
	if v, ok := e.pre[node]; ok {
		return v
	}
	return e.Bottom
}

// Post returns the post-condition computed the last time node's
// transfer function ran, or Bottom if it never has.
func (e *Engine[T]) Post(node string) T {
	if v, ok := e.post[node]; ok {
		return v
	}
	return e.Bottom
}

func (e *Engine[T]) propagate(from string) {
	post := e.Post(from)
	for _, succ := range e.Successors(from) {
		e.pre[succ] = e.Pre(succ).Join(post)
	}
}

// Run iterates wto starting from initial installed at entry.
func (e *Engine[T]) Run(entry string, wto []Component, initial T) {
	e.pre[entry] = initial
	e.iterate(wto)
}

func (e *Engine[T]) iterate(components []Component) {
	for _, c := range components {
		if c.Cycle {
			e.iterateCycle(c)
		} else {
			e.post[c.Node] = e.Transfer(c.Node, e.Pre(c.Node))
			e.propagate(c.Node)
		}
	}
}

func (e *Engine[T]) delay(head string) int {
	if e.DelayFor != nil {
		if d := e.DelayFor(head); d > 0 {
			return d
		}
	}
	return e.Policy.WideningDelay
}

func (e *Engine[T]) iterateCycle(c Component) {
	h := c.Head
	delay := e.delay(h)
	iteration := 0
	for {
		iteration++
		prev := e.Pre(h)
		e.post[h] = e.Transfer(h, prev)
		e.propagate(h)
		e.iterate(c.Body)

		next := e.Pre(h)
		if next.Leq(prev) {
			// Already stable; a plain join from the last body pass didn't
			// grow the head, so no widening was even needed this round.
			break
		}
		switch {
		case iteration <= delay:
			// keep the join already applied by propagate
		case (iteration-delay)%e.Policy.WideningPeriod == 0:
			e.pre[h] = prev.Widen(next)
		}
	}
	e.narrow(c)
}

func (e *Engine[T]) narrow(c Component) {
	h := c.Head
	cap := e.Policy.NarrowingIterations
	for i := 0; cap == 0 || i < cap; i++ {
		prev := e.Pre(h)
		e.post[h] = e.Transfer(h, prev)
		e.propagate(h)
		e.iterate(c.Body)

		narrowed := prev.Narrow(e.Pre(h))
		e.pre[h] = narrowed
		if narrowed.Leq(prev) && prev.Leq(narrowed) {
			break
		}
	}
}
