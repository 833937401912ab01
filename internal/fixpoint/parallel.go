// internal/fixpoint/parallel.go
// Function-granularity fan-out (spec §5: "the pipeline may fan out to
// threads at the function granularity when num_threads > 1"). Each
// function's fixpoint state is owned by exactly one goroutine; nothing
// inside Engine.Run itself is concurrent.
package fixpoint

import "golang.org/x/sync/errgroup"

// RunBundle runs run(name) for every name in names, bounded to at most
// concurrency goroutines at a time. concurrency <= 1 runs sequentially
// in the calling goroutine.
func RunBundle(names []string, concurrency int, run func(name string) error) error {
	if concurrency <= 1 {
		for _, n := range names {
			if err := run(n); err != nil {
				return err
			}
		}
		return nil
	}

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for _, n := range names {
		n := n
		g.Go(func() error { return run(n) })
	}
	return g.Wait()
}
