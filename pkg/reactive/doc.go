// Package reactive is a fine-grained reactivity engine: it makes in-memory
// object graphs observable so that user-supplied computations (effects)
// automatically re-run when any data they previously read is mutated.
//
// # Observing data
//
// Observe wraps a raw object in a transparent view that feeds every read
// and write through the dependency graph:
//
//	o := reactive.Observe(map[string]any{"count": 1}).(*reactive.Object)
//	reactive.NewEffect(func() any {
//	    fmt.Println("count is", o.Get("count"))
//	    return nil
//	})
//	o.Set("count", 2) // effect re-runs
//
// Records (map[string]any), sequences (*[]any), and the Map, Set, WeakMap,
// and WeakSet containers are observable kinds. ReadOnly produces read-only
// views; Raw recovers the backing object.
//
// # Cells and memoized effects
//
// NewRef boxes a single value; NewComputed caches a derived value that
// recomputes lazily when a dependency changes:
//
//	n := reactive.NewRef(2)
//	double := reactive.NewComputed(func() any { return n.Value().(int) * 2 })
//	double.Value() // 4
//
// # Scheduling
//
// Effects run synchronously on trigger by default. WithQueueScheduler
// defers re-runs to a deduplicating flush queue drained on the next tick;
// NextTick and QueuePostFlushCb hook the end of a flush pass.
//
// # Concurrency
//
// The engine is logically single-threaded and cooperative. Tracking state
// (the effect stack, the paused flag) is per-goroutine; shared structures
// are internally synchronized, but effects and mutations are expected to
// happen on one goroutine at a time.
package reactive
