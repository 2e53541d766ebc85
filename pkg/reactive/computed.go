package reactive

import (
	"sync"
	"sync/atomic"
)

// Computed is a memoized effect: a cell whose value is computed lazily by a
// getter and cached until any dependency changes. Invalidation only flips a
// dirty flag; recomputation happens on the next read.
//
// The inner runner is flagged as a memoized effect, so triggers schedule it
// ahead of ordinary effects. That ordering is what keeps a plain effect
// from observing a stale cached value: by the time it re-reads the cell,
// the dirty flag is already set.
type Computed struct {
	dirty atomic.Bool

	// computing guards against re-entrant recomputation in circular
	// dependency chains.
	computing atomic.Bool

	mu     sync.Mutex
	value  any
	setter func(any)
	runner *Effect
}

// NewComputed creates a read-only memoized cell over getter. The getter
// does not run until the first read.
//
// Example:
//
//	o := Observe(map[string]any{"n": 2}).(*Object)
//	double := NewComputed(func() any { return o.Get("n").(int) * 2 })
//	double.Value() // 4
func NewComputed(getter func() any) *Computed {
	return newComputed(getter, nil)
}

// NewWritableComputed creates a memoized cell with a custom setter invoked
// by SetValue.
func NewWritableComputed(getter func() any, setter func(any)) *Computed {
	return newComputed(getter, setter)
}

func newComputed(getter func() any, setter func(any)) *Computed {
	c := &Computed{setter: setter}
	c.dirty.Store(true)
	c.runner = NewEffect(
		func() any { return getter() },
		Lazy(),
		markComputed(),
		WithScheduler(func(*Effect) {
			c.dirty.Store(true)
		}),
	)
	return c
}

// Value returns the cached value, recomputing if a dependency changed since
// the last read.
//
// When read inside another effect, the outer effect subscribes to everything
// the getter depends on, not merely to this cell: the runner's dep list is
// copied into the active effect so leaf invalidation reaches it directly.
func (c *Computed) Value() any {
	if c.dirty.Load() && !c.computing.Swap(true) {
		v := c.runner.Run()
		c.mu.Lock()
		c.value = v
		c.mu.Unlock()
		c.dirty.Store(false)
		c.computing.Store(false)
	}

	c.mu.Lock()
	v := c.value
	c.mu.Unlock()

	trackChildRun(c.runner)
	return v
}

// SetValue forwards to the setter; on a read-only computed it warns in dev
// builds and is otherwise ignored.
func (c *Computed) SetValue(v any) {
	if c.setter == nil {
		warnf("write to read-only computed ignored")
		return
	}
	c.setter(v)
}

func (c *Computed) refMarker() {}

// Stop detaches the inner runner from the dependency graph. The cached
// value keeps serving reads but no longer invalidates.
func (c *Computed) Stop() {
	c.runner.Stop()
}

// trackChildRun subscribes the active effect to every dep-set the child
// effect belongs to, bidirectionally, so invalidation of the child's leaf
// data re-runs the outer effect too.
func trackChildRun(child *Effect) {
	tc := currentTracking()
	if tc.paused {
		return
	}
	var e *Effect
	if n := len(tc.effectStack); n > 0 {
		e = tc.effectStack[n-1]
	}
	if e == nil || e == child {
		return
	}

	graph.mu.Lock()
	for _, d := range child.deps {
		if d.add(e) {
			e.deps = append(e.deps, d)
		}
	}
	graph.mu.Unlock()
}
