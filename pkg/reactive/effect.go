package reactive

import "sync/atomic"

// Effect is a user function registered to re-run whenever any data it read
// during its previous run is mutated.
//
// Each run first removes the effect from every dep-set it joined on the
// previous run, so its recorded dependencies always reflect exactly the
// reads of the latest run. Running pushes the effect on the goroutine's
// effect stack; a trigger that reaches an effect already on the stack is a
// no-op, which is what keeps an effect that writes a value it also reads
// from looping forever.
type Effect struct {
	id uint64

	// fn is the effect body. Its return value is surfaced by Run so
	// memoized effects can capture their computed value.
	fn func() any

	// active is cleared by Stop. Inactive effects run their body without
	// tracking and never re-join dep-sets.
	active atomic.Bool

	// computed marks memoized effects, which are scheduled ahead of
	// ordinary effects on trigger.
	computed bool

	// scheduler, if present, is invoked with the effect on trigger
	// instead of running the effect directly.
	scheduler func(*Effect)

	// lazy effects do not run on creation; the first invocation is manual.
	lazy bool

	// Diagnostic callbacks.
	onTrack   func(TrackEvent)
	onTrigger func(TriggerEvent)
	onStop    func()

	// deps is the owned dependency list: every dep-set this effect
	// currently belongs to. Guarded by the graph mutex. The symmetry
	// between deps and dep-set membership is what makes cleanup linear
	// in the number of dependencies.
	deps []*depSet

	// job is the lazily-created scheduler job wrapping this effect.
	// It shares the effect's ID so queue deduplication coalesces
	// repeated triggers of the same effect.
	job *Job
}

// EffectOption configures an Effect at creation.
type EffectOption interface {
	isEffectOption()
	applyEffect(e *Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) isEffectOption()       {}
func (f effectOptionFunc) applyEffect(e *Effect) { f(e) }

// Lazy prevents the effect from running on creation; the first run must be
// invoked manually.
func Lazy() EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.lazy = true
	})
}

// WithScheduler installs a scheduler: on trigger it is called with the
// effect instead of the effect running directly.
func WithScheduler(fn func(*Effect)) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.scheduler = fn
	})
}

// WithQueueScheduler defers the effect to the flush queue on trigger.
// Repeated triggers before the queued run starts coalesce into that run.
func WithQueueScheduler() EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.scheduler = func(e *Effect) {
			QueueJob(e.Job())
		}
	})
}

// WithOnTrack installs a diagnostic callback fired when the effect records
// a new dependency edge.
func WithOnTrack(fn func(TrackEvent)) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.onTrack = fn
	})
}

// WithOnTrigger installs a diagnostic callback fired before the effect is
// run (or scheduled) by a trigger.
func WithOnTrigger(fn func(TriggerEvent)) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.onTrigger = fn
	})
}

// WithOnStop installs a diagnostic callback fired by Stop.
func WithOnStop(fn func()) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.onStop = fn
	})
}

// markComputed flags the effect as a memoized runner. Internal to the
// package; user code creates these through NewComputed.
func markComputed() EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.computed = true
	})
}

// NewEffect registers fn as an effect and, unless Lazy is given, runs it
// once immediately. The returned effect is live until Stop.
//
// Example:
//
//	o := Observe(map[string]any{"count": 1}).(*Object)
//	e := NewEffect(func() any {
//	    fmt.Println("count is", o.Get("count"))
//	    return nil
//	})
//	o.Set("count", 2) // effect re-runs
//	Stop(e)
func NewEffect(fn func() any, opts ...EffectOption) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	e.active.Store(true)

	for _, opt := range opts {
		opt.applyEffect(e)
	}

	if !e.lazy {
		e.Run()
	}
	return e
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Run executes the effect body with dependency tracking and returns the
// body's result.
//
// A stopped effect runs its body untracked. An effect that is already on
// the goroutine's effect stack does not run at all: re-entrant triggers of
// the executing effect are dropped to prevent runaway recursion.
func (e *Effect) Run() any {
	if !e.active.Load() {
		return e.fn()
	}

	tc := currentTracking()
	if tc.onStack(e) {
		return nil
	}

	e.cleanup()

	if m := metricsState.Load(); m != nil {
		m.effectRuns.Inc()
	}

	tc.push(e)
	defer tc.pop()
	return e.fn()
}

// Job returns the scheduler job wrapping this effect, creating it on first
// use. The job carries the effect's ID so queueing it again while it is still
// waiting in the queue runs the effect once.
func (e *Effect) Job() *Job {
	if e.job == nil {
		e.job = &Job{id: e.id, fn: func() { e.Run() }}
	}
	return e.job
}

// cleanup removes the effect from every dep-set it belongs to and empties
// its owned dependency list.
func (e *Effect) cleanup() {
	graph.mu.Lock()
	for _, d := range e.deps {
		d.remove(e)
	}
	e.deps = e.deps[:0]
	graph.mu.Unlock()
}

// Stop removes the effect from the dependency graph and deactivates it.
// No subsequent trigger will ever invoke it; calling Run afterwards executes
// the body without tracking.
func (e *Effect) Stop() {
	if !e.active.Load() {
		return
	}
	e.cleanup()
	if e.onStop != nil {
		e.onStop()
	}
	e.active.Store(false)
}

// Stop is the package-level form of (*Effect).Stop.
func Stop(e *Effect) {
	e.Stop()
}
