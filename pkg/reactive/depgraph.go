package reactive

import (
	"fmt"
	"math"
	"reflect"
	"sync"
)

// TrackOp identifies the kind of read being recorded by Track.
type TrackOp uint8

const (
	TrackGet TrackOp = iota + 1
	TrackHas
	TrackIterate
)

// String returns a human-readable name for the track operation.
func (op TrackOp) String() string {
	switch op {
	case TrackGet:
		return "get"
	case TrackHas:
		return "has"
	case TrackIterate:
		return "iterate"
	default:
		return "unknown"
	}
}

// TriggerOp identifies the kind of mutation being reported by Trigger.
type TriggerOp uint8

const (
	TriggerSet TriggerOp = iota + 1
	TriggerAdd
	TriggerDelete
	TriggerClear
)

// String returns a human-readable name for the trigger operation.
func (op TriggerOp) String() string {
	switch op {
	case TriggerSet:
		return "set"
	case TriggerAdd:
		return "add"
	case TriggerDelete:
		return "delete"
	case TriggerClear:
		return "clear"
	default:
		return "unknown"
	}
}

// iterationKey is the unexported type of IterateKey, guaranteeing the
// sentinel cannot collide with any key a user can supply.
type iterationKey struct{}

// IterateKey is the sentinel key representing subscriptions to whole-container
// enumeration. Effects that enumerate a record's keys or a container's size
// subscribe under it; ADD and DELETE mutations trigger it. For sequences the
// iteration key is the length property instead.
var IterateKey iterationKey

// lengthKey is the iteration key for sequence targets: reading Len tracks it
// and structural mutations trigger it.
const lengthKey = "length"

// refValueKey is the synthetic key reference cells track and trigger under.
const refValueKey = "value"

// TrackEvent carries the details of a recorded dependency edge to the
// OnTrack diagnostic hook.
type TrackEvent struct {
	Effect *Effect
	Target any
	Op     TrackOp
	Key    any
}

// TriggerEvent carries the details of an invalidation to the OnTrigger
// diagnostic hook, fired before the affected effect runs.
type TriggerEvent struct {
	Effect   *Effect
	Target   any
	Op       TriggerOp
	Key      any
	NewValue any
	OldValue any

	// OldTarget is a snapshot of the container before a clear operation.
	// Populated only in DevMode.
	OldTarget any
}

// depSet is the set of effects subscribed to one (target, key).
// Membership is kept in insertion order; triggering iterates a snapshot so
// concurrent cleanup of an effect never perturbs a running notification.
// All access happens under the graph mutex.
type depSet struct {
	effects []*Effect
}

// add appends e if not already present. Reports whether e was added.
func (d *depSet) add(e *Effect) bool {
	for _, existing := range d.effects {
		if existing == e {
			return false
		}
	}
	d.effects = append(d.effects, e)
	return true
}

// remove deletes e from the set, preserving the order of the rest.
func (d *depSet) remove(e *Effect) {
	for i, existing := range d.effects {
		if existing == e {
			d.effects = append(d.effects[:i], d.effects[i+1:]...)
			return
		}
	}
}

// depGraph is the three-level index target → key → dep-set. Targets are
// keyed by stable object address; entries are created lazily on first track
// and never eagerly pruned (an empty dep-set simply matches no effects).
type depGraph struct {
	mu      sync.Mutex
	targets map[uintptr]map[any]*depSet
}

var graph = &depGraph{targets: make(map[uintptr]map[any]*depSet)}

// identityOf returns a stable address-based identity for a heap object, or
// zero for values without one. Map headers and pointers never move for the
// lifetime of the object, so the address is a sound registry key.
func identityOf(x any) uintptr {
	if x == nil {
		return 0
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return v.Pointer()
	}
	return 0
}

// Track records that the active effect read (target, key). If tracking is
// paused on this goroutine, or no effect is executing, it is a no-op.
func Track(target any, op TrackOp, key any) {
	tc := currentTracking()
	if tc.paused {
		return
	}
	var e *Effect
	if n := len(tc.effectStack); n > 0 {
		e = tc.effectStack[n-1]
	}
	if e == nil {
		return
	}

	id := identityOf(target)
	if id == 0 {
		return
	}

	graph.mu.Lock()
	keyDeps := graph.targets[id]
	if keyDeps == nil {
		keyDeps = make(map[any]*depSet)
		graph.targets[id] = keyDeps
	}
	d := keyDeps[key]
	if d == nil {
		d = &depSet{}
		keyDeps[key] = d
	}
	added := d.add(e)
	if added {
		e.deps = append(e.deps, d)
	}
	graph.mu.Unlock()

	if !added {
		return
	}
	if m := metricsState.Load(); m != nil {
		m.tracks.Inc()
	}
	if Debug.LogTracking {
		fmt.Printf("[ripple track] %s %v\n", op, key)
	}
	if e.onTrack != nil {
		e.onTrack(TrackEvent{Effect: e, Target: target, Op: op, Key: key})
	}
}

// Trigger reports a mutation of (target, key) and runs the affected effects.
// Memoized (computed) effects run before plain effects so cached dependencies
// invalidate before their dependents re-evaluate.
func Trigger(target any, op TriggerOp, key any) {
	trigger(target, op, key, nil, nil, nil)
}

func trigger(target any, op TriggerOp, key any, newValue, oldValue, oldTarget any) {
	id := identityOf(target)
	if id == 0 {
		return
	}

	graph.mu.Lock()
	keyDeps := graph.targets[id]
	if keyDeps == nil {
		// Nothing subscribed; not an error.
		graph.mu.Unlock()
		return
	}

	var computedRunners, effects []*Effect
	seen := make(map[uint64]struct{})
	collect := func(d *depSet) {
		for _, e := range d.effects {
			if _, dup := seen[e.id]; dup {
				continue
			}
			seen[e.id] = struct{}{}
			if e.computed {
				computedRunners = append(computedRunners, e)
			} else {
				effects = append(effects, e)
			}
		}
	}

	if op == TriggerClear {
		// A clear affects every dep under the target.
		for _, d := range keyDeps {
			collect(d)
		}
	} else {
		if d := keyDeps[key]; d != nil {
			collect(d)
		}
		if op == TriggerAdd || op == TriggerDelete {
			if d := keyDeps[iterationKeyFor(target)]; d != nil {
				collect(d)
			}
		}
	}
	graph.mu.Unlock()

	if m := metricsState.Load(); m != nil {
		m.triggers.WithLabelValues(op.String()).Inc()
	}

	ev := TriggerEvent{Target: target, Op: op, Key: key, NewValue: newValue, OldValue: oldValue, OldTarget: oldTarget}
	for _, e := range computedRunners {
		runTriggered(e, ev)
	}
	for _, e := range effects {
		runTriggered(e, ev)
	}
}

// iterationKeyFor returns the key whose dep-set represents whole-container
// enumeration for the given target: the length property for sequences, the
// shared sentinel for everything else.
func iterationKeyFor(target any) any {
	if _, ok := target.(*[]any); ok {
		return lengthKey
	}
	return IterateKey
}

// runTriggered fires the OnTrigger hook, then either hands the effect to its
// scheduler or runs it directly.
func runTriggered(e *Effect, ev TriggerEvent) {
	if e.onTrigger != nil {
		ev.Effect = e
		e.onTrigger(ev)
	}
	if e.scheduler != nil {
		e.scheduler(e)
		return
	}
	e.Run()
}

// Release drops all reactive bookkeeping for a raw object: its cached views
// and every dep-set recorded under it. Effects subscribed to the released
// target simply stop receiving triggers from it; their own dep lists are
// reconciled on their next run. This is the explicit analogue of weak-map
// expiry for hosts that manage object lifetime manually.
func Release(raw any) {
	raw = Raw(raw)
	id := identityOf(raw)
	if id == 0 {
		return
	}

	graph.mu.Lock()
	delete(graph.targets, id)
	graph.mu.Unlock()

	registry.mu.Lock()
	delete(registry.mutable, id)
	delete(registry.readOnly, id)
	delete(registry.shallowMutable, id)
	delete(registry.shallowReadOnly, id)
	registry.mu.Unlock()
}

// hasChanged reports whether a stored value differs from its replacement
// under strict inequality, with NaN considered equal to NaN. Values that are
// not comparable always count as changed.
func hasChanged(oldV, newV any) bool {
	if of, ok := oldV.(float64); ok {
		if nf, ok2 := newV.(float64); ok2 {
			if math.IsNaN(of) && math.IsNaN(nf) {
				return false
			}
			return of != nf
		}
	}
	if oldV == nil || newV == nil {
		return oldV != newV
	}
	ov, nv := reflect.ValueOf(oldV), reflect.ValueOf(newV)
	if ov.Comparable() && nv.Comparable() {
		return oldV != newV
	}
	return true
}
