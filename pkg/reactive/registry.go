package reactive

import (
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// viewBase carries the mode shared by every observable view.
type viewBase struct {
	readOnly bool
	shallow  bool
}

// IsReadOnlyView reports the view's mode.
func (v *viewBase) IsReadOnlyView() bool { return v.readOnly }

// identityRegistry caches the observable views constructed over each raw,
// one per (raw, mode) pair, keyed by stable object address. The caches hold
// views strongly; Release drops an object's entries explicitly.
type identityRegistry struct {
	mu              sync.Mutex
	mutable         map[uintptr]any
	readOnly        map[uintptr]any
	shallowMutable  map[uintptr]any
	shallowReadOnly map[uintptr]any
}

var registry = &identityRegistry{
	mutable:         make(map[uintptr]any),
	readOnly:        make(map[uintptr]any),
	shallowMutable:  make(map[uintptr]any),
	shallowReadOnly: make(map[uintptr]any),
}

// Advisory tag registries consulted before wrapping.
var (
	markedReadOnly    = mapset.NewSet[uintptr]()
	markedNonReactive = mapset.NewSet[uintptr]()
)

// readOnlyLocked gates write rejection on read-only views. The surrounding
// framework toggles it around windows where user code must not mutate
// library-owned state.
var readOnlyLocked atomic.Bool

// LockReadOnly enables strict enforcement: mutations through read-only
// views warn and fail instead of being ignored or delegated.
func LockReadOnly() { readOnlyLocked.Store(true) }

// UnlockReadOnly disables strict enforcement.
func UnlockReadOnly() { readOnlyLocked.Store(false) }

// ReadOnlyLocked reports whether strict enforcement is active.
func ReadOnlyLocked() bool { return readOnlyLocked.Load() }

// observableKind reports whether raw is a kind the engine can wrap: a plain
// record, a sequence, or one of the container types.
func observableKind(raw any) bool {
	switch raw.(type) {
	case map[string]any, *[]any, *Map, *Set, *WeakMap, *WeakSet:
		return true
	}
	return false
}

// isView reports whether x is an observable view of any kind.
func isView(x any) bool {
	switch x.(type) {
	case *Object, *List, *MapView, *SetView, *WeakMapView, *WeakSetView:
		return true
	}
	return false
}

// Observe returns the cached mutable view over raw, creating it on first
// call. Values that are not an observable kind, values marked non-reactive,
// and existing views are returned unchanged; values marked read-only come
// back as read-only views.
func Observe(raw any) any {
	return observe(raw, false, false)
}

// ShallowObserve is Observe without nested wrapping: reads return nested
// values as-is.
func ShallowObserve(raw any) any {
	return observe(raw, false, true)
}

// ReadOnly returns the cached read-only view over raw. Passing a mutable
// view unwraps it first; passing a read-only view returns it unchanged.
func ReadOnly(raw any) any {
	return observe(raw, true, false)
}

// ShallowReadOnly is read-only at the top level only: nested reads return
// the raw nested value unchanged.
func ShallowReadOnly(raw any) any {
	return observe(raw, true, true)
}

func observe(raw any, readOnly, shallow bool) any {
	// Wrapping a read-only view yields itself.
	if IsReadOnly(raw) {
		return raw
	}
	// A mutable view passed to ReadOnly unwraps to its raw first;
	// passed to Observe it is returned unchanged.
	if isView(raw) {
		if !readOnly {
			return raw
		}
		raw = Raw(raw)
	}
	if _, ok := raw.(Ref); ok {
		return raw
	}
	if !observableKind(raw) {
		warnf("value of type %T cannot be made observable", raw)
		return raw
	}

	id := identityOf(raw)
	if id == 0 {
		warnf("value of type %T has no stable identity", raw)
		return raw
	}
	if markedNonReactive.Contains(id) {
		return raw
	}
	if !readOnly && markedReadOnly.Contains(id) {
		readOnly = true
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	cache := registry.cacheFor(readOnly, shallow)
	if view, ok := cache[id]; ok {
		return view
	}

	view := newView(raw, readOnly, shallow)
	cache[id] = view
	return view
}

func (r *identityRegistry) cacheFor(readOnly, shallow bool) map[uintptr]any {
	switch {
	case readOnly && shallow:
		return r.shallowReadOnly
	case readOnly:
		return r.readOnly
	case shallow:
		return r.shallowMutable
	default:
		return r.mutable
	}
}

// newView constructs the interceptor appropriate to the raw's kind:
// method-level instrumentation for containers, property-level for records
// and sequences.
func newView(raw any, readOnly, shallow bool) any {
	base := viewBase{readOnly: readOnly, shallow: shallow}
	switch t := raw.(type) {
	case map[string]any:
		return &Object{viewBase: base, raw: t}
	case *[]any:
		return &List{viewBase: base, raw: t}
	case *Map:
		return &MapView{viewBase: base, raw: t}
	case *Set:
		return &SetView{viewBase: base, raw: t}
	case *WeakMap:
		return &WeakMapView{viewBase: base, raw: t}
	case *WeakSet:
		return &WeakSetView{viewBase: base, raw: t}
	}
	return raw
}

// Raw returns the underlying object for any observable view, or x itself.
func Raw(x any) any {
	switch t := x.(type) {
	case *Object:
		return t.raw
	case *List:
		return t.raw
	case *MapView:
		return t.raw
	case *SetView:
		return t.raw
	case *WeakMapView:
		return t.raw
	case *WeakSetView:
		return t.raw
	}
	return x
}

// IsObservable reports whether x is an observable view (of either mode).
func IsObservable(x any) bool {
	return isView(x)
}

// IsReadOnly reports whether x is a read-only view.
func IsReadOnly(x any) bool {
	switch t := x.(type) {
	case *Object:
		return t.readOnly
	case *List:
		return t.readOnly
	case *MapView:
		return t.readOnly
	case *SetView:
		return t.readOnly
	case *WeakMapView:
		return t.readOnly
	case *WeakSetView:
		return t.readOnly
	}
	return false
}

// MarkReadOnly tags x so that observing it always produces a read-only
// view. Returns x for chaining.
func MarkReadOnly(x any) any {
	if id := identityOf(Raw(x)); id != 0 {
		markedReadOnly.Add(id)
	}
	return x
}

// MarkNonReactive tags x so that Observe and ReadOnly return it unchanged.
// Returns x for chaining.
func MarkNonReactive(x any) any {
	if id := identityOf(Raw(x)); id != 0 {
		markedNonReactive.Add(id)
	}
	return x
}

// wrapNested wraps a value read through a deep view, preserving the outer
// view's mode. Non-observable kinds pass through.
func wrapNested(v any, readOnly bool) any {
	if !observableKind(v) {
		return v
	}
	if readOnly {
		return ReadOnly(v)
	}
	return Observe(v)
}
