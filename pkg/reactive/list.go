package reactive

import "reflect"

// List is the observable view over a sequence (*[]any). Index reads track
// individual element keys; Len tracks the length property, which doubles as
// the sequence's iteration key: structural mutations (ADD/DELETE) trigger it.
type List struct {
	viewBase
	raw *[]any
}

// Get returns the element at index i, tracking the read. Out-of-range reads
// track the index and return nil, mirroring sparse access semantics.
func (l *List) Get(i int) any {
	Track(l.raw, TrackGet, i)
	s := *l.raw
	if i < 0 || i >= len(s) {
		return nil
	}
	val := s[i]
	if l.shallow {
		return val
	}
	if r, ok := val.(Ref); ok {
		return r.Value()
	}
	return wrapNested(val, l.readOnly)
}

// Set stores value at index i. Writing past the current length grows the
// sequence with nil holes and triggers ADD (reaching length subscribers);
// in-range writes trigger SET when the element changed.
func (l *List) Set(i int, value any) {
	if l.readOnly {
		if readOnlyLocked.Load() {
			warnf("set index %d failed: target is read-only", i)
		}
		return
	}
	if i < 0 {
		warnf("set index %d ignored: negative index", i)
		return
	}

	value = Raw(value)
	s := *l.raw

	if i < len(s) {
		oldVal := s[i]
		if oldRef, ok := oldVal.(Ref); ok && !l.shallow {
			if _, incoming := value.(Ref); !incoming {
				oldRef.SetValue(value)
				return
			}
		}
		s[i] = value
		if hasChanged(oldVal, value) {
			trigger(l.raw, TriggerSet, i, value, oldVal, nil)
		}
		return
	}

	for len(s) < i {
		s = append(s, nil)
	}
	s = append(s, value)
	*l.raw = s
	trigger(l.raw, TriggerAdd, i, value, nil, nil)
}

// Len tracks the length property and returns the element count.
func (l *List) Len() int {
	Track(l.raw, TrackGet, lengthKey)
	return len(*l.raw)
}

// SetLen resizes the sequence. Truncation triggers DELETE for each removed
// index; growth pads with nil holes. Either way length subscribers fire.
func (l *List) SetLen(n int) {
	if l.readOnly {
		if readOnlyLocked.Load() {
			warnf("set length failed: target is read-only")
		}
		return
	}
	if n < 0 {
		n = 0
	}

	s := *l.raw
	switch {
	case n < len(s):
		removed := s[n:]
		*l.raw = s[:n]
		for off, old := range removed {
			trigger(l.raw, TriggerDelete, n+off, nil, old, nil)
		}
	case n > len(s):
		for len(s) < n {
			s = append(s, nil)
		}
		*l.raw = s
		trigger(l.raw, TriggerAdd, n-1, nil, nil, nil)
	}
}

// Push appends values and returns the new length. Each append triggers ADD
// on its index, reaching length subscribers.
func (l *List) Push(values ...any) int {
	if l.readOnly {
		if readOnlyLocked.Load() {
			warnf("push failed: target is read-only")
		}
		return len(*l.raw)
	}
	for _, v := range values {
		idx := len(*l.raw)
		*l.raw = append(*l.raw, Raw(v))
		trigger(l.raw, TriggerAdd, idx, v, nil, nil)
	}
	return len(*l.raw)
}

// Pop removes and returns the last element, triggering DELETE on its index.
// Returns nil on an empty sequence.
func (l *List) Pop() any {
	if l.readOnly {
		if readOnlyLocked.Load() {
			warnf("pop failed: target is read-only")
		}
		return nil
	}
	s := *l.raw
	if len(s) == 0 {
		return nil
	}
	idx := len(s) - 1
	old := s[idx]
	*l.raw = s[:idx]
	trigger(l.raw, TriggerDelete, idx, nil, old, nil)
	if l.shallow {
		return old
	}
	return wrapNested(old, l.readOnly)
}

// Values tracks every element and the length, and returns a wrapped copy of
// the sequence. The copy is safe to range over while effects mutate the view.
func (l *List) Values() []any {
	s := *l.raw
	Track(l.raw, TrackGet, lengthKey)
	out := make([]any, len(s))
	for i, v := range s {
		Track(l.raw, TrackGet, i)
		if l.shallow {
			out[i] = v
			continue
		}
		out[i] = wrapNested(v, l.readOnly)
	}
	return out
}

// Includes reports whether x is present, comparing against the raw backing
// store with x unwrapped to its raw form, so identity checks match values
// user code holds outside the view.
func (l *List) Includes(x any) bool {
	return l.IndexOf(x) >= 0
}

// IndexOf returns the first index holding x (raw identity), or -1.
func (l *List) IndexOf(x any) int {
	l.trackAll()
	rawX := Raw(x)
	for i, v := range *l.raw {
		if sameValue(v, rawX) {
			return i
		}
	}
	return -1
}

// LastIndexOf returns the last index holding x (raw identity), or -1.
func (l *List) LastIndexOf(x any) int {
	l.trackAll()
	rawX := Raw(x)
	s := *l.raw
	for i := len(s) - 1; i >= 0; i-- {
		if sameValue(s[i], rawX) {
			return i
		}
	}
	return -1
}

// trackAll subscribes the active effect to every element and the length;
// identity searches depend on the whole sequence.
func (l *List) trackAll() {
	Track(l.raw, TrackGet, lengthKey)
	for i := range *l.raw {
		Track(l.raw, TrackGet, i)
	}
}

// sameValue is identity equality that never panics. Incomparable kinds fall
// back to address identity, so a map or slice still matches itself.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !av.Comparable() || !bv.Comparable() {
		ai, bi := identityOf(a), identityOf(b)
		return ai != 0 && ai == bi && av.Kind() == bv.Kind()
	}
	return a == b
}
