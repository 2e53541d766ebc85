package reactive

import "sort"

// Object is the observable view over a plain record (map[string]any).
// Reads feed the dependency graph; writes report mutations to it. Nested
// observable values are wrapped on read unless the view is shallow.
type Object struct {
	viewBase
	raw map[string]any
}

// Get returns the value stored under key, tracking the read.
//
// A reference cell stored under key unwraps transparently: the read tracks
// the cell itself rather than the record key. In shallow mode nested values
// (cells included) are returned unchanged.
func (o *Object) Get(key string) any {
	val := o.raw[key]
	if o.shallow {
		Track(o.raw, TrackGet, key)
		return val
	}
	if r, ok := val.(Ref); ok {
		return r.Value()
	}
	Track(o.raw, TrackGet, key)
	return wrapNested(val, o.readOnly)
}

// Set stores value under key and triggers the affected effects: ADD for a
// new key, SET when the stored value changed. Incoming views are unwrapped
// to their raw form before storage.
//
// When the old value is a reference cell and the new value is not, the
// write lands in the cell's value slot and only the cell triggers.
func (o *Object) Set(key string, value any) {
	if o.readOnly {
		if readOnlyLocked.Load() {
			warnf("set %q failed: target is read-only", key)
		}
		return
	}

	oldVal, had := o.raw[key]
	value = Raw(value)

	if oldRef, ok := oldVal.(Ref); ok && !o.shallow {
		if _, incoming := value.(Ref); !incoming {
			oldRef.SetValue(value)
			return
		}
	}

	o.raw[key] = value
	if !had {
		trigger(o.raw, TriggerAdd, key, value, nil, nil)
	} else if hasChanged(oldVal, value) {
		trigger(o.raw, TriggerSet, key, value, oldVal, nil)
	}
}

// Has tracks a presence test for key and returns it.
func (o *Object) Has(key string) bool {
	Track(o.raw, TrackHas, key)
	_, ok := o.raw[key]
	return ok
}

// Delete removes key, triggering DELETE if it existed. Reports whether the
// key was present. On read-only views deletion is rejected.
func (o *Object) Delete(key string) bool {
	if o.readOnly {
		if readOnlyLocked.Load() {
			warnf("delete %q failed: target is read-only", key)
		}
		return false
	}

	oldVal, had := o.raw[key]
	if !had {
		return false
	}
	delete(o.raw, key)
	trigger(o.raw, TriggerDelete, key, nil, oldVal, nil)
	return true
}

// Keys tracks whole-record enumeration and returns the key list, sorted for
// deterministic iteration.
func (o *Object) Keys() []string {
	Track(o.raw, TrackIterate, IterateKey)
	keys := make([]string, 0, len(o.raw))
	for k := range o.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len tracks whole-record enumeration and returns the number of keys.
func (o *Object) Len() int {
	Track(o.raw, TrackIterate, IterateKey)
	return len(o.raw)
}
