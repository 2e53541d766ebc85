package reactive

// Container operations are methods rather than properties, so the collection
// interceptor instruments each method: keys and values are unwrapped to raw
// form before touching the backing container, and every value read back out
// is wrapped per the view's mode. Iteration (Keys/Values/Entries/ForEach and
// size reads) subscribes under the shared iteration key, which ADD and
// DELETE mutations trigger.

// MapView is the observable view over a keyed container.
type MapView struct {
	viewBase
	raw *Map
}

// Get tracks the read of key and returns the wrapped value, or nil.
func (m *MapView) Get(key any) any {
	key = Raw(key)
	Track(m.raw, TrackGet, key)
	v, ok := m.raw.Get(key)
	if !ok {
		return nil
	}
	if m.shallow {
		return v
	}
	return wrapNested(v, m.readOnly)
}

// Has tracks a presence test for key and returns it.
func (m *MapView) Has(key any) bool {
	key = Raw(key)
	Track(m.raw, TrackHas, key)
	return m.raw.Has(key)
}

// Len tracks container iteration and returns the entry count.
func (m *MapView) Len() int {
	Track(m.raw, TrackIterate, IterateKey)
	return m.raw.Len()
}

// Set stores value under key: ADD for a new key, SET when the stored value
// changed. Returns the view for chaining. On a read-only view the write is
// rejected under lock and delegated otherwise.
func (m *MapView) Set(key, value any) *MapView {
	if m.readOnly && readOnlyLocked.Load() {
		warnf("map set failed: target is read-only")
		return m
	}

	key, value = Raw(key), Raw(value)
	old, had := m.raw.Get(key)
	m.raw.Set(key, value)
	if !had {
		trigger(m.raw, TriggerAdd, key, value, nil, nil)
	} else if hasChanged(old, value) {
		trigger(m.raw, TriggerSet, key, value, old, nil)
	}
	return m
}

// Delete removes key, triggering DELETE if present.
func (m *MapView) Delete(key any) bool {
	if m.readOnly && readOnlyLocked.Load() {
		warnf("map delete failed: target is read-only")
		return false
	}

	key = Raw(key)
	old, _ := m.raw.Get(key)
	if !m.raw.Delete(key) {
		return false
	}
	trigger(m.raw, TriggerDelete, key, nil, old, nil)
	return true
}

// Clear empties the container. Every dep recorded under the target fires.
func (m *MapView) Clear() {
	if m.readOnly && readOnlyLocked.Load() {
		warnf("map clear failed: target is read-only")
		return
	}
	if m.raw.Len() == 0 {
		return
	}

	var oldTarget any
	if DevMode {
		snapshot := NewMap()
		for _, e := range m.raw.Entries() {
			snapshot.Set(e.Key, e.Value)
		}
		oldTarget = snapshot
	}
	m.raw.Clear()
	trigger(m.raw, TriggerClear, nil, nil, nil, oldTarget)
}

// ForEach tracks container iteration and calls fn for each entry with the
// wrapped value, the wrapped key, and this view as the container argument.
func (m *MapView) ForEach(fn func(value, key any, view *MapView)) {
	Track(m.raw, TrackIterate, IterateKey)
	for _, e := range m.raw.Entries() {
		fn(m.wrap(e.Value), m.wrap(e.Key), m)
	}
}

// Keys tracks container iteration and returns the wrapped keys in insertion
// order.
func (m *MapView) Keys() []any {
	Track(m.raw, TrackIterate, IterateKey)
	keys := m.raw.Keys()
	for i, k := range keys {
		keys[i] = m.wrap(k)
	}
	return keys
}

// Values tracks container iteration and returns the wrapped values in
// insertion order.
func (m *MapView) Values() []any {
	Track(m.raw, TrackIterate, IterateKey)
	entries := m.raw.Entries()
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = m.wrap(e.Value)
	}
	return out
}

// Entries tracks container iteration and returns the entries in insertion
// order with both elements wrapped.
func (m *MapView) Entries() []Entry {
	Track(m.raw, TrackIterate, IterateKey)
	entries := m.raw.Entries()
	for i, e := range entries {
		entries[i] = Entry{Key: m.wrap(e.Key), Value: m.wrap(e.Value)}
	}
	return entries
}

func (m *MapView) wrap(v any) any {
	if m.shallow {
		return v
	}
	return wrapNested(v, m.readOnly)
}

// SetView is the observable view over a set container.
type SetView struct {
	viewBase
	raw *Set
}

// Has tracks a presence test for value and returns it.
func (s *SetView) Has(value any) bool {
	value = Raw(value)
	Track(s.raw, TrackHas, value)
	return s.raw.Has(value)
}

// Len tracks container iteration and returns the value count.
func (s *SetView) Len() int {
	Track(s.raw, TrackIterate, IterateKey)
	return s.raw.Len()
}

// Add inserts value, triggering ADD if it was absent. Returns the view for
// chaining.
func (s *SetView) Add(value any) *SetView {
	if s.readOnly && readOnlyLocked.Load() {
		warnf("set add failed: target is read-only")
		return s
	}

	value = Raw(value)
	if s.raw.Add(value) {
		trigger(s.raw, TriggerAdd, value, value, nil, nil)
	}
	return s
}

// Delete removes value, triggering DELETE if present.
func (s *SetView) Delete(value any) bool {
	if s.readOnly && readOnlyLocked.Load() {
		warnf("set delete failed: target is read-only")
		return false
	}

	value = Raw(value)
	if !s.raw.Delete(value) {
		return false
	}
	trigger(s.raw, TriggerDelete, value, nil, value, nil)
	return true
}

// Clear empties the container. Every dep recorded under the target fires.
func (s *SetView) Clear() {
	if s.readOnly && readOnlyLocked.Load() {
		warnf("set clear failed: target is read-only")
		return
	}
	if s.raw.Len() == 0 {
		return
	}

	var oldTarget any
	if DevMode {
		snapshot := NewSet()
		for _, v := range s.raw.Values() {
			snapshot.Add(v)
		}
		oldTarget = snapshot
	}
	s.raw.Clear()
	trigger(s.raw, TriggerClear, nil, nil, nil, oldTarget)
}

// ForEach tracks container iteration and calls fn for each value with the
// wrapped value and this view as the container argument.
func (s *SetView) ForEach(fn func(value any, view *SetView)) {
	Track(s.raw, TrackIterate, IterateKey)
	for _, v := range s.raw.Values() {
		fn(s.wrap(v), s)
	}
}

// Values tracks container iteration and returns the wrapped values in
// insertion order.
func (s *SetView) Values() []any {
	Track(s.raw, TrackIterate, IterateKey)
	values := s.raw.Values()
	for i, v := range values {
		values[i] = s.wrap(v)
	}
	return values
}

func (s *SetView) wrap(v any) any {
	if s.shallow {
		return v
	}
	return wrapNested(v, s.readOnly)
}

// WeakMapView is the observable view over a weak keyed container. Weak
// containers expose no iteration, so only keyed reads are tracked.
type WeakMapView struct {
	viewBase
	raw *WeakMap
}

// Get tracks the read of key and returns the wrapped value, or nil.
func (m *WeakMapView) Get(key any) any {
	key = Raw(key)
	Track(m.raw, TrackGet, key)
	v, ok := m.raw.Get(key)
	if !ok {
		return nil
	}
	if m.shallow {
		return v
	}
	return wrapNested(v, m.readOnly)
}

// Has tracks a presence test for key and returns it.
func (m *WeakMapView) Has(key any) bool {
	key = Raw(key)
	Track(m.raw, TrackHas, key)
	return m.raw.Has(key)
}

// Set stores value under key: ADD for a new key, SET when changed.
func (m *WeakMapView) Set(key, value any) *WeakMapView {
	if m.readOnly && readOnlyLocked.Load() {
		warnf("weak map set failed: target is read-only")
		return m
	}
	if identityOf(Raw(key)) == 0 {
		warnf("weak map key of type %T has no identity", key)
	}

	key, value = Raw(key), Raw(value)
	old, had := m.raw.Get(key)
	m.raw.Set(key, value)
	if !had {
		trigger(m.raw, TriggerAdd, key, value, nil, nil)
	} else if hasChanged(old, value) {
		trigger(m.raw, TriggerSet, key, value, old, nil)
	}
	return m
}

// Delete removes key, triggering DELETE if present.
func (m *WeakMapView) Delete(key any) bool {
	if m.readOnly && readOnlyLocked.Load() {
		warnf("weak map delete failed: target is read-only")
		return false
	}

	key = Raw(key)
	old, _ := m.raw.Get(key)
	if !m.raw.Delete(key) {
		return false
	}
	trigger(m.raw, TriggerDelete, key, nil, old, nil)
	return true
}

// WeakSetView is the observable view over a weak set container.
type WeakSetView struct {
	viewBase
	raw *WeakSet
}

// Has tracks a presence test for value and returns it.
func (s *WeakSetView) Has(value any) bool {
	value = Raw(value)
	Track(s.raw, TrackHas, value)
	return s.raw.Has(value)
}

// Add inserts value, triggering ADD if it was absent.
func (s *WeakSetView) Add(value any) *WeakSetView {
	if s.readOnly && readOnlyLocked.Load() {
		warnf("weak set add failed: target is read-only")
		return s
	}
	if identityOf(Raw(value)) == 0 {
		warnf("weak set value of type %T has no identity", value)
	}

	value = Raw(value)
	if s.raw.Add(value) {
		trigger(s.raw, TriggerAdd, value, value, nil, nil)
	}
	return s
}

// Delete removes value, triggering DELETE if present.
func (s *WeakSetView) Delete(value any) bool {
	if s.readOnly && readOnlyLocked.Load() {
		warnf("weak set delete failed: target is read-only")
		return false
	}

	value = Raw(value)
	if !s.raw.Delete(value) {
		return false
	}
	trigger(s.raw, TriggerDelete, value, nil, value, nil)
	return true
}
