package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapViewKeyedReads(t *testing.T) {
	m := Observe(NewMap()).(*MapView)

	var log []any
	NewEffect(func() any {
		log = append(log, m.Get("x"))
		return nil
	})
	require.Equal(t, []any{nil}, log)

	m.Set("x", 1)
	require.Equal(t, []any{nil, 1}, log)

	// Same-value write does not trigger
	m.Set("x", 1)
	require.Equal(t, []any{nil, 1}, log)

	m.Delete("x")
	require.Equal(t, []any{nil, 1, nil}, log)

	// Clear on an already-empty container is a no-op
	m.Clear()
	require.Equal(t, []any{nil, 1, nil}, log)
}

func TestMapViewIteration(t *testing.T) {
	raw := NewMap()
	raw.Set("a", 1)
	m := Observe(raw).(*MapView)

	var sizes []int
	NewEffect(func() any {
		sizes = append(sizes, m.Len())
		return nil
	})

	m.Set("b", 2)
	require.Equal(t, []int{1, 2}, sizes, "add should reach size subscribers")

	m.Set("b", 3)
	require.Equal(t, []int{1, 2}, sizes, "overwrite should not reach size subscribers")

	m.Delete("a")
	require.Equal(t, []int{1, 2, 1}, sizes, "delete should reach size subscribers")
}

func TestMapViewClearTriggersAllDeps(t *testing.T) {
	raw := NewMap()
	raw.Set("a", 1)
	raw.Set("b", 2)
	m := Observe(raw).(*MapView)

	var got []any
	NewEffect(func() any {
		got = append(got, m.Get("a"))
		return nil
	})

	m.Clear()
	require.Equal(t, []any{1, nil}, got)
	assert.Equal(t, 0, raw.Len())
}

func TestMapViewForEachWrapsArguments(t *testing.T) {
	inner := map[string]any{"x": 1}
	raw := NewMap()
	raw.Set("k", inner)
	m := Observe(raw).(*MapView)

	calls := 0
	m.ForEach(func(value, key any, view *MapView) {
		calls++
		assert.True(t, IsObservable(value), "yielded value should be wrapped")
		assert.Equal(t, "k", key)
		assert.Same(t, m, view)
	})
	require.Equal(t, 1, calls)
}

func TestMapViewEntriesWrapped(t *testing.T) {
	keyObj := NewMap()
	valObj := map[string]any{"v": 2}
	raw := NewMap()
	raw.Set(keyObj, valObj)
	m := Observe(raw).(*MapView)

	entries := m.Entries()
	require.Len(t, entries, 1)
	assert.True(t, IsObservable(entries[0].Key), "entry key should be wrapped")
	assert.True(t, IsObservable(entries[0].Value), "entry value should be wrapped")
}

func TestMapViewUnwrapsKeysAndValues(t *testing.T) {
	raw := NewMap()
	m := Observe(raw).(*MapView)

	inner := &[]any{}
	innerView := Observe(inner)
	m.Set(innerView, innerView)

	// Backing store holds raws, not views
	v, ok := raw.Get(inner)
	require.True(t, ok, "key should be stored in raw form")
	assert.False(t, IsObservable(v), "value should be stored in raw form")

	// Lookup through the view accepts either form
	assert.True(t, m.Has(inner))
	assert.True(t, m.Has(innerView))
}

func TestSetViewBasics(t *testing.T) {
	s := Observe(NewSet()).(*SetView)

	var sizes []int
	NewEffect(func() any {
		sizes = append(sizes, s.Len())
		return nil
	})

	s.Add("v")
	require.Equal(t, []int{0, 1}, sizes)

	// Adding a present value does not trigger
	s.Add("v")
	require.Equal(t, []int{0, 1}, sizes)

	require.True(t, s.Delete("v"))
	require.Equal(t, []int{0, 1, 0}, sizes)
	require.False(t, s.Delete("v"))
}

func TestSetViewHasTracking(t *testing.T) {
	s := Observe(NewSet()).(*SetView)

	var seen []bool
	NewEffect(func() any {
		seen = append(seen, s.Has(1))
		return nil
	})

	s.Add(1)
	require.Equal(t, []bool{false, true}, seen)
}

func TestSetViewForEach(t *testing.T) {
	raw := NewSet()
	raw.Add("a")
	raw.Add("b")
	s := Observe(raw).(*SetView)

	var order []any
	s.ForEach(func(value any, view *SetView) {
		order = append(order, value)
		assert.Same(t, s, view)
	})
	require.Equal(t, []any{"a", "b"}, order, "iteration preserves insertion order")
}

func TestReadOnlyCollectionLockedRejects(t *testing.T) {
	raw := NewMap()
	raw.Set("a", 1)
	ro := ReadOnly(raw).(*MapView)

	LockReadOnly()
	defer UnlockReadOnly()

	ro.Set("a", 2)
	v, _ := raw.Get("a")
	assert.Equal(t, 1, v, "locked read-only set must fail")
	assert.False(t, ro.Delete("a"), "locked read-only delete must return false")
	assert.Equal(t, 1, raw.Len())
}

func TestReadOnlyCollectionUnlockedDelegates(t *testing.T) {
	raw := NewMap()
	ro := ReadOnly(raw).(*MapView)

	// Outside locked mode mutating operations delegate to the container
	ro.Set("a", 1)
	v, ok := raw.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, ro.Delete("a"))
}

func TestWeakMapView(t *testing.T) {
	key := NewMap() // any identity-bearing object works as a weak key
	wm := Observe(NewWeakMap()).(*WeakMapView)

	var seen []any
	NewEffect(func() any {
		seen = append(seen, wm.Get(key))
		return nil
	})

	wm.Set(key, "v")
	require.Equal(t, []any{nil, "v"}, seen)

	require.True(t, wm.Delete(key))
	require.Equal(t, []any{nil, "v", nil}, seen)
	require.False(t, wm.Delete(key))
}

func TestWeakSetView(t *testing.T) {
	member := NewSet()
	ws := Observe(NewWeakSet()).(*WeakSetView)

	var seen []bool
	NewEffect(func() any {
		seen = append(seen, ws.Has(member))
		return nil
	})

	ws.Add(member)
	require.Equal(t, []bool{false, true}, seen)

	require.True(t, ws.Delete(member))
	require.Equal(t, []bool{false, true, false}, seen)
}
