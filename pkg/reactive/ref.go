package reactive

// Ref is a single-slot observable box exposing one virtual value property.
// Reading tracks; writing triggers. The interface is deliberately small so
// IsRef stays a cheap type assertion on hot read paths.
type Ref interface {
	// Value returns the stored value, subscribing the active effect.
	Value() any

	// SetValue replaces the stored value and triggers subscribers when it
	// changed. Observable-kind values are transparently wrapped on write.
	SetValue(v any)

	refMarker()
}

// valueRef is the standalone cell returned by NewRef.
type valueRef struct {
	v any
}

// NewRef creates a reference cell holding v. An observable-kind initial
// value is pre-wrapped.
func NewRef(v any) Ref {
	return &valueRef{v: convertRefValue(v)}
}

func (r *valueRef) refMarker() {}

func (r *valueRef) Value() any {
	Track(r, TrackGet, refValueKey)
	return r.v
}

func (r *valueRef) SetValue(v any) {
	if !hasChanged(Raw(r.v), Raw(v)) {
		return
	}
	old := r.v
	r.v = convertRefValue(v)
	trigger(r, TriggerSet, refValueKey, v, old, nil)
}

// convertRefValue wraps observable kinds so reads through the cell see a
// tracked view.
func convertRefValue(v any) any {
	if observableKind(v) {
		return Observe(v)
	}
	return v
}

// IsRef reports whether x is a reference cell (including memoized effects,
// which are cell-shaped).
func IsRef(x any) bool {
	_, ok := x.(Ref)
	return ok
}

// propertyRef reads and writes through to one key of an observable record.
type propertyRef struct {
	source *Object
	key    string
}

func (r *propertyRef) refMarker() {}

func (r *propertyRef) Value() any {
	return r.source.Get(r.key)
}

func (r *propertyRef) SetValue(v any) {
	r.source.Set(r.key, v)
}

// ToRefs explodes an observable record into per-key cells that read and
// write through to the source, so structure can be taken apart without
// losing reactivity. Calling it on anything but an observable record warns
// and returns nil.
func ToRefs(x any) map[string]Ref {
	o, ok := x.(*Object)
	if !ok {
		warnf("ToRefs expects an observable record, got %T", x)
		return nil
	}
	out := make(map[string]Ref, len(o.raw))
	for k := range o.raw {
		out[k] = &propertyRef{source: o, key: k}
	}
	return out
}
