package reactive

import (
	"math"
	"testing"
)

func TestRefBasics(t *testing.T) {
	r := NewRef(0)

	var log []any
	NewEffect(func() any {
		log = append(log, r.Value())
		return nil
	})

	if len(log) != 1 || log[0] != 0 {
		t.Fatalf("expected [0], got %v", log)
	}

	// No change under strict equality: no trigger
	r.SetValue(0)
	if len(log) != 1 {
		t.Errorf("unchanged write triggered: %v", log)
	}

	r.SetValue(1)
	if len(log) != 2 || log[1] != 1 {
		t.Errorf("changed write did not trigger: %v", log)
	}
}

func TestRefNaNWrite(t *testing.T) {
	r := NewRef(math.NaN())

	runs := 0
	NewEffect(func() any {
		runs++
		_ = r.Value()
		return nil
	})

	// NaN replacing NaN counts as unchanged
	r.SetValue(math.NaN())
	if runs != 1 {
		t.Errorf("NaN->NaN write triggered, runs=%d", runs)
	}

	r.SetValue(1.0)
	if runs != 2 {
		t.Errorf("NaN->1 write did not trigger, runs=%d", runs)
	}
}

func TestRefWrapsObservableKinds(t *testing.T) {
	r := NewRef(map[string]any{"x": 1})

	inner, ok := r.Value().(*Object)
	if !ok {
		t.Fatalf("observable-kind initial value not wrapped, got %T", r.Value())
	}

	runs := 0
	NewEffect(func() any {
		runs++
		_ = inner.Get("x")
		return nil
	})

	inner.Set("x", 2)
	if runs != 2 {
		t.Errorf("nested view write did not trigger, runs=%d", runs)
	}

	// Replacement values wrap on write too
	r.SetValue(map[string]any{"x": 3})
	if _, ok := r.Value().(*Object); !ok {
		t.Errorf("written observable kind not wrapped, got %T", r.Value())
	}
}

func TestIsRef(t *testing.T) {
	if !IsRef(NewRef(1)) {
		t.Error("IsRef(NewRef) = false")
	}
	if IsRef(1) || IsRef(map[string]any{}) || IsRef(nil) {
		t.Error("IsRef matched a non-ref")
	}
}

func TestToRefs(t *testing.T) {
	o := Observe(map[string]any{"a": 1, "b": 2}).(*Object)
	refs := ToRefs(o)

	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}

	var log []any
	NewEffect(func() any {
		log = append(log, refs["a"].Value())
		return nil
	})

	// Writes through the source reach the cell's subscribers
	o.Set("a", 10)
	if len(log) != 2 || log[1] != 10 {
		t.Fatalf("source write did not propagate: %v", log)
	}

	// Writes through the cell reach the source
	refs["a"].SetValue(20)
	if o.Get("a") != 20 {
		t.Errorf("cell write did not reach source, a=%v", o.Get("a"))
	}
	if len(log) != 3 || log[2] != 20 {
		t.Errorf("cell write did not propagate: %v", log)
	}
}

func TestToRefsMisuse(t *testing.T) {
	if got := ToRefs(42); got != nil {
		t.Errorf("ToRefs on a non-observable returned %v", got)
	}
	if got := ToRefs(map[string]any{"a": 1}); got != nil {
		t.Errorf("ToRefs on a raw record returned %v", got)
	}
}
