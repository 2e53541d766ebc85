package reactive

import "testing"

func TestComputedLazyAndCached(t *testing.T) {
	o := Observe(map[string]any{"n": 2}).(*Object)

	computes := 0
	c := NewComputed(func() any {
		computes++
		return o.Get("n").(int) * 2
	})

	if computes != 0 {
		t.Fatalf("computed ran eagerly")
	}

	if got := c.Value(); got != 4 {
		t.Errorf("Value = %v, want 4", got)
	}
	if c.Value() != 4 || computes != 1 {
		t.Errorf("cached read recomputed, computes=%d", computes)
	}

	o.Set("n", 3)
	if computes != 1 {
		t.Errorf("invalidation recomputed eagerly, computes=%d", computes)
	}
	if got := c.Value(); got != 6 || computes != 2 {
		t.Errorf("Value = %v (computes=%d), want 6 after one recompute", got, computes)
	}
}

func TestComputedInvalidatesBeforeDependents(t *testing.T) {
	o := Observe(map[string]any{"n": 1}).(*Object)
	c := NewComputed(func() any {
		return o.Get("n").(int) * 2
	})

	var render []int
	NewEffect(func() any {
		render = append(render, c.Value().(int))
		return nil
	})

	if len(render) != 1 || render[0] != 2 {
		t.Fatalf("initial render %v", render)
	}

	// The render effect must see the fresh doubled value, never the stale
	// cache: the memoized runner's dirty flag is flipped before any plain
	// effect re-reads.
	o.Set("n", 5)
	if len(render) != 2 || render[1] != 10 {
		t.Errorf("render observed stale computed: %v", render)
	}
}

func TestComputedChain(t *testing.T) {
	o := Observe(map[string]any{"n": 1}).(*Object)
	double := NewComputed(func() any { return o.Get("n").(int) * 2 })
	quad := NewComputed(func() any { return double.Value().(int) * 2 })

	var seen []int
	NewEffect(func() any {
		seen = append(seen, quad.Value().(int))
		return nil
	})

	if seen[0] != 4 {
		t.Fatalf("initial chain value %v", seen)
	}

	o.Set("n", 3)
	if len(seen) != 2 || seen[1] != 12 {
		t.Errorf("chained invalidation failed: %v", seen)
	}
}

func TestComputedIsRef(t *testing.T) {
	c := NewComputed(func() any { return 1 })
	if !IsRef(c) {
		t.Error("computed should be cell-shaped")
	}
}

func TestWritableComputed(t *testing.T) {
	o := Observe(map[string]any{"n": 1}).(*Object)
	c := NewWritableComputed(
		func() any { return o.Get("n") },
		func(v any) { o.Set("n", v) },
	)

	c.SetValue(7)
	if o.Get("n") != 7 {
		t.Errorf("setter did not write through, n=%v", o.Get("n"))
	}
	if c.Value() != 7 {
		t.Errorf("getter out of date, got %v", c.Value())
	}
}

func TestReadOnlyComputedSetIgnored(t *testing.T) {
	c := NewComputed(func() any { return 1 })
	c.SetValue(9)
	if c.Value() != 1 {
		t.Errorf("write mutated a read-only computed")
	}
}

func TestComputedStop(t *testing.T) {
	o := Observe(map[string]any{"n": 1}).(*Object)
	c := NewComputed(func() any { return o.Get("n") })

	if c.Value() != 1 {
		t.Fatal("bad initial value")
	}

	c.Stop()
	o.Set("n", 2)
	if c.Value() != 1 {
		t.Errorf("stopped computed invalidated, got %v", c.Value())
	}
}
