package reactive

import "testing"

func TestListLengthTracking(t *testing.T) {
	raw := &[]any{1, 2, 3}
	l := Observe(raw).(*List)

	var seen []int
	NewEffect(func() any {
		seen = append(seen, l.Len())
		return nil
	})

	if len(seen) != 1 || seen[0] != 3 {
		t.Fatalf("expected [3], got %v", seen)
	}

	l.Push(4)
	if len(seen) != 2 || seen[1] != 4 {
		t.Fatalf("push did not reach length subscribers: %v", seen)
	}

	// Sparse write past the end grows the sequence
	l.Set(10, 9)
	if len(seen) != 3 || seen[2] != 11 {
		t.Fatalf("sparse set did not reach length subscribers: %v", seen)
	}

	// In-range overwrite leaves the length alone
	l.Set(0, 100)
	if len(seen) != 3 {
		t.Errorf("element overwrite reached length subscribers: %v", seen)
	}
}

func TestListIndexTracking(t *testing.T) {
	raw := &[]any{"a", "b"}
	l := Observe(raw).(*List)

	var seen []any
	NewEffect(func() any {
		seen = append(seen, l.Get(0))
		return nil
	})

	l.Set(1, "z")
	if len(seen) != 1 {
		t.Errorf("write to untracked index re-ran the effect: %v", seen)
	}
	l.Set(0, "y")
	if len(seen) != 2 || seen[1] != "y" {
		t.Errorf("write to tracked index did not re-run: %v", seen)
	}
}

func TestListPop(t *testing.T) {
	raw := &[]any{1, 2}
	l := Observe(raw).(*List)

	var seen []int
	NewEffect(func() any {
		seen = append(seen, l.Len())
		return nil
	})

	if got := l.Pop(); got != 2 {
		t.Errorf("expected popped 2, got %v", got)
	}
	if len(seen) != 2 || seen[1] != 1 {
		t.Errorf("pop did not reach length subscribers: %v", seen)
	}
	if len(*raw) != 1 {
		t.Errorf("raw not truncated, len=%d", len(*raw))
	}
}

func TestListSetLenTruncates(t *testing.T) {
	raw := &[]any{1, 2, 3}
	l := Observe(raw).(*List)

	var last any
	NewEffect(func() any {
		last = l.Get(2)
		return nil
	})

	l.SetLen(1)
	if last != nil {
		t.Errorf("truncation did not re-run index subscriber, last=%v", last)
	}
	if len(*raw) != 1 {
		t.Errorf("raw not truncated, len=%d", len(*raw))
	}
}

func TestListIdentityMethods(t *testing.T) {
	item := map[string]any{"x": 1}
	raw := &[]any{item, "plain", 3}
	l := Observe(raw).(*List)

	// Wrapped element matches by raw identity
	wrapped := l.Get(0)
	if !IsObservable(wrapped) {
		t.Fatalf("element not wrapped, got %T", wrapped)
	}
	if !l.Includes(wrapped) {
		t.Error("Includes failed for a wrapped element")
	}
	if !l.Includes(item) {
		t.Error("Includes failed for the unwrapped value")
	}
	if got := l.IndexOf(item); got != 0 {
		t.Errorf("IndexOf = %d, want 0", got)
	}
	if got := l.IndexOf("plain"); got != 1 {
		t.Errorf("IndexOf(plain) = %d, want 1", got)
	}
	if got := l.LastIndexOf(3); got != 2 {
		t.Errorf("LastIndexOf(3) = %d, want 2", got)
	}
	if l.Includes("missing") {
		t.Error("Includes matched a missing value")
	}
}

func TestListIdentityMethodsTrack(t *testing.T) {
	raw := &[]any{1, 2}
	l := Observe(raw).(*List)

	var seen []bool
	NewEffect(func() any {
		seen = append(seen, l.Includes(5))
		return nil
	})

	l.Push(5)
	if len(seen) != 2 || seen[1] != true {
		t.Errorf("membership search did not re-run on append: %v", seen)
	}
	l.Set(2, 6)
	if len(seen) != 3 || seen[2] != false {
		t.Errorf("membership search did not re-run on overwrite: %v", seen)
	}
}

func TestListReadOnly(t *testing.T) {
	raw := &[]any{1}
	ro := ReadOnly(raw).(*List)

	ro.Set(0, 9)
	ro.Push(2)
	if got := ro.Pop(); got != nil {
		t.Errorf("read-only pop returned %v", got)
	}
	if len(*raw) != 1 || (*raw)[0] != 1 {
		t.Errorf("read-only view mutated the raw: %v", *raw)
	}
}
