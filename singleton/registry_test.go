package singleton

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type widget struct {
	id int
}

func TestGetOrCreateIdentity(t *testing.T) {
	r := New()
	ctx := context.Background()

	calls := 0
	factory := func(context.Context) (any, error) {
		calls++
		return &widget{id: calls}, nil
	}

	first, err := r.GetOrCreate(ctx, "w", factory)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	second, err := r.GetOrCreate(ctx, "w", factory)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	if first != second {
		t.Error("expected reference-identical instances for the same key")
	}
	if calls != 1 {
		t.Errorf("factory ran %d times, want 1", calls)
	}
}

func TestDistinctKeysDistinctInstances(t *testing.T) {
	r := New()
	ctx := context.Background()

	factory := func(context.Context) (any, error) { return &widget{}, nil }

	a, _ := r.GetOrCreate(ctx, "a", factory)
	b, _ := r.GetOrCreate(ctx, "b", factory)
	if a == b {
		t.Error("distinct keys must not share an instance")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestErrorsNotCached(t *testing.T) {
	r := New()
	ctx := context.Background()

	calls := 0
	factory := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return &widget{}, nil
	}

	if _, err := r.GetOrCreate(ctx, "w", factory); err == nil {
		t.Fatal("expected first call to fail")
	}
	v, err := r.GetOrCreate(ctx, "w", factory)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if v == nil {
		t.Fatal("expected a value on retry")
	}
	if calls != 2 {
		t.Errorf("factory ran %d times, want 2", calls)
	}
}

func TestConcurrentFirstResolution(t *testing.T) {
	r := New()
	ctx := context.Background()

	var calls int
	factory := func(context.Context) (any, error) {
		calls++
		return &widget{id: calls}, nil
	}

	const goroutines = 32
	results := make([]any, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			v, err := r.GetOrCreate(ctx, "shared", factory)
			if err != nil {
				t.Errorf("GetOrCreate failed: %v", err)
				return
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("factory ran %d times under concurrency, want 1", calls)
	}
	for i := 1; i < goroutines; i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent callers observed distinct instances")
		}
	}
}

func TestReset(t *testing.T) {
	r := New()
	ctx := context.Background()

	first, _ := r.GetOrCreate(ctx, "w", func(context.Context) (any, error) {
		return &widget{}, nil
	})
	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", r.Len())
	}

	second, _ := r.GetOrCreate(ctx, "w", func(context.Context) (any, error) {
		return &widget{}, nil
	})
	if first == second {
		t.Error("expected a fresh instance after Reset")
	}
}

func TestGetSetInvalidate(t *testing.T) {
	r := New()

	if _, ok := r.Get("w"); ok {
		t.Error("Get on empty registry reported a value")
	}

	w := &widget{id: 7}
	r.Set("w", w)
	got, ok := r.Get("w")
	if !ok || got != w {
		t.Errorf("Get() = %v, %v; want stored instance", got, ok)
	}

	r.Invalidate("w")
	if _, ok := r.Get("w"); ok {
		t.Error("expected key to be gone after Invalidate")
	}
}
