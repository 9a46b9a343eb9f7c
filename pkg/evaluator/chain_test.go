// SPDX-License-Identifier: MPL-2.0

package evaluator

import (
	"errors"
	"testing"
)

func TestChain_EvaluateShortCircuits(t *testing.T) {
	t.Parallel()

	const n = 5
	for reject := 1; reject <= n; reject++ {
		calls := make([]int, n)
		chain := NewChain()
		for i := range n {
			if err := chain.Add(func(v *any) bool {
				calls[i]++
				*v = i
				return i+1 != reject
			}); err != nil {
				t.Fatalf("Add() error = %v", err)
			}
		}

		var value any = "original"
		if chain.Evaluate(&value) {
			t.Errorf("reject=%d: Evaluate() = true, want false", reject)
		}
		if value != "original" {
			t.Errorf("reject=%d: value = %v, want it untouched", reject, value)
		}
		for i, c := range calls {
			want := 0
			if i < reject {
				want = 1
			}
			if c != want {
				t.Errorf("reject=%d: evaluator %d called %d times, want %d", reject, i+1, c, want)
			}
		}
	}
}

func TestChain_EvaluateCommitsOnSuccess(t *testing.T) {
	t.Parallel()

	chain := NewChain()
	if err := chain.AddRule(String{Trim: true}); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	if err := chain.Add(func(v *any) bool {
		*v = (*v).(string) + "!"
		return true
	}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	var value any = "  hi  "
	if !chain.Evaluate(&value) {
		t.Fatal("Evaluate() = false, want true")
	}
	if value != "hi!" {
		t.Errorf("value = %q, want %q", value, "hi!")
	}
}

func TestChain_EmptyAcceptsAnything(t *testing.T) {
	t.Parallel()

	chain := NewChain()
	var value any = 3.5
	if !chain.Evaluate(&value) || value != 3.5 {
		t.Errorf("Evaluate() on empty chain changed or rejected value: %v", value)
	}
	if !chain.IsEmpty() {
		t.Error("IsEmpty() = false, want true")
	}
	if chain.Evaluate(nil) {
		t.Error("Evaluate(nil) = true, want false")
	}
}

func TestChain_SetReplaces(t *testing.T) {
	t.Parallel()

	chain := NewChain()
	_ = chain.AddRule(Boolean{})
	_ = chain.AddRule(Boolean{})
	if err := chain.SetRule(Integer{}); err != nil {
		t.Fatalf("SetRule() error = %v", err)
	}
	if chain.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", chain.Len())
	}

	var value any = "5"
	if !chain.Evaluate(&value) || value != int64(5) {
		t.Errorf("Evaluate() value = %#v, want int64(5)", value)
	}
}

func TestChain_AdditionCallbacks(t *testing.T) {
	t.Parallel()

	chain := NewChain()
	var seen int
	chain.OnAdd(func(Func) { seen++ })

	_ = chain.AddRule(Boolean{})
	_ = chain.SetRule(Number{})
	if seen != 2 {
		t.Errorf("callback fired %d times, want 2", seen)
	}
}

func TestChain_ChangeCallbacks(t *testing.T) {
	t.Parallel()

	chain := NewChain()
	var changes int
	chain.OnChange(func() { changes++ })

	_ = chain.AddRule(Boolean{})
	_ = chain.Clear()
	if changes != 2 {
		t.Errorf("callback fired %d times after Add and Clear, want 2", changes)
	}

	chain.Lock(errors.New("locked"))
	_ = chain.Clear()
	if changes != 2 {
		t.Errorf("callback fired on a locked chain: %d calls", changes)
	}
}

func TestChain_Lock(t *testing.T) {
	t.Parallel()

	guard := errors.New("owner already initialized")
	chain := NewChain()
	_ = chain.AddRule(Boolean{})
	chain.Lock(guard)
	chain.Lock(errors.New("ignored"))

	if !chain.Locked() {
		t.Fatal("Locked() = false after Lock")
	}

	ops := map[string]func() error{
		"Add":     func() error { return chain.Add(func(*any) bool { return true }) },
		"AddRule": func() error { return chain.AddRule(Number{}) },
		"Set":     func() error { return chain.Set(func(*any) bool { return true }) },
		"SetRule": func() error { return chain.SetRule(Number{}) },
		"Clear":   chain.Clear,
	}
	for name, op := range ops {
		err := op()
		if !errors.Is(err, ErrLocked) {
			t.Errorf("%s() error = %v, want ErrLocked", name, err)
		}
		if !errors.Is(err, guard) {
			t.Errorf("%s() error = %v, want it to wrap the guard", name, err)
		}
		var lockedErr *LockedError
		if !errors.As(err, &lockedErr) {
			t.Errorf("%s() error should be *LockedError, got %T", name, err)
		}
	}
	if chain.Len() != 1 {
		t.Errorf("Len() = %d after rejected mutations, want 1", chain.Len())
	}

	var value any = "yes"
	if !chain.Evaluate(&value) || value != true {
		t.Errorf("locked chain still evaluates: got %v", value)
	}
}

func TestChain_RejectsNil(t *testing.T) {
	t.Parallel()

	chain := NewChain()
	if err := chain.Add(nil); err == nil {
		t.Error("Add(nil) returned nil error")
	}
	if err := chain.AddRule(nil); err == nil {
		t.Error("AddRule(nil) returned nil error")
	}
	if err := chain.SetRule(nil); err == nil {
		t.Error("SetRule(nil) returned nil error")
	}
}

func TestLockedError_NoGuard(t *testing.T) {
	t.Parallel()

	err := &LockedError{}
	if err.Error() != "evaluator chain is locked" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrLocked) {
		t.Error("LockedError without guard should wrap ErrLocked")
	}
}
