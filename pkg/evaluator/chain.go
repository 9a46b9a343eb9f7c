// SPDX-License-Identifier: MPL-2.0

package evaluator

import "errors"

// ErrLocked is the sentinel error wrapped by LockedError.
var ErrLocked = errors.New("evaluator chain is locked")

type (
	// Func validates and optionally transforms the value pointed to by value.
	// It returns false to reject the value; a rejecting Func must not rely on
	// its writes being observed by the caller.
	Func func(value *any) bool

	// Chain is an ordered list of evaluators applied with short-circuit
	// semantics. The zero value is an empty, unlocked chain ready for use.
	Chain struct {
		funcs    []Func
		onAdd    []func(Func)
		onChange []func()
		locked   bool
		guard    error
	}

	// LockedError is returned by structural chain operations after Lock.
	// Guard is the error installed by the owner when locking, so callers can
	// match either ErrLocked or the owner's own error kind with errors.Is.
	LockedError struct {
		Guard error
	}
)

// NewChain returns an empty, unlocked chain.
func NewChain() *Chain {
	return &Chain{}
}

// Add appends f to the chain and notifies every addition callback.
func (c *Chain) Add(f Func) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	if f == nil {
		return errors.New("evaluator must not be nil")
	}
	c.funcs = append(c.funcs, f)
	for _, cb := range c.onAdd {
		cb(f)
	}
	c.changed()
	return nil
}

// AddRule appends the evaluator for rule r.
func (c *Chain) AddRule(r Rule) error {
	if r == nil {
		return errors.New("rule must not be nil")
	}
	return c.Add(Of(r))
}

// Set replaces the whole chain with f.
func (c *Chain) Set(f Func) error {
	if err := c.Clear(); err != nil {
		return err
	}
	return c.Add(f)
}

// SetRule replaces the whole chain with the evaluator for rule r.
func (c *Chain) SetRule(r Rule) error {
	if r == nil {
		return errors.New("rule must not be nil")
	}
	return c.Set(Of(r))
}

// Clear removes every evaluator from the chain.
func (c *Chain) Clear() error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	c.funcs = nil
	c.changed()
	return nil
}

// OnAdd registers cb to be invoked with every evaluator added afterwards.
// Callbacks can be registered on a locked chain; they simply never fire.
func (c *Chain) OnAdd(cb func(Func)) {
	if cb != nil {
		c.onAdd = append(c.onAdd, cb)
	}
}

// OnChange registers cb to be invoked whenever evaluators are added or
// cleared.
func (c *Chain) OnChange(cb func()) {
	if cb != nil {
		c.onChange = append(c.onChange, cb)
	}
}

func (c *Chain) changed() {
	for _, cb := range c.onChange {
		cb()
	}
}

// Len returns the number of evaluators in the chain.
func (c *Chain) Len() int { return len(c.funcs) }

// IsEmpty reports whether the chain has no evaluators.
func (c *Chain) IsEmpty() bool { return len(c.funcs) == 0 }

// Locked reports whether the chain has been locked.
func (c *Chain) Locked() bool { return c.locked }

// Lock freezes the chain permanently. guard is reported by later structural
// calls through LockedError. Locking an already locked chain keeps the first
// guard.
func (c *Chain) Lock(guard error) {
	if c.locked {
		return
	}
	c.locked = true
	c.guard = guard
}

// Evaluate runs every evaluator against a copy of *value, stopping at the
// first rejection. The transformed copy is written back to *value only when
// all evaluators accept. An empty chain accepts any value unchanged.
func (c *Chain) Evaluate(value *any) bool {
	if value == nil {
		return false
	}
	scratch := *value
	for _, f := range c.funcs {
		if !f(&scratch) {
			return false
		}
	}
	*value = scratch
	return true
}

func (c *Chain) guardMutation() error {
	if c.locked {
		return &LockedError{Guard: c.guard}
	}
	return nil
}

// Error implements the error interface.
func (e *LockedError) Error() string {
	if e.Guard != nil {
		return ErrLocked.Error() + ": " + e.Guard.Error()
	}
	return ErrLocked.Error()
}

// Unwrap returns ErrLocked and, when set, the guard error.
func (e *LockedError) Unwrap() []error {
	if e.Guard == nil {
		return []error{ErrLocked}
	}
	return []error{ErrLocked, e.Guard}
}
