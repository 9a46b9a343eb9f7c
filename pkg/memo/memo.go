// SPDX-License-Identifier: MPL-2.0

// Package memo provides a process-wide memoization store keyed by owner type.
//
// Entries are grouped per owner (a reflect.Type) and per string key. The store
// is created lazily, is append-only and is never torn down for the lifetime of
// the process. A single RWMutex guards it; it is the only shared mutable state
// in the kit libraries.
package memo

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrNilOwner is returned when a memoized value is requested without an owner type.
var ErrNilOwner = errors.New("memoization owner type must not be nil")

type (
	entryKey struct {
		owner reflect.Type
		key   string
	}

	store struct {
		mu      sync.RWMutex
		entries map[entryKey]any
	}
)

var global = &store{entries: make(map[entryKey]any)}

// For returns the stable owner identifier for type O.
func For[O any]() reflect.Type {
	return reflect.TypeFor[O]()
}

// Get returns the value memoized for (owner, key), computing it with fn on the
// first request. Errors returned by fn are not cached, so a later call retries.
//
// fn runs outside the lock. When two callers race on a cold key, both may run
// fn; the first stored result wins and is returned to both.
func Get[T any](owner reflect.Type, key string, fn func() (T, error)) (T, error) {
	var zero T
	if owner == nil {
		return zero, ErrNilOwner
	}
	k := entryKey{owner: owner, key: key}

	global.mu.RLock()
	cached, ok := global.entries[k]
	global.mu.RUnlock()
	if ok {
		return cast[T](cached, k)
	}

	value, err := fn()
	if err != nil {
		return zero, err
	}

	global.mu.Lock()
	if existing, ok := global.entries[k]; ok {
		global.mu.Unlock()
		return cast[T](existing, k)
	}
	global.entries[k] = value
	global.mu.Unlock()

	return value, nil
}

// Has reports whether a value is memoized for (owner, key).
func Has(owner reflect.Type, key string) bool {
	global.mu.RLock()
	defer global.mu.RUnlock()
	_, ok := global.entries[entryKey{owner: owner, key: key}]
	return ok
}

// Len returns the number of memoized entries held for owner.
func Len(owner reflect.Type) int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	n := 0
	for k := range global.entries {
		if k.owner == owner {
			n++
		}
	}
	return n
}

func cast[T any](v any, k entryKey) (T, error) {
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("memoized value for %s/%q has type %T, want %s", k.owner, k.key, v, reflect.TypeFor[T]())
	}
	return typed, nil
}
