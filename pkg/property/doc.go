// SPDX-License-Identifier: MPL-2.0

// Package property manages named, typed, access-controlled properties of a
// host object.
//
// A Manager is created per host with NewManager. Properties are declared
// before initialization, either eagerly with AddProperty or on demand through
// a Builder when the manager is Lazy. Each property has a Mode, an optional
// default value, and an evaluator chain (see package evaluator) that coerces
// and validates every value it receives:
//
//	m, _ := property.NewManager(host)
//	_, _ = m.AddProperty("count", property.As(evaluator.Integer{}), property.Default(0))
//	_ = m.InitializeMap(map[string]any{"count": "5"})
//	v, _ := m.Get("count") // int64(5)
//
// Initialize runs exactly once. Afterwards the declarations and evaluator
// chains are frozen, and values can only change through Set and Unset on
// properties whose mode allows it. Names the manager does not know are
// forwarded to an optional fallback Delegate.
//
// Properties keep their value internally unless they are bound to storage
// owned by the host with an Accessor (see Field and FieldBinder).
package property
