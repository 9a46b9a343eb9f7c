// SPDX-License-Identifier: MPL-2.0

package property

import (
	"github.com/charmbracelet/log"

	"github.com/invowk/kit/pkg/evaluator"
)

type (
	// Option configures a Property at declaration time.
	Option func(*Property) error

	// ManagerOption configures a Manager at construction time.
	ManagerOption func(*Manager) error
)

// Configure applies opts in order and stops at the first error.
func (p *Property) Configure(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return err
		}
	}
	return nil
}

// As replaces the property's evaluators with rule.
func As(rule evaluator.Rule) Option {
	return func(p *Property) error { return p.SetAs(rule) }
}

// With appends custom evaluators.
func With(fns ...evaluator.Func) Option {
	return func(p *Property) error {
		for _, f := range fns {
			if err := p.AddEvaluator(f); err != nil {
				return err
			}
		}
		return nil
	}
}

// Default sets a constant default value.
func Default(v any) Option {
	return func(p *Property) error { return p.SetDefaultValue(v) }
}

// DefaultFunc sets a default getter.
func DefaultFunc(fn func() any) Option {
	return func(p *Property) error { return p.SetDefaultGetter(fn) }
}

// Required marks the property as required.
func Required() Option {
	return func(p *Property) error { return p.SetAsRequired() }
}

// Access sets the property's mode.
func Access(mode Mode) Option {
	return func(p *Property) error { return p.SetMode(mode) }
}

// BoundTo binds the property to an owner field; see Property.Bind.
func BoundTo(field string) Option {
	return func(p *Property) error { return p.Bind(field) }
}

// Through stores the property's value through acc.
func Through(acc Accessor) Option {
	return func(p *Property) error { return p.SetAccessor(acc) }
}

// Lazy makes the manager build properties on demand through its builder.
func Lazy() ManagerOption {
	return func(m *Manager) error {
		m.lazy = true
		return nil
	}
}

// WithMode sets the manager's base mode. The default is ModeReadWrite.
func WithMode(mode Mode) ManagerOption {
	return func(m *Manager) error {
		if ok, errs := mode.IsValid(); !ok {
			return errs[0]
		}
		m.mode = mode
		return nil
	}
}

// WithLogger sets the logger used for lifecycle debug messages.
func WithLogger(logger *log.Logger) ManagerOption {
	return func(m *Manager) error {
		if logger != nil {
			m.logger = logger
		}
		return nil
	}
}
