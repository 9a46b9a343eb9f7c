// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"github.com/invowk/kit/pkg/property"
)

// NewManager creates a property manager for owner from the schema. An eager
// schema declares every property up front; a lazy one registers its required
// names and builds declarations on first use. opts are applied after the
// schema's own mode and laziness.
func (s *Schema) NewManager(owner any, opts ...property.ManagerOption) (*property.Manager, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	base := []property.ManagerOption{property.WithMode(s.EffectiveMode())}
	if s.Lazy {
		base = append(base, property.Lazy())
	}
	m, err := property.NewManager(owner, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	if !m.IsLazy() {
		for _, d := range s.Properties {
			popts, err := s.propertyOptions(d, true)
			if err != nil {
				return nil, err
			}
			if _, err := m.AddProperty(d.Name, popts...); err != nil {
				return nil, err
			}
		}
		return m, nil
	}

	err = m.SetBuilder(func(name string) (*property.Property, error) {
		d, ok := s.Declaration(name)
		if !ok {
			return nil, nil
		}
		popts, err := s.propertyOptions(d, false)
		if err != nil {
			return nil, err
		}
		return m.NewProperty(name, popts...)
	})
	if err != nil {
		return nil, err
	}
	if err := m.AddRequiredPropertyNames(s.RequiredNames()...); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Schema) propertyOptions(d Declaration, withRequired bool) ([]property.Option, error) {
	var opts []property.Option
	rule, err := s.Rule(d)
	if err != nil {
		return nil, err
	}
	if rule != nil {
		opts = append(opts, property.As(rule))
	}
	if d.Mode != "" {
		opts = append(opts, property.Access(d.Mode))
	}
	if d.HasDefault() {
		opts = append(opts, property.Default(d.Default))
	}
	if withRequired && d.Required {
		opts = append(opts, property.Required())
	}
	return opts, nil
}
