// SPDX-License-Identifier: MPL-2.0

package property

import (
	"strings"

	"github.com/invowk/kit/pkg/evaluator"
)

type (
	// Property is a single named value slot managed by a Manager. Its
	// structure (mode, requiredness, default, evaluators, binding) is
	// configured before initialization and frozen afterwards.
	Property struct {
		manager     *Manager
		name        string
		mode        Mode
		required    bool
		value       any
		accessor    *Accessor
		def         *defaultValue
		evaluators  *evaluator.Chain
		initialized bool
	}

	defaultValue struct {
		constant any
		getter   func() any
		// resolved caches the evaluated constant default. It is never
		// handed out directly.
		resolved *any
	}
)

func newProperty(m *Manager, name string) *Property {
	p := &Property{
		manager:    m,
		name:       name,
		mode:       m.mode,
		evaluators: evaluator.NewChain(),
	}
	p.evaluators.OnChange(func() {
		if p.def != nil {
			p.def.resolved = nil
		}
	})
	return p
}

// Name returns the property name.
func (p *Property) Name() string { return p.name }

// Mode returns the property's effective mode.
func (p *Property) Mode() Mode { return p.mode }

// Manager returns the manager the property belongs to.
func (p *Property) Manager() *Manager { return p.manager }

// Evaluators returns the property's evaluator chain.
func (p *Property) Evaluators() *evaluator.Chain { return p.evaluators }

// IsInitialized reports whether the property holds a value.
func (p *Property) IsInitialized() bool { return p.initialized }

// IsBound reports whether the property stores its value through an Accessor.
func (p *Property) IsBound() bool { return p.accessor != nil }

// HasDefaultValue reports whether a default value or default getter is set.
func (p *Property) HasDefaultValue() bool { return p.def != nil }

// IsRequired reports whether the property must be supplied at initialization:
// it was marked required, it has no default value, or its lazy manager
// lists it as required. Strictly read-only properties are never required.
func (p *Property) IsRequired() bool {
	if p.mode == ModeStrictReadOnly {
		return false
	}
	if p.required || p.def == nil {
		return true
	}
	return p.manager.lazy && p.manager.isRegisteredRequired(p.name)
}

// SetMode changes the property's mode. The requested mode is narrowed
// according to the manager's mode; incompatible pairs are rejected.
func (p *Property) SetMode(mode Mode) error {
	if err := p.guardStructure("set mode"); err != nil {
		return err
	}
	if ok, errs := mode.IsValid(); !ok {
		return errs[0]
	}
	mapped, ok := CompatibleMode(p.manager.mode, mode)
	if !ok {
		return &ModeViolationError{
			Owner:     p.manager.owner,
			Property:  p.name,
			Operation: "set mode",
			Mode:      p.manager.mode,
			Requested: mode,
		}
	}
	if mapped == ModeStrictReadOnly && p.required {
		return p.misuse("set mode", "a required property cannot be strictly read-only")
	}
	p.mode = mapped
	return nil
}

// SetAsRequired marks the property as required at initialization.
func (p *Property) SetAsRequired() error {
	if err := p.guardStructure("set as required"); err != nil {
		return err
	}
	if p.mode == ModeStrictReadOnly {
		return p.misuse("set as required", "a strictly read-only property can never be supplied")
	}
	if p.manager.lazy && (p.manager.initializing || p.manager.initialized) {
		return p.misuse("set as required",
			"required properties of a lazy manager must be registered with AddRequiredPropertyName before initialization")
	}
	p.required = true
	return nil
}

// SetAs replaces the property's evaluators with the given rule.
func (p *Property) SetAs(rule evaluator.Rule) error {
	return p.evaluators.SetRule(rule)
}

// AddEvaluator appends an evaluator to the property's chain.
func (p *Property) AddEvaluator(f evaluator.Func) error {
	return p.evaluators.Add(f)
}

// SetDefaultValue sets a constant default value. It is validated against
// the evaluators when it is first resolved.
func (p *Property) SetDefaultValue(v any) error {
	if err := p.guardStructure("set default value"); err != nil {
		return err
	}
	p.def = &defaultValue{constant: v}
	return nil
}

// SetDefaultGetter sets a function producing the default value. The result
// is validated every time it is resolved.
func (p *Property) SetDefaultGetter(fn func() any) error {
	if err := p.guardStructure("set default getter"); err != nil {
		return err
	}
	if fn == nil {
		return p.misuse("set default getter", "getter must not be nil")
	}
	p.def = &defaultValue{getter: fn}
	return nil
}

// UnsetDefaultValue removes the default value, making the property required.
func (p *Property) UnsetDefaultValue() error {
	if err := p.guardStructure("unset default value"); err != nil {
		return err
	}
	p.def = nil
	return nil
}

// Bind stores the property's value in the owner field exposed under field
// by the owner's FieldBinder implementation. An empty field binds to the
// field named after the property.
func (p *Property) Bind(field string) error {
	if err := p.guardStructure("bind"); err != nil {
		return err
	}
	if strings.TrimSpace(field) == "" {
		field = p.name
	}
	binder, ok := p.manager.owner.(FieldBinder)
	if !ok {
		return p.misuse("bind", "owner does not implement FieldBinder")
	}
	acc, ok := binder.PropertyFields()[field]
	if !ok {
		return p.misuse("bind", "owner exposes no field "+field)
	}
	return p.SetAccessor(acc)
}

// SetAccessor stores the property's value through acc.
func (p *Property) SetAccessor(acc Accessor) error {
	if err := p.guardStructure("set accessor"); err != nil {
		return err
	}
	if acc.Get == nil || acc.Set == nil {
		return p.misuse("set accessor", "accessor needs both Get and Set")
	}
	p.accessor = &acc
	return nil
}

// GetDefaultValue resolves the default value and runs it through the
// evaluators. A rejected default yields *InvalidDefaultValueError. Map and
// slice defaults are returned as fresh copies, so mutating a value obtained
// from the property never alters its default.
func (p *Property) GetDefaultValue() (any, error) {
	if p.def == nil {
		return nil, &DefaultValueNotSetError{Owner: p.manager.owner, Property: p.name}
	}
	if p.def.resolved != nil {
		return cloneValue(*p.def.resolved), nil
	}

	raw := p.def.constant
	if p.def.getter != nil {
		raw = p.def.getter()
	}
	v := cloneValue(raw)
	if !p.evaluators.Evaluate(&v) {
		return nil, &InvalidDefaultValueError{Owner: p.manager.owner, Property: p.name, Value: raw}
	}
	if p.def.getter == nil {
		p.def.resolved = &v
		return cloneValue(v), nil
	}
	return v, nil
}

// GetValue returns the current value. The property must be initialized.
func (p *Property) GetValue() (any, error) {
	if !p.initialized {
		return nil, p.misuse("get value", "property is not initialized")
	}
	if p.accessor != nil {
		return p.accessor.Get(), nil
	}
	return p.value, nil
}

// SetValue runs v through the evaluators and stores the result. It is only
// legal while the manager initializes or once it is initialized, and the
// first successful call freezes the property's structure.
func (p *Property) SetValue(v any) error {
	if err := p.guardValuePhase("set value"); err != nil {
		return err
	}
	coerced := v
	if !p.evaluators.Evaluate(&coerced) {
		return &InvalidValueError{Owner: p.manager.owner, Property: p.name, Value: v}
	}
	return p.commit(v, coerced)
}

// ResetValue stores the validated default value.
func (p *Property) ResetValue() error {
	if err := p.guardValuePhase("reset value"); err != nil {
		return err
	}
	v, err := p.GetDefaultValue()
	if err != nil {
		return err
	}
	return p.commit(v, v)
}

// Initialize gives an uninitialized property its default value.
func (p *Property) Initialize() error {
	if p.initialized {
		return p.misuse("initialize", "property is already initialized")
	}
	return p.ResetValue()
}

func (p *Property) commit(raw, v any) error {
	if p.accessor != nil {
		if err := p.accessor.Set(v); err != nil {
			return &InvalidValueError{Owner: p.manager.owner, Property: p.name, Value: raw, Cause: err}
		}
	} else {
		p.value = v
	}
	if !p.initialized {
		p.initialized = true
		p.evaluators.Lock(p.misuse("change evaluators", "property is already initialized"))
	}
	return nil
}

func (p *Property) guardStructure(op string) error {
	if p.initialized {
		return p.misuse(op, "property is already initialized")
	}
	return nil
}

func (p *Property) guardValuePhase(op string) error {
	if !p.manager.initializing && !p.manager.initialized {
		return p.misuse(op, "properties are not being initialized")
	}
	return nil
}

func (p *Property) misuse(op, reason string) *StructuralMisuseError {
	return &StructuralMisuseError{Owner: p.manager.owner, Property: p.name, Operation: op, Reason: reason}
}
