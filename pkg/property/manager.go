// SPDX-License-Identifier: MPL-2.0

package property

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

type (
	// Builder creates the property named name on demand for a lazy manager.
	// It returns nil, nil when no such property exists.
	Builder func(name string) (*Property, error)

	// Remainderer receives the initialization input entries that matched no
	// property. It is called on every initialization, with an empty map when
	// nothing is left over.
	Remainderer func(remainder map[any]any) error

	// Manager owns the properties of one host object. Properties are declared
	// (eagerly with AddProperty or lazily through a Builder), initialized once
	// from an input map, and then accessed through the Delegate methods
	// according to their modes.
	//
	// A Manager is not safe for concurrent use.
	Manager struct {
		owner        any
		lazy         bool
		mode         Mode
		logger       *log.Logger
		initialized  bool
		initializing bool

		properties map[string]*Property
		order      []string

		required    []string
		builder     Builder
		remainderer Remainderer
		fallback    Delegate
	}

	positionalEntry struct {
		key   any
		value any
	}
)

var _ Delegate = (*Manager)(nil)

// NewManager creates a manager for owner. The manager is eager and in
// ModeReadWrite unless opts say otherwise.
func NewManager(owner any, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		owner:      owner,
		mode:       ModeReadWrite,
		logger:     log.New(io.Discard),
		properties: make(map[string]*Property),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Owner returns the host object the manager belongs to.
func (m *Manager) Owner() any { return m.owner }

// Mode returns the manager's base mode.
func (m *Manager) Mode() Mode { return m.mode }

// IsLazy reports whether properties are built on demand.
func (m *Manager) IsLazy() bool { return m.lazy }

// IsInitialized reports whether Initialize completed successfully.
func (m *Manager) IsInitialized() bool { return m.initialized }

// IsInitializing reports whether Initialize is running.
func (m *Manager) IsInitializing() bool { return m.initializing }

// Names returns the names of the live properties in declaration (or build) order.
func (m *Manager) Names() []string { return slices.Clone(m.order) }

// NewProperty creates a property owned by m without registering it. It is
// meant for builders; eager managers use AddProperty.
func (m *Manager) NewProperty(name string, opts ...Option) (*Property, error) {
	if strings.TrimSpace(name) == "" {
		return nil, m.misuse("create property", name, "property name must not be empty")
	}
	p := newProperty(m, name)
	if err := p.Configure(opts...); err != nil {
		return nil, err
	}
	return p, nil
}

// AddProperty declares a property on an eager manager.
func (m *Manager) AddProperty(name string, opts ...Option) (*Property, error) {
	if err := m.guardDeclaring("add property", name); err != nil {
		return nil, err
	}
	if m.lazy {
		return nil, m.misuse("add property", name, "a lazy manager declares properties through its builder")
	}
	if _, ok := m.properties[name]; ok {
		return nil, m.misuse("add property", name, "property is already declared")
	}
	p, err := m.NewProperty(name, opts...)
	if err != nil {
		return nil, err
	}
	m.register(p)
	return p, nil
}

// SetBuilder sets the builder of a lazy manager.
func (m *Manager) SetBuilder(b Builder) error {
	if err := m.guardDeclaring("set builder", ""); err != nil {
		return err
	}
	if !m.lazy {
		return m.misuse("set builder", "", "only a lazy manager has a builder")
	}
	if b == nil {
		return m.misuse("set builder", "", "builder must not be nil")
	}
	m.builder = b
	return nil
}

// SetRemainderer sets the function receiving unmatched initialization input.
// Without one, unmatched input fails initialization with *PropertyNotFoundError.
func (m *Manager) SetRemainderer(r Remainderer) error {
	if err := m.guardDeclaring("set remainderer", ""); err != nil {
		return err
	}
	m.remainderer = r
	return nil
}

// SetFallback sets the delegate answering for names the manager does not know.
func (m *Manager) SetFallback(d Delegate) error {
	if err := m.guardDeclaring("set fallback", ""); err != nil {
		return err
	}
	if fm, ok := d.(*Manager); ok && fm == m {
		return m.misuse("set fallback", "", "a manager cannot be its own fallback")
	}
	m.fallback = d
	return nil
}

// AddRequiredPropertyName registers a required property of a lazy manager.
func (m *Manager) AddRequiredPropertyName(name string) error {
	if err := m.guardDeclaring("add required property name", name); err != nil {
		return err
	}
	if !m.lazy {
		return m.misuse("add required property name", name, "an eager manager derives required properties from their declarations")
	}
	if strings.TrimSpace(name) == "" {
		return m.misuse("add required property name", name, "property name must not be empty")
	}
	if !slices.Contains(m.required, name) {
		m.required = append(m.required, name)
	}
	return nil
}

// AddRequiredPropertyNames registers several required properties of a lazy manager.
func (m *Manager) AddRequiredPropertyNames(names ...string) error {
	for _, name := range names {
		if err := m.AddRequiredPropertyName(name); err != nil {
			return err
		}
	}
	return nil
}

// RequiredPropertyNames returns the names that must be supplied at
// initialization, in declaration order.
func (m *Manager) RequiredPropertyNames() []string {
	if m.lazy {
		return slices.Clone(m.required)
	}
	var names []string
	for _, name := range m.order {
		if m.properties[name].IsRequired() {
			names = append(names, name)
		}
	}
	return names
}

// Property returns the named property, building it if the manager is lazy.
func (m *Manager) Property(name string) (*Property, error) {
	p, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &PropertyNotFoundError{Owner: m.owner, Property: name}
	}
	return p, nil
}

// InitializeMap initializes the manager from named values only.
func (m *Manager) InitializeMap(values map[string]any) error {
	input := make(map[any]any, len(values))
	for k, v := range values {
		input[k] = v
	}
	return m.Initialize(input)
}

// Initialize assigns the input values to the properties, exactly once.
//
// Integer keys are positional: key i supplies the i-th required property
// unless that property is also given by name. All missing required
// properties are reported together. Entries matching no property go to the
// remainderer. Supplied values are then set in declaration order and stop
// at the first rejection; every remaining eager property receives its
// default. In lazy mode, write-once properties are discarded once set.
func (m *Manager) Initialize(input map[any]any) error {
	if m.initialized || m.initializing {
		return &DoubleInitializationError{Owner: m.owner}
	}
	if m.lazy && m.builder == nil {
		return m.misuse("initialize", "", "a lazy manager needs a builder")
	}
	m.initializing = true
	defer func() { m.initializing = false }()

	m.logger.Debug("initializing properties", "owner", ownerName(m.owner), "lazy", m.lazy, "inputs", len(input))

	required := m.RequiredPropertyNames()
	named, positional, remainder, err := m.splitInput(input)
	if err != nil {
		return err
	}
	for i, name := range required {
		entry, ok := positional[i]
		if !ok {
			continue
		}
		if _, taken := named[name]; taken {
			continue
		}
		named[name] = entry.value
		delete(positional, i)
	}
	for _, entry := range positional {
		remainder[entry.key] = entry.value
	}

	var missing []string
	for _, name := range required {
		if _, ok := named[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingRequiredPropertyError{Owner: m.owner, Names: missing}
	}

	var recognized []*Property
	for _, name := range m.inputOrder(named) {
		p, err := m.lookup(name)
		if err != nil {
			return err
		}
		if p == nil {
			remainder[name] = named[name]
			continue
		}
		recognized = append(recognized, p)
	}

	if m.remainderer != nil {
		if err := m.remainderer(remainder); err != nil {
			return err
		}
	} else if len(remainder) > 0 {
		return &PropertyNotFoundError{Owner: m.owner, Property: firstKey(remainder)}
	}

	for _, p := range recognized {
		if !p.mode.WritableAtInit() {
			return &ModeViolationError{Owner: m.owner, Property: p.name, Operation: "initialize", Mode: p.mode}
		}
		if err := p.SetValue(named[p.name]); err != nil {
			return err
		}
		if m.lazy && p.mode == ModeWriteOnce {
			m.discard(p.name)
		}
	}

	if !m.lazy {
		for _, name := range m.order {
			p := m.properties[name]
			if p.initialized {
				continue
			}
			if err := p.Initialize(); err != nil {
				return err
			}
		}
	}

	m.initialized = true
	m.logger.Debug("properties initialized", "owner", ownerName(m.owner), "properties", len(m.order))
	return nil
}

// Has reports whether name is declared, buildable, or known to the fallback.
func (m *Manager) Has(name string) bool {
	if p, err := m.lookup(name); err == nil && p != nil {
		return true
	}
	return m.fallback != nil && m.fallback.Has(name)
}

// Get returns the value of a readable property.
func (m *Manager) Get(name string) (any, error) {
	p, err := m.resolve("get", name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return m.fallback.Get(name)
	}
	if !p.mode.Readable() {
		return nil, &ModeViolationError{Owner: m.owner, Property: name, Operation: "get", Mode: p.mode}
	}
	if err := m.ensureInitialized(p); err != nil {
		return nil, err
	}
	return p.GetValue()
}

// Is reports whether the property holds the boolean true.
func (m *Manager) Is(name string) (bool, error) {
	p, err := m.resolve("get", name)
	if err != nil {
		return false, err
	}
	if p == nil {
		return m.fallback.Is(name)
	}
	v, err := m.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	return ok && b, nil
}

// IsSet reports whether the property is readable and holds a non-nil value.
func (m *Manager) IsSet(name string) bool {
	p, err := m.resolve("get", name)
	if err != nil {
		return false
	}
	if p == nil {
		return m.fallback.IsSet(name)
	}
	if !p.mode.Readable() || m.ensureInitialized(p) != nil {
		return false
	}
	v, err := p.GetValue()
	return err == nil && !isNil(v)
}

// Set stores a new value in a property writable after initialization.
func (m *Manager) Set(name string, value any) error {
	p, err := m.resolve("set", name)
	if err != nil {
		return err
	}
	if p == nil {
		return m.fallback.Set(name, value)
	}
	if !p.mode.WritableAfterInit() {
		return &ModeViolationError{Owner: m.owner, Property: name, Operation: "set", Mode: p.mode}
	}
	return p.SetValue(value)
}

// Unset restores the default value of a property writable after initialization.
func (m *Manager) Unset(name string) error {
	p, err := m.resolve("unset", name)
	if err != nil {
		return err
	}
	if p == nil {
		return m.fallback.Unset(name)
	}
	if !p.mode.WritableAfterInit() {
		return &ModeViolationError{Owner: m.owner, Property: name, Operation: "unset", Mode: p.mode}
	}
	return p.ResetValue()
}

// All returns the value of every live readable property, merged over the
// fallback's values.
func (m *Manager) All() (map[string]any, error) {
	if !m.initialized {
		return nil, m.misuse("get all", "", "properties are not initialized")
	}
	out := make(map[string]any, len(m.order))
	if m.fallback != nil {
		values, err := m.fallback.All()
		if err != nil {
			return nil, err
		}
		for k, v := range values {
			out[k] = v
		}
	}
	for _, name := range m.order {
		p := m.properties[name]
		if !p.mode.Readable() {
			continue
		}
		if err := m.ensureInitialized(p); err != nil {
			return nil, err
		}
		v, err := p.GetValue()
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// resolve returns the local property for name, or nil when the fallback
// should answer.
func (m *Manager) resolve(op, name string) (*Property, error) {
	if !m.initialized {
		return nil, m.misuse(op, name, "properties are not initialized")
	}
	p, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	if p == nil && m.fallback == nil {
		return nil, &PropertyNotFoundError{Owner: m.owner, Property: name}
	}
	return p, nil
}

func (m *Manager) lookup(name string) (*Property, error) {
	if p, ok := m.properties[name]; ok {
		return p, nil
	}
	if !m.lazy || m.builder == nil {
		return nil, nil
	}
	p, err := m.builder(name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if p.manager != m {
		return nil, m.misuse("build property", name, "builder returned a property of another manager")
	}
	if p.name != name {
		return nil, m.misuse("build property", name, fmt.Sprintf("builder returned property %q", p.name))
	}
	m.register(p)
	m.logger.Debug("built property", "owner", ownerName(m.owner), "property", name, "mode", p.mode)
	return p, nil
}

func (m *Manager) ensureInitialized(p *Property) error {
	if p.initialized {
		return nil
	}
	return p.Initialize()
}

func (m *Manager) register(p *Property) {
	m.properties[p.name] = p
	m.order = append(m.order, p.name)
}

func (m *Manager) discard(name string) {
	delete(m.properties, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	m.logger.Debug("discarded write-once property", "owner", ownerName(m.owner), "property", name)
}

func (m *Manager) isRegisteredRequired(name string) bool {
	return slices.Contains(m.required, name)
}

// inputOrder lists the named input keys, declared properties first in
// declaration order, then the rest sorted.
func (m *Manager) inputOrder(named map[string]any) []string {
	keys := make([]string, 0, len(named))
	for _, name := range m.order {
		if _, ok := named[name]; ok {
			keys = append(keys, name)
		}
	}
	var rest []string
	for name := range named {
		if _, declared := m.properties[name]; !declared {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

func (m *Manager) guardDeclaring(op, name string) error {
	if m.initialized || m.initializing {
		return m.misuse(op, name, "properties are already initialized")
	}
	return nil
}

func (m *Manager) misuse(op, name, reason string) *StructuralMisuseError {
	return &StructuralMisuseError{Owner: m.owner, Property: name, Operation: op, Reason: reason}
}

// splitInput sorts input keys into names, positions and everything else.
// Two integer keys of different types naming the same position, such as
// int(0) and int64(0), are rejected.
func (m *Manager) splitInput(input map[any]any) (map[string]any, map[int]positionalEntry, map[any]any, error) {
	named := make(map[string]any, len(input))
	positional := make(map[int]positionalEntry)
	remainder := make(map[any]any)
	for k, v := range input {
		if s, ok := k.(string); ok {
			named[s] = v
			continue
		}
		if i, ok := positionOf(k); ok {
			if prev, dup := positional[i]; dup {
				return nil, nil, nil, m.misuse("initialize", "",
					fmt.Sprintf("input position %d is given twice (%T and %T keys)", i, prev.key, k))
			}
			positional[i] = positionalEntry{key: k, value: v}
			continue
		}
		remainder[k] = v
	}
	return named, positional, remainder, nil
}

func positionOf(k any) (int, bool) {
	rv := reflect.ValueOf(k)
	switch {
	case rv.CanInt():
		if i := rv.Int(); i >= 0 {
			return int(i), true
		}
	case rv.CanUint():
		if u := rv.Uint(); u <= math.MaxInt {
			return int(u), true
		}
	}
	return 0, false
}

func firstKey(m map[any]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, fmt.Sprint(k))
	}
	slices.Sort(keys)
	return keys[0]
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
