package scout

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Builder accumulates bindings and parents, then freezes them into a Scope.
type Builder interface {
	Registry

	// DependsOn declares parent as a parent of the scope being built.
	DependsOn(parent *Scope) error

	// Build freezes the builder into a Scope. It fails with
	// ErrScopeInitialization wrapping ErrIllegalOverrides when keys were
	// rebound without permission. The builder is sealed either way, so any
	// later call fails with ErrBuilderSealed.
	Build() (*Scope, error)
}

// BuilderOption configures NewBuilder.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	config *Config
	mode   *ThreadSafetyMode
}

// WithConfig builds the scope against config instead of Default().
func WithConfig(config *Config) BuilderOption {
	return func(o *builderOptions) {
		o.config = config
	}
}

// WithMode overrides the config's default thread safety mode.
func WithMode(mode ThreadSafetyMode) BuilderOption {
	return func(o *builderOptions) {
		o.mode = &mode
	}
}

// NewBuilder creates a builder for a scope called name.
func NewBuilder(name string, opts ...BuilderOption) Builder {
	o := builderOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.config == nil {
		o.config = Default()
	}

	mode := o.config.ThreadSafety()
	if o.mode != nil {
		mode = *o.mode
	}

	base := newUnsafeBuilder(name, o.config)
	switch mode {
	case Confined:
		return &confinedBuilder{unsafeBuilder: base}
	case Synchronized:
		return &synchronizedBuilder{unsafeBuilder: base}
	default:
		return base
	}
}

// NewScope creates a builder, applies configure and builds it.
//
// Example:
//
//	app, err := scout.NewScope("app", func(b scout.Builder) error {
//	    return scout.Singleton(b, func(a scout.Accessor) (*Database, error) {
//	        return OpenDatabase()
//	    })
//	})
func NewScope(name string, configure func(Builder) error, opts ...BuilderOption) (*Scope, error) {
	b := NewBuilder(name, opts...)
	if err := configure(b); err != nil {
		return nil, err
	}
	return b.Build()
}

// =============================================================================
// UNSAFE
// =============================================================================

type unsafeBuilder struct {
	name                 string
	config               *Config
	parents              []*Scope
	objectFactories      map[Key]InstanceFactory
	collectionFactories  map[Key][]InstanceFactory
	associationFactories map[Key][]InstanceFactory
	allowedOverrides     map[Key]struct{}
	illegalOverrides     []Key
	built                bool
}

func newUnsafeBuilder(name string, config *Config) *unsafeBuilder {
	return &unsafeBuilder{
		name:                 name,
		config:               config,
		objectFactories:      make(map[Key]InstanceFactory),
		collectionFactories:  make(map[Key][]InstanceFactory),
		associationFactories: make(map[Key][]InstanceFactory),
		allowedOverrides:     make(map[Key]struct{}),
	}
}

func (b *unsafeBuilder) scopeName() string {
	return b.name
}

func (b *unsafeBuilder) checkOpen() error {
	if b.built {
		return &Error{Kind: KindBuilderSealed, Scope: b.name}
	}
	return nil
}

func (b *unsafeBuilder) DependsOn(parent *Scope) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if parent == nil {
		return newInvalidParent(b.name)
	}
	b.parents = append(b.parents, parent)
	return nil
}

func (b *unsafeBuilder) SaveObject(key Key, factory InstanceFactory, allowOverride bool) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if factory == nil {
		return newInvalidFactory(key, b.name)
	}

	if _, exists := b.objectFactories[key]; exists && !allowOverride {
		b.illegalOverrides = append(b.illegalOverrides, key)
	}
	b.objectFactories[key] = factory

	if allowOverride {
		b.allowedOverrides[key] = struct{}{}
	}

	return nil
}

func (b *unsafeBuilder) SaveElement(key Key, factory InstanceFactory) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if factory == nil {
		return newInvalidFactory(key, b.name)
	}
	b.collectionFactories[key] = append(b.collectionFactories[key], factory)
	return nil
}

func (b *unsafeBuilder) SaveMapping(key Key, factory InstanceFactory) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if factory == nil {
		return newInvalidFactory(key, b.name)
	}
	b.associationFactories[key] = append(b.associationFactories[key], factory)
	return nil
}

func (b *unsafeBuilder) Build() (*Scope, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}

	logger := b.config.Logger()
	logger.Debug("start initialization of scope", zap.String("scope", b.name))

	b.built = true

	if illegal := b.collectIllegalOverrides(); len(illegal) > 0 {
		err := newScopeInitialization(b.name, newIllegalOverrides(illegal, b.name))
		logger.Debug("initialization of scope failed", zap.String("scope", b.name), zap.Error(err))
		return nil, err
	}

	scope := newScope(b.name, scopeTables{
		parents:              b.parents,
		objectFactories:      b.objectFactories,
		collectionFactories:  b.collectionFactories,
		associationFactories: b.associationFactories,
		allowedOverrides:     b.allowedOverrides,
	}, b.config)

	logger.Debug("finish initialization of scope",
		zap.String("scope", b.name),
		zap.Stringer("scope_id", scope.ID()),
		zap.Int("parents", len(b.parents)),
	)

	return scope, nil
}

// collectIllegalOverrides returns keys rebound within this builder plus own
// object keys shadowing an ancestor binding, both without AllowOverride.
func (b *unsafeBuilder) collectIllegalOverrides() []Key {
	illegal := append([]Key(nil), b.illegalOverrides...)

	ancestors := priorityLookup(b.parents)
	if len(ancestors) > 0 {
		for key := range b.objectFactories {
			if _, allowed := b.allowedOverrides[key]; allowed {
				continue
			}
			for _, ancestor := range ancestors {
				if _, ok := ancestor.objectFactories[key]; ok {
					illegal = append(illegal, key)
					break
				}
			}
		}
	}

	return sortKeys(dedupeKeys(illegal))
}

func sortKeys(keys []Key) []Key {
	slices.SortStableFunc(keys, func(a, b Key) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}

func dedupeKeys(keys []Key) []Key {
	seen := make(map[Key]struct{}, len(keys))
	out := make([]Key, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// =============================================================================
// SYNCHRONIZED
// =============================================================================

type synchronizedBuilder struct {
	*unsafeBuilder
	mu sync.Mutex
}

func (b *synchronizedBuilder) DependsOn(parent *Scope) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unsafeBuilder.DependsOn(parent)
}

func (b *synchronizedBuilder) SaveObject(key Key, factory InstanceFactory, allowOverride bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unsafeBuilder.SaveObject(key, factory, allowOverride)
}

func (b *synchronizedBuilder) SaveElement(key Key, factory InstanceFactory) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unsafeBuilder.SaveElement(key, factory)
}

func (b *synchronizedBuilder) SaveMapping(key Key, factory InstanceFactory) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unsafeBuilder.SaveMapping(key, factory)
}

func (b *synchronizedBuilder) Build() (*Scope, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unsafeBuilder.Build()
}

// =============================================================================
// CONFINED
// =============================================================================

type confinedBuilder struct {
	*unsafeBuilder
	owner atomic.Uint64
}

// check binds the builder to the first calling goroutine and rejects others.
func (b *confinedBuilder) check() error {
	current := goroutineID()
	if b.owner.CompareAndSwap(0, current) {
		return nil
	}
	if owner := b.owner.Load(); owner != current {
		return &Error{
			Kind:   KindThreadConfinement,
			Scope:  b.name,
			Detail: fmt.Sprintf("initial goroutine %d, called from goroutine %d", owner, current),
		}
	}
	return nil
}

func (b *confinedBuilder) DependsOn(parent *Scope) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.unsafeBuilder.DependsOn(parent)
}

func (b *confinedBuilder) SaveObject(key Key, factory InstanceFactory, allowOverride bool) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.unsafeBuilder.SaveObject(key, factory, allowOverride)
}

func (b *confinedBuilder) SaveElement(key Key, factory InstanceFactory) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.unsafeBuilder.SaveElement(key, factory)
}

func (b *confinedBuilder) SaveMapping(key Key, factory InstanceFactory) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.unsafeBuilder.SaveMapping(key, factory)
}

func (b *confinedBuilder) Build() (*Scope, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	return b.unsafeBuilder.Build()
}
