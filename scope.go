package scout

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// Pair is one key to value contribution produced by a mapping factory.
type Pair struct {
	Key   any
	Value any
}

// Scope holds the factories registered by one builder plus references to its
// parent scopes. A Scope is immutable once built and safe for concurrent use.
type Scope struct {
	name    string
	id      uuid.UUID
	parents []*Scope

	objectFactories      map[Key]InstanceFactory
	collectionFactories  map[Key][]InstanceFactory
	associationFactories map[Key][]InstanceFactory
	allowedOverrides     map[Key]struct{}

	// priority lists distinct ancestors in reverse preorder, used for objects
	// and associations.
	priority []*Scope

	// accumulation lists distinct ancestors in postorder, used for collections.
	accumulation []*Scope

	config   *Config
	accessor Accessor
}

// scopeTables is the frozen content handed over by a builder.
type scopeTables struct {
	parents              []*Scope
	objectFactories      map[Key]InstanceFactory
	collectionFactories  map[Key][]InstanceFactory
	associationFactories map[Key][]InstanceFactory
	allowedOverrides     map[Key]struct{}
}

func newScope(name string, tables scopeTables, config *Config) *Scope {
	s := &Scope{
		name:                 name,
		id:                   uuid.New(),
		parents:              tables.parents,
		objectFactories:      tables.objectFactories,
		collectionFactories:  tables.collectionFactories,
		associationFactories: tables.associationFactories,
		allowedOverrides:     tables.allowedOverrides,
		config:               config,
	}

	s.priority = priorityLookup(s.parents)
	s.accumulation = accumulationLookup(s.parents)

	direct := &directAccessor{scope: s}
	if config.InterceptorsDisabled() {
		s.accessor = direct
	} else {
		s.accessor = &interceptingAccessor{direct: direct, interceptors: config.Interceptors()}
	}

	return s
}

// Name returns the scope name.
func (s *Scope) Name() string {
	return s.name
}

// ID returns the identifier assigned to this scope instance at build time.
func (s *Scope) ID() uuid.UUID {
	return s.id
}

// Parents returns the directly declared parents in declaration order.
func (s *Scope) Parents() []*Scope {
	return append([]*Scope(nil), s.parents...)
}

// Accessor returns the accessor bound to this scope.
func (s *Scope) Accessor() Accessor {
	return s.accessor
}

// =============================================================================
// RESOLUTION
// =============================================================================

// getObject resolves an object: own factory first, then the first parent in
// priority order defining the key.
func (s *Scope) getObject(key Key, required bool) (any, error) {
	if factory, ok := s.objectFactories[key]; ok {
		return s.tryGetObject(key, factory, s.accessor, required)
	}

	for _, parent := range s.priority {
		if factory, ok := parent.objectFactories[key]; ok {
			return s.tryGetObject(key, factory, parent.accessor, required)
		}
	}

	if !required {
		return nil, nil
	}

	return nil, newMissingObjectFactory(key, s.name)
}

// getCollection gathers elements from ancestors in accumulation order, then
// appends this scope's own elements.
func (s *Scope) getCollection(key Key, nonEmpty bool) ([]any, error) {
	var elements []any

	for _, parent := range s.accumulation {
		for _, factory := range parent.collectionFactories[key] {
			element, err := s.tryGetElement(key, factory, parent.accessor)
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
		}
	}

	for _, factory := range s.collectionFactories[key] {
		element, err := s.tryGetElement(key, factory, s.accessor)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}

	if len(elements) == 0 {
		if nonEmpty {
			return nil, newMissingCollectionElements(key, s.name)
		}
		return []any{}, nil
	}

	return elements, nil
}

// getAssociation gathers mappings from this scope, then from parents in
// priority order. The first mapping seen for a map key wins.
func (s *Scope) getAssociation(key Key, nonEmpty bool) (map[any]any, error) {
	mappings := make(map[any]any)

	fold := func(owner *Scope) error {
		for _, factory := range owner.associationFactories[key] {
			pair, err := s.tryGetMapping(key, factory, owner.accessor)
			if err != nil {
				return err
			}
			if _, exists := mappings[pair.Key]; !exists {
				mappings[pair.Key] = pair.Value
			}
		}
		return nil
	}

	if err := fold(s); err != nil {
		return nil, err
	}
	for _, parent := range s.priority {
		if err := fold(parent); err != nil {
			return nil, err
		}
	}

	if len(mappings) == 0 && nonEmpty {
		return nil, newMissingMapping(key, s.name)
	}

	return mappings, nil
}

func (s *Scope) tryGetObject(key Key, factory InstanceFactory, accessor Accessor, required bool) (any, error) {
	instance, err := factory.Get(accessor)
	if err != nil {
		return nil, newCreationFailed(KindObjectCreationFailed, key, s.name, err)
	}

	if isNil(instance) {
		if required {
			return nil, newObjectNullability(key, s.name)
		}
		return nil, nil
	}

	return instance, nil
}

func (s *Scope) tryGetElement(key Key, factory InstanceFactory, accessor Accessor) (any, error) {
	element, err := factory.Get(accessor)
	if err != nil {
		return nil, newCreationFailed(KindElementCreationFailed, key, s.name, err)
	}

	return element, nil
}

func (s *Scope) tryGetMapping(key Key, factory InstanceFactory, accessor Accessor) (Pair, error) {
	value, err := factory.Get(accessor)
	if err != nil {
		return Pair{}, newCreationFailed(KindMappingCreationFailed, key, s.name, err)
	}

	pair, ok := value.(Pair)
	if !ok {
		cause := newTypeMismatch(key, "scout.Pair", value)
		return Pair{}, newCreationFailed(KindMappingCreationFailed, key, s.name, cause)
	}

	if !hashable(pair.Key) {
		cause := newTypeMismatch(key, "a comparable map key", pair.Key)
		return Pair{}, newCreationFailed(KindMappingCreationFailed, key, s.name, cause)
	}

	return pair, nil
}

// hashable reports whether v can be used as a map key without panicking.
func hashable(v any) bool {
	return v == nil || reflect.ValueOf(v).Comparable()
}

// =============================================================================
// DEFERRED SHAPES
// =============================================================================

func (s *Scope) getObjectLazy(key Key, required bool) *Lazy[any] {
	return NewLazy(func() (any, error) { return s.getObject(key, required) })
}

func (s *Scope) getObjectProvider(key Key, required bool) *Provider[any] {
	return NewProvider(func() (any, error) { return s.getObject(key, required) })
}

func (s *Scope) getCollectionLazy(key Key, nonEmpty bool) *Lazy[[]any] {
	return NewLazy(func() ([]any, error) { return s.getCollection(key, nonEmpty) })
}

func (s *Scope) getCollectionProvider(key Key, nonEmpty bool) *Provider[[]any] {
	return NewProvider(func() ([]any, error) { return s.getCollection(key, nonEmpty) })
}

func (s *Scope) getAssociationLazy(key Key, nonEmpty bool) *Lazy[map[any]any] {
	return NewLazy(func() (map[any]any, error) { return s.getAssociation(key, nonEmpty) })
}

func (s *Scope) getAssociationProvider(key Key, nonEmpty bool) *Provider[map[any]any] {
	return NewProvider(func() (map[any]any, error) { return s.getAssociation(key, nonEmpty) })
}

// =============================================================================
// CONTAINMENT
// =============================================================================

// ContainsObjectFactory reports whether key resolves to an object factory in
// this scope or any ancestor.
func (s *Scope) ContainsObjectFactory(key Key) bool {
	if _, ok := s.objectFactories[key]; ok {
		return true
	}
	for _, parent := range s.priority {
		if _, ok := parent.objectFactories[key]; ok {
			return true
		}
	}
	return false
}

// ContainsElementFactories reports whether any scope in the tree contributes
// elements for key.
func (s *Scope) ContainsElementFactories(key Key) bool {
	if len(s.collectionFactories[key]) > 0 {
		return true
	}
	for _, parent := range s.accumulation {
		if len(parent.collectionFactories[key]) > 0 {
			return true
		}
	}
	return false
}

// ContainsMappingFactories reports whether any scope in the tree contributes
// mappings for key.
func (s *Scope) ContainsMappingFactories(key Key) bool {
	if len(s.associationFactories[key]) > 0 {
		return true
	}
	for _, parent := range s.priority {
		if len(parent.associationFactories[key]) > 0 {
			return true
		}
	}
	return false
}

// String returns the scope identity.
func (s *Scope) String() string {
	return formatIdentity(s.name)
}

// Details renders the scope tree with per-scope factory counts.
func (s *Scope) Details() string {
	var b strings.Builder
	b.WriteString("Tree of scopes:")
	s.writeTree(&b, 0)
	return b.String()
}

func (s *Scope) writeTree(b *strings.Builder, depth int) {
	b.WriteString("\n")
	b.WriteString(strings.Repeat("   ", depth+1))
	fmt.Fprintf(b, "⌞ %s (object factories: %d, collection factories: %d, association factories: %d, allowed object overrides: %d)",
		s, len(s.objectFactories), len(s.collectionFactories), len(s.associationFactories), len(s.allowedOverrides))
	for _, parent := range s.parents {
		parent.writeTree(b, depth+1)
	}
}
