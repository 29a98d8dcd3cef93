package scout

// Accessor resolves objects, collections and associations from the scope it
// is bound to. Every query comes in three shapes: eager, lazy (evaluated once
// on first access) and provider (evaluated on every access).
//
// Accessor is untyped; see Get, Opt, Collect, Associate and their Lazy and
// Provider variants for typed access.
type Accessor interface {
	// Scope returns the scope this accessor is bound to.
	Scope() *Scope

	Get(key Key) (any, error)
	GetLazy(key Key) *Lazy[any]
	GetProvider(key Key) *Provider[any]

	// Opt resolves an optional object. A missing factory or a nil instance
	// yields (nil, nil).
	Opt(key Key) (any, error)
	OptLazy(key Key) *Lazy[any]
	OptProvider(key Key) *Provider[any]

	Collect(key Key, nonEmpty bool) ([]any, error)
	CollectLazy(key Key, nonEmpty bool) *Lazy[[]any]
	CollectProvider(key Key, nonEmpty bool) *Provider[[]any]

	Associate(key Key, nonEmpty bool) (map[any]any, error)
	AssociateLazy(key Key, nonEmpty bool) *Lazy[map[any]any]
	AssociateProvider(key Key, nonEmpty bool) *Provider[map[any]any]
}

// directAccessor calls straight into its scope.
type directAccessor struct {
	scope *Scope
}

func (d *directAccessor) Scope() *Scope {
	return d.scope
}

func (d *directAccessor) Get(key Key) (any, error) {
	return d.scope.getObject(key, true)
}

func (d *directAccessor) GetLazy(key Key) *Lazy[any] {
	return d.scope.getObjectLazy(key, true)
}

func (d *directAccessor) GetProvider(key Key) *Provider[any] {
	return d.scope.getObjectProvider(key, true)
}

func (d *directAccessor) Opt(key Key) (any, error) {
	return d.scope.getObject(key, false)
}

func (d *directAccessor) OptLazy(key Key) *Lazy[any] {
	return d.scope.getObjectLazy(key, false)
}

func (d *directAccessor) OptProvider(key Key) *Provider[any] {
	return d.scope.getObjectProvider(key, false)
}

func (d *directAccessor) Collect(key Key, nonEmpty bool) ([]any, error) {
	return d.scope.getCollection(key, nonEmpty)
}

func (d *directAccessor) CollectLazy(key Key, nonEmpty bool) *Lazy[[]any] {
	return d.scope.getCollectionLazy(key, nonEmpty)
}

func (d *directAccessor) CollectProvider(key Key, nonEmpty bool) *Provider[[]any] {
	return d.scope.getCollectionProvider(key, nonEmpty)
}

func (d *directAccessor) Associate(key Key, nonEmpty bool) (map[any]any, error) {
	return d.scope.getAssociation(key, nonEmpty)
}

func (d *directAccessor) AssociateLazy(key Key, nonEmpty bool) *Lazy[map[any]any] {
	return d.scope.getAssociationLazy(key, nonEmpty)
}

func (d *directAccessor) AssociateProvider(key Key, nonEmpty bool) *Provider[map[any]any] {
	return d.scope.getAssociationProvider(key, nonEmpty)
}

// DirectAccessor returns an accessor for s that bypasses every interceptor.
func DirectAccessor(s *Scope) Accessor {
	return &directAccessor{scope: s}
}
