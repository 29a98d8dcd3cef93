package scout

// Registry is the registration surface of a scope builder.
type Registry interface {
	// SaveObject binds an object factory. Rebinding a key without
	// allowOverride is reported when the scope is built.
	SaveObject(key Key, factory InstanceFactory, allowOverride bool) error

	// SaveElement appends one element factory to a collection.
	SaveElement(key Key, factory InstanceFactory) error

	// SaveMapping appends one mapping factory to an association. The factory
	// must produce a Pair.
	SaveMapping(key Key, factory InstanceFactory) error
}

// BindOption configures an object binding.
type BindOption func(*bindOptions)

type bindOptions struct {
	allowOverride bool
}

// AllowOverride permits the binding to shadow an object factory already bound
// under the same key, in this scope or in an ancestor.
func AllowOverride() BindOption {
	return func(o *bindOptions) {
		o.allowOverride = true
	}
}

func mergeBindOptions(opts []BindOption) bindOptions {
	var merged bindOptions
	for _, opt := range opts {
		opt(&merged)
	}
	return merged
}

// Factory binds def for T; every resolution calls def.
//
// Example:
//
//	err := scout.Factory(b, func(a scout.Accessor) (*Request, error) {
//	    return &Request{}, nil
//	})
func Factory[T any](r Registry, def func(Accessor) (T, error), opts ...BindOption) error {
	if def == nil {
		return newInvalidFactory(ObjectKeyOf[T](), registryName(r))
	}
	return r.SaveObject(ObjectKeyOf[T](), NewFactory(erase(def)), mergeBindOptions(opts).allowOverride)
}

// Singleton binds def for T; the first successful value is cached forever.
func Singleton[T any](r Registry, def func(Accessor) (T, error), opts ...BindOption) error {
	if def == nil {
		return newInvalidFactory(ObjectKeyOf[T](), registryName(r))
	}
	return r.SaveObject(ObjectKeyOf[T](), NewSingleton(erase(def)), mergeBindOptions(opts).allowOverride)
}

// Reusable binds def for T; the last value is reused until the garbage
// collector reclaims the cache.
func Reusable[T any](r Registry, def func(Accessor) (T, error), opts ...BindOption) error {
	if def == nil {
		return newInvalidFactory(ObjectKeyOf[T](), registryName(r))
	}
	return r.SaveObject(ObjectKeyOf[T](), NewReusable(erase(def)), mergeBindOptions(opts).allowOverride)
}

// Element contributes one element to the collection of T.
func Element[T any](r Registry, def func(Accessor) (T, error)) error {
	if def == nil {
		return newInvalidFactory(CollectionKeyOf[T](), registryName(r))
	}
	return r.SaveElement(CollectionKeyOf[T](), NewFactory(erase(def)))
}

// Mapping contributes one entry to the association map[K]V.
func Mapping[K comparable, V any](r Registry, def func(Accessor) (K, V, error)) error {
	if def == nil {
		return newInvalidFactory(AssociationKeyOf[K, V](), registryName(r))
	}
	return r.SaveMapping(AssociationKeyOf[K, V](), NewFactory(func(a Accessor) (any, error) {
		k, v, err := def(a)
		if err != nil {
			return nil, err
		}
		return Pair{Key: k, Value: v}, nil
	}))
}

// registryName returns the scope name of builders created by this package.
func registryName(r Registry) string {
	if named, ok := r.(interface{ scopeName() string }); ok {
		return named.scopeName()
	}
	return ""
}

func erase[T any](def func(Accessor) (T, error)) Definition {
	return func(a Accessor) (any, error) {
		v, err := def(a)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Module groups bindings so they can be installed into several builders.
type Module func(r Registry) error

// Install applies modules to r in order and stops at the first error.
//
// Example:
//
//	err := scout.Install(b, storageModule, httpModule)
func Install(r Registry, modules ...Module) error {
	for _, module := range modules {
		if err := module(r); err != nil {
			return err
		}
	}
	return nil
}
