package scout

import (
	"fmt"
	"reflect"
)

// Get resolves a required T.
func Get[T any](a Accessor) (T, error) {
	key := ObjectKeyOf[T]()
	instance, err := a.Get(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return cast[T](key, instance)
}

// Must resolves a required T or panics - use only during startup.
func Must[T any](a Accessor) T {
	instance, err := Get[T](a)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", ObjectKeyOf[T](), err))
	}
	return instance
}

// Opt resolves an optional T. found is false when no factory exists or the
// factory produced nil.
func Opt[T any](a Accessor) (value T, found bool, err error) {
	key := ObjectKeyOf[T]()
	instance, err := a.Opt(key)
	if err != nil || instance == nil {
		return value, false, err
	}
	value, err = cast[T](key, instance)
	return value, err == nil, err
}

// GetLazy returns a handle resolving a required T once, on first access.
func GetLazy[T any](a Accessor) *Lazy[T] {
	key := ObjectKeyOf[T]()
	inner := a.GetLazy(key)
	return NewLazy(func() (T, error) {
		instance, err := inner.Get()
		if err != nil {
			var zero T
			return zero, err
		}
		return cast[T](key, instance)
	})
}

// OptLazy returns a handle resolving an optional T once. A missing value
// resolves to the zero T without error.
func OptLazy[T any](a Accessor) *Lazy[T] {
	key := ObjectKeyOf[T]()
	inner := a.OptLazy(key)
	return NewLazy(func() (T, error) {
		return castOptional[T](key, inner.Get)
	})
}

// GetProvider returns a provider resolving a required T on every call.
func GetProvider[T any](a Accessor) *Provider[T] {
	key := ObjectKeyOf[T]()
	inner := a.GetProvider(key)
	return NewProvider(func() (T, error) {
		instance, err := inner.Get()
		if err != nil {
			var zero T
			return zero, err
		}
		return cast[T](key, instance)
	})
}

// OptProvider returns a provider resolving an optional T on every call.
func OptProvider[T any](a Accessor) *Provider[T] {
	key := ObjectKeyOf[T]()
	inner := a.OptProvider(key)
	return NewProvider(func() (T, error) {
		return castOptional[T](key, inner.Get)
	})
}

// Collect resolves every element contributed to the collection of T,
// ancestors first. With nonEmpty an empty result is an error.
func Collect[T any](a Accessor, nonEmpty bool) ([]T, error) {
	key := CollectionKeyOf[T]()
	elements, err := a.Collect(key, nonEmpty)
	if err != nil {
		return nil, err
	}
	return castSlice[T](key, elements)
}

// CollectLazy returns a handle collecting the elements of T once.
func CollectLazy[T any](a Accessor, nonEmpty bool) *Lazy[[]T] {
	key := CollectionKeyOf[T]()
	inner := a.CollectLazy(key, nonEmpty)
	return NewLazy(func() ([]T, error) {
		elements, err := inner.Get()
		if err != nil {
			return nil, err
		}
		return castSlice[T](key, elements)
	})
}

// CollectProvider returns a provider collecting the elements of T on every call.
func CollectProvider[T any](a Accessor, nonEmpty bool) *Provider[[]T] {
	key := CollectionKeyOf[T]()
	inner := a.CollectProvider(key, nonEmpty)
	return NewProvider(func() ([]T, error) {
		elements, err := inner.Get()
		if err != nil {
			return nil, err
		}
		return castSlice[T](key, elements)
	})
}

// Associate resolves every mapping contributed to map[K]V.
func Associate[K comparable, V any](a Accessor, nonEmpty bool) (map[K]V, error) {
	key := AssociationKeyOf[K, V]()
	mappings, err := a.Associate(key, nonEmpty)
	if err != nil {
		return nil, err
	}
	return castMap[K, V](key, mappings)
}

// AssociateLazy returns a handle resolving map[K]V once.
func AssociateLazy[K comparable, V any](a Accessor, nonEmpty bool) *Lazy[map[K]V] {
	key := AssociationKeyOf[K, V]()
	inner := a.AssociateLazy(key, nonEmpty)
	return NewLazy(func() (map[K]V, error) {
		mappings, err := inner.Get()
		if err != nil {
			return nil, err
		}
		return castMap[K, V](key, mappings)
	})
}

// AssociateProvider returns a provider resolving map[K]V on every call.
func AssociateProvider[K comparable, V any](a Accessor, nonEmpty bool) *Provider[map[K]V] {
	key := AssociationKeyOf[K, V]()
	inner := a.AssociateProvider(key, nonEmpty)
	return NewProvider(func() (map[K]V, error) {
		mappings, err := inner.Get()
		if err != nil {
			return nil, err
		}
		return castMap[K, V](key, mappings)
	})
}

func cast[T any](key Key, instance any) (T, error) {
	typed, ok := instance.(T)
	if !ok {
		var zero T
		return zero, newTypeMismatch(key, reflect.TypeFor[T]().String(), instance)
	}
	return typed, nil
}

func castOptional[T any](key Key, get func() (any, error)) (T, error) {
	var zero T
	instance, err := get()
	if err != nil || instance == nil {
		return zero, err
	}
	return cast[T](key, instance)
}

func castSlice[T any](key Key, elements []any) ([]T, error) {
	out := make([]T, len(elements))
	for i, element := range elements {
		if element == nil {
			continue
		}
		typed, err := cast[T](key, element)
		if err != nil {
			return nil, err
		}
		out[i] = typed
	}
	return out, nil
}

func castMap[K comparable, V any](key Key, mappings map[any]any) (map[K]V, error) {
	out := make(map[K]V, len(mappings))
	for k, v := range mappings {
		var typedKey K
		if k != nil || any(typedKey) != nil {
			var ok bool
			if typedKey, ok = k.(K); !ok {
				return nil, newTypeMismatch(key, reflect.TypeFor[K]().String(), k)
			}
		}
		var typedValue V
		if v != nil {
			var err error
			if typedValue, err = cast[V](key, v); err != nil {
				return nil, err
			}
		}
		out[typedKey] = typedValue
	}
	return out, nil
}
