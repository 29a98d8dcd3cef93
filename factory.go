package scout

import (
	"reflect"
	"sync"
	"sync/atomic"
	"weak"
)

// Definition creates an instance using the accessor of the scope that owns
// the binding.
type Definition func(a Accessor) (any, error)

// InstanceFactory produces instances for a binding according to its caching
// strategy. Errors returned by the definition are passed through unchanged.
type InstanceFactory interface {
	Get(a Accessor) (any, error)
}

// Strategy names the caching policy of a factory.
type Strategy string

const (
	// StrategyFactory calls the definition on every resolution.
	StrategyFactory Strategy = "factory"

	// StrategySingleton caches the first successful value forever.
	StrategySingleton Strategy = "singleton"

	// StrategyReusable caches the last value until the garbage collector
	// reclaims it.
	StrategyReusable Strategy = "reusable"
)

// StrategyOf reports the caching policy of f, or "" for foreign implementations.
func StrategyOf(f InstanceFactory) Strategy {
	switch f.(type) {
	case *factoryInstanceFactory:
		return StrategyFactory
	case *singleInstanceFactory:
		return StrategySingleton
	case *reusableInstanceFactory:
		return StrategyReusable
	default:
		return ""
	}
}

// NewFactory returns a factory invoking def on every resolution.
func NewFactory(def Definition) InstanceFactory {
	return &factoryInstanceFactory{definition: def}
}

type factoryInstanceFactory struct {
	definition Definition
}

func (f *factoryInstanceFactory) Get(a Accessor) (any, error) {
	return f.definition(a)
}

// NewSingleton returns a factory that invokes def once and caches the value.
// Racing first callers block on a mutex; exactly one creation succeeds.
// A failed creation is not cached, the next caller retries.
func NewSingleton(def Definition) InstanceFactory {
	return &singleInstanceFactory{definition: def}
}

type singleInstance struct {
	value any
}

type singleInstanceFactory struct {
	definition Definition
	instance   atomic.Pointer[singleInstance]
	mu         sync.Mutex
}

func (f *singleInstanceFactory) Get(a Accessor) (any, error) {
	// Fast path: already created
	if existing := f.instance.Load(); existing != nil {
		return existing.value, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring the lock
	if existing := f.instance.Load(); existing != nil {
		return existing.value, nil
	}

	value, err := f.definition(a)
	if err != nil {
		return nil, err
	}

	f.instance.Store(&singleInstance{value: value})

	return value, nil
}

// NewReusable returns a factory caching its last value until the next garbage
// collection. The value lives in a heap cell referenced only through a weak
// pointer, so the collector reclaims the cell on its next cycle and the value
// is recreated on demand. Concurrent callers may both create a value.
func NewReusable(def Definition) InstanceFactory {
	return &reusableInstanceFactory{definition: def}
}

type reusableCell struct {
	value any
}

type reusableInstanceFactory struct {
	definition Definition
	cell       atomic.Pointer[weak.Pointer[reusableCell]]
}

func (f *reusableInstanceFactory) Get(a Accessor) (any, error) {
	if ref := f.cell.Load(); ref != nil {
		if cell := ref.Value(); cell != nil {
			return cell.value, nil
		}
	}

	value, err := f.definition(a)
	if err != nil {
		return nil, err
	}

	if !isNil(value) {
		ref := weak.Make(&reusableCell{value: value})
		f.cell.Store(&ref)
	}

	return value, nil
}

// isNil reports whether v is nil or a typed nil of a nillable kind.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
