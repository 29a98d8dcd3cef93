package scout

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Interceptor is any value implementing at least one of the six hook
// interfaces below.
//
// Before hooks return ok == true to supply a result in place of the scope
// content. An error from an eager before hook ends the call with that error. After hooks receive the current result and return the value to
// pass on. Hooks receive an accessor that bypasses interception.
type Interceptor any

// BeforeInterceptor intercepts eager accessor calls before resolution.
type BeforeInterceptor interface {
	BeforeGet(key Key, a Accessor) (any, bool, error)
	BeforeOpt(key Key, a Accessor) (any, bool, error)
	BeforeCollect(key Key, a Accessor) ([]any, bool, error)
	BeforeAssociate(key Key, a Accessor) (map[any]any, bool, error)
}

// BeforeLazyInterceptor intercepts lazy accessor calls before resolution.
type BeforeLazyInterceptor interface {
	BeforeGetLazy(key Key, a Accessor) (*Lazy[any], bool)
	BeforeOptLazy(key Key, a Accessor) (*Lazy[any], bool)
	BeforeCollectLazy(key Key, a Accessor) (*Lazy[[]any], bool)
	BeforeAssociateLazy(key Key, a Accessor) (*Lazy[map[any]any], bool)
}

// BeforeProviderInterceptor intercepts provider accessor calls before resolution.
type BeforeProviderInterceptor interface {
	BeforeGetProvider(key Key, a Accessor) (*Provider[any], bool)
	BeforeOptProvider(key Key, a Accessor) (*Provider[any], bool)
	BeforeCollectProvider(key Key, a Accessor) (*Provider[[]any], bool)
	BeforeAssociateProvider(key Key, a Accessor) (*Provider[map[any]any], bool)
}

// AfterInterceptor intercepts eager accessor calls after resolution.
type AfterInterceptor interface {
	AfterGet(key Key, a Accessor, result any) any
	AfterOpt(key Key, a Accessor, result any) any
	AfterCollect(key Key, a Accessor, result []any) []any
	AfterAssociate(key Key, a Accessor, result map[any]any) map[any]any
}

// AfterLazyInterceptor intercepts lazy accessor calls after resolution.
type AfterLazyInterceptor interface {
	AfterGetLazy(key Key, a Accessor, result *Lazy[any]) *Lazy[any]
	AfterOptLazy(key Key, a Accessor, result *Lazy[any]) *Lazy[any]
	AfterCollectLazy(key Key, a Accessor, result *Lazy[[]any]) *Lazy[[]any]
	AfterAssociateLazy(key Key, a Accessor, result *Lazy[map[any]any]) *Lazy[map[any]any]
}

// AfterProviderInterceptor intercepts provider accessor calls after resolution.
type AfterProviderInterceptor interface {
	AfterGetProvider(key Key, a Accessor, result *Provider[any]) *Provider[any]
	AfterOptProvider(key Key, a Accessor, result *Provider[any]) *Provider[any]
	AfterCollectProvider(key Key, a Accessor, result *Provider[[]any]) *Provider[[]any]
	AfterAssociateProvider(key Key, a Accessor, result *Provider[map[any]any]) *Provider[map[any]any]
}

// Interceptors keeps registered interceptors, one ordered list per hook
// interface. Lists are copied on write, so snapshots stay valid while other
// goroutines register or unregister.
type Interceptors struct {
	mu             sync.Mutex
	logger         *zap.Logger
	enabled        atomic.Bool
	before         []BeforeInterceptor
	beforeLazy     []BeforeLazyInterceptor
	beforeProvider []BeforeProviderInterceptor
	after          []AfterInterceptor
	afterLazy      []AfterLazyInterceptor
	afterProvider  []AfterProviderInterceptor
}

// NewInterceptors creates an empty registry.
func NewInterceptors() *Interceptors {
	return &Interceptors{logger: zap.NewNop()}
}

// useLogger sets the logger registrations are reported to.
func (r *Interceptors) useLogger(logger *zap.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register appends i to the list of every hook interface it implements.
// It fails with ErrUnrecognizedInterceptor if i implements none.
func (r *Interceptors) Register(i Interceptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	registered := false
	if v, ok := i.(BeforeInterceptor); ok {
		r.before = appendCopy(r.before, v)
		registered = true
	}
	if v, ok := i.(BeforeLazyInterceptor); ok {
		r.beforeLazy = appendCopy(r.beforeLazy, v)
		registered = true
	}
	if v, ok := i.(BeforeProviderInterceptor); ok {
		r.beforeProvider = appendCopy(r.beforeProvider, v)
		registered = true
	}
	if v, ok := i.(AfterInterceptor); ok {
		r.after = appendCopy(r.after, v)
		registered = true
	}
	if v, ok := i.(AfterLazyInterceptor); ok {
		r.afterLazy = appendCopy(r.afterLazy, v)
		registered = true
	}
	if v, ok := i.(AfterProviderInterceptor); ok {
		r.afterProvider = appendCopy(r.afterProvider, v)
		registered = true
	}

	if !registered {
		return &Error{Kind: KindUnrecognizedInterceptor, Detail: fmt.Sprintf("%T", i)}
	}

	r.enabled.Store(true)

	if r.logger != nil {
		r.logger.Warn("interceptor registered, resolution performance may be dramatically reduced",
			zap.String("interceptor", fmt.Sprintf("%T", i)),
		)
	}

	return nil
}

// Unregister removes every registration of i.
func (r *Interceptors) Unregister(i Interceptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := i.(BeforeInterceptor); ok {
		r.before = removeCopy(r.before, v)
	}
	if v, ok := i.(BeforeLazyInterceptor); ok {
		r.beforeLazy = removeCopy(r.beforeLazy, v)
	}
	if v, ok := i.(BeforeProviderInterceptor); ok {
		r.beforeProvider = removeCopy(r.beforeProvider, v)
	}
	if v, ok := i.(AfterInterceptor); ok {
		r.after = removeCopy(r.after, v)
	}
	if v, ok := i.(AfterLazyInterceptor); ok {
		r.afterLazy = removeCopy(r.afterLazy, v)
	}
	if v, ok := i.(AfterProviderInterceptor); ok {
		r.afterProvider = removeCopy(r.afterProvider, v)
	}

	r.enabled.Store(!r.isEmpty())
}

// Clear removes every interceptor.
func (r *Interceptors) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.before = nil
	r.beforeLazy = nil
	r.beforeProvider = nil
	r.after = nil
	r.afterLazy = nil
	r.afterProvider = nil
	r.enabled.Store(false)
}

// Enabled reports whether any interceptor is registered. It never locks.
func (r *Interceptors) Enabled() bool {
	return r.enabled.Load()
}

func (r *Interceptors) isEmpty() bool {
	return len(r.before) == 0 &&
		len(r.beforeLazy) == 0 &&
		len(r.beforeProvider) == 0 &&
		len(r.after) == 0 &&
		len(r.afterLazy) == 0 &&
		len(r.afterProvider) == 0
}

type snapshot[B, A any] struct {
	before []B
	after  []A
}

func (r *Interceptors) snapshotRegular() snapshot[BeforeInterceptor, AfterInterceptor] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot[BeforeInterceptor, AfterInterceptor]{before: r.before, after: r.after}
}

func (r *Interceptors) snapshotLazy() snapshot[BeforeLazyInterceptor, AfterLazyInterceptor] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot[BeforeLazyInterceptor, AfterLazyInterceptor]{before: r.beforeLazy, after: r.afterLazy}
}

func (r *Interceptors) snapshotProvider() snapshot[BeforeProviderInterceptor, AfterProviderInterceptor] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot[BeforeProviderInterceptor, AfterProviderInterceptor]{before: r.beforeProvider, after: r.afterProvider}
}

func appendCopy[T any](list []T, v T) []T {
	next := make([]T, 0, len(list)+1)
	next = append(next, list...)
	return append(next, v)
}

func removeCopy[T comparable](list []T, v T) []T {
	idx := slices.Index(list, v)
	if idx < 0 {
		return list
	}
	next := make([]T, 0, len(list)-1)
	next = append(next, list[:idx]...)
	return append(next, list[idx+1:]...)
}
