package scout

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy defers a resolution until first access.
// The resolution runs at most once per handle; later calls return the cached
// value or error regardless of the underlying factory's strategy.
type Lazy[T any] struct {
	once     sync.Once
	resolve  func() (T, error)
	value    T
	err      error
	resolved atomic.Bool
}

// NewLazy creates a lazy handle around resolve.
func NewLazy[T any](resolve func() (T, error)) *Lazy[T] {
	return &Lazy[T]{resolve: resolve}
}

// LazyValue creates an already resolved handle.
func LazyValue[T any](value T) *Lazy[T] {
	l := &Lazy[T]{value: value}
	l.once.Do(func() {})
	l.resolved.Store(true)
	return l
}

// Get resolves the value on first call and returns the cached result after.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.value, l.err = l.resolve()
		l.resolve = nil
		l.resolved.Store(true)
	})

	return l.value, l.err
}

// MustGet resolves the value and panics on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy resolution failed: %v", err))
	}

	return value
}

// IsResolved returns true once the handle has been evaluated.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// Provider re-runs its resolution on every access and never caches.
type Provider[T any] struct {
	resolve func() (T, error)
}

// NewProvider creates a provider around resolve.
func NewProvider[T any](resolve func() (T, error)) *Provider[T] {
	return &Provider[T]{resolve: resolve}
}

// Get resolves and returns a value.
func (p *Provider[T]) Get() (T, error) {
	return p.resolve()
}

// MustGet resolves a value and panics on error.
func (p *Provider[T]) MustGet() T {
	value, err := p.Get()
	if err != nil {
		panic(fmt.Sprintf("provider resolution failed: %v", err))
	}

	return value
}
