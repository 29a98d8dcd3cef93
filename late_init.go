package scout

import (
	"sync"
	"sync/atomic"
)

// LateInitScope holds a scope that is built some time after the holder is
// created, for example by an application entry point.
//
//	var appScope = scout.NewLateInitScope("app", false)
//
//	func main() {
//	    if err := appScope.Init(configureApp); err != nil { ... }
//	    s, _ := appScope.Value()
//	}
type LateInitScope struct {
	name           string
	allowOverwrite atomic.Bool

	mu    sync.Mutex
	scope atomic.Pointer[Scope]
}

// NewLateInitScope creates an empty holder. With allowOverwrite a second Init
// replaces the held scope instead of failing.
func NewLateInitScope(name string, allowOverwrite bool) *LateInitScope {
	l := &LateInitScope{name: name}
	l.allowOverwrite.Store(allowOverwrite)
	return l
}

// SetOverwriteAllowed toggles whether Init may replace an existing scope.
func (l *LateInitScope) SetOverwriteAllowed(allow bool) {
	l.allowOverwrite.Store(allow)
}

// Init builds the scope and stores it. A failed build leaves the holder
// unchanged.
func (l *LateInitScope) Init(configure func(Builder) error, opts ...BuilderOption) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.scope.Load() != nil && !l.allowOverwrite.Load() {
		return &Error{Kind: KindAlreadyInitialized, Scope: l.name}
	}

	scope, err := NewScope(l.name, configure, opts...)
	if err != nil {
		return err
	}
	l.scope.Store(scope)
	return nil
}

// Value returns the held scope or ErrNotInitialized.
func (l *LateInitScope) Value() (*Scope, error) {
	if scope := l.scope.Load(); scope != nil {
		return scope, nil
	}
	return nil, &Error{Kind: KindNotInitialized, Scope: l.name}
}

// IsInitialized reports whether Init has succeeded at least once.
func (l *LateInitScope) IsInitialized() bool {
	return l.scope.Load() != nil
}
