package scout

// interceptingAccessor runs registered interceptors around a direct accessor.
// When the registry is empty it delegates without taking any lock.
type interceptingAccessor struct {
	direct       *directAccessor
	interceptors *Interceptors
}

// intercept runs every before hook in order; the last one supplying a value
// wins and the origin is skipped. After hooks then transform the result in
// registration order. Before hook and origin errors are returned as is and
// skip the remaining hooks.
func intercept[B, A, T any](
	s snapshot[B, A],
	origin func() (T, error),
	before func(B) (T, bool, error),
	after func(A, T) T,
) (T, error) {
	var result T
	supplied := false

	for _, interceptor := range s.before {
		outcome, ok, err := before(interceptor)
		if err != nil {
			var zero T
			return zero, err
		}
		if ok {
			result = outcome
			supplied = true
		}
	}

	if !supplied {
		var err error
		result, err = origin()
		if err != nil {
			var zero T
			return zero, err
		}
	}

	for _, interceptor := range s.after {
		result = after(interceptor, result)
	}

	return result, nil
}

// noErr adapts a shape constructor that cannot fail.
func noErr[T any](fn func() T) func() (T, error) {
	return func() (T, error) { return fn(), nil }
}

// deferred adapts a lazy or provider before hook. Their failures surface when
// the handle is read.
func deferred[B, T any](fn func(B) (T, bool)) func(B) (T, bool, error) {
	return func(i B) (T, bool, error) {
		v, ok := fn(i)
		return v, ok, nil
	}
}

func (t *interceptingAccessor) Scope() *Scope {
	return t.direct.scope
}

func (t *interceptingAccessor) Get(key Key) (any, error) {
	if !t.interceptors.Enabled() {
		return t.direct.Get(key)
	}
	return intercept(t.interceptors.snapshotRegular(),
		func() (any, error) { return t.direct.Get(key) },
		func(i BeforeInterceptor) (any, bool, error) { return i.BeforeGet(key, t.direct) },
		func(i AfterInterceptor, r any) any { return i.AfterGet(key, t.direct, r) },
	)
}

func (t *interceptingAccessor) GetLazy(key Key) *Lazy[any] {
	if !t.interceptors.Enabled() {
		return t.direct.GetLazy(key)
	}
	result, _ := intercept(t.interceptors.snapshotLazy(),
		noErr(func() *Lazy[any] { return t.direct.GetLazy(key) }),
		deferred(func(i BeforeLazyInterceptor) (*Lazy[any], bool) { return i.BeforeGetLazy(key, t.direct) }),
		func(i AfterLazyInterceptor, r *Lazy[any]) *Lazy[any] { return i.AfterGetLazy(key, t.direct, r) },
	)
	return result
}

func (t *interceptingAccessor) GetProvider(key Key) *Provider[any] {
	if !t.interceptors.Enabled() {
		return t.direct.GetProvider(key)
	}
	result, _ := intercept(t.interceptors.snapshotProvider(),
		noErr(func() *Provider[any] { return t.direct.GetProvider(key) }),
		deferred(func(i BeforeProviderInterceptor) (*Provider[any], bool) { return i.BeforeGetProvider(key, t.direct) }),
		func(i AfterProviderInterceptor, r *Provider[any]) *Provider[any] {
			return i.AfterGetProvider(key, t.direct, r)
		},
	)
	return result
}

func (t *interceptingAccessor) Opt(key Key) (any, error) {
	if !t.interceptors.Enabled() {
		return t.direct.Opt(key)
	}
	return intercept(t.interceptors.snapshotRegular(),
		func() (any, error) { return t.direct.Opt(key) },
		func(i BeforeInterceptor) (any, bool, error) { return i.BeforeOpt(key, t.direct) },
		func(i AfterInterceptor, r any) any { return i.AfterOpt(key, t.direct, r) },
	)
}

func (t *interceptingAccessor) OptLazy(key Key) *Lazy[any] {
	if !t.interceptors.Enabled() {
		return t.direct.OptLazy(key)
	}
	result, _ := intercept(t.interceptors.snapshotLazy(),
		noErr(func() *Lazy[any] { return t.direct.OptLazy(key) }),
		deferred(func(i BeforeLazyInterceptor) (*Lazy[any], bool) { return i.BeforeOptLazy(key, t.direct) }),
		func(i AfterLazyInterceptor, r *Lazy[any]) *Lazy[any] { return i.AfterOptLazy(key, t.direct, r) },
	)
	return result
}

func (t *interceptingAccessor) OptProvider(key Key) *Provider[any] {
	if !t.interceptors.Enabled() {
		return t.direct.OptProvider(key)
	}
	result, _ := intercept(t.interceptors.snapshotProvider(),
		noErr(func() *Provider[any] { return t.direct.OptProvider(key) }),
		deferred(func(i BeforeProviderInterceptor) (*Provider[any], bool) { return i.BeforeOptProvider(key, t.direct) }),
		func(i AfterProviderInterceptor, r *Provider[any]) *Provider[any] {
			return i.AfterOptProvider(key, t.direct, r)
		},
	)
	return result
}

func (t *interceptingAccessor) Collect(key Key, nonEmpty bool) ([]any, error) {
	if !t.interceptors.Enabled() {
		return t.direct.Collect(key, nonEmpty)
	}
	return intercept(t.interceptors.snapshotRegular(),
		func() ([]any, error) { return t.direct.Collect(key, nonEmpty) },
		func(i BeforeInterceptor) ([]any, bool, error) { return i.BeforeCollect(key, t.direct) },
		func(i AfterInterceptor, r []any) []any { return i.AfterCollect(key, t.direct, r) },
	)
}

func (t *interceptingAccessor) CollectLazy(key Key, nonEmpty bool) *Lazy[[]any] {
	if !t.interceptors.Enabled() {
		return t.direct.CollectLazy(key, nonEmpty)
	}
	result, _ := intercept(t.interceptors.snapshotLazy(),
		noErr(func() *Lazy[[]any] { return t.direct.CollectLazy(key, nonEmpty) }),
		deferred(func(i BeforeLazyInterceptor) (*Lazy[[]any], bool) { return i.BeforeCollectLazy(key, t.direct) }),
		func(i AfterLazyInterceptor, r *Lazy[[]any]) *Lazy[[]any] {
			return i.AfterCollectLazy(key, t.direct, r)
		},
	)
	return result
}

func (t *interceptingAccessor) CollectProvider(key Key, nonEmpty bool) *Provider[[]any] {
	if !t.interceptors.Enabled() {
		return t.direct.CollectProvider(key, nonEmpty)
	}
	result, _ := intercept(t.interceptors.snapshotProvider(),
		noErr(func() *Provider[[]any] { return t.direct.CollectProvider(key, nonEmpty) }),
		deferred(func(i BeforeProviderInterceptor) (*Provider[[]any], bool) { return i.BeforeCollectProvider(key, t.direct) }),
		func(i AfterProviderInterceptor, r *Provider[[]any]) *Provider[[]any] {
			return i.AfterCollectProvider(key, t.direct, r)
		},
	)
	return result
}

func (t *interceptingAccessor) Associate(key Key, nonEmpty bool) (map[any]any, error) {
	if !t.interceptors.Enabled() {
		return t.direct.Associate(key, nonEmpty)
	}
	return intercept(t.interceptors.snapshotRegular(),
		func() (map[any]any, error) { return t.direct.Associate(key, nonEmpty) },
		func(i BeforeInterceptor) (map[any]any, bool, error) { return i.BeforeAssociate(key, t.direct) },
		func(i AfterInterceptor, r map[any]any) map[any]any { return i.AfterAssociate(key, t.direct, r) },
	)
}

func (t *interceptingAccessor) AssociateLazy(key Key, nonEmpty bool) *Lazy[map[any]any] {
	if !t.interceptors.Enabled() {
		return t.direct.AssociateLazy(key, nonEmpty)
	}
	result, _ := intercept(t.interceptors.snapshotLazy(),
		noErr(func() *Lazy[map[any]any] { return t.direct.AssociateLazy(key, nonEmpty) }),
		deferred(func(i BeforeLazyInterceptor) (*Lazy[map[any]any], bool) { return i.BeforeAssociateLazy(key, t.direct) }),
		func(i AfterLazyInterceptor, r *Lazy[map[any]any]) *Lazy[map[any]any] {
			return i.AfterAssociateLazy(key, t.direct, r)
		},
	)
	return result
}

func (t *interceptingAccessor) AssociateProvider(key Key, nonEmpty bool) *Provider[map[any]any] {
	if !t.interceptors.Enabled() {
		return t.direct.AssociateProvider(key, nonEmpty)
	}
	result, _ := intercept(t.interceptors.snapshotProvider(),
		noErr(func() *Provider[map[any]any] { return t.direct.AssociateProvider(key, nonEmpty) }),
		deferred(func(i BeforeProviderInterceptor) (*Provider[map[any]any], bool) {
			return i.BeforeAssociateProvider(key, t.direct)
		}),
		func(i AfterProviderInterceptor, r *Provider[map[any]any]) *Provider[map[any]any] {
			return i.AfterAssociateProvider(key, t.direct, r)
		},
	)
	return result
}
