package scout

// Replacer substitutes object factories at resolution time, typically in
// tests. A replacement applies only when the accessor's scope can already
// resolve the key, so replacing never makes a missing binding appear.
//
// Register it on a Config's interceptor registry:
//
//	r := scout.NewReplacer()
//	scout.Replace(r, func(a scout.Accessor) (Clock, error) { return fakeClock{}, nil })
//	err := cfg.Interceptors().Register(r)
type Replacer struct {
	stubs map[Key]InstanceFactory
}

// NewReplacer creates an empty replacer.
func NewReplacer() *Replacer {
	return &Replacer{stubs: make(map[Key]InstanceFactory)}
}

// ReplaceFactory replaces the factory bound under key.
func (r *Replacer) ReplaceFactory(key Key, factory InstanceFactory) *Replacer {
	r.stubs[key] = factory
	return r
}

// Replace replaces T with an always-new factory.
func Replace[T any](r *Replacer, def func(Accessor) (T, error)) *Replacer {
	return r.ReplaceFactory(ObjectKeyOf[T](), NewFactory(erase(def)))
}

// ReplaceSingleton replaces T with a single-instance factory.
func ReplaceSingleton[T any](r *Replacer, def func(Accessor) (T, error)) *Replacer {
	return r.ReplaceFactory(ObjectKeyOf[T](), NewSingleton(erase(def)))
}

// ReplaceReusable replaces T with a reusable factory.
func ReplaceReusable[T any](r *Replacer, def func(Accessor) (T, error)) *Replacer {
	return r.ReplaceFactory(ObjectKeyOf[T](), NewReusable(erase(def)))
}

func (r *Replacer) stub(key Key, a Accessor) (InstanceFactory, bool) {
	factory, ok := r.stubs[key]
	if !ok || !a.Scope().ContainsObjectFactory(key) {
		return nil, false
	}
	return factory, true
}

// stubValue runs a stub eagerly. A failing stub fails the resolution; the
// real binding is not consulted.
func (r *Replacer) stubValue(key Key, a Accessor) (any, bool, error) {
	factory, ok := r.stub(key, a)
	if !ok {
		return nil, false, nil
	}
	value, err := factory.Get(a)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *Replacer) BeforeGet(key Key, a Accessor) (any, bool, error) {
	return r.stubValue(key, a)
}

func (r *Replacer) BeforeOpt(key Key, a Accessor) (any, bool, error) {
	return r.stubValue(key, a)
}

func (r *Replacer) BeforeCollect(Key, Accessor) ([]any, bool, error) {
	return nil, false, nil
}

func (r *Replacer) BeforeAssociate(Key, Accessor) (map[any]any, bool, error) {
	return nil, false, nil
}

func (r *Replacer) BeforeGetLazy(key Key, a Accessor) (*Lazy[any], bool) {
	factory, ok := r.stub(key, a)
	if !ok {
		return nil, false
	}
	return NewLazy(func() (any, error) { return factory.Get(a) }), true
}

func (r *Replacer) BeforeOptLazy(key Key, a Accessor) (*Lazy[any], bool) {
	return r.BeforeGetLazy(key, a)
}

func (r *Replacer) BeforeCollectLazy(Key, Accessor) (*Lazy[[]any], bool) {
	return nil, false
}

func (r *Replacer) BeforeAssociateLazy(Key, Accessor) (*Lazy[map[any]any], bool) {
	return nil, false
}

func (r *Replacer) BeforeGetProvider(key Key, a Accessor) (*Provider[any], bool) {
	factory, ok := r.stub(key, a)
	if !ok {
		return nil, false
	}
	return NewProvider(func() (any, error) { return factory.Get(a) }), true
}

func (r *Replacer) BeforeOptProvider(key Key, a Accessor) (*Provider[any], bool) {
	return r.BeforeGetProvider(key, a)
}

func (r *Replacer) BeforeCollectProvider(Key, Accessor) (*Provider[[]any], bool) {
	return nil, false
}

func (r *Replacer) BeforeAssociateProvider(Key, Accessor) (*Provider[map[any]any], bool) {
	return nil, false
}
