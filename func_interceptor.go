package scout

// FuncInterceptor wraps functions as an eager interceptor. Nil fields are
// no-ops: before hooks report no result and after hooks pass the result on.
// A before function returning an error ends the resolution with it.
//
// Example:
//
//	cfg.Interceptors().Register(&scout.FuncInterceptor{
//	    AfterGetFunc: func(key scout.Key, a scout.Accessor, result any) any {
//	        log.Printf("resolved %s", key)
//	        return result
//	    },
//	})
type FuncInterceptor struct {
	BeforeGetFunc       func(key Key, a Accessor) (any, bool, error)
	BeforeOptFunc       func(key Key, a Accessor) (any, bool, error)
	BeforeCollectFunc   func(key Key, a Accessor) ([]any, bool, error)
	BeforeAssociateFunc func(key Key, a Accessor) (map[any]any, bool, error)

	AfterGetFunc       func(key Key, a Accessor, result any) any
	AfterOptFunc       func(key Key, a Accessor, result any) any
	AfterCollectFunc   func(key Key, a Accessor, result []any) []any
	AfterAssociateFunc func(key Key, a Accessor, result map[any]any) map[any]any
}

// BeforeGet implements BeforeInterceptor.
func (f *FuncInterceptor) BeforeGet(key Key, a Accessor) (any, bool, error) {
	if f.BeforeGetFunc != nil {
		return f.BeforeGetFunc(key, a)
	}
	return nil, false, nil
}

// BeforeOpt implements BeforeInterceptor.
func (f *FuncInterceptor) BeforeOpt(key Key, a Accessor) (any, bool, error) {
	if f.BeforeOptFunc != nil {
		return f.BeforeOptFunc(key, a)
	}
	return nil, false, nil
}

// BeforeCollect implements BeforeInterceptor.
func (f *FuncInterceptor) BeforeCollect(key Key, a Accessor) ([]any, bool, error) {
	if f.BeforeCollectFunc != nil {
		return f.BeforeCollectFunc(key, a)
	}
	return nil, false, nil
}

// BeforeAssociate implements BeforeInterceptor.
func (f *FuncInterceptor) BeforeAssociate(key Key, a Accessor) (map[any]any, bool, error) {
	if f.BeforeAssociateFunc != nil {
		return f.BeforeAssociateFunc(key, a)
	}
	return nil, false, nil
}

// AfterGet implements AfterInterceptor.
func (f *FuncInterceptor) AfterGet(key Key, a Accessor, result any) any {
	if f.AfterGetFunc != nil {
		return f.AfterGetFunc(key, a, result)
	}
	return result
}

// AfterOpt implements AfterInterceptor.
func (f *FuncInterceptor) AfterOpt(key Key, a Accessor, result any) any {
	if f.AfterOptFunc != nil {
		return f.AfterOptFunc(key, a, result)
	}
	return result
}

// AfterCollect implements AfterInterceptor.
func (f *FuncInterceptor) AfterCollect(key Key, a Accessor, result []any) []any {
	if f.AfterCollectFunc != nil {
		return f.AfterCollectFunc(key, a, result)
	}
	return result
}

// AfterAssociate implements AfterInterceptor.
func (f *FuncInterceptor) AfterAssociate(key Key, a Accessor, result map[any]any) map[any]any {
	if f.AfterAssociateFunc != nil {
		return f.AfterAssociateFunc(key, a, result)
	}
	return result
}
