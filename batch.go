package scout

// Binding holds one factory to be registered under a key.
type Binding struct {
	Key           Key
	Factory       InstanceFactory
	AllowOverride bool
}

// Bind creates a Binding for batch registration. The key kind selects the
// registry method; AllowOverride only applies to object keys.
//
// Example:
//
//	err := scout.RegisterBindings(b,
//	    scout.Bind(scout.ObjectKeyOf[*Database](), scout.NewSingleton(openDatabase)),
//	    scout.Bind(scout.ObjectKeyOf[*Cache](), scout.NewReusable(newCache)),
//	)
func Bind(key Key, factory InstanceFactory, opts ...BindOption) Binding {
	return Binding{
		Key:           key,
		Factory:       factory,
		AllowOverride: mergeBindOptions(opts).allowOverride,
	}
}

// Register saves the binding into r.
func (b Binding) Register(r Registry) error {
	if b.Factory == nil {
		return newInvalidFactory(b.Key, "")
	}
	switch b.Key.Kind() {
	case KindObject:
		return r.SaveObject(b.Key, b.Factory, b.AllowOverride)
	case KindCollection:
		return r.SaveElement(b.Key, b.Factory)
	case KindAssociation:
		return r.SaveMapping(b.Key, b.Factory)
	default:
		return newInvalidBinding(b.Key)
	}
}

// RegisterBindings registers multiple bindings in a single call and stops at
// the first error.
func RegisterBindings(r Registry, bindings ...Binding) error {
	for _, binding := range bindings {
		if err := binding.Register(r); err != nil {
			return err
		}
	}
	return nil
}

// Bindings turns bindings into a Module.
func Bindings(bindings ...Binding) Module {
	return func(r Registry) error {
		return RegisterBindings(r, bindings...)
	}
}
