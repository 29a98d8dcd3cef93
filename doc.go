// Package scout is a hierarchical dependency container.
//
// A Scope holds factories keyed by Key and references to parent scopes.
// Three binding shapes exist:
//
//   - Object: one value per type. The nearest definition wins; among
//     parents the one declared last takes priority.
//   - Collection: every element contributed anywhere in the tree, ancestors
//     first.
//   - Association: a map folded from every contributed entry; the nearest
//     entry for a map key wins.
//
// Scopes are built through a Builder and are immutable afterwards:
//
//	core, err := scout.NewScope("core", func(b scout.Builder) error {
//	    return scout.Singleton(b, func(a scout.Accessor) (*Database, error) {
//	        return OpenDatabase()
//	    })
//	})
//
//	app, err := scout.NewScope("app", func(b scout.Builder) error {
//	    if err := b.DependsOn(core); err != nil {
//	        return err
//	    }
//	    return scout.Factory(b, func(a scout.Accessor) (*Service, error) {
//	        db, err := scout.Get[*Database](a)
//	        if err != nil {
//	            return nil, err
//	        }
//	        return &Service{db: db}, nil
//	    })
//	})
//
//	svc, err := scout.Get[*Service](app.Accessor())
//
// Factories come in three strategies: Factory creates a value on every
// resolution, Singleton caches the first value, Reusable caches the last
// value until the garbage collector reclaims it.
//
// Interceptors registered on a Config observe or replace resolutions before
// and after they reach the scope. See Interceptors and Replacer.
package scout
