package scout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface {
	Greet() string
}

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

func TestGet_Interface(t *testing.T) {
	s := mustScope(t, "s", func(b Builder) error {
		return Singleton(b, func(Accessor) (greeter, error) {
			return englishGreeter{}, nil
		})
	})

	g, err := Get[greeter](s.Accessor())
	require.NoError(t, err)
	assert.Equal(t, "hello", g.Greet())
}

func TestGet_TypeMismatch(t *testing.T) {
	s := mustScope(t, "s", func(b Builder) error {
		return b.SaveObject(ObjectKeyOf[string](), NewFactory(func(Accessor) (any, error) {
			return 42, nil
		}), false)
	})

	_, err := Get[string](s.Accessor())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "expected string, got int")
}

func TestMust(t *testing.T) {
	s := mustScope(t, "s", func(b Builder) error {
		return Factory(b, serviceNamed("must"))
	})

	assert.Equal(t, "must", Must[*mockService](s.Accessor()).name)
	assert.Panics(t, func() {
		Must[string](s.Accessor())
	})
}

func TestOptProvider(t *testing.T) {
	s := mustScope(t, "s", func(b Builder) error {
		return Factory(b, serviceNamed("opt"))
	})

	svc, err := OptProvider[*mockService](s.Accessor()).Get()
	require.NoError(t, err)
	assert.Equal(t, "opt", svc.name)

	missing, err := OptProvider[string](s.Accessor()).Get()
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestCollect_Shapes(t *testing.T) {
	calls := 0
	s := mustScope(t, "s", func(b Builder) error {
		return Element(b, func(Accessor) (plugin, error) {
			calls++
			return "auth", nil
		})
	})

	lazy := CollectLazy[plugin](s.Accessor(), true)
	assert.Equal(t, 0, calls)
	assert.Equal(t, []plugin{"auth"}, lazy.MustGet())
	assert.Equal(t, []plugin{"auth"}, lazy.MustGet())
	assert.Equal(t, 1, calls)

	provider := CollectProvider[plugin](s.Accessor(), true)
	provider.MustGet()
	provider.MustGet()
	assert.Equal(t, 3, calls)

	_, err := CollectProvider[route](s.Accessor(), true).Get()
	assert.ErrorIs(t, err, ErrMissingCollectionElements)
}

func TestCollect_NilElementsBecomeZero(t *testing.T) {
	s := mustScope(t, "s", func(b Builder) error {
		if err := Element(b, func(Accessor) (*mockService, error) { return nil, nil }); err != nil {
			return err
		}
		return Element(b, serviceNamed("second"))
	})

	services, err := Collect[*mockService](s.Accessor(), true)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Nil(t, services[0])
	assert.Equal(t, "second", services[1].name)
}

func TestAssociate_Shapes(t *testing.T) {
	calls := 0
	s := mustScope(t, "s", func(b Builder) error {
		return Mapping(b, func(Accessor) (string, route, error) {
			calls++
			return "home", "/", nil
		})
	})

	lazy := AssociateLazy[string, route](s.Accessor(), true)
	assert.Equal(t, 0, calls)
	assert.Equal(t, map[string]route{"home": "/"}, lazy.MustGet())
	lazy.MustGet()
	assert.Equal(t, 1, calls)

	provider := AssociateProvider[string, route](s.Accessor(), true)
	provider.MustGet()
	provider.MustGet()
	assert.Equal(t, 3, calls)
}

func TestAssociate_NonPairMapping(t *testing.T) {
	s := mustScope(t, "s", func(b Builder) error {
		return b.SaveMapping(AssociationKeyOf[string, route](), NewFactory(func(Accessor) (any, error) {
			return "not a pair", nil
		}))
	})

	_, err := Associate[string, route](s.Accessor(), false)
	assert.ErrorIs(t, err, ErrMappingCreationFailed)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestComplexDependencies(t *testing.T) {
	type config struct{ dsn string }
	type database struct{ cfg *config }
	type repository struct{ db *database }

	core := mustScope(t, "core", func(b Builder) error {
		if err := Singleton(b, func(Accessor) (*config, error) {
			return &config{dsn: "postgres://localhost"}, nil
		}); err != nil {
			return err
		}
		return Singleton(b, func(a Accessor) (*database, error) {
			cfg, err := Get[*config](a)
			if err != nil {
				return nil, err
			}
			return &database{cfg: cfg}, nil
		})
	})

	feature := mustScope(t, "feature", func(b Builder) error {
		if err := b.DependsOn(core); err != nil {
			return err
		}
		return Factory(b, func(a Accessor) (*repository, error) {
			db, err := Get[*database](a)
			if err != nil {
				return nil, err
			}
			return &repository{db: db}, nil
		})
	})

	repo, err := Get[*repository](feature.Accessor())
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost", repo.db.cfg.dsn)

	db, err := Get[*database](core.Accessor())
	require.NoError(t, err)
	assert.Same(t, db, repo.db)
}
