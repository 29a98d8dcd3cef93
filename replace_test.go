package scout

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacer_ReplacesBoundObject(t *testing.T) {
	var calls atomic.Int32
	s, cfg := interceptedScope(t, &calls)

	replacer := NewReplacer()
	Replace(replacer, func(Accessor) (string, error) { return "stub", nil })
	require.NoError(t, cfg.Interceptors().Register(replacer))

	value, err := Get[string](s.Accessor())
	require.NoError(t, err)
	assert.Equal(t, "stub", value)

	lazy := GetLazy[string](s.Accessor())
	assert.Equal(t, "stub", lazy.MustGet())

	provider := OptProvider[string](s.Accessor())
	assert.Equal(t, "stub", provider.MustGet())

	assert.Equal(t, int32(0), calls.Load())
}

func TestReplacer_DoesNotInventBindings(t *testing.T) {
	cfg := NewConfig()
	s := mustScope(t, "empty", func(Builder) error { return nil }, WithConfig(cfg))

	replacer := NewReplacer()
	Replace(replacer, func(Accessor) (string, error) { return "stub", nil })
	require.NoError(t, cfg.Interceptors().Register(replacer))

	_, err := Get[string](s.Accessor())
	assert.ErrorIs(t, err, ErrMissingObjectFactory)
}

func TestReplacer_Singleton(t *testing.T) {
	cfg := NewConfig()
	s := mustScope(t, "s", func(b Builder) error {
		return Factory(b, serviceNamed("real"))
	}, WithConfig(cfg))

	replacer := NewReplacer()
	ReplaceSingleton(replacer, serviceNamed("stub"))
	require.NoError(t, cfg.Interceptors().Register(replacer))

	first := Must[*mockService](s.Accessor())
	second := Must[*mockService](s.Accessor())
	assert.Equal(t, "stub", first.name)
	assert.Same(t, first, second)

	cfg.Interceptors().Unregister(replacer)
	assert.Equal(t, "real", Must[*mockService](s.Accessor()).name)
}

func TestReplacer_IgnoresCollections(t *testing.T) {
	cfg := NewConfig()
	s := mustScope(t, "s", func(b Builder) error {
		return Element(b, func(Accessor) (plugin, error) { return "real", nil })
	}, WithConfig(cfg))

	replacer := NewReplacer()
	ReplaceReusable(replacer, func(Accessor) (plugin, error) { return "stub", nil })
	require.NoError(t, cfg.Interceptors().Register(replacer))

	plugins, err := Collect[plugin](s.Accessor(), true)
	require.NoError(t, err)
	assert.Equal(t, []plugin{"real"}, plugins)
}

func TestReplacer_StubErrorPropagates(t *testing.T) {
	var calls atomic.Int32
	s, cfg := interceptedScope(t, &calls)

	boom := errors.New("stub boom")
	replacer := NewReplacer()
	Replace(replacer, func(Accessor) (string, error) { return "", boom })
	require.NoError(t, cfg.Interceptors().Register(replacer))

	value, err := Get[string](s.Accessor())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, value)

	_, _, err = Opt[string](s.Accessor())
	assert.ErrorIs(t, err, boom)

	_, err = GetLazy[string](s.Accessor()).Get()
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, int32(0), calls.Load())
}
