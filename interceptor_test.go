package scout

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixedInterceptor struct {
	value any
}

func (f *fixedInterceptor) BeforeGet(Key, Accessor) (any, bool, error) { return f.value, true, nil }
func (f *fixedInterceptor) BeforeOpt(Key, Accessor) (any, bool, error) { return f.value, true, nil }
func (f *fixedInterceptor) BeforeCollect(Key, Accessor) ([]any, bool, error) {
	return nil, false, nil
}
func (f *fixedInterceptor) BeforeAssociate(Key, Accessor) (map[any]any, bool, error) {
	return nil, false, nil
}

type recordingLazyInterceptor struct {
	calls []string
}

func (r *recordingLazyInterceptor) AfterGetLazy(key Key, _ Accessor, result *Lazy[any]) *Lazy[any] {
	r.calls = append(r.calls, "get:"+key.String())
	return result
}

func (r *recordingLazyInterceptor) AfterOptLazy(key Key, _ Accessor, result *Lazy[any]) *Lazy[any] {
	r.calls = append(r.calls, "opt:"+key.String())
	return result
}

func (r *recordingLazyInterceptor) AfterCollectLazy(key Key, _ Accessor, result *Lazy[[]any]) *Lazy[[]any] {
	r.calls = append(r.calls, "collect:"+key.String())
	return result
}

func (r *recordingLazyInterceptor) AfterAssociateLazy(key Key, _ Accessor, result *Lazy[map[any]any]) *Lazy[map[any]any] {
	r.calls = append(r.calls, "associate:"+key.String())
	return result
}

func interceptedScope(t *testing.T, calls *atomic.Int32, opts ...ConfigOption) (*Scope, *Config) {
	t.Helper()

	cfg := NewConfig(opts...)
	s := mustScope(t, "intercepted", func(b Builder) error {
		return Factory(b, func(Accessor) (string, error) {
			calls.Add(1)
			return "real", nil
		})
	}, WithConfig(cfg))

	return s, cfg
}

func TestInterceptor_ShortCircuit(t *testing.T) {
	var calls atomic.Int32
	s, cfg := interceptedScope(t, &calls)
	require.NoError(t, cfg.Interceptors().Register(&fixedInterceptor{value: "fake"}))

	value, err := Get[string](s.Accessor())
	require.NoError(t, err)
	assert.Equal(t, "fake", value)
	assert.Equal(t, int32(0), calls.Load())

	value, err = Get[string](DirectAccessor(s))
	require.NoError(t, err)
	assert.Equal(t, "real", value)
	assert.Equal(t, int32(1), calls.Load())
}

func TestInterceptor_LastBeforeWins(t *testing.T) {
	var calls atomic.Int32
	s, cfg := interceptedScope(t, &calls)
	require.NoError(t, cfg.Interceptors().Register(&fixedInterceptor{value: "first"}))
	require.NoError(t, cfg.Interceptors().Register(&FuncInterceptor{}))
	require.NoError(t, cfg.Interceptors().Register(&fixedInterceptor{value: "second"}))

	value, err := Get[string](s.Accessor())
	require.NoError(t, err)
	assert.Equal(t, "second", value)
	assert.Equal(t, int32(0), calls.Load())
}

func TestInterceptor_AfterChain(t *testing.T) {
	var calls atomic.Int32
	s, cfg := interceptedScope(t, &calls)

	appendSuffix := func(suffix string) *FuncInterceptor {
		return &FuncInterceptor{
			AfterGetFunc: func(_ Key, _ Accessor, result any) any {
				return result.(string) + suffix
			},
		}
	}
	require.NoError(t, cfg.Interceptors().Register(appendSuffix("-a")))
	require.NoError(t, cfg.Interceptors().Register(appendSuffix("-b")))

	value, err := Get[string](s.Accessor())
	require.NoError(t, err)
	assert.Equal(t, "real-a-b", value)
	assert.Equal(t, int32(1), calls.Load())
}

func TestInterceptor_ErrorsSkipAfterHooks(t *testing.T) {
	cfg := NewConfig()
	s := mustScope(t, "empty", func(Builder) error { return nil }, WithConfig(cfg))

	afterCalled := false
	require.NoError(t, cfg.Interceptors().Register(&FuncInterceptor{
		AfterGetFunc: func(_ Key, _ Accessor, result any) any {
			afterCalled = true
			return result
		},
	}))

	_, err := Get[string](s.Accessor())
	assert.ErrorIs(t, err, ErrMissingObjectFactory)
	assert.False(t, afterCalled)
}

func TestInterceptor_HooksReceiveDirectAccessor(t *testing.T) {
	var calls atomic.Int32
	s, cfg := interceptedScope(t, &calls)

	require.NoError(t, cfg.Interceptors().Register(&FuncInterceptor{
		BeforeGetFunc: func(key Key, a Accessor) (any, bool, error) {
			_, direct := a.(*directAccessor)
			assert.True(t, direct)
			value, err := a.Get(key)
			if err != nil {
				return nil, false, err
			}
			return value.(string) + "-wrapped", true, nil
		},
	}))

	value, err := Get[string](s.Accessor())
	require.NoError(t, err)
	assert.Equal(t, "real-wrapped", value)
}

func TestInterceptor_LazyShape(t *testing.T) {
	var calls atomic.Int32
	s, cfg := interceptedScope(t, &calls)
	recorder := &recordingLazyInterceptor{}
	require.NoError(t, cfg.Interceptors().Register(recorder))

	lazy := GetLazy[string](s.Accessor())
	assert.Equal(t, []string{"get:Object(type=string)"}, recorder.calls)
	assert.Equal(t, int32(0), calls.Load())

	value, err := lazy.Get()
	require.NoError(t, err)
	assert.Equal(t, "real", value)
	assert.Equal(t, int32(1), calls.Load())

	_, err = Collect[plugin](s.Accessor(), false)
	require.NoError(t, err)
	assert.Len(t, recorder.calls, 1)
}

func TestInterceptor_UnregisterAndClear(t *testing.T) {
	var calls atomic.Int32
	s, cfg := interceptedScope(t, &calls)
	fixed := &fixedInterceptor{value: "fake"}

	require.NoError(t, cfg.Interceptors().Register(fixed))
	assert.True(t, cfg.Interceptors().Enabled())

	cfg.Interceptors().Unregister(fixed)
	assert.False(t, cfg.Interceptors().Enabled())

	value, err := Get[string](s.Accessor())
	require.NoError(t, err)
	assert.Equal(t, "real", value)

	require.NoError(t, cfg.Interceptors().Register(fixed))
	cfg.Interceptors().Clear()
	assert.False(t, cfg.Interceptors().Enabled())
}

func TestInterceptor_Unrecognized(t *testing.T) {
	registry := NewInterceptors()

	err := registry.Register(struct{ name string }{name: "nothing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrecognizedInterceptor)
	assert.Contains(t, err.Error(), "struct { name string }")
	assert.False(t, registry.Enabled())
}

func TestInterceptor_DisabledConfigUsesDirectAccessor(t *testing.T) {
	var calls atomic.Int32
	s, cfg := interceptedScope(t, &calls, WithoutInterceptors())
	require.NoError(t, cfg.Interceptors().Register(&fixedInterceptor{value: "fake"}))

	_, direct := s.Accessor().(*directAccessor)
	assert.True(t, direct)

	value, err := Get[string](s.Accessor())
	require.NoError(t, err)
	assert.Equal(t, "real", value)
}

func TestInterceptor_RegisteredIntoEveryImplementedList(t *testing.T) {
	registry := NewInterceptors()
	replacer := NewReplacer()
	require.NoError(t, registry.Register(replacer))

	assert.Len(t, registry.snapshotRegular().before, 1)
	assert.Len(t, registry.snapshotLazy().before, 1)
	assert.Len(t, registry.snapshotProvider().before, 1)
	assert.Empty(t, registry.snapshotRegular().after)
}

func TestInterceptor_BeforeErrorEndsResolution(t *testing.T) {
	var calls atomic.Int32
	s, cfg := interceptedScope(t, &calls)

	denied := errors.New("denied")
	afterCalled := false
	require.NoError(t, cfg.Interceptors().Register(&FuncInterceptor{
		BeforeGetFunc: func(Key, Accessor) (any, bool, error) { return nil, false, denied },
		AfterGetFunc: func(_ Key, _ Accessor, result any) any {
			afterCalled = true
			return result
		},
	}))

	_, err := Get[string](s.Accessor())
	assert.ErrorIs(t, err, denied)
	assert.False(t, afterCalled)
	assert.Equal(t, int32(0), calls.Load())
}

func TestInterceptor_RegisterWarnsAboutPerformance(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := NewConfig(WithLogger(zap.New(core)))

	require.NoError(t, cfg.Interceptors().Register(&fixedInterceptor{value: "fake"}))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "performance may be dramatically reduced")
	assert.Equal(t, "*scout.fixedInterceptor", entries[0].ContextMap()["interceptor"])

	assert.Error(t, cfg.Interceptors().Register(struct{}{}))
	assert.Len(t, logs.All(), 1)
}
