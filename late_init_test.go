package scout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLateInitScope_ValueBeforeInit(t *testing.T) {
	holder := NewLateInitScope("app", false)

	_, err := holder.Value()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Contains(t, err.Error(), `late init scope "app" was not initialized`)
	assert.False(t, holder.IsInitialized())
}

func TestLateInitScope_Init(t *testing.T) {
	holder := NewLateInitScope("app", false)

	require.NoError(t, holder.Init(func(b Builder) error {
		return Singleton(b, serviceNamed("app"))
	}))
	assert.True(t, holder.IsInitialized())

	s, err := holder.Value()
	require.NoError(t, err)
	assert.Equal(t, "app", s.Name())
	assert.Equal(t, "app", Must[*mockService](s.Accessor()).name)
}

func TestLateInitScope_SecondInit(t *testing.T) {
	holder := NewLateInitScope("app", false)
	require.NoError(t, holder.Init(func(Builder) error { return nil }))
	first, _ := holder.Value()

	err := holder.Init(func(Builder) error { return nil })
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	holder.SetOverwriteAllowed(true)
	require.NoError(t, holder.Init(func(Builder) error { return nil }))

	second, err := holder.Value()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestLateInitScope_FailedInitKeepsState(t *testing.T) {
	holder := NewLateInitScope("app", true)
	boom := errors.New("boom")

	err := holder.Init(func(Builder) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, holder.IsInitialized())
}
