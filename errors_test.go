package scout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xraph/go-utils/errs"
)

func TestError_Messages(t *testing.T) {
	key := ObjectKeyOf[*mockService]()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "missing object factory",
			err:  newMissingObjectFactory(key, "app"),
			want: `missing factory for Object(type=*scout.mockService) in scope "app"`,
		},
		{
			name: "nullability",
			err:  newObjectNullability(key, "app"),
			want: `factory for Object(type=*scout.mockService) in scope "app" returned nil for a required object`,
		},
		{
			name: "single illegal override",
			err:  newIllegalOverrides([]Key{key}, "app"),
			want: `object factory for Object(type=*scout.mockService) already exists in scope "app" and override is not allowed`,
		},
		{
			name: "multiple illegal overrides",
			err:  newIllegalOverrides([]Key{key, ObjectKeyOf[string]()}, "app"),
			want: "multiple object factories already exist in scope \"app\" and overrides are not allowed:\n" +
				"- Object(type=*scout.mockService)\n- Object(type=string)",
		},
		{
			name: "creation failed with cause",
			err:  newCreationFailed(KindObjectCreationFailed, key, "app", errors.New("boom")),
			want: `failed creation of Object(type=*scout.mockService) in scope "app": boom`,
		},
		{
			name: "invalid factory",
			err:  newInvalidFactory(key, "app"),
			want: `factory for Object(type=*scout.mockService) in scope "app" cannot be nil`,
		},
		{
			name: "type mismatch",
			err:  newTypeMismatch(key, "*scout.mockService", 42),
			want: "Object(type=*scout.mockService) type mismatch: expected *scout.mockService, got int",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	key := ObjectKeyOf[*mockService]()
	err := newMissingObjectFactory(key, "app")

	assert.ErrorIs(t, err, ErrMissingObjectFactory)
	assert.ErrorIs(t, err, &Error{Kind: KindMissingObjectFactory, Key: key})
	assert.ErrorIs(t, err, &Error{Kind: KindMissingObjectFactory, Scope: "app"})
	assert.NotErrorIs(t, err, &Error{Kind: KindMissingObjectFactory, Key: ObjectKeyOf[string]()})
	assert.NotErrorIs(t, err, &Error{Kind: KindMissingObjectFactory, Scope: "other"})
	assert.NotErrorIs(t, err, ErrObjectNullability)
}

func TestError_UnwrapThroughFmt(t *testing.T) {
	cause := newMissingMapping(AssociationKeyOf[string, int](), "app")
	wrapped := fmt.Errorf("bootstrap: %w", newScopeInitialization("app", cause))

	assert.ErrorIs(t, wrapped, ErrScopeInitialization)
	assert.ErrorIs(t, wrapped, ErrMissingMapping)
}

func TestError_Codes(t *testing.T) {
	assert.Equal(t, CodeMissingObjectFactory, ErrMissingObjectFactory.Code())
	assert.Equal(t, CodeIllegalOverrides, KindIllegalOverrides.Code())
	assert.Equal(t, CodeAlreadyInitialized, ErrAlreadyInitialized.Code())
	assert.Equal(t, "UNKNOWN", ErrorKind(0).Code())
}

func TestError_Structured(t *testing.T) {
	boom := errors.New("boom")
	err := newCreationFailed(KindObjectCreationFailed, ObjectKeyOf[*mockService](), "app", boom)

	structured := err.Structured()
	assert.Equal(t, CodeObjectCreationFailed, structured.Code)
	assert.ErrorIs(t, structured, boom)

	var coded *errs.Error
	require.ErrorAs(t, fmt.Errorf("bootstrap: %w", err), &coded)
	assert.Equal(t, CodeObjectCreationFailed, coded.Code)

	assert.ErrorIs(t, err, &errs.Error{Code: CodeObjectCreationFailed})
	assert.NotErrorIs(t, err, ErrInvalidParent)
}

func TestError_CodedSentinels(t *testing.T) {
	assert.ErrorIs(t, newInvalidParent("app"), ErrInvalidParent)
	assert.ErrorIs(t, newInvalidBinding(Key{}), ErrInvalidBinding)
	assert.ErrorIs(t, newInvalidConfig("thread_safety", errors.New("bad")), ErrInvalidConfig)
	assert.NotErrorIs(t, newInvalidParent("app"), ErrInvalidConfig)
	assert.Contains(t, newInvalidParent("app").Error(), `scope "app"`)
}
