package scout

import (
	"fmt"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeMissingObjectFactory indicates a required object has no factory in the scope tree
	CodeMissingObjectFactory = "MISSING_OBJECT_FACTORY"

	// CodeObjectNullability indicates a factory produced nil for a required object
	CodeObjectNullability = "OBJECT_NULLABILITY"

	// CodeMissingCollectionElements indicates a non-empty collection has no elements
	CodeMissingCollectionElements = "MISSING_COLLECTION_ELEMENTS"

	// CodeMissingMapping indicates a non-empty association has no mappings
	CodeMissingMapping = "MISSING_MAPPING"

	// CodeIllegalOverrides indicates object keys were rebound without permission
	CodeIllegalOverrides = "ILLEGAL_OVERRIDES"

	// CodeScopeInitialization indicates a scope could not be built
	CodeScopeInitialization = "SCOPE_INITIALIZATION"

	// CodeObjectCreationFailed indicates an object factory returned an error
	CodeObjectCreationFailed = "OBJECT_CREATION_FAILED"

	// CodeElementCreationFailed indicates a collection element factory returned an error
	CodeElementCreationFailed = "ELEMENT_CREATION_FAILED"

	// CodeMappingCreationFailed indicates a mapping factory returned an error
	CodeMappingCreationFailed = "MAPPING_CREATION_FAILED"

	// CodeUnrecognizedInterceptor indicates an interceptor implements no hook interface
	CodeUnrecognizedInterceptor = "UNRECOGNIZED_INTERCEPTOR"

	// CodeBuilderSealed indicates a builder was used after Build
	CodeBuilderSealed = "BUILDER_SEALED"

	// CodeThreadConfinement indicates a confined builder was used from another goroutine
	CodeThreadConfinement = "THREAD_CONFINEMENT"

	// CodeTypeMismatch indicates a resolved value is not of the requested type
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeNotInitialized indicates a late init scope was read before Init
	CodeNotInitialized = "NOT_INITIALIZED"

	// CodeAlreadyInitialized indicates a late init scope was initialized twice
	CodeAlreadyInitialized = "ALREADY_INITIALIZED"

	// CodeInvalidFactory indicates a nil factory or definition was registered
	CodeInvalidFactory = "INVALID_FACTORY"

	// CodeInvalidParent indicates a nil parent scope was declared
	CodeInvalidParent = "INVALID_PARENT"

	// CodeInvalidBinding indicates a binding carries an unusable key
	CodeInvalidBinding = "INVALID_BINDING"

	// CodeInvalidConfig indicates a configuration value could not be applied
	CodeInvalidConfig = "INVALID_CONFIG"
)

// ErrorKind tags the variant carried by an Error.
type ErrorKind uint8

const (
	KindMissingObjectFactory ErrorKind = iota + 1
	KindObjectNullability
	KindMissingCollectionElements
	KindMissingMapping
	KindIllegalOverrides
	KindScopeInitialization
	KindObjectCreationFailed
	KindElementCreationFailed
	KindMappingCreationFailed
	KindUnrecognizedInterceptor
	KindBuilderSealed
	KindThreadConfinement
	KindTypeMismatch
	KindNotInitialized
	KindAlreadyInitialized
	KindInvalidFactory
)

var kindCodes = map[ErrorKind]string{
	KindMissingObjectFactory:      CodeMissingObjectFactory,
	KindObjectNullability:         CodeObjectNullability,
	KindMissingCollectionElements: CodeMissingCollectionElements,
	KindMissingMapping:            CodeMissingMapping,
	KindIllegalOverrides:          CodeIllegalOverrides,
	KindScopeInitialization:       CodeScopeInitialization,
	KindObjectCreationFailed:      CodeObjectCreationFailed,
	KindElementCreationFailed:     CodeElementCreationFailed,
	KindMappingCreationFailed:     CodeMappingCreationFailed,
	KindUnrecognizedInterceptor:   CodeUnrecognizedInterceptor,
	KindBuilderSealed:             CodeBuilderSealed,
	KindThreadConfinement:         CodeThreadConfinement,
	KindTypeMismatch:              CodeTypeMismatch,
	KindNotInitialized:            CodeNotInitialized,
	KindAlreadyInitialized:        CodeAlreadyInitialized,
	KindInvalidFactory:            CodeInvalidFactory,
}

// Code returns the stable error code of the kind.
func (k ErrorKind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return "UNKNOWN"
}

// Error is the single error type raised by the container. Kind selects the
// variant; the remaining fields are filled according to it.
type Error struct {
	Kind ErrorKind

	// Key is the offending key for resolution errors.
	Key Key

	// Keys lists every illegally overridden key.
	Keys []Key

	// Scope is the name of the scope that raised the error.
	Scope string

	// Detail carries free-form context (interceptor type, goroutine ids, ...).
	Detail string

	// Cause is the wrapped underlying error, if any.
	Cause error
}

// Code returns the stable error code.
func (e *Error) Code() string {
	return e.Kind.Code()
}

func (e *Error) Error() string {
	msg := e.message()
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) message() string {
	scope := formatIdentity(e.Scope)
	switch e.Kind {
	case KindMissingObjectFactory:
		return fmt.Sprintf("missing factory for %s in %s", e.Key, scope)
	case KindObjectNullability:
		return fmt.Sprintf("factory for %s in %s returned nil for a required object", e.Key, scope)
	case KindMissingCollectionElements:
		return fmt.Sprintf("missing elements for %s in %s", e.Key, scope)
	case KindMissingMapping:
		return fmt.Sprintf("missing mappings for %s in %s", e.Key, scope)
	case KindIllegalOverrides:
		if len(e.Keys) == 1 {
			return fmt.Sprintf("object factory for %s already exists in %s and override is not allowed", e.Keys[0], scope)
		}
		parts := make([]string, len(e.Keys))
		for i, key := range e.Keys {
			parts[i] = "- " + key.String()
		}
		return fmt.Sprintf("multiple object factories already exist in %s and overrides are not allowed:\n%s",
			scope, strings.Join(parts, "\n"))
	case KindScopeInitialization:
		return fmt.Sprintf("initialization of %s failed", scope)
	case KindObjectCreationFailed:
		return fmt.Sprintf("failed creation of %s in %s", e.Key, scope)
	case KindElementCreationFailed:
		return fmt.Sprintf("failed element creation of %s in %s", e.Key, scope)
	case KindMappingCreationFailed:
		return fmt.Sprintf("failed mapping creation of %s in %s", e.Key, scope)
	case KindUnrecognizedInterceptor:
		return fmt.Sprintf("interceptor registration failed: %s implements none of the interceptor interfaces", e.Detail)
	case KindBuilderSealed:
		return fmt.Sprintf("builder of %s is already built", scope)
	case KindThreadConfinement:
		return fmt.Sprintf("builder of %s is confined to another goroutine: %s", scope, e.Detail)
	case KindTypeMismatch:
		return fmt.Sprintf("%s type mismatch: %s", e.Key, e.Detail)
	case KindNotInitialized:
		return fmt.Sprintf("late init %s was not initialized", scope)
	case KindAlreadyInitialized:
		return fmt.Sprintf("late init %s is already initialized", scope)
	case KindInvalidFactory:
		return fmt.Sprintf("factory for %s in %s cannot be nil", e.Key, scope)
	default:
		return "scout error"
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Structured returns e as a coded errs.Error carrying the same message and
// cause.
func (e *Error) Structured() *errs.Error {
	return errs.NewError(e.Code(), e.message(), e.Cause)
}

// As lets errors.As extract the coded errs.Error form.
func (e *Error) As(target any) bool {
	if t, ok := target.(**errs.Error); ok {
		*t = e.Structured()
		return true
	}
	return false
}

// Is matches errors of the same kind. A target carrying a non-zero key or a
// scope name must match those too. A coded errs.Error target matches by code.
func (e *Error) Is(target error) bool {
	if coded, ok := target.(*errs.Error); ok {
		return coded.Code == e.Code()
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if !t.Key.IsZero() && t.Key != e.Key {
		return false
	}
	return t.Scope == "" || t.Scope == e.Scope
}

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	ErrMissingObjectFactory      = &Error{Kind: KindMissingObjectFactory}
	ErrObjectNullability         = &Error{Kind: KindObjectNullability}
	ErrMissingCollectionElements = &Error{Kind: KindMissingCollectionElements}
	ErrMissingMapping            = &Error{Kind: KindMissingMapping}
	ErrIllegalOverrides          = &Error{Kind: KindIllegalOverrides}
	ErrScopeInitialization       = &Error{Kind: KindScopeInitialization}
	ErrObjectCreationFailed      = &Error{Kind: KindObjectCreationFailed}
	ErrElementCreationFailed     = &Error{Kind: KindElementCreationFailed}
	ErrMappingCreationFailed     = &Error{Kind: KindMappingCreationFailed}
	ErrUnrecognizedInterceptor   = &Error{Kind: KindUnrecognizedInterceptor}
	ErrBuilderSealed             = &Error{Kind: KindBuilderSealed}
	ErrThreadConfinement         = &Error{Kind: KindThreadConfinement}
	ErrTypeMismatch              = &Error{Kind: KindTypeMismatch}
	ErrNotInitialized            = &Error{Kind: KindNotInitialized}
	ErrAlreadyInitialized        = &Error{Kind: KindAlreadyInitialized}
	ErrInvalidFactory            = &Error{Kind: KindInvalidFactory}
)

// ErrInvalidParent is returned when a nil parent scope is declared.
var ErrInvalidParent = errs.NewError(CodeInvalidParent, "parent scope cannot be nil", nil)

// ErrInvalidBinding is returned when a binding key has no usable kind.
var ErrInvalidBinding = errs.NewError(CodeInvalidBinding, "invalid binding", nil)

// ErrInvalidConfig is returned when a configuration value cannot be applied.
var ErrInvalidConfig = errs.NewError(CodeInvalidConfig, "invalid configuration", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

func newMissingObjectFactory(key Key, scope string) *Error {
	return &Error{Kind: KindMissingObjectFactory, Key: key, Scope: scope}
}

func newObjectNullability(key Key, scope string) *Error {
	return &Error{Kind: KindObjectNullability, Key: key, Scope: scope}
}

func newMissingCollectionElements(key Key, scope string) *Error {
	return &Error{Kind: KindMissingCollectionElements, Key: key, Scope: scope}
}

func newMissingMapping(key Key, scope string) *Error {
	return &Error{Kind: KindMissingMapping, Key: key, Scope: scope}
}

func newIllegalOverrides(keys []Key, scope string) *Error {
	return &Error{Kind: KindIllegalOverrides, Keys: keys, Scope: scope}
}

func newScopeInitialization(scope string, cause error) *Error {
	return &Error{Kind: KindScopeInitialization, Scope: scope, Cause: cause}
}

func newCreationFailed(kind ErrorKind, key Key, scope string, cause error) *Error {
	return &Error{Kind: kind, Key: key, Scope: scope, Cause: cause}
}

func newInvalidFactory(key Key, scope string) *Error {
	return &Error{Kind: KindInvalidFactory, Key: key, Scope: scope}
}

func newInvalidParent(scope string) *errs.Error {
	return errs.NewError(
		CodeInvalidParent,
		fmt.Sprintf("parent of %s cannot be nil", formatIdentity(scope)),
		nil,
	)
}

func newInvalidBinding(key Key) *errs.Error {
	return errs.NewError(CodeInvalidBinding, fmt.Sprintf("binding %s has an invalid key", key), nil)
}

func newInvalidConfig(configKey string, cause error) *errs.Error {
	return errs.NewError(CodeInvalidConfig, "invalid configuration for key '"+configKey+"'", cause)
}

func newTypeMismatch(key Key, want string, got any) *Error {
	return &Error{
		Kind:   KindTypeMismatch,
		Key:    key,
		Detail: fmt.Sprintf("expected %s, got %T", want, got),
	}
}

func formatIdentity(name string) string {
	return fmt.Sprintf("scope %q", name)
}
