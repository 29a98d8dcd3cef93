// Package diag turns container errors into a closed set of diagnostic
// categories suitable for reporting.
package diag

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/xraph/go-utils/errs"

	"github.com/xraph/scout"
)

// Category is the user-facing class of a failure.
type Category string

const (
	ScopeInitialization        Category = "ScopeInitializationError"
	MissingObjectFactory       Category = "MissingObjectFactoryError"
	WrongAccessorMethod        Category = "WrongAccessorMethodError"
	MissingCollectionElements  Category = "MissingCollectionElementsError"
	MissingAssociationMappings Category = "MissingAssociationMappingsError"
	IllegalDefinitionOverrides Category = "IllegalDefinitionOverridesError"
	DefinitionNullability      Category = "DefinitionNullabilityError"
	FailedObjectCreation       Category = "FailedObjectCreationError"
	FailedElementCreation      Category = "FailedElementCreationError"
	FailedMappingCreation      Category = "FailedMappingCreationError"
	Unchecked                  Category = "UncheckedError"
)

// Error codes for Report.Structured.
const (
	CodeScopeInitialization        = "SCOUT_SCOPE_INITIALIZATION"
	CodeMissingObjectFactory       = "SCOUT_MISSING_OBJECT_FACTORY"
	CodeWrongAccessorMethod        = "SCOUT_WRONG_ACCESSOR_METHOD"
	CodeMissingCollectionElements  = "SCOUT_MISSING_COLLECTION_ELEMENTS"
	CodeMissingAssociationMappings = "SCOUT_MISSING_ASSOCIATION_MAPPINGS"
	CodeIllegalDefinitionOverrides = "SCOUT_ILLEGAL_DEFINITION_OVERRIDES"
	CodeDefinitionNullability      = "SCOUT_DEFINITION_NULLABILITY"
	CodeFailedObjectCreation       = "SCOUT_FAILED_OBJECT_CREATION"
	CodeFailedElementCreation      = "SCOUT_FAILED_ELEMENT_CREATION"
	CodeFailedMappingCreation      = "SCOUT_FAILED_MAPPING_CREATION"
	CodeUnchecked                  = "SCOUT_UNCHECKED"
)

var categoryCodes = map[Category]string{
	ScopeInitialization:        CodeScopeInitialization,
	MissingObjectFactory:       CodeMissingObjectFactory,
	WrongAccessorMethod:        CodeWrongAccessorMethod,
	MissingCollectionElements:  CodeMissingCollectionElements,
	MissingAssociationMappings: CodeMissingAssociationMappings,
	IllegalDefinitionOverrides: CodeIllegalDefinitionOverrides,
	DefinitionNullability:      CodeDefinitionNullability,
	FailedObjectCreation:       CodeFailedObjectCreation,
	FailedElementCreation:      CodeFailedElementCreation,
	FailedMappingCreation:      CodeFailedMappingCreation,
	Unchecked:                  CodeUnchecked,
}

// Report is the formatted form of one error.
type Report struct {
	Category Category

	// ID identifies the failure for grouping, e.g.
	// "MissingObjectFactoryError#type(Object(type=*app.DB))".
	ID string

	Message string

	// Scope is the scope name when the error carries one.
	Scope string

	// Keys lists the offending keys.
	Keys []scout.Key

	// Cause is the report of the wrapped failure for creation errors.
	Cause *Report

	// Err is the formatted error.
	Err error
}

// Code returns the stable error code of the report category.
func (r *Report) Code() string {
	return categoryCodes[r.Category]
}

// Chain returns the report followed by its nested causes.
func (r *Report) Chain() []*Report {
	var chain []*Report
	for current := r; current != nil; current = current.Cause {
		chain = append(chain, current)
	}
	return chain
}

// Root returns the innermost report.
func (r *Report) Root() *Report {
	chain := r.Chain()
	return chain[len(chain)-1]
}

// String renders the report with one line per nested cause.
func (r *Report) String() string {
	var b strings.Builder
	for depth, report := range r.Chain() {
		if depth > 0 {
			b.WriteString("\n")
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString("caused by: ")
		}
		fmt.Fprintf(&b, "[%s] %s", report.Category, report.Message)
	}
	return b.String()
}

// Structured converts the report into a coded error. Nested reports become
// the cause chain.
func (r *Report) Structured() *errs.Error {
	var cause error = r.Err
	if r.Cause != nil {
		cause = r.Cause.Structured()
	}
	return errs.NewError(r.Code(), r.Message, cause)
}

// Format maps err into its diagnostic category. A nil err yields nil.
func Format(err error) *Report {
	if err == nil {
		return nil
	}

	var scoutErr *scout.Error
	if !errors.As(err, &scoutErr) {
		return unchecked(err)
	}

	switch scoutErr.Kind {
	case scout.KindScopeInitialization:
		report := &Report{
			Category: ScopeInitialization,
			ID:       fmt.Sprintf("%s#scope(%s)", ScopeInitialization, scoutErr.Scope),
			Message:  fmt.Sprintf("Failed initialization of scope %q", scoutErr.Scope),
			Scope:    scoutErr.Scope,
			Err:      err,
		}
		if scoutErr.Cause != nil {
			report.Cause = Format(scoutErr.Cause)
		}
		return report

	case scout.KindMissingObjectFactory:
		if name, ok := wrongAccessorTarget(scoutErr.Key); ok {
			return &Report{
				Category: WrongAccessorMethod,
				ID:       fmt.Sprintf("%s#type(%s)", WrongAccessorMethod, scoutErr.Key),
				Message:  fmt.Sprintf("Wrong access method for %q instance", name),
				Scope:    scoutErr.Scope,
				Keys:     []scout.Key{scoutErr.Key},
				Err:      err,
			}
		}
		return keyed(MissingObjectFactory, "type", "Missing factory for", scoutErr, err)

	case scout.KindMissingCollectionElements:
		return keyed(MissingCollectionElements, "items", "Missing elements for", scoutErr, err)

	case scout.KindMissingMapping:
		return keyed(MissingAssociationMappings, "mappings", "Missing mappings for", scoutErr, err)

	case scout.KindIllegalOverrides:
		names := make([]string, len(scoutErr.Keys))
		for i, key := range scoutErr.Keys {
			names[i] = key.String()
		}
		list := "[" + strings.Join(names, ", ") + "]"
		return &Report{
			Category: IllegalDefinitionOverrides,
			ID:       fmt.Sprintf("%s#type(%s)", IllegalDefinitionOverrides, list),
			Message:  "Illegal override of " + list,
			Scope:    scoutErr.Scope,
			Keys:     append([]scout.Key(nil), scoutErr.Keys...),
			Err:      err,
		}

	case scout.KindObjectNullability:
		return keyed(DefinitionNullability, "type", "Nullability error of", scoutErr, err)

	case scout.KindObjectCreationFailed:
		return creation(FailedObjectCreation, "type", scoutErr, err)

	case scout.KindElementCreationFailed:
		return creation(FailedElementCreation, "type", scoutErr, err)

	case scout.KindMappingCreationFailed:
		return creation(FailedMappingCreation, "mappings", scoutErr, err)

	default:
		return unchecked(err)
	}
}

func keyed(category Category, idField, verb string, scoutErr *scout.Error, err error) *Report {
	return &Report{
		Category: category,
		ID:       fmt.Sprintf("%s#%s(%s)", category, idField, scoutErr.Key),
		Message:  fmt.Sprintf("%s %s", verb, scoutErr.Key),
		Scope:    scoutErr.Scope,
		Keys:     []scout.Key{scoutErr.Key},
		Err:      err,
	}
}

func creation(category Category, idField string, scoutErr *scout.Error, err error) *Report {
	report := keyed(category, idField, "Failed creation of", scoutErr, err)
	if scoutErr.Cause != nil {
		report.Cause = Format(scoutErr.Cause)
	}
	return report
}

func unchecked(err error) *Report {
	message := "Unchecked error with message: " + err.Error()
	return &Report{
		Category: Unchecked,
		ID:       fmt.Sprintf("%s#message(%s)", Unchecked, message),
		Message:  message,
		Err:      err,
	}
}

var scoutPkgPath = reflect.TypeFor[scout.Lazy[any]]().PkgPath()

// wrongAccessorTarget reports object keys that are never bound directly:
// lazy handles, providers and the empty struct.
func wrongAccessorTarget(key scout.Key) (string, bool) {
	t := key.Type()
	if t == nil {
		return "", false
	}
	if t == reflect.TypeFor[struct{}]() {
		return "struct{}", true
	}
	if t.Kind() != reflect.Pointer || t.Elem().PkgPath() != scoutPkgPath {
		return "", false
	}
	name := t.Elem().Name()
	switch {
	case strings.HasPrefix(name, "Lazy["):
		return "Lazy", true
	case strings.HasPrefix(name, "Provider["):
		return "Provider", true
	default:
		return "", false
	}
}
