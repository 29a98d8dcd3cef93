package scout

import (
	"fmt"
	"reflect"
)

// Kind distinguishes the three binding shapes a Key can identify.
type Kind uint8

const (
	// KindObject identifies a single value of a type.
	KindObject Kind = iota + 1

	// KindCollection identifies an ordered list of items of a type.
	KindCollection

	// KindAssociation identifies a key to value map.
	KindAssociation
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "Object"
	case KindCollection:
		return "Collection"
	case KindAssociation:
		return "Association"
	default:
		return "Unknown"
	}
}

// Key identifies a binding inside a scope.
// Two keys are equal iff their kind and underlying types match, so keys can
// be recreated anywhere and still hit the same factory tables.
//
// The types are plain reflect.Type descriptors used as comparable tokens;
// resolution never inspects them.
type Key struct {
	kind      Kind
	typ       reflect.Type
	valueType reflect.Type
}

// ObjectKey creates a key for a single value of type t.
func ObjectKey(t reflect.Type) Key {
	return Key{kind: KindObject, typ: t}
}

// CollectionKey creates a key for a list whose items are of type item.
func CollectionKey(item reflect.Type) Key {
	return Key{kind: KindCollection, typ: item}
}

// AssociationKey creates a key for a map from keyType to valueType.
func AssociationKey(keyType, valueType reflect.Type) Key {
	return Key{kind: KindAssociation, typ: keyType, valueType: valueType}
}

// ObjectKeyOf returns the object key for T.
//
// Example:
//
//	var DatabaseKey = ObjectKeyOf[*Database]()
func ObjectKeyOf[T any]() Key {
	return ObjectKey(reflect.TypeFor[T]())
}

// CollectionKeyOf returns the collection key for items of type T.
func CollectionKeyOf[T any]() Key {
	return CollectionKey(reflect.TypeFor[T]())
}

// AssociationKeyOf returns the association key for map[K]V.
func AssociationKeyOf[K comparable, V any]() Key {
	return AssociationKey(reflect.TypeFor[K](), reflect.TypeFor[V]())
}

// Kind returns the binding shape the key identifies.
func (k Key) Kind() Kind {
	return k.kind
}

// Type returns the object type, the collection item type, or the
// association key type.
func (k Key) Type() reflect.Type {
	return k.typ
}

// ValueType returns the association value type, nil for other kinds.
func (k Key) ValueType() reflect.Type {
	return k.valueType
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k.kind == 0
}

// String returns a human-readable representation of the key.
func (k Key) String() string {
	switch k.kind {
	case KindObject:
		return fmt.Sprintf("Object(type=%s)", typeName(k.typ))
	case KindCollection:
		return fmt.Sprintf("Collection(itemType=%s)", typeName(k.typ))
	case KindAssociation:
		return fmt.Sprintf("Association(keyType=%s,valueType=%s)", typeName(k.typ), typeName(k.valueType))
	default:
		return "Key(<zero>)"
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
