package scout

import (
	"maps"
	"slices"
)

// Inspection is a read-only snapshot of one scope's own content. Mutating it
// does not affect the scope.
type Inspection struct {
	Scope                *Scope
	Parents              []*Scope
	ObjectFactories      map[Key]InstanceFactory
	CollectionFactories  map[Key][]InstanceFactory
	AssociationFactories map[Key][]InstanceFactory
	AllowedOverrides     map[Key]struct{}
}

// Inspect returns a snapshot of the factories declared by s itself, its
// declared parents and its override allow-set. Ancestor content is not
// included; inspect the parents for that.
func (s *Scope) Inspect() Inspection {
	return Inspection{
		Scope:                s,
		Parents:              slices.Clone(s.parents),
		ObjectFactories:      maps.Clone(s.objectFactories),
		CollectionFactories:  cloneLists(s.collectionFactories),
		AssociationFactories: cloneLists(s.associationFactories),
		AllowedOverrides:     maps.Clone(s.allowedOverrides),
	}
}

// OverrideAllowed reports whether key was bound with AllowOverride.
func (i Inspection) OverrideAllowed(key Key) bool {
	_, ok := i.AllowedOverrides[key]
	return ok
}

// ObjectKeys returns the own object keys sorted by their string form.
func (i Inspection) ObjectKeys() []Key {
	return sortKeys(slices.Collect(maps.Keys(i.ObjectFactories)))
}

func cloneLists(in map[Key][]InstanceFactory) map[Key][]InstanceFactory {
	out := make(map[Key][]InstanceFactory, len(in))
	for key, list := range in {
		out[key] = slices.Clone(list)
	}
	return out
}
