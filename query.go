package scout

// Location is one scope declaring factories for a queried key.
type Location struct {
	// Scope is the scope declaring the factories.
	Scope *Scope

	// Depth is the distance from the queried scope (0 for the scope itself).
	Depth int

	// Factories is the number of factories declared under the key.
	Factories int

	// OverrideAllowed reports whether the object binding carries the
	// override flag. Always false for collection and association keys.
	OverrideAllowed bool
}

// DefinitionQuery defines criteria for locating definitions in a scope tree.
type DefinitionQuery struct {
	// Key is the key to look up. Required.
	Key Key

	// MaxDepth limits the search depth. Zero or negative searches the whole
	// tree.
	MaxDepth int

	// OwnOnly restricts the search to the queried scope.
	OwnOnly bool
}

// Query returns every scope reachable from s that declares factories for
// q.Key, in preorder (s first, parents in declaration order). Shared
// ancestors are reported once, at their shallowest depth.
//
// Example:
//
//	// Which scopes bind *Database?
//	locations := scout.Query(app, scout.DefinitionQuery{
//	    Key: scout.ObjectKeyOf[*Database](),
//	})
func Query(s *Scope, q DefinitionQuery) []Location {
	if q.Key.IsZero() {
		return nil
	}

	maxDepth := q.MaxDepth
	if q.OwnOnly {
		maxDepth = 0
	} else if maxDepth <= 0 {
		maxDepth = -1
	}

	depths := make(map[*Scope]int)
	var order []*Scope
	var walk func(scope *Scope, depth int)
	walk = func(scope *Scope, depth int) {
		if seen, ok := depths[scope]; ok && seen <= depth {
			return
		} else if !ok {
			order = append(order, scope)
		}
		depths[scope] = depth
		if maxDepth >= 0 && depth >= maxDepth {
			return
		}
		for _, parent := range scope.parents {
			walk(parent, depth+1)
		}
	}
	walk(s, 0)

	var results []Location
	for _, scope := range order {
		count := scope.ownFactoryCount(q.Key)
		if count == 0 {
			continue
		}
		_, allowed := scope.allowedOverrides[q.Key]
		results = append(results, Location{
			Scope:           scope,
			Depth:           depths[scope],
			Factories:       count,
			OverrideAllowed: allowed && q.Key.Kind() == KindObject,
		})
	}
	return results
}

// FindDefinitions returns the scopes declaring key, nearest first in
// preorder.
func FindDefinitions(s *Scope, key Key) []*Scope {
	locations := Query(s, DefinitionQuery{Key: key})
	scopes := make([]*Scope, len(locations))
	for i, location := range locations {
		scopes[i] = location.Scope
	}
	return scopes
}

// Resolver returns the scope whose object factory Get would use for key,
// or nil when the key is not bound anywhere in the tree.
func Resolver(s *Scope, key Key) *Scope {
	if key.Kind() != KindObject {
		return nil
	}
	if _, ok := s.objectFactories[key]; ok {
		return s
	}
	for _, parent := range s.priority {
		if _, ok := parent.objectFactories[key]; ok {
			return parent
		}
	}
	return nil
}

func (s *Scope) ownFactoryCount(key Key) int {
	switch key.Kind() {
	case KindObject:
		if _, ok := s.objectFactories[key]; ok {
			return 1
		}
		return 0
	case KindCollection:
		return len(s.collectionFactories[key])
	case KindAssociation:
		return len(s.associationFactories[key])
	default:
		return 0
	}
}
