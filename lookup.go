package scout

// priorityLookup flattens parents in reverse preorder (NRL): direct parents
// from last declared to first, each followed by its own priority lookup.
// Scopes already present are skipped.
//
// Object and association lookups walk this order, so a later declared parent
// shadows an earlier one and a parent shadows its own ancestors.
func priorityLookup(parents []*Scope) []*Scope {
	if len(parents) == 0 {
		return nil
	}

	seen := make(map[*Scope]struct{})
	lookup := make([]*Scope, 0, len(parents))

	appendDistinct := func(s *Scope) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		lookup = append(lookup, s)
	}

	for i := len(parents) - 1; i >= 0; i-- {
		parent := parents[i]
		appendDistinct(parent)
		for _, grandparent := range parent.priority {
			appendDistinct(grandparent)
		}
	}

	return lookup
}

// accumulationLookup flattens parents in postorder (LRN): direct parents in
// declaration order, each preceded by its own accumulation lookup. Scopes
// already present are skipped.
//
// Collection lookups walk this order so ancestors contribute first.
func accumulationLookup(parents []*Scope) []*Scope {
	if len(parents) == 0 {
		return nil
	}

	seen := make(map[*Scope]struct{})
	lookup := make([]*Scope, 0, len(parents))

	appendDistinct := func(s *Scope) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		lookup = append(lookup, s)
	}

	for _, parent := range parents {
		for _, grandparent := range parent.accumulation {
			appendDistinct(grandparent)
		}
		appendDistinct(parent)
	}

	return lookup
}
