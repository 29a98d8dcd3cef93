package validate

import (
	"fmt"

	"github.com/xraph/scout"
)

// Overrides checks object bindings against the scope's ancestors.
//
// It reports, as warnings, override permissions that shadow nothing and
// object keys the scope does not bind itself but receives from more than one
// direct parent branch, where the last declared parent silently wins.
type Overrides struct{}

// Name implements Checker.
func (Overrides) Name() string {
	return "overrides"
}

// Check implements Checker.
func (Overrides) Check(s *scout.Scope, _ *scout.ScopeGraph) []Issue {
	inspection := s.Inspect()
	var issues []Issue

	for _, key := range inspection.ObjectKeys() {
		if !inspection.OverrideAllowed(key) {
			continue
		}
		if !parentsContain(inspection.Parents, key) {
			issues = append(issues, Issue{
				Severity: Warning,
				Scope:    s,
				Key:      key,
				Message:  "override permission shadows no ancestor binding",
			})
		}
	}

	for _, key := range inheritedObjectKeys(inspection.Parents) {
		if _, own := inspection.ObjectFactories[key]; own {
			continue
		}
		providers := distinctResolvers(inspection.Parents, key)
		if len(providers) < 2 {
			continue
		}
		issues = append(issues, Issue{
			Severity: Warning,
			Scope:    s,
			Key:      key,
			Message: fmt.Sprintf("bound by %d parent branches, %s wins by declaration order",
				len(providers), providers[len(providers)-1]),
		})
	}

	return issues
}

func parentsContain(parents []*scout.Scope, key scout.Key) bool {
	for _, parent := range parents {
		if parent.ContainsObjectFactory(key) {
			return true
		}
	}
	return false
}

// inheritedObjectKeys lists object keys bound anywhere above parents, in a
// stable order.
func inheritedObjectKeys(parents []*scout.Scope) []scout.Key {
	seen := make(map[scout.Key]struct{})
	var keys []scout.Key
	for _, s := range scout.NewScopeGraph(parents...).TopologicalSort() {
		for _, key := range s.Inspect().ObjectKeys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}

// distinctResolvers returns, in declaration order, the distinct scopes each
// direct parent resolves key from.
func distinctResolvers(parents []*scout.Scope, key scout.Key) []*scout.Scope {
	seen := make(map[*scout.Scope]struct{})
	var resolvers []*scout.Scope
	for _, parent := range parents {
		resolver := scout.Resolver(parent, key)
		if resolver == nil {
			continue
		}
		if _, ok := seen[resolver]; ok {
			continue
		}
		seen[resolver] = struct{}{}
		resolvers = append(resolvers, resolver)
	}
	return resolvers
}
