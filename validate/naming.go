package validate

import (
	"fmt"
	"regexp"

	"github.com/xraph/scout"
)

// DefaultNamePattern accepts lower-case dotted or dashed identifiers such as
// "app", "feature.checkout" or "user-session".
var DefaultNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*([.\-_][a-z0-9]+)*$`)

// Naming checks scope names against a pattern and reports names shared by
// distinct scopes in the same tree.
type Naming struct {
	// Pattern defaults to DefaultNamePattern.
	Pattern *regexp.Regexp

	// AllowDuplicates disables the duplicate name warning.
	AllowDuplicates bool
}

// Name implements Checker.
func (n Naming) Name() string {
	return "naming"
}

// Check implements Checker.
func (n Naming) Check(s *scout.Scope, g *scout.ScopeGraph) []Issue {
	pattern := n.Pattern
	if pattern == nil {
		pattern = DefaultNamePattern
	}

	var issues []Issue
	if !pattern.MatchString(s.Name()) {
		issues = append(issues, Issue{
			Severity: Failure,
			Scope:    s,
			Message:  fmt.Sprintf("name %q does not match %s", s.Name(), pattern),
		})
	}

	if !n.AllowDuplicates {
		for _, other := range g.TopologicalSort() {
			if other == s {
				break
			}
			if other.Name() == s.Name() {
				issues = append(issues, Issue{
					Severity: Warning,
					Scope:    s,
					Message:  fmt.Sprintf("name %q is also used by scope %s", s.Name(), other.ID()),
				})
				break
			}
		}
	}

	return issues
}
