package scout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func emptyScope(t *testing.T, name string, parents ...*Scope) *Scope {
	t.Helper()
	return mustScope(t, name, withParents(parents...))
}

func scopeNames(scopes []*Scope) []string {
	names := make([]string, len(scopes))
	for i, s := range scopes {
		names[i] = s.Name()
	}
	return names
}

func TestLookup_Diamond(t *testing.T) {
	root := emptyScope(t, "root")
	a := emptyScope(t, "a", root)
	b := emptyScope(t, "b", root)
	c := emptyScope(t, "c", a, b)

	assert.Equal(t, []string{"b", "root", "a"}, scopeNames(c.priority))
	assert.Equal(t, []string{"root", "a", "b"}, scopeNames(c.accumulation))
}

func TestLookup_Chain(t *testing.T) {
	root := emptyScope(t, "root")
	mid := emptyScope(t, "mid", root)
	leaf := emptyScope(t, "leaf", mid)

	assert.Equal(t, []string{"mid", "root"}, scopeNames(leaf.priority))
	assert.Equal(t, []string{"root", "mid"}, scopeNames(leaf.accumulation))
}

func TestLookup_Wide(t *testing.T) {
	g1 := emptyScope(t, "g1")
	g2 := emptyScope(t, "g2")
	p1 := emptyScope(t, "p1", g1)
	p2 := emptyScope(t, "p2", g2)
	child := emptyScope(t, "child", p1, p2)

	assert.Equal(t, []string{"p2", "g2", "p1", "g1"}, scopeNames(child.priority))
	assert.Equal(t, []string{"g1", "p1", "g2", "p2"}, scopeNames(child.accumulation))
}

func TestLookup_DuplicateDirectParent(t *testing.T) {
	root := emptyScope(t, "root")
	child := emptyScope(t, "child", root, root)

	assert.Equal(t, []string{"root"}, scopeNames(child.priority))
	assert.Equal(t, []string{"root"}, scopeNames(child.accumulation))
}

func TestLookup_NoParents(t *testing.T) {
	root := emptyScope(t, "root")

	assert.Empty(t, root.priority)
	assert.Empty(t, root.accumulation)
}
