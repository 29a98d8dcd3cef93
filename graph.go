package scout

// ScopeGraph is the parent graph of a set of scopes and all their ancestors.
type ScopeGraph struct {
	nodes    map[*Scope]*graphNode
	order    []*Scope // Preserve discovery order
	children map[*Scope][]*Scope
}

type graphNode struct {
	scope   *Scope
	parents []*Scope
}

// NewScopeGraph collects roots and every ancestor reachable from them.
func NewScopeGraph(roots ...*Scope) *ScopeGraph {
	g := &ScopeGraph{
		nodes:    make(map[*Scope]*graphNode),
		children: make(map[*Scope][]*Scope),
	}
	for _, root := range roots {
		g.add(root)
	}
	return g
}

func (g *ScopeGraph) add(s *Scope) {
	if s == nil {
		return
	}
	if _, ok := g.nodes[s]; ok {
		return
	}

	g.nodes[s] = &graphNode{scope: s, parents: s.parents}
	g.order = append(g.order, s)

	for _, parent := range s.parents {
		g.children[parent] = append(g.children[parent], s)
		g.add(parent)
	}
}

// HasScope checks if s is part of the graph.
func (g *ScopeGraph) HasScope(s *Scope) bool {
	_, ok := g.nodes[s]
	return ok
}

// Len returns the number of distinct scopes in the graph.
func (g *ScopeGraph) Len() int {
	return len(g.nodes)
}

// Parents returns the declared parents of s.
func (g *ScopeGraph) Parents(s *Scope) []*Scope {
	if node, ok := g.nodes[s]; ok {
		return node.parents
	}
	return nil
}

// Children returns the scopes in the graph declaring s as a parent.
func (g *ScopeGraph) Children(s *Scope) []*Scope {
	return g.children[s]
}

// Roots returns the scopes no other scope in the graph depends on.
func (g *ScopeGraph) Roots() []*Scope {
	var roots []*Scope
	for _, s := range g.order {
		if len(g.children[s]) == 0 {
			roots = append(roots, s)
		}
	}
	return roots
}

// TopologicalSort returns every scope after all of its ancestors. Scopes
// without ordering constraints keep discovery order.
//
// Parents must exist before a child is built, so the graph has no cycles.
func (g *ScopeGraph) TopologicalSort() []*Scope {
	visited := make(map[*Scope]bool, len(g.nodes))
	result := make([]*Scope, 0, len(g.nodes))

	var visit func(s *Scope)
	visit = func(s *Scope) {
		if visited[s] {
			return
		}
		visited[s] = true
		for _, parent := range g.nodes[s].parents {
			visit(parent)
		}
		result = append(result, s)
	}

	for _, s := range g.order {
		visit(s)
	}

	return result
}
