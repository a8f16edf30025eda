package constraint

import (
	"github.com/matzehuels/giftring/pkg/roster"
)

// Graph is the forbidden relation over a roster, stored as a dense matrix.
// It is derived data: nothing mutates a Graph after Build returns.
type Graph struct {
	roster    *roster.Roster
	n         int
	forbidden []bool // forbidden[giver*n+receiver]
	out       []int  // legal receivers per giver
	in        []int  // legal givers per receiver
}

// Build derives the constraint graph from r.
// Each participant's forbidden set is its declared exclusions plus itself.
func Build(r *roster.Roster) *Graph {
	n := r.Len()
	g := &Graph{
		roster:    r,
		n:         n,
		forbidden: make([]bool, n*n),
		out:       make([]int, n),
		in:        make([]int, n),
	}

	for i := range n {
		p := r.At(i)
		g.forbidden[i*n+i] = true
		for _, target := range p.Forbidden() {
			j, _ := r.Index(target)
			g.forbidden[i*n+j] = true
		}
	}

	for i := range n {
		for j := range n {
			if !g.forbidden[i*n+j] {
				g.out[i]++
				g.in[j]++
			}
		}
	}
	return g
}

// Roster returns the roster the graph was built from.
func (g *Graph) Roster() *roster.Roster {
	return g.roster
}

// Len returns the number of participants.
func (g *Graph) Len() int {
	return g.n
}

// ID returns the identifier at index i.
func (g *Graph) ID(i int) roster.ID {
	return g.roster.At(i).ID
}

// IDs returns participant identifiers in roster order.
func (g *Graph) IDs() []roster.ID {
	return g.roster.IDs()
}

// Index returns the roster position of id.
func (g *Graph) Index(id roster.ID) (int, bool) {
	return g.roster.Index(id)
}

// Allowed reports whether the participant at index giver may give to the
// participant at index receiver.
func (g *Graph) Allowed(giver, receiver int) bool {
	return !g.forbidden[giver*g.n+receiver]
}

// Allows reports whether giver may give to receiver.
// Unknown identifiers are never allowed.
func (g *Graph) Allows(giver, receiver roster.ID) bool {
	i, ok := g.roster.Index(giver)
	if !ok {
		return false
	}
	j, ok := g.roster.Index(receiver)
	if !ok {
		return false
	}
	return g.Allowed(i, j)
}

// Forbidden returns every receiver giver must not be assigned, including
// giver itself, in roster order. It returns nil for unknown identifiers.
func (g *Graph) Forbidden(giver roster.ID) []roster.ID {
	i, ok := g.roster.Index(giver)
	if !ok {
		return nil
	}
	var out []roster.ID
	for j := range g.n {
		if g.forbidden[i*g.n+j] {
			out = append(out, g.ID(j))
		}
	}
	return out
}

// Successors returns the indexes giver may give to, in roster order.
func (g *Graph) Successors(giver int) []int {
	out := make([]int, 0, g.out[giver])
	for j := range g.n {
		if g.Allowed(giver, j) {
			out = append(out, j)
		}
	}
	return out
}

// Predecessors returns the indexes that may give to receiver, in roster order.
func (g *Graph) Predecessors(receiver int) []int {
	out := make([]int, 0, g.in[receiver])
	for i := range g.n {
		if g.Allowed(i, receiver) {
			out = append(out, i)
		}
	}
	return out
}

// OutDegree returns how many participants giver may give to.
func (g *Graph) OutDegree(giver int) int {
	return g.out[giver]
}

// InDegree returns how many participants may give to receiver.
func (g *Graph) InDegree(receiver int) int {
	return g.in[receiver]
}

// EdgeCount returns the number of legal gives-to edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, d := range g.out {
		total += d
	}
	return total
}

// StronglyConnected reports whether every participant can reach every other
// along legal edges. A single gift ring covering everyone requires it.
func (g *Graph) StronglyConnected() bool {
	if g.n == 0 {
		return true
	}
	return g.reachesAll(0, g.Allowed) &&
		g.reachesAll(0, func(u, v int) bool { return g.Allowed(v, u) })
}

// reachesAll runs a breadth-first search from start over edge and reports
// whether it visits every vertex.
func (g *Graph) reachesAll(start int, edge func(u, v int) bool) bool {
	seen := make([]bool, g.n)
	seen[start] = true
	queue := []int{start}
	count := 1
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for v := range g.n {
			if !seen[v] && edge(u, v) {
				seen[v] = true
				count++
				queue = append(queue, v)
			}
		}
	}
	return count == g.n
}
