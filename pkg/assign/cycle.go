package assign

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/giftring/pkg/constraint"
)

// FindCycle searches for a single ring through every participant of the
// legal gives-to graph (a Hamiltonian cycle) by depth-first search with
// constraint propagation. The returned ring starts at the most constrained
// participant; position k gives to position k+1 and the last gives to the
// first.
//
// Before searching, FindCycle checks conditions every ring must satisfy:
// every participant has a legal receiver and giver, a perfect matching
// exists, and the graph is strongly connected. Failing any of them proves
// that no ring exists without exploring the search tree.
//
// It returns ErrNoCycle when no ring exists and ErrBudgetExceeded when limits
// run out first. Limits with neither field set fall back to
// DefaultSearchTimeout. Context cancellation is reported as ctx.Err().
//
// Complexity: worst case exponential in n; pruning keeps small rosters fast.
func FindCycle(ctx context.Context, g *constraint.Graph, rng *rand.Rand, limits Limits) ([]int, error) {
	ring, _, err := findCycle(g, rng, newBudget(ctx, limits.orDefault()))
	return ring, err
}

// findCycle also returns the Hall-deficient giver set when the matching
// precheck is what ruled the ring out.
func findCycle(g *constraint.Graph, rng *rand.Rand, b *budget) ([]int, []int, error) {
	if degreeDiagnostic(g) != nil {
		return nil, nil, ErrNoCycle
	}
	if deficient, err := hasPerfectMatching(g, rng, b); err != nil {
		if errors.Is(err, ErrNoMatching) {
			return nil, deficient, ErrNoCycle
		}
		return nil, nil, err
	}
	if !g.StronglyConnected() {
		return nil, nil, ErrNoCycle
	}
	if err := b.check(); err != nil {
		return nil, nil, err
	}

	// Each node runs viable, which is quadratic in the roster size.
	b.scaleChecks(g.Len())
	s := newCycleSearch(g, rng, b)
	ok, err := s.extend()
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrNoCycle
	}
	return s.path, nil, nil
}

// cycleSearch holds the state of one depth-first ring search.
type cycleSearch struct {
	g       *constraint.Graph
	b       *budget
	n       int
	start   int
	succ    [][]int
	visited []bool
	path    []int
}

func newCycleSearch(g *constraint.Graph, rng *rand.Rand, b *budget) *cycleSearch {
	n := g.Len()
	s := &cycleSearch{
		g:       g,
		b:       b,
		n:       n,
		succ:    make([][]int, n),
		visited: make([]bool, n),
		path:    make([]int, 0, n),
	}
	for i := range n {
		s.succ[i] = g.Successors(i)
		rng.Shuffle(len(s.succ[i]), func(x, y int) { s.succ[i][x], s.succ[i][y] = s.succ[i][y], s.succ[i][x] })
	}

	// Start where the choice is tightest; every ring passes through it anyway.
	s.start = 0
	for i := 1; i < n; i++ {
		if tightness(g, i) < tightness(g, s.start) {
			s.start = i
		}
	}
	s.visited[s.start] = true
	s.path = append(s.path, s.start)
	return s
}

func tightness(g *constraint.Graph, i int) int {
	return min(g.OutDegree(i), g.InDegree(i))
}

// extend tries to complete the current path into a ring.
func (s *cycleSearch) extend() (bool, error) {
	if err := s.b.step(); err != nil {
		return false, err
	}
	last := s.path[len(s.path)-1]
	if len(s.path) == s.n {
		return s.g.Allowed(last, s.start), nil
	}

	for _, next := range s.candidates(last) {
		s.visited[next] = true
		s.path = append(s.path, next)
		if s.viable(next) {
			ok, err := s.extend()
			if err != nil || ok {
				return ok, err
			}
		}
		s.path = s.path[:len(s.path)-1]
		s.visited[next] = false
	}
	return false, nil
}

// candidates returns the unvisited successors of last that still have an
// onward move, fewest onward moves first. Ties keep the shuffled order.
func (s *cycleSearch) candidates(last int) []int {
	type candidate struct{ v, onward int }
	var cs []candidate
	for _, v := range s.succ[last] {
		if s.visited[v] {
			continue
		}
		if onward := s.onward(v); onward > 0 {
			cs = append(cs, candidate{v, onward})
		}
	}
	slices.SortStableFunc(cs, func(a, b candidate) int { return a.onward - b.onward })

	out := make([]int, len(cs))
	for k, c := range cs {
		out[k] = c.v
	}
	return out
}

// onward counts the moves available from v if it were appended next.
func (s *cycleSearch) onward(v int) int {
	if len(s.path)+1 == s.n {
		if s.g.Allowed(v, s.start) {
			return 1
		}
		return 0
	}
	count := 0
	for _, w := range s.succ[v] {
		if !s.visited[w] {
			count++
		}
	}
	return count
}

// viable reports whether every unvisited participant can still be entered
// from the path or another unvisited participant, and can still leave to
// another unvisited participant or back to the start.
func (s *cycleSearch) viable(last int) bool {
	for v := range s.n {
		if s.visited[v] {
			continue
		}
		if !s.hasExit(v) || !s.hasEntry(v, last) {
			return false
		}
	}
	return true
}

func (s *cycleSearch) hasExit(v int) bool {
	for _, w := range s.succ[v] {
		if w == s.start || !s.visited[w] {
			return true
		}
	}
	return false
}

func (s *cycleSearch) hasEntry(v, last int) bool {
	if s.g.Allowed(last, v) {
		return true
	}
	for u := range s.n {
		if u != v && !s.visited[u] && s.g.Allowed(u, v) {
			return true
		}
	}
	return false
}
