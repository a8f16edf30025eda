package assign

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/giftring/pkg/constraint"
	"github.com/matzehuels/giftring/pkg/roster"
)

// mustGraph builds a graph over ids where rules[giver] lists the receivers
// giver must not give to.
func mustGraph(t *testing.T, ids []string, rules map[string][]string) *constraint.Graph {
	t.Helper()
	entries := make([]roster.Entry, len(ids))
	for i, id := range ids {
		entries[i] = roster.Entry{ID: roster.ID(id)}
		for _, x := range rules[id] {
			entries[i].Exclude = append(entries[i].Exclude, roster.ID(x))
		}
	}
	r, err := roster.Normalize(entries)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return constraint.Build(r)
}

// randomGraph forbids every ordered pair of distinct participants with
// probability p.
func randomGraph(t *testing.T, rng *rand.Rand, n int, p float64) *constraint.Graph {
	t.Helper()
	ids := make([]string, n)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	rules := map[string][]string{}
	for _, giver := range ids {
		for _, receiver := range ids {
			if giver != receiver && rng.Float64() < p {
				rules[giver] = append(rules[giver], receiver)
			}
		}
	}
	return mustGraph(t, ids, rules)
}

// hubbedCliques builds groups cliques of size members each. Members may only
// give to their own clique and to two hubs, who may give to anyone. The graph
// is strongly connected and has a perfect matching, but with three or more
// cliques no ring exists: each clique must be entered and left through a hub.
// The prechecks cannot see this, so the ring search has to exhaust it.
func hubbedCliques(t *testing.T, groups, size int) *constraint.Graph {
	t.Helper()
	var ids []string
	for c := range groups {
		for m := range size {
			ids = append(ids, fmt.Sprintf("c%d-%d", c, m))
		}
	}
	rules := map[string][]string{}
	for c := range groups {
		for m := range size {
			giver := fmt.Sprintf("c%d-%d", c, m)
			for other := range groups {
				if other == c {
					continue
				}
				for k := range size {
					rules[giver] = append(rules[giver], fmt.Sprintf("c%d-%d", other, k))
				}
			}
		}
	}
	ids = append(ids, "hub-0", "hub-1")
	return mustGraph(t, ids, rules)
}

// checkAssignment re-derives the assignment rules from the roster without
// going through Validate.
func checkAssignment(t *testing.T, g *constraint.Graph, a Assignment, single bool) {
	t.Helper()
	r := g.Roster()
	if a.Len() != r.Len() {
		t.Fatalf("assignment has %d pairs, want %d", a.Len(), r.Len())
	}
	givers := map[roster.ID]bool{}
	receivers := map[roster.ID]bool{}
	for _, p := range a.Pairs {
		giver, ok := r.Lookup(p.Giver)
		if !ok {
			t.Fatalf("unknown giver %q", p.Giver)
		}
		if _, ok := r.Lookup(p.Receiver); !ok {
			t.Fatalf("unknown receiver %q", p.Receiver)
		}
		if givers[p.Giver] || receivers[p.Receiver] {
			t.Fatalf("pair %v repeats a giver or receiver", p)
		}
		givers[p.Giver] = true
		receivers[p.Receiver] = true
		if p.Giver == p.Receiver {
			t.Fatalf("%q gives to themselves", p.Giver)
		}
		if giver.Forbids(p.Receiver) {
			t.Fatalf("%q gives to excluded %q", p.Giver, p.Receiver)
		}
	}
	if single && !a.IsSingleCycle() {
		t.Fatalf("assignment has cycles %v, want a single ring", a.CycleLengths())
	}
}

// permutations calls fn with every permutation of items. fn must not retain
// the slice.
func permutations(items []int, fn func([]int)) {
	var rec func(k int)
	rec = func(k int) {
		if k == len(items) {
			fn(items)
			return
		}
		for i := k; i < len(items); i++ {
			items[k], items[i] = items[i], items[k]
			rec(k + 1)
			items[k], items[i] = items[i], items[k]
		}
	}
	rec(0)
}

// bruteForce reports whether g admits a ring and whether it admits any
// derangement.
func bruteForce(g *constraint.Graph) (ring, derangement bool) {
	n := g.Len()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	permutations(perm, func(next []int) {
		for giver, receiver := range next {
			if !g.Allowed(giver, receiver) {
				return
			}
		}
		derangement = true
		length := 1
		for v := next[0]; v != 0; v = next[v] {
			length++
		}
		if length == n {
			ring = true
		}
	})
	return ring, derangement
}
