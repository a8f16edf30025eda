package assign

import (
	"slices"
	"time"

	"github.com/matzehuels/giftring/pkg/constraint"
	"github.com/matzehuels/giftring/pkg/roster"
)

// Pair is a single giver → receiver edge.
type Pair struct {
	Giver    roster.ID `json:"giver"`
	Receiver roster.ID `json:"receiver"`
}

// Assignment maps every giver to one receiver.
// Pairs produced by Generate are ordered by the giver's roster position.
type Assignment struct {
	Pairs []Pair `json:"pairs"`
}

// IsZero reports whether the assignment holds no pairs.
func (a Assignment) IsZero() bool {
	return len(a.Pairs) == 0
}

// Len returns the number of pairs.
func (a Assignment) Len() int {
	return len(a.Pairs)
}

// ReceiverOf returns the receiver assigned to giver.
func (a Assignment) ReceiverOf(giver roster.ID) (roster.ID, bool) {
	for _, p := range a.Pairs {
		if p.Giver == giver {
			return p.Receiver, true
		}
	}
	return "", false
}

// Map returns the assignment as a giver → receiver map.
func (a Assignment) Map() map[roster.ID]roster.ID {
	m := make(map[roster.ID]roster.ID, len(a.Pairs))
	for _, p := range a.Pairs {
		m[p.Giver] = p.Receiver
	}
	return m
}

// Cycles decomposes the assignment into its cycles. Each cycle starts at the
// giver appearing first in Pairs. Chains that do not close (possible only for
// a malformed assignment) are returned as open sequences.
func (a Assignment) Cycles() [][]roster.ID {
	next := a.Map()
	seen := make(map[roster.ID]bool, len(a.Pairs))
	var cycles [][]roster.ID
	for _, p := range a.Pairs {
		if seen[p.Giver] {
			continue
		}
		var cycle []roster.ID
		for id, ok := p.Giver, true; ok && !seen[id]; id, ok = next[id] {
			seen[id] = true
			cycle = append(cycle, id)
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}

// IsSingleCycle reports whether the assignment is one ring through everyone.
func (a Assignment) IsSingleCycle() bool {
	return len(a.Pairs) > 0 && len(a.Cycles()) == 1
}

// CycleLengths returns the length of every cycle, longest first.
func (a Assignment) CycleLengths() []int {
	cycles := a.Cycles()
	lengths := make([]int, len(cycles))
	for i, c := range cycles {
		lengths[i] = len(c)
	}
	slices.Sort(lengths)
	slices.Reverse(lengths)
	return lengths
}

// assignmentFromRing converts a ring of roster indexes into an assignment.
func assignmentFromRing(g *constraint.Graph, ring []int) Assignment {
	next := make([]int, g.Len())
	for k, giver := range ring {
		next[giver] = ring[(k+1)%len(ring)]
	}
	return assignmentFromNext(g, next)
}

// assignmentFromNext converts a giver index → receiver index table.
func assignmentFromNext(g *constraint.Graph, next []int) Assignment {
	pairs := make([]Pair, len(next))
	for giver, receiver := range next {
		pairs[giver] = Pair{Giver: g.ID(giver), Receiver: g.ID(receiver)}
	}
	return Assignment{Pairs: pairs}
}

// Status is the top-level result of a generation request.
type Status string

const (
	StatusSuccess    Status = "success"
	StatusInfeasible Status = "infeasible"
)

// Reason explains an infeasible outcome.
type Reason string

const (
	ReasonNone Reason = ""

	// ReasonNoValidCycle: proven that no single ring satisfies the rules.
	ReasonNoValidCycle Reason = "NO_VALID_CYCLE"

	// ReasonNoValidMatching: proven that no assignment at all satisfies the rules.
	ReasonNoValidMatching Reason = "NO_VALID_MATCHING"

	// ReasonSearchBudgetExceeded: the search stopped before finding a
	// solution or proving there is none.
	ReasonSearchBudgetExceeded Reason = "SEARCH_BUDGET_EXCEEDED"
)

// Proven reports whether the reason is a proof of infeasibility rather than
// an exhausted budget.
func (r Reason) Proven() bool {
	return r == ReasonNoValidCycle || r == ReasonNoValidMatching
}

// Message returns a sentence suitable for end users.
func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return "pairing generated"
	case ReasonNoValidCycle:
		return "no valid pairing possible with current rules: the group cannot form a single gift circle"
	case ReasonNoValidMatching:
		return "no valid pairing possible with current rules"
	case ReasonSearchBudgetExceeded:
		return "could not find a pairing in time; try again or relax a rule"
	}
	return string(r)
}

// Stats describes the work done by Generate.
type Stats struct {
	Phase          Phase         `json:"phase"`
	RandomAttempts int           `json:"random_attempts"`
	SearchNodes    int           `json:"search_nodes"`
	Elapsed        time.Duration `json:"elapsed_ns"`

	// Exhausted is set when some phase ran out of budget, including a ring
	// search that prefer-cycle recovered from with a matching.
	Exhausted bool `json:"exhausted,omitempty"`
}

// Outcome is the result of a generation request: either a validated
// assignment (Status == StatusSuccess) or a reason why none was produced.
type Outcome struct {
	Status     Status      `json:"status"`
	Assignment Assignment  `json:"assignment,omitzero"`
	Ring       []roster.ID `json:"ring,omitempty"`
	Reason     Reason      `json:"reason,omitempty"`
	Diagnostic *Diagnostic `json:"diagnostic,omitempty"`
	Stats      Stats       `json:"stats"`
}

// Feasible reports whether the outcome carries an assignment.
func (o Outcome) Feasible() bool {
	return o.Status == StatusSuccess
}

func success(a Assignment, ring []roster.ID, stats Stats) Outcome {
	return Outcome{Status: StatusSuccess, Assignment: a, Ring: ring, Stats: stats}
}

func infeasible(reason Reason, diag *Diagnostic, stats Stats) Outcome {
	return Outcome{Status: StatusInfeasible, Reason: reason, Diagnostic: diag, Stats: stats}
}
