package assign

import (
	"fmt"

	"github.com/matzehuels/giftring/pkg/constraint"
	"github.com/matzehuels/giftring/pkg/roster"
)

// FailureKind classifies a ValidationFailure.
type FailureKind string

const (
	FailureUnknownParticipant FailureKind = "UNKNOWN_PARTICIPANT"
	FailureDuplicateGiver     FailureKind = "DUPLICATE_GIVER"
	FailureDuplicateReceiver  FailureKind = "DUPLICATE_RECEIVER"
	FailureMissingGiver       FailureKind = "MISSING_GIVER"
	FailureSelfAssignment     FailureKind = "SELF_ASSIGNMENT"
	FailureForbiddenEdge      FailureKind = "FORBIDDEN_EDGE"
	FailureMultipleCycles     FailureKind = "MULTIPLE_CYCLES"
)

// ValidationFailure describes the first rule an assignment breaks.
type ValidationFailure struct {
	Kind     FailureKind `json:"kind"`
	Giver    roster.ID   `json:"giver,omitempty"`
	Receiver roster.ID   `json:"receiver,omitempty"`
	Detail   string      `json:"detail"`
}

func (f *ValidationFailure) Error() string {
	return fmt.Sprintf("invalid assignment: %s: %s", f.Kind, f.Detail)
}

// Validate checks a against g from scratch: every participant gives exactly
// once and receives exactly once, nobody gives to themselves, no forbidden
// edge is used, and, when requireSingleCycle is set, the assignment is a
// single ring. It returns nil or a *ValidationFailure.
//
// Validate does not trust how a was built and has no side effects, so calling
// it twice yields the same result.
func Validate(a Assignment, g *constraint.Graph, requireSingleCycle bool) error {
	n := g.Len()
	next := make([]int, n)
	for i := range next {
		next[i] = -1
	}
	received := make([]bool, n)

	for _, p := range a.Pairs {
		giver, ok := g.Index(p.Giver)
		if !ok {
			return &ValidationFailure{Kind: FailureUnknownParticipant, Giver: p.Giver,
				Detail: fmt.Sprintf("giver %q is not in the roster", p.Giver)}
		}
		receiver, ok := g.Index(p.Receiver)
		if !ok {
			return &ValidationFailure{Kind: FailureUnknownParticipant, Giver: p.Giver, Receiver: p.Receiver,
				Detail: fmt.Sprintf("receiver %q is not in the roster", p.Receiver)}
		}
		if next[giver] >= 0 {
			return &ValidationFailure{Kind: FailureDuplicateGiver, Giver: p.Giver,
				Detail: fmt.Sprintf("%q gives more than once", p.Giver)}
		}
		if received[receiver] {
			return &ValidationFailure{Kind: FailureDuplicateReceiver, Receiver: p.Receiver,
				Detail: fmt.Sprintf("%q receives more than once", p.Receiver)}
		}
		if giver == receiver {
			return &ValidationFailure{Kind: FailureSelfAssignment, Giver: p.Giver, Receiver: p.Receiver,
				Detail: fmt.Sprintf("%q gives to themselves", p.Giver)}
		}
		if !g.Allowed(giver, receiver) {
			return &ValidationFailure{Kind: FailureForbiddenEdge, Giver: p.Giver, Receiver: p.Receiver,
				Detail: fmt.Sprintf("%q must not give to %q", p.Giver, p.Receiver)}
		}
		next[giver] = receiver
		received[receiver] = true
	}

	for i, receiver := range next {
		if receiver < 0 {
			return &ValidationFailure{Kind: FailureMissingGiver, Giver: g.ID(i),
				Detail: fmt.Sprintf("%q has nobody to give to", g.ID(i))}
		}
	}

	if requireSingleCycle {
		length := 1
		for v := next[0]; v != 0; v = next[v] {
			length++
		}
		if length != n {
			return &ValidationFailure{Kind: FailureMultipleCycles,
				Detail: fmt.Sprintf("the cycle through %q covers %d of %d participants", g.ID(0), length, n)}
		}
	}
	return nil
}
