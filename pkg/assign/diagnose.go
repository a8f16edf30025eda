package assign

import (
	"slices"

	"github.com/matzehuels/giftring/pkg/constraint"
	"github.com/matzehuels/giftring/pkg/roster"
)

// Diagnostic names the participants responsible for an infeasible roster,
// when they can be identified.
type Diagnostic struct {
	// Blocked participants exclude everyone else and cannot give to anybody.
	Blocked []roster.ID `json:"blocked,omitempty"`

	// Unreceivable participants are excluded by everyone else.
	Unreceivable []roster.ID `json:"unreceivable,omitempty"`

	// Deficient is a group of givers whose allowed receivers, taken together,
	// are fewer than the group itself.
	Deficient []roster.ID `json:"deficient,omitempty"`
}

// Empty reports whether the diagnostic names nobody.
func (d *Diagnostic) Empty() bool {
	return d == nil || len(d.Blocked)+len(d.Unreceivable)+len(d.Deficient) == 0
}

// Participants returns everyone named by the diagnostic, without duplicates,
// in the order blocked, unreceivable, deficient.
func (d *Diagnostic) Participants() []roster.ID {
	if d == nil {
		return nil
	}
	var out []roster.ID
	for _, group := range [][]roster.ID{d.Blocked, d.Unreceivable, d.Deficient} {
		for _, id := range group {
			if !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
	}
	return out
}

// degreeDiagnostic reports participants with no legal receiver or no legal
// giver. Any such participant rules out every assignment under every policy.
// It returns nil when all degrees are positive.
func degreeDiagnostic(g *constraint.Graph) *Diagnostic {
	d := &Diagnostic{}
	for i := range g.Len() {
		if g.OutDegree(i) == 0 {
			d.Blocked = append(d.Blocked, g.ID(i))
		}
		if g.InDegree(i) == 0 {
			d.Unreceivable = append(d.Unreceivable, g.ID(i))
		}
	}
	if d.Empty() {
		return nil
	}
	return d
}

// deficientDiagnostic wraps a Hall-deficient giver set.
func deficientDiagnostic(g *constraint.Graph, givers []int) *Diagnostic {
	if len(givers) == 0 {
		return nil
	}
	ids := make([]roster.ID, len(givers))
	for k, i := range givers {
		ids[k] = g.ID(i)
	}
	return &Diagnostic{Deficient: ids}
}
