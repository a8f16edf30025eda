package assign

import (
	"github.com/matzehuels/giftring/pkg/roster"
)

// ReportParticipant is a participant reference carrying its display name.
type ReportParticipant struct {
	ID   roster.ID `json:"id"`
	Name string    `json:"name"`
}

// ReportPair is one giver → receiver line of a report.
type ReportPair struct {
	Giver    ReportParticipant `json:"giver"`
	Receiver ReportParticipant `json:"receiver"`
}

// ReportDiagnostic is a Diagnostic with display names attached.
type ReportDiagnostic struct {
	Blocked      []ReportParticipant `json:"blocked,omitempty"`
	Unreceivable []ReportParticipant `json:"unreceivable,omitempty"`
	Deficient    []ReportParticipant `json:"deficient,omitempty"`
}

// Report is the caller-facing rendering of an Outcome.
type Report struct {
	DrawID       string              `json:"draw_id,omitempty"`
	Status       Status              `json:"status"`
	Reason       Reason              `json:"reason,omitempty"`
	Message      string              `json:"message"`
	Pairs        []ReportPair        `json:"pairs,omitempty"`
	Ring         []ReportParticipant `json:"ring,omitempty"`
	CycleLengths []int               `json:"cycle_lengths,omitempty"`
	Diagnostic   *ReportDiagnostic   `json:"diagnostic,omitempty"`
	Stats        Stats               `json:"stats"`
}

// NewReport renders o using the display names in r. It has no side effects.
func NewReport(o Outcome, r *roster.Roster) Report {
	rep := Report{
		Status:  o.Status,
		Reason:  o.Reason,
		Message: o.Reason.Message(),
		Stats:   o.Stats,
	}
	ref := func(id roster.ID) ReportParticipant {
		return ReportParticipant{ID: id, Name: r.Name(id)}
	}
	refs := func(ids []roster.ID) []ReportParticipant {
		if len(ids) == 0 {
			return nil
		}
		out := make([]ReportParticipant, len(ids))
		for i, id := range ids {
			out[i] = ref(id)
		}
		return out
	}

	if o.Feasible() {
		rep.Pairs = make([]ReportPair, len(o.Assignment.Pairs))
		for i, p := range o.Assignment.Pairs {
			rep.Pairs[i] = ReportPair{Giver: ref(p.Giver), Receiver: ref(p.Receiver)}
		}
		rep.Ring = refs(o.Ring)
		rep.CycleLengths = o.Assignment.CycleLengths()
	}
	if !o.Diagnostic.Empty() {
		rep.Diagnostic = &ReportDiagnostic{
			Blocked:      refs(o.Diagnostic.Blocked),
			Unreceivable: refs(o.Diagnostic.Unreceivable),
			Deficient:    refs(o.Diagnostic.Deficient),
		}
	}
	return rep
}
