package roster

import (
	"slices"
	"strings"

	"github.com/matzehuels/giftring/pkg/errors"
)

// MinParticipants is the smallest roster for which a non-self assignment exists.
const MinParticipants = 2

// ID uniquely identifies a participant within a roster.
type ID string

// Entry is one raw participant row as supplied by a caller.
type Entry struct {
	ID      ID     `json:"id" toml:"id"`
	Name    string `json:"name,omitempty" toml:"name,omitempty"`
	Exclude []ID   `json:"exclude,omitempty" toml:"exclude,omitempty"`
}

// Participant is a validated roster member.
type Participant struct {
	ID   ID
	Name string

	forbidden []ID
	forbids   map[ID]bool
}

// Forbids reports whether p must not give to id.
// A participant never forbids itself explicitly; self-exclusion is implied
// by the constraint graph.
func (p Participant) Forbids(id ID) bool {
	return p.forbids[id]
}

// Forbidden returns the participants p must not give to, in declaration order.
func (p Participant) Forbidden() []ID {
	return slices.Clone(p.forbidden)
}

// RuleCount returns the number of exclusion rules declared by p.
func (p Participant) RuleCount() int {
	return len(p.forbidden)
}

// Roster is an immutable, ordered set of participants.
type Roster struct {
	participants []Participant
	index        map[ID]int
}

// Len returns the number of participants.
func (r *Roster) Len() int {
	return len(r.participants)
}

// Participants returns a copy of the participant list in input order.
func (r *Roster) Participants() []Participant {
	return slices.Clone(r.participants)
}

// At returns the participant at position i.
func (r *Roster) At(i int) Participant {
	return r.participants[i]
}

// IDs returns participant identifiers in input order.
func (r *Roster) IDs() []ID {
	ids := make([]ID, len(r.participants))
	for i, p := range r.participants {
		ids[i] = p.ID
	}
	return ids
}

// Index returns the position of id in the roster.
func (r *Roster) Index(id ID) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

// Lookup returns the participant with the given id.
func (r *Roster) Lookup(id ID) (Participant, bool) {
	i, ok := r.index[id]
	if !ok {
		return Participant{}, false
	}
	return r.participants[i], true
}

// Name returns the display name for id, or the id itself if unknown.
func (r *Roster) Name(id ID) string {
	if p, ok := r.Lookup(id); ok {
		return p.Name
	}
	return string(id)
}

// RuleCount returns the total number of exclusion rules in the roster.
func (r *Roster) RuleCount() int {
	total := 0
	for _, p := range r.participants {
		total += p.RuleCount()
	}
	return total
}

// Entries converts the roster back into raw entries. Normalizing the result
// yields an equal roster.
func (r *Roster) Entries() []Entry {
	out := make([]Entry, len(r.participants))
	for i, p := range r.participants {
		out[i] = Entry{ID: p.ID, Name: p.Name, Exclude: p.Forbidden()}
	}
	return out
}

// Normalize validates raw entries and builds a roster.
//
// Identifiers and names are trimmed of surrounding whitespace, an empty name
// defaults to the identifier, duplicate exclusions collapse and
// self-exclusions are dropped. Validation runs in three passes so that the
// reported error is stable: identifiers first, then the participant count,
// then rule targets.
func Normalize(entries []Entry) (*Roster, error) {
	r := &Roster{
		participants: make([]Participant, 0, len(entries)),
		index:        make(map[ID]int, len(entries)),
	}

	for _, e := range entries {
		id := ID(strings.TrimSpace(string(e.ID)))
		if err := errors.ValidateIdentifier(string(id)); err != nil {
			return nil, err
		}
		if _, dup := r.index[id]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateIdentifier, "duplicate participant id %q", id)
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = string(id)
		}
		r.index[id] = len(r.participants)
		r.participants = append(r.participants, Participant{ID: id, Name: name})
	}

	if len(r.participants) < MinParticipants {
		return nil, errors.New(errors.ErrCodeTooFewParticipants,
			"at least %d participants are required, got %d", MinParticipants, len(r.participants))
	}

	for i, e := range entries {
		p := &r.participants[i]
		p.forbids = make(map[ID]bool, len(e.Exclude))
		for _, raw := range e.Exclude {
			target := ID(strings.TrimSpace(string(raw)))
			if _, ok := r.index[target]; !ok {
				return nil, errors.New(errors.ErrCodeUnknownRuleTarget,
					"participant %q excludes unknown participant %q", p.ID, target)
			}
			if target == p.ID || p.forbids[target] {
				continue
			}
			p.forbids[target] = true
			p.forbidden = append(p.forbidden, target)
		}
	}

	return r, nil
}
