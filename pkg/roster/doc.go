// Package roster validates and normalizes the participant list of a gift exchange.
//
// # Overview
//
// A roster is the immutable snapshot the pairing engine works on. Callers
// describe participants with [Entry] values (an identifier, an optional display
// name and the identifiers they must not give to) and turn them into a
// [Roster] with [Normalize]:
//
//	r, err := roster.Normalize([]roster.Entry{
//	    {ID: "alice", Exclude: []roster.ID{"bob"}},
//	    {ID: "bob"},
//	    {ID: "carol"},
//	})
//
// # Identity
//
// Participants are identified by [ID] alone. The display name is carried along
// for reports and never takes part in the pairing problem, so two participants
// may share a name but never an identifier.
//
// # Validation
//
// [Normalize] fails fast with a coded error from pkg/errors and returns no
// partial result:
//
//   - INVALID_IDENTIFIER: an empty or malformed identifier
//   - DUPLICATE_IDENTIFIER: two entries share an identifier
//   - TOO_FEW_PARTICIPANTS: fewer than two participants
//   - UNKNOWN_RULE_TARGET: an exclusion names an identifier not in the roster
//
// A participant listing itself as excluded is accepted; self-exclusion is
// always implied and the reference is dropped.
//
// # Concurrency
//
// A [Roster] is never modified after [Normalize] returns and is safe for
// concurrent readers.
package roster
