// Package io reads and writes the files giftring works with.
//
// # Roster Files
//
// A roster file lists the participants and, optionally, draw settings.
// TOML and JSON are both accepted; the format is chosen by file extension.
//
//	[settings]
//	policy = "single-cycle"   # or "prefer-cycle", "any"
//	retry_budget = 300
//	seed = 2024               # omit for a fresh draw every time
//	search_timeout = "2s"
//	max_search_nodes = 2000000
//
//	[[participants]]
//	id = "ann"
//	name = "Ann"
//	exclude = ["ben"]         # Ann must not give to Ben
//
//	[[participants]]
//	id = "ben"
//
// The JSON form uses the same keys:
//
//	{"settings": {"policy": "any"}, "participants": [{"id": "ann"}, {"id": "ben"}]}
//
// Unknown keys are rejected so that a misspelled "exclude" does not silently
// drop a rule.
//
// # Reports and Assignments
//
// [WriteReport] writes a draw report as indented JSON. [ReadAssignment]
// reads the pairs back, either from such a report or from a bare
// {"pairs": [{"giver": "ann", "receiver": "ben"}]} document, so that a saved
// draw can be re-checked after the rules change.
package io
