// Package pkg holds the giftring libraries.
//
// A draw flows through these packages:
//
//	roster        validate participants and their exclusions
//	   ↓
//	constraint    build the allowed gives-to relation
//	   ↓
//	assign        search for a ring or matching and validate it
//	   ↓
//	pipeline      tie the steps together with caching and hooks
//
// Supporting packages:
//
//   - [cache]: file, Redis and no-op stores for seeded draws and reports
//   - [io]: roster files (TOML, JSON) and draw reports
//   - [observability]: hook interfaces and Prometheus metrics
//   - [errors]: coded errors shared by the CLI and the HTTP API
//   - [buildinfo]: version information
package pkg
