// Package cache stores generation results between runs.
//
// Only reproducible results belong in a cache: a draw is cached under a key
// derived from the roster contents, the policy, the limits and the seed, so
// a hit returns exactly what a fresh run would have produced. Unseeded draws
// are never cached.
//
// Three backends implement [Cache]:
//   - [FileCache] for the CLI, under the user's cache directory
//   - [RedisCache] for the HTTP server, shared between instances
//   - [NullCache] when caching is disabled
//
// Keys come from a [Keyer]; wrap one in a [ScopedKeyer] to give a tenant or
// environment its own namespace.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// TTLDraw is how long a seeded draw result stays cached.
	TTLDraw = 7 * 24 * time.Hour

	// TTLReport is how long the server keeps a report for lookup by draw ID.
	TTLReport = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A ttl of zero stores the entry without expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// DrawKey is the key of a seeded draw over the roster with hash rosterHash.
	DrawKey(rosterHash string, opts DrawKeyOpts) string

	// ReportKey is the key of the report stored for drawID.
	ReportKey(drawID string) string
}

// DrawKeyOpts holds every option that influences a seeded draw.
type DrawKeyOpts struct {
	Policy         string `json:"policy"`
	RetryBudget    int    `json:"retry_budget"`
	MaxSearchNodes int    `json:"max_search_nodes"`
	Seed           uint64 `json:"seed"`
}

// DefaultKeyer builds keys of the form "draw:<sha256>" and "report:<id>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DrawKey hashes the roster hash together with the options.
func (DefaultKeyer) DrawKey(rosterHash string, opts DrawKeyOpts) string {
	return hashKey("draw", rosterHash, opts)
}

// ReportKey returns "report:" + drawID.
func (DefaultKeyer) ReportKey(drawID string) string {
	return "report:" + drawID
}

var _ Keyer = DefaultKeyer{}
