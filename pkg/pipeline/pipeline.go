// Package pipeline is the entry point shared by the CLI and the HTTP server
// for drawing a gift exchange.
//
// A draw runs three steps:
//
//  1. Normalize: validate the participant list into a roster
//  2. Build: derive the constraint graph from the exclusion rules
//  3. Generate: compute and validate an assignment
//
// Input problems (duplicate identifiers, unknown rule targets, bad options)
// are returned as coded errors from pkg/errors. An infeasible roster is not
// an error: it yields a Result whose Outcome explains why no assignment
// exists.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	seed := uint64(2024)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Participants: entries,
//	    Policy:       "single-cycle",
//	    Seed:         &seed,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Report.Message)
//
// # Caching
//
// Only seeded draws are cached, and only when they end in a success or a
// proof of infeasibility. Such results are a pure function of the roster and
// the options, so a cache hit is indistinguishable from a fresh run. A draw
// that ran out of budget is never cached.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/giftring/pkg/assign"
	"github.com/matzehuels/giftring/pkg/cache"
	"github.com/matzehuels/giftring/pkg/constraint"
	"github.com/matzehuels/giftring/pkg/errors"
	"github.com/matzehuels/giftring/pkg/roster"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPolicy is the policy used when Options.Policy is empty.
	DefaultPolicy = "single-cycle"

	// MaxParticipants bounds the roster size accepted by Execute.
	MaxParticipants = 1000

	// MaxRetryBudget bounds Options.RetryBudget.
	MaxRetryBudget = 1_000_000

	// MaxSearchTimeout bounds Options.SearchTimeoutMS.
	MaxSearchTimeout = time.Minute

	// MaxSearchNodesLimit bounds Options.MaxSearchNodes.
	MaxSearchNodesLimit = 500_000_000
)

// =============================================================================
// Options - Draw Configuration
// =============================================================================

// Options contains all configuration for a draw.
// This struct supports JSON serialization for API requests.
type Options struct {
	Participants []roster.Entry `json:"participants"`

	// Policy is "single-cycle" (default), "prefer-cycle" or "any".
	Policy string `json:"policy,omitempty"`

	// RetryBudget is the number of random rings tried before exact search.
	// Zero selects the default; a negative value skips the random phase.
	RetryBudget int `json:"retry_budget,omitempty"`

	// Seed makes the draw reproducible. Nil draws from a random source.
	Seed *uint64 `json:"seed,omitempty"`

	// SearchTimeoutMS bounds the draw in milliseconds. Zero selects the
	// default. The deadline cannot be disabled.
	SearchTimeoutMS int `json:"search_timeout_ms,omitempty"`

	// MaxSearchNodes bounds exact-search work. Zero selects the default.
	MaxSearchNodes int `json:"max_search_nodes,omitempty"`

	// Refresh bypasses the cache lookup. The result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	policy    assign.Policy
	validated bool
}

// Result contains the outputs of a draw.
type Result struct {
	// DrawID identifies this draw in logs and in the server's report store.
	DrawID string

	Roster  *roster.Roster
	Graph   *constraint.Graph
	Outcome assign.Outcome

	// Report is the caller-facing rendering of Outcome, with DrawID set.
	Report assign.Report

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains draw statistics.
type Stats struct {
	Participants  int
	Rules         int
	LegalEdges    int
	NormalizeTime time.Duration
	GenerateTime  time.Duration
}

// CacheInfo tracks how the cache took part in a draw.
type CacheInfo struct {
	Key       string // empty for unseeded draws
	Hit       bool
	Cacheable bool // whether the outcome was written back
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
// It does not validate Participants; that is the roster's job.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Policy == "" {
		o.Policy = DefaultPolicy
	}
	p, err := assign.ParsePolicy(o.Policy)
	if err != nil {
		return err
	}
	o.policy = p
	o.Policy = p.String()

	if len(o.Participants) > MaxParticipants {
		return errors.New(errors.ErrCodeInvalidInput,
			"too many participants: %d (maximum %d)", len(o.Participants), MaxParticipants)
	}
	if o.RetryBudget > MaxRetryBudget {
		return errors.New(errors.ErrCodeInvalidOption,
			"retry_budget %d exceeds maximum %d", o.RetryBudget, MaxRetryBudget)
	}
	if o.SearchTimeoutMS < 0 || time.Duration(o.SearchTimeoutMS)*time.Millisecond > MaxSearchTimeout {
		return errors.New(errors.ErrCodeInvalidOption,
			"search_timeout_ms %d out of range (0 to %d)", o.SearchTimeoutMS, MaxSearchTimeout.Milliseconds())
	}
	if o.MaxSearchNodes < 0 || o.MaxSearchNodes > MaxSearchNodesLimit {
		return errors.New(errors.ErrCodeInvalidOption,
			"max_search_nodes %d out of range (0 to %d)", o.MaxSearchNodes, MaxSearchNodesLimit)
	}

	if o.RetryBudget == 0 {
		o.RetryBudget = assign.DefaultRetryBudget
	}
	if o.SearchTimeoutMS == 0 {
		o.SearchTimeoutMS = int(assign.DefaultSearchTimeout.Milliseconds())
	}
	if o.MaxSearchNodes == 0 {
		o.MaxSearchNodes = assign.DefaultMaxSearchNodes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ParsedPolicy returns the policy selected by Policy. It is only meaningful
// after ValidateAndSetDefaults.
func (o *Options) ParsedPolicy() assign.Policy {
	return o.policy
}

// TimeoutMS converts d to whole milliseconds for SearchTimeoutMS, rounding
// away from zero so that a sub-millisecond timeout never selects the default.
func TimeoutMS(d time.Duration) int {
	switch {
	case d > 0:
		return int((d + time.Millisecond - 1) / time.Millisecond)
	case d < 0:
		return int((d - time.Millisecond + 1) / time.Millisecond)
	}
	return 0
}

// SearchTimeout returns SearchTimeoutMS as a duration.
func (o *Options) SearchTimeout() time.Duration {
	return time.Duration(o.SearchTimeoutMS) * time.Millisecond
}

// Seeded reports whether the draw is reproducible.
func (o *Options) Seeded() bool {
	return o.Seed != nil
}

// AssignOptions translates o into generator options.
func (o *Options) AssignOptions() assign.Options {
	ao := assign.Options{
		Policy:         o.policy,
		RetryBudget:    o.RetryBudget,
		SearchTimeout:  o.SearchTimeout(),
		MaxSearchNodes: o.MaxSearchNodes,
	}
	if o.Seed != nil {
		ao.Rand = assign.NewRand(*o.Seed)
	}
	return ao
}

// DrawKeyOpts returns the cache key options of a seeded draw. The timeout is
// left out: it never changes a result that is allowed into the cache.
func (o *Options) DrawKeyOpts() cache.DrawKeyOpts {
	opts := cache.DrawKeyOpts{
		Policy:         o.Policy,
		RetryBudget:    o.RetryBudget,
		MaxSearchNodes: o.MaxSearchNodes,
	}
	if o.Seed != nil {
		opts.Seed = *o.Seed
	}
	return opts
}
