package assign

import (
	"math/rand/v2"
	"strings"
	"time"

	apperrors "github.com/matzehuels/giftring/pkg/errors"
)

const (
	// DefaultRetryBudget is the number of random rings drawn before the exact
	// search takes over.
	DefaultRetryBudget = 300

	// DefaultSearchTimeout bounds the wall-clock time of a single Generate call.
	DefaultSearchTimeout = 2 * time.Second

	// DefaultMaxSearchNodes bounds the number of exact-search nodes. Unlike the
	// timeout it is deterministic, so seeded runs that hit it stay reproducible.
	DefaultMaxSearchNodes = 2_000_000
)

// Policy selects which cycle structures an assignment may have.
type Policy int

const (
	// PolicySingleCycle requires one ring through every participant.
	// It is the zero value and therefore the default.
	PolicySingleCycle Policy = iota

	// PolicyPreferCycle searches for a single ring first and falls back to
	// any derangement when none exists or the ring search runs out of budget.
	PolicyPreferCycle

	// PolicyAnyCycles accepts any assignment made of cycles of length two or
	// more.
	PolicyAnyCycles
)

var policyNames = map[Policy]string{
	PolicySingleCycle: "single-cycle",
	PolicyPreferCycle: "prefer-cycle",
	PolicyAnyCycles:   "any",
}

// String returns the policy name used in flags, files and JSON.
func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return "unknown"
}

// PreferSingleCycle reports whether the policy tries for a single ring.
func (p Policy) PreferSingleCycle() bool {
	return p == PolicySingleCycle || p == PolicyPreferCycle
}

// RequiresSingleCycle reports whether only single-ring assignments are valid.
func (p Policy) RequiresSingleCycle() bool {
	return p == PolicySingleCycle
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePolicy parses a policy name. The empty string selects the default.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single-cycle", "single":
		return PolicySingleCycle, nil
	case "prefer-cycle", "prefer":
		return PolicyPreferCycle, nil
	case "any", "any-cycles":
		return PolicyAnyCycles, nil
	}
	return PolicySingleCycle, apperrors.New(apperrors.ErrCodeInvalidOption,
		"invalid policy: %q (must be one of: single-cycle, prefer-cycle, any)", s)
}

// Phase identifies the stage of Generate that produced an outcome.
type Phase int

const (
	PhasePrecheck Phase = iota
	PhaseRandom
	PhaseCycleSearch
	PhaseMatching
)

var phaseNames = map[Phase]string{
	PhasePrecheck:    "precheck",
	PhaseRandom:      "random",
	PhaseCycleSearch: "cycle-search",
	PhaseMatching:    "matching",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNames {
		if name == string(text) {
			*p = phase
			return nil
		}
	}
	return apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown phase %q", text)
}

// Progress is reported to Options.Progress when a phase ends.
type Progress struct {
	Phase    Phase
	Attempts int // random rings drawn so far
	Nodes    int // exact-search nodes expanded so far
	Elapsed  time.Duration
}

// Options configures Generate.
type Options struct {
	// Policy selects the accepted cycle structure. Zero value: PolicySingleCycle.
	Policy Policy

	// RetryBudget is the number of random rings to try. Zero selects
	// DefaultRetryBudget; a negative value skips the random phase.
	RetryBudget int

	// SearchTimeout bounds the whole call. Zero selects DefaultSearchTimeout;
	// a negative value disables the deadline while MaxSearchNodes is set.
	SearchTimeout time.Duration

	// MaxSearchNodes bounds exact-search work. Zero selects
	// DefaultMaxSearchNodes; a negative value removes the limit while
	// SearchTimeout is set. If both are negative the default timeout applies.
	MaxSearchNodes int

	// Rand is the randomness source. Nil selects a non-deterministic source.
	// A *rand.Rand is not safe for concurrent use; give each call its own.
	Rand *rand.Rand

	// Progress, if set, is called synchronously at the end of each phase.
	Progress func(Progress)
}

func (o Options) withDefaults() Options {
	if o.RetryBudget == 0 {
		o.RetryBudget = DefaultRetryBudget
	}
	if o.SearchTimeout == 0 {
		o.SearchTimeout = DefaultSearchTimeout
	}
	if o.MaxSearchNodes == 0 {
		o.MaxSearchNodes = DefaultMaxSearchNodes
	}
	if o.SearchTimeout < 0 && o.MaxSearchNodes < 0 {
		o.SearchTimeout = DefaultSearchTimeout
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

// Limits returns the search limits implied by o.
func (o Options) Limits() Limits {
	return Limits{Timeout: o.SearchTimeout, MaxNodes: o.MaxSearchNodes}
}

// NewRand returns a deterministic source for seed.
// The same seed always yields the same sequence of draws.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
