package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/giftring/pkg/assign"
	"github.com/matzehuels/giftring/pkg/cache"
	"github.com/matzehuels/giftring/pkg/constraint"
	"github.com/matzehuels/giftring/pkg/errors"
	"github.com/matzehuels/giftring/pkg/observability"
	"github.com/matzehuels/giftring/pkg/roster"
)

// Runner executes draws with caching.
// Both CLI and API use it so that caching and logging behave the same.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs normalize → build → generate with caching.
//
// The returned error is a coded error for invalid input, ctx.Err() on
// cancellation, or an ErrCodeInvariantViolation defect. Infeasible rosters
// return a Result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	start := time.Now()
	ros, err := roster.Normalize(opts.Participants)
	if err != nil {
		return nil, err
	}
	g := constraint.Build(ros)

	result := &Result{
		DrawID: uuid.NewString(),
		Roster: ros,
		Graph:  g,
		Stats: Stats{
			Participants:  ros.Len(),
			Rules:         ros.RuleCount(),
			LegalEdges:    g.EdgeCount(),
			NormalizeTime: time.Since(start),
		},
	}
	logger.Debug("normalized roster",
		"draw", result.DrawID,
		"participants", ros.Len(),
		"rules", ros.RuleCount(),
		"edges", g.EdgeCount())

	info := observability.DrawInfo{
		Participants: ros.Len(),
		Rules:        ros.RuleCount(),
		Policy:       opts.Policy,
	}
	observability.Draw().OnDrawStart(ctx, info)

	genStart := time.Now()
	outcome, err := r.generate(ctx, g, opts, &result.CacheInfo)
	result.Stats.GenerateTime = time.Since(genStart)

	observability.Draw().OnDrawComplete(ctx, observability.DrawResult{
		DrawInfo: info,
		Status:   string(outcome.Status),
		Reason:   string(outcome.Reason),
		Phase:    outcome.Stats.Phase.String(),
		CacheHit: result.CacheInfo.Hit,
	}, time.Since(start), err)

	if err != nil {
		if errors.IsDefect(err) {
			logger.Error("invariant violation: generated assignment rejected",
				"draw", result.DrawID, "policy", opts.Policy, "err", err)
		}
		return nil, err
	}

	result.Outcome = outcome
	result.Report = assign.NewReport(outcome, ros)
	result.Report.DrawID = result.DrawID

	if outcome.Feasible() {
		logger.Info("drew assignment",
			"draw", result.DrawID,
			"policy", opts.Policy,
			"phase", outcome.Stats.Phase,
			"cycles", len(outcome.Assignment.CycleLengths()),
			"cached", result.CacheInfo.Hit,
			"duration", result.Stats.GenerateTime)
	} else {
		logger.Warn("no assignment",
			"draw", result.DrawID,
			"policy", opts.Policy,
			"reason", outcome.Reason,
			"phase", outcome.Stats.Phase,
			"blocked", outcome.Diagnostic.Participants(),
			"duration", result.Stats.GenerateTime)
	}
	return result, nil
}

// generate consults the cache for seeded draws and runs the generator on a
// miss.
func (r *Runner) generate(ctx context.Context, g *constraint.Graph, opts Options, info *CacheInfo) (assign.Outcome, error) {
	if opts.Seeded() {
		rosterHash, err := cache.HashJSON(g.Roster().Entries())
		if err != nil {
			return assign.Outcome{}, errors.Wrap(errors.ErrCodeInternal, err, "hash roster")
		}
		info.Key = r.Keyer.DrawKey(rosterHash, opts.DrawKeyOpts())
	}

	if info.Key != "" && !opts.Refresh {
		if out, ok := r.cached(ctx, g, opts, info.Key); ok {
			info.Hit = true
			return out, nil
		}
	}

	ao := opts.AssignOptions()
	ao.Progress = func(p assign.Progress) {
		opts.Logger.Debug("phase complete",
			"phase", p.Phase,
			"attempts", p.Attempts,
			"nodes", p.Nodes,
			"duration", p.Elapsed)
	}
	out, err := assign.Generate(ctx, g, ao)
	if err != nil {
		return assign.Outcome{}, err
	}

	// A draw that ran out of budget depends on timing and is not reproducible.
	if info.Key != "" && !out.Stats.Exhausted {
		info.Cacheable = true
		if data, err := json.Marshal(out); err == nil {
			if err := r.Cache.Set(ctx, info.Key, data, cache.TTLDraw); err != nil {
				opts.Logger.Warn("cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "draw", len(data))
			}
		}
	}
	return out, nil
}

// cached returns a cached outcome for key. Entries that fail to decode or
// whose assignment no longer validates are treated as misses.
func (r *Runner) cached(ctx context.Context, g *constraint.Graph, opts Options, key string) (assign.Outcome, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "draw")
		return assign.Outcome{}, false
	}

	var out assign.Outcome
	if err := json.Unmarshal(data, &out); err != nil {
		opts.Logger.Debug("discarding undecodable cache entry", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, "draw")
		return assign.Outcome{}, false
	}
	if out.Feasible() {
		if err := assign.Validate(out.Assignment, g, opts.ParsedPolicy().RequiresSingleCycle()); err != nil {
			opts.Logger.Warn("discarding invalid cache entry", "key", key, "err", err)
			observability.Cache().OnCacheMiss(ctx, "draw")
			return assign.Outcome{}, false
		}
	}
	observability.Cache().OnCacheHit(ctx, "draw")
	return out, true
}

// CheckRequest asks whether Pairs is a valid assignment for Participants.
type CheckRequest struct {
	Participants []roster.Entry `json:"participants"`
	Policy       string         `json:"policy,omitempty"`
	Pairs        []assign.Pair  `json:"pairs"`
}

// CheckResult is the answer to a CheckRequest.
type CheckResult struct {
	Valid        bool                      `json:"valid"`
	Failure      *assign.ValidationFailure `json:"failure,omitempty"`
	CycleLengths []int                     `json:"cycle_lengths,omitempty"`
}

// Check validates a caller-supplied assignment, for example one saved by an
// earlier draw before a rule was added. Invalid input returns a coded error;
// an assignment that breaks a rule returns a CheckResult with Valid unset.
func (r *Runner) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	policy, err := assign.ParsePolicy(req.Policy)
	if err != nil {
		return nil, err
	}
	ros, err := roster.Normalize(req.Participants)
	if err != nil {
		return nil, err
	}
	g := constraint.Build(ros)
	a := assign.Assignment{Pairs: req.Pairs}

	res := &CheckResult{CycleLengths: a.CycleLengths()}
	err = assign.Validate(a, g, policy.RequiresSingleCycle())
	if failure, ok := err.(*assign.ValidationFailure); ok {
		res.Failure = failure
		r.Logger.Debug("assignment rejected", "kind", failure.Kind, "detail", failure.Detail)
		return res, nil
	}
	res.Valid = true
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
