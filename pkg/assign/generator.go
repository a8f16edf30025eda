package assign

import (
	"context"
	"errors"

	"github.com/matzehuels/giftring/pkg/constraint"
	apperrors "github.com/matzehuels/giftring/pkg/errors"
	"github.com/matzehuels/giftring/pkg/roster"
)

// Generate computes an assignment for g.
//
// It first draws up to opts.RetryBudget random rings. If none is legal it
// falls back to an exact search chosen by opts.Policy: a ring search for
// PolicySingleCycle, a bipartite matching for PolicyAnyCycles, and a ring
// search followed by a matching for PolicyPreferCycle.
//
// Infeasibility is a normal result: the returned Outcome carries the reason
// and, when one can be identified, the participants responsible. The error is
// non-nil only when ctx is done or when a generated assignment fails
// Validate, which is reported as an ErrCodeInvariantViolation defect.
func Generate(ctx context.Context, g *constraint.Graph, opts Options) (Outcome, error) {
	opts = opts.withDefaults()
	gen := &generator{g: g, opts: opts, b: newBudget(ctx, opts.Limits())}
	return gen.run()
}

type generator struct {
	g     *constraint.Graph
	opts  Options
	b     *budget
	stats Stats
}

func (gen *generator) run() (Outcome, error) {
	policy := gen.opts.Policy

	gen.stats.Phase = PhasePrecheck
	diag := degreeDiagnostic(gen.g)
	gen.report()
	if diag != nil {
		return gen.infeasible(proofReason(policy), diag), nil
	}

	if gen.opts.RetryBudget > 0 {
		gen.stats.Phase = PhaseRandom
		ring, tried, err := randomRing(gen.g, gen.opts.Rand, gen.opts.RetryBudget, gen.b)
		gen.stats.RandomAttempts = tried
		gen.report()
		if err != nil {
			return gen.stopped(err)
		}
		if ring != nil {
			return gen.succeed(assignmentFromRing(gen.g, ring))
		}
	}

	if policy.PreferSingleCycle() {
		gen.stats.Phase = PhaseCycleSearch
		ring, deficient, err := findCycle(gen.g, gen.opts.Rand, gen.b)
		gen.stats.SearchNodes = gen.b.nodes
		gen.report()
		switch {
		case err == nil:
			return gen.succeed(assignmentFromRing(gen.g, ring))
		case policy == PolicyPreferCycle && errors.Is(err, ErrNoCycle):
			// fall back to matching
		case policy == PolicyPreferCycle && errors.Is(err, ErrBudgetExceeded):
			gen.stats.Exhausted = true
		case errors.Is(err, ErrNoCycle):
			return gen.infeasible(ReasonNoValidCycle, deficientDiagnostic(gen.g, deficient)), nil
		default:
			return gen.stopped(err)
		}
	}

	// Matching is polynomial, so it runs to a proof regardless of the limits.
	gen.stats.Phase = PhaseMatching
	mb := gen.b.unbounded()
	next, deficient, err := findMatching(gen.g, gen.opts.Rand, mb)
	gen.stats.SearchNodes = mb.nodes
	gen.report()
	switch {
	case err == nil:
		return gen.succeed(assignmentFromNext(gen.g, next))
	case errors.Is(err, ErrNoMatching):
		return gen.infeasible(ReasonNoValidMatching, deficientDiagnostic(gen.g, deficient)), nil
	default:
		return gen.stopped(err)
	}
}

// proofReason is the reason reported when the precheck rules out every
// assignment.
func proofReason(p Policy) Reason {
	if p.RequiresSingleCycle() {
		return ReasonNoValidCycle
	}
	return ReasonNoValidMatching
}

func (gen *generator) succeed(a Assignment) (Outcome, error) {
	gen.stats.Elapsed = gen.b.elapsed()
	if err := Validate(a, gen.g, gen.opts.Policy.RequiresSingleCycle()); err != nil {
		return Outcome{}, apperrors.Wrap(apperrors.ErrCodeInvariantViolation, err,
			"generated assignment failed validation in phase %s", gen.stats.Phase)
	}
	var ring []roster.ID
	if a.IsSingleCycle() {
		ring = a.Cycles()[0]
	}
	return success(a, ring, gen.stats), nil
}

func (gen *generator) infeasible(reason Reason, diag *Diagnostic) Outcome {
	gen.stats.Elapsed = gen.b.elapsed()
	return infeasible(reason, diag, gen.stats)
}

// stopped turns a budget error into an outcome and passes anything else
// (context cancellation) through.
func (gen *generator) stopped(err error) (Outcome, error) {
	if errors.Is(err, ErrBudgetExceeded) {
		gen.stats.Exhausted = true
		return gen.infeasible(ReasonSearchBudgetExceeded, nil), nil
	}
	return Outcome{}, err
}

func (gen *generator) report() {
	if gen.opts.Progress == nil {
		return
	}
	gen.opts.Progress(Progress{
		Phase:    gen.stats.Phase,
		Attempts: gen.stats.RandomAttempts,
		Nodes:    gen.stats.SearchNodes,
		Elapsed:  gen.b.elapsed(),
	})
}
