package assign

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by the exact solvers.
var (
	// ErrNoCycle is returned when no single ring satisfies the constraints.
	ErrNoCycle = errors.New("assign: no valid cycle exists")

	// ErrNoMatching is returned when no derangement satisfies the constraints.
	ErrNoMatching = errors.New("assign: no valid matching exists")

	// ErrBudgetExceeded is returned when a search stops before reaching either
	// a solution or a proof that none exists.
	ErrBudgetExceeded = errors.New("assign: search budget exceeded")
)

// deadlineEvery is how many cheap search nodes pass between clock reads.
const deadlineEvery = 1024

// Limits bounds an exact search. A non-positive field disables that limit;
// when both are disabled DefaultSearchTimeout applies.
type Limits struct {
	Timeout  time.Duration
	MaxNodes int
}

func (l Limits) orDefault() Limits {
	if l.Timeout <= 0 && l.MaxNodes <= 0 {
		l.Timeout = DefaultSearchTimeout
	}
	return l
}

// budget tracks the work done by one Generate call across all phases.
type budget struct {
	ctx      context.Context
	start    time.Time
	deadline time.Time
	maxNodes int
	nodes    int
	every    int // nodes between clock reads
}

func newBudget(ctx context.Context, l Limits) *budget {
	b := &budget{ctx: ctx, start: time.Now(), maxNodes: l.MaxNodes, every: deadlineEvery}
	if l.Timeout > 0 {
		b.deadline = b.start.Add(l.Timeout)
	}
	return b
}

// unbounded returns a budget sharing b's context and node counter origin but
// without deadline or node limit. Polynomial phases run under it.
func (b *budget) unbounded() *budget {
	return &budget{ctx: b.ctx, start: b.start, nodes: b.nodes, every: deadlineEvery}
}

// scaleChecks adapts the clock interval to a search whose nodes cost O(n²),
// so that the deadline is overrun by at most about deadlineEvery cheap nodes.
func (b *budget) scaleChecks(n int) {
	b.every = max(1, deadlineEvery/max(1, n*n))
}

// step records one search node and reports whether the search must stop.
// The clock and context are consulted every b.every nodes.
func (b *budget) step() error {
	b.nodes++
	if b.maxNodes > 0 && b.nodes > b.maxNodes {
		return ErrBudgetExceeded
	}
	if b.nodes%b.every != 0 {
		return nil
	}
	return b.check()
}

// check consults the context and the deadline.
func (b *budget) check() error {
	if err := b.ctx.Err(); err != nil {
		return err
	}
	if !b.deadline.IsZero() && time.Now().After(b.deadline) {
		return ErrBudgetExceeded
	}
	return nil
}

func (b *budget) elapsed() time.Duration {
	return time.Since(b.start)
}
