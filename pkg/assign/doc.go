// Package assign computes gift-exchange assignments over a constraint graph.
//
// # Overview
//
// [Generate] is the engine: given a [constraint.Graph] it returns an
// [Outcome] that is either a validated [Assignment] or an infeasibility
// [Reason]. Infeasibility is not an error. The returned error is reserved for
// context cancellation and for defects, where a generated assignment fails
// [Validate].
//
//	g := constraint.Build(r)
//	out, err := assign.Generate(ctx, g, assign.Options{Rand: assign.NewRand(42)})
//	if err != nil {
//	    return err
//	}
//	if !out.Feasible() {
//	    fmt.Println(out.Reason.Message())
//	}
//
// # Phases
//
// Generation runs in up to four phases, recorded in [Stats.Phase]:
//
//  1. precheck: a participant with no legal receiver or no legal giver rules
//     out every assignment
//  2. random: up to [Options.RetryBudget] uniformly random rings
//  3. cycle-search: exact ring search ([FindCycle])
//  4. matching: exact bipartite matching ([FindMatching])
//
// The random and exact phases are exported separately ([RandomRing],
// [FindCycle], [FindMatching]) so each can be tested on its own.
//
// # Policies
//
// [PolicySingleCycle] (the default) only accepts one ring through everyone.
// Isolated pairs that give to each other would each learn the other's
// receiver, which a single ring avoids. [PolicyAnyCycles] accepts any
// derangement. [PolicyPreferCycle] looks for a ring and settles for any
// derangement when there is none or the ring search runs out of budget.
//
// # Budgets
//
// The ring search is exponential in the worst case. [Options.SearchTimeout]
// and [Options.MaxSearchNodes] bound it; running out of either before a
// result or a proof yields [ReasonSearchBudgetExceeded], which callers must
// present differently from the proven [ReasonNoValidCycle] and
// [ReasonNoValidMatching]. The node limit is deterministic, the timeout is
// not.
//
// # Reproducibility
//
// All randomness comes from [Options.Rand]. The same roster, options and
// [NewRand] seed produce the same outcome, unless the timeout fires.
package assign
