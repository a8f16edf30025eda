package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/giftring/pkg/assign"
	"github.com/matzehuels/giftring/pkg/errors"
	"github.com/matzehuels/giftring/pkg/observability"
	"github.com/matzehuels/giftring/pkg/roster"
)

func entries(ids ...string) []roster.Entry {
	out := make([]roster.Entry, len(ids))
	for i, id := range ids {
		out[i] = roster.Entry{ID: roster.ID(id)}
	}
	return out
}

func seed(v uint64) *uint64 { return &v }

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateAndSetDefaults(t *testing.T) {
	o := Options{Policy: "prefer"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Policy != "prefer-cycle" || o.ParsedPolicy() != assign.PolicyPreferCycle {
		t.Errorf("Policy = %q (%v), want prefer-cycle", o.Policy, o.ParsedPolicy())
	}
	if o.RetryBudget != assign.DefaultRetryBudget || o.MaxSearchNodes != assign.DefaultMaxSearchNodes {
		t.Errorf("defaults not applied: %+v", o)
	}
	if o.SearchTimeout() != assign.DefaultSearchTimeout {
		t.Errorf("SearchTimeout() = %v, want %v", o.SearchTimeout(), assign.DefaultSearchTimeout)
	}
	if o.Logger == nil {
		t.Error("Logger not defaulted")
	}

	// Idempotent.
	o.RetryBudget = MaxRetryBudget + 1
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call re-validated: %v", err)
	}

	empty := Options{}
	if err := empty.ValidateAndSetDefaults(); err != nil || empty.Policy != DefaultPolicy {
		t.Errorf("empty options: policy=%q err=%v", empty.Policy, err)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"policy", Options{Policy: "random"}, errors.ErrCodeInvalidOption},
		{"retry budget", Options{RetryBudget: MaxRetryBudget + 1}, errors.ErrCodeInvalidOption},
		{"timeout", Options{SearchTimeoutMS: int(MaxSearchTimeout.Milliseconds()) + 1}, errors.ErrCodeInvalidOption},
		{"negative timeout", Options{SearchTimeoutMS: -1}, errors.ErrCodeInvalidOption},
		{"negative node limit", Options{MaxSearchNodes: -1}, errors.ErrCodeInvalidOption},
		{"node limit", Options{MaxSearchNodes: MaxSearchNodesLimit + 1}, errors.ErrCodeInvalidOption},
		{"both limits off", Options{SearchTimeoutMS: -1, MaxSearchNodes: -1}, errors.ErrCodeInvalidOption},
		{"participants", Options{Participants: make([]roster.Entry, MaxParticipants+1)}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecuteInputErrors(t *testing.T) {
	tests := []struct {
		name         string
		participants []roster.Entry
		code         errors.Code
	}{
		{"duplicate", entries("a", "b", "a"), errors.ErrCodeDuplicateIdentifier},
		{"too few", entries("a"), errors.ErrCodeTooFewParticipants},
		{"unknown target", []roster.Entry{{ID: "a", Exclude: []roster.ID{"z"}}, {ID: "b"}}, errors.ErrCodeUnknownRuleTarget},
	}
	runner := NewRunner(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runner.Execute(context.Background(), Options{Participants: tt.participants})
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
			if !errors.IsValidation(err) {
				t.Errorf("%v not classified as validation error", err)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	res, err := runner.Execute(context.Background(), Options{Participants: entries("a", "b", "c", "d")})
	if err != nil {
		t.Fatal(err)
	}
	if res.DrawID == "" || res.Report.DrawID != res.DrawID {
		t.Errorf("DrawID = %q, report DrawID = %q", res.DrawID, res.Report.DrawID)
	}
	if !res.Outcome.Feasible() || res.Report.Status != assign.StatusSuccess {
		t.Fatalf("outcome = %+v", res.Outcome)
	}
	if err := assign.Validate(res.Outcome.Assignment, res.Graph, true); err != nil {
		t.Errorf("assignment invalid: %v", err)
	}
	if res.Stats.Participants != 4 || res.Stats.LegalEdges != 12 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheInfo.Key != "" {
		t.Errorf("unseeded draw got cache key %q", res.CacheInfo.Key)
	}
}

func TestExecuteInfeasibleIsNotAnError(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	res, err := runner.Execute(context.Background(), Options{
		Participants: []roster.Entry{{ID: "a", Exclude: []roster.ID{"b"}}, {ID: "b"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome.Feasible() {
		t.Fatal("want infeasible outcome")
	}
	if res.Report.Reason != assign.ReasonNoValidCycle {
		t.Errorf("Reason = %s", res.Report.Reason)
	}
	if res.Report.Message == "" {
		t.Error("report has no message")
	}
}

func TestExecuteCachesSeededDraws(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	opts := Options{Participants: entries("a", "b", "c", "d", "e"), Seed: seed(7)}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.Hit || !first.CacheInfo.Cacheable || c.sets != 1 {
		t.Fatalf("first draw CacheInfo = %+v, sets = %d", first.CacheInfo, c.sets)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.Hit {
		t.Error("second draw missed the cache")
	}
	if !slices.Equal(first.Outcome.Assignment.Pairs, second.Outcome.Assignment.Pairs) {
		t.Error("cached draw differs from the original")
	}
	if first.DrawID == second.DrawID {
		t.Error("cached draw reused the draw ID")
	}

	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.Hit {
		t.Error("refresh hit the cache")
	}
	if !slices.Equal(first.Outcome.Assignment.Pairs, third.Outcome.Assignment.Pairs) {
		t.Error("same seed produced a different assignment")
	}
}

func TestExecuteDiscardsInvalidCacheEntry(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	opts := Options{Participants: entries("a", "b", "c"), Seed: seed(1)}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	c.data[first.CacheInfo.Key] = []byte(`{"status":"success","assignment":{"pairs":[{"giver":"a","receiver":"a"}]}}`)

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheInfo.Hit {
		t.Error("invalid cache entry was used")
	}
}

func TestExecuteDoesNotCacheBudgetExhaustion(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	res, err := runner.Execute(context.Background(), Options{
		Participants:   entries("a", "b", "c", "d", "e", "f"),
		Seed:           seed(1),
		RetryBudget:    -1,
		MaxSearchNodes: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome.Reason != assign.ReasonSearchBudgetExceeded {
		t.Fatalf("Reason = %s", res.Outcome.Reason)
	}
	if res.CacheInfo.Cacheable || c.sets != 0 {
		t.Errorf("budget exhaustion was cached: %+v", res.CacheInfo)
	}
}

// hubbedCliqueEntries is a roster with no ring that every precheck accepts:
// three cliques of twelve that may only reach each other through two hubs.
func hubbedCliqueEntries() []roster.Entry {
	var out []roster.Entry
	for c := range 3 {
		for m := range 12 {
			e := roster.Entry{ID: roster.ID(fmt.Sprintf("c%d-%d", c, m))}
			for other := range 3 {
				for k := range 12 {
					if other != c {
						e.Exclude = append(e.Exclude, roster.ID(fmt.Sprintf("c%d-%d", other, k)))
					}
				}
			}
			out = append(out, e)
		}
	}
	return append(out, roster.Entry{ID: "hub-0"}, roster.Entry{ID: "hub-1"})
}

func TestExecuteDoesNotCacheTimeout(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	opts := Options{
		Participants:    hubbedCliqueEntries(),
		Seed:            seed(1),
		RetryBudget:     -1,
		SearchTimeoutMS: 10,
		MaxSearchNodes:  MaxSearchNodesLimit,
	}

	res, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome.Reason != assign.ReasonSearchBudgetExceeded || res.Outcome.Reason.Proven() {
		t.Fatalf("Reason = %s, want unproven %s", res.Outcome.Reason, assign.ReasonSearchBudgetExceeded)
	}
	if !res.Outcome.Stats.Exhausted {
		t.Error("Stats.Exhausted = false after the deadline passed")
	}
	if res.CacheInfo.Key == "" || res.CacheInfo.Cacheable || c.sets != 0 {
		t.Errorf("timed out draw was cached: %+v, sets=%d", res.CacheInfo, c.sets)
	}

	again, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if again.CacheInfo.Hit {
		t.Error("second draw hit the cache")
	}
}

func TestTimeoutMS(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 0},
		{500 * time.Microsecond, 1},
		{time.Millisecond, 1},
		{1500 * time.Microsecond, 2},
		{2 * time.Second, 2000},
		{-500 * time.Microsecond, -1},
		{-time.Second, -1000},
	}
	for _, tt := range tests {
		if got := TimeoutMS(tt.in); got != tt.want {
			t.Errorf("TimeoutMS(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

type recordingHooks struct {
	observability.NoopDrawHooks
	starts  int
	results []observability.DrawResult
}

func (h *recordingHooks) OnDrawStart(context.Context, observability.DrawInfo) { h.starts++ }

func (h *recordingHooks) OnDrawComplete(_ context.Context, r observability.DrawResult, _ time.Duration, _ error) {
	h.results = append(h.results, r)
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetDrawHooks(hooks)
	defer observability.Reset()

	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(context.Background(), Options{Participants: entries("a", "b", "c"), Policy: "any"}); err != nil {
		t.Fatal(err)
	}
	if hooks.starts != 1 || len(hooks.results) != 1 {
		t.Fatalf("starts = %d, results = %d", hooks.starts, len(hooks.results))
	}
	r := hooks.results[0]
	if r.Policy != "any" || r.Status != "success" || r.Participants != 3 {
		t.Errorf("DrawResult = %+v", r)
	}
}

func TestCheck(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	participants := []roster.Entry{{ID: "a", Exclude: []roster.ID{"b"}}, {ID: "b"}, {ID: "c"}}

	res, err := runner.Check(context.Background(), CheckRequest{
		Participants: participants,
		Pairs:        []assign.Pair{{Giver: "a", Receiver: "c"}, {Giver: "c", Receiver: "b"}, {Giver: "b", Receiver: "a"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid || !slices.Equal(res.CycleLengths, []int{3}) {
		t.Errorf("CheckResult = %+v", res)
	}

	res, err = runner.Check(context.Background(), CheckRequest{
		Participants: participants,
		Pairs:        []assign.Pair{{Giver: "a", Receiver: "b"}, {Giver: "b", Receiver: "c"}, {Giver: "c", Receiver: "a"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Valid || res.Failure == nil || res.Failure.Kind != assign.FailureForbiddenEdge {
		t.Errorf("CheckResult = %+v, want forbidden edge", res)
	}

	if _, err := runner.Check(context.Background(), CheckRequest{Participants: participants, Policy: "bogus"}); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("bad policy err = %v", err)
	}
}
