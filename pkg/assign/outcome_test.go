package assign

import (
	"slices"
	"testing"

	"github.com/matzehuels/giftring/pkg/roster"
)

func TestAssignmentCycles(t *testing.T) {
	a := Assignment{Pairs: []Pair{
		{"a", "c"}, {"b", "a"}, {"c", "b"}, {"d", "e"}, {"e", "d"},
	}}

	cycles := a.Cycles()
	if len(cycles) != 2 {
		t.Fatalf("Cycles() = %v, want 2 cycles", cycles)
	}
	if !slices.Equal(cycles[0], []roster.ID{"a", "c", "b"}) {
		t.Errorf("first cycle = %v, want [a c b]", cycles[0])
	}
	if !slices.Equal(cycles[1], []roster.ID{"d", "e"}) {
		t.Errorf("second cycle = %v, want [d e]", cycles[1])
	}
	if a.IsSingleCycle() {
		t.Error("IsSingleCycle() = true, want false")
	}
	if got := a.CycleLengths(); !slices.Equal(got, []int{3, 2}) {
		t.Errorf("CycleLengths() = %v, want [3 2]", got)
	}
	if r, ok := a.ReceiverOf("d"); !ok || r != "e" {
		t.Errorf("ReceiverOf(d) = %q, %v; want e, true", r, ok)
	}
	if _, ok := a.ReceiverOf("z"); ok {
		t.Error("ReceiverOf(z) found a receiver")
	}
}

func TestAssignmentOpenChain(t *testing.T) {
	a := Assignment{Pairs: []Pair{{"a", "b"}, {"b", "c"}}}
	cycles := a.Cycles()
	if len(cycles) != 1 || !slices.Equal(cycles[0], []roster.ID{"a", "b", "c"}) {
		t.Errorf("Cycles() = %v, want [[a b c]]", cycles)
	}
}

func TestReasonProven(t *testing.T) {
	tests := []struct {
		reason Reason
		proven bool
	}{
		{ReasonNoValidCycle, true},
		{ReasonNoValidMatching, true},
		{ReasonSearchBudgetExceeded, false},
		{ReasonNone, false},
	}
	for _, tt := range tests {
		if got := tt.reason.Proven(); got != tt.proven {
			t.Errorf("%q.Proven() = %v, want %v", tt.reason, got, tt.proven)
		}
		if tt.reason.Message() == "" {
			t.Errorf("%q.Message() is empty", tt.reason)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicySingleCycle, false},
		{"single-cycle", PolicySingleCycle, false},
		{" Prefer ", PolicyPreferCycle, false},
		{"prefer-cycle", PolicyPreferCycle, false},
		{"any", PolicyAnyCycles, false},
		{"any-cycles", PolicyAnyCycles, false},
		{"random", PolicySingleCycle, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.RetryBudget != DefaultRetryBudget || o.SearchTimeout != DefaultSearchTimeout || o.MaxSearchNodes != DefaultMaxSearchNodes {
		t.Errorf("withDefaults() = %+v", o)
	}
	if o.Rand == nil {
		t.Error("withDefaults() left Rand nil")
	}

	o = Options{RetryBudget: -1, SearchTimeout: -1}.withDefaults()
	if o.RetryBudget != -1 || o.SearchTimeout != -1 || o.MaxSearchNodes != DefaultMaxSearchNodes {
		t.Errorf("withDefaults() overrode negative values: %+v", o)
	}
	o = Options{MaxSearchNodes: -1}.withDefaults()
	if o.MaxSearchNodes != -1 || o.SearchTimeout != DefaultSearchTimeout {
		t.Errorf("withDefaults() with node limit off = %+v", o)
	}

	// One limit always remains.
	o = Options{SearchTimeout: -1, MaxSearchNodes: -1}.withDefaults()
	if o.SearchTimeout != DefaultSearchTimeout {
		t.Errorf("SearchTimeout = %v with both limits off, want %v", o.SearchTimeout, DefaultSearchTimeout)
	}
	if l := (Limits{}).orDefault(); l.Timeout != DefaultSearchTimeout {
		t.Errorf("Limits{}.orDefault() = %+v", l)
	}
	if l := (Limits{MaxNodes: 5}).orDefault(); l.Timeout != 0 {
		t.Errorf("orDefault added a timeout to a node-limited search: %+v", l)
	}
}

func TestNewReport(t *testing.T) {
	r, err := roster.Normalize([]roster.Entry{
		{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob", Exclude: []roster.ID{"a"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	rep := NewReport(Outcome{
		Status:     StatusInfeasible,
		Reason:     ReasonNoValidMatching,
		Diagnostic: &Diagnostic{Blocked: []roster.ID{"b"}, Unreceivable: []roster.ID{"a"}},
	}, r)
	if rep.Message != "no valid pairing possible with current rules" {
		t.Errorf("Message = %q", rep.Message)
	}
	if rep.Pairs != nil {
		t.Errorf("Pairs = %v, want none", rep.Pairs)
	}
	if rep.Diagnostic == nil || rep.Diagnostic.Blocked[0].Name != "Bob" || rep.Diagnostic.Unreceivable[0].Name != "Alice" {
		t.Errorf("Diagnostic = %+v", rep.Diagnostic)
	}

	rep = NewReport(success(Assignment{Pairs: []Pair{{"a", "b"}, {"b", "a"}}}, []roster.ID{"a", "b"}, Stats{}), r)
	if len(rep.Pairs) != 2 || rep.Pairs[0].Giver.Name != "Alice" || rep.Pairs[0].Receiver.Name != "Bob" {
		t.Errorf("Pairs = %+v", rep.Pairs)
	}
	if !slices.Equal(rep.CycleLengths, []int{2}) {
		t.Errorf("CycleLengths = %v, want [2]", rep.CycleLengths)
	}
	if rep.Diagnostic != nil {
		t.Errorf("Diagnostic = %+v, want nil", rep.Diagnostic)
	}
}
