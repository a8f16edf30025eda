package assign

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	g := mustGraph(t, []string{"a", "b", "c", "d"}, map[string][]string{"a": {"d"}})

	tests := []struct {
		name   string
		pairs  []Pair
		single bool
		want   FailureKind // empty means valid
	}{
		{
			name:   "ring",
			pairs:  []Pair{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}},
			single: true,
		},
		{
			name:  "two cycles allowed",
			pairs: []Pair{{"a", "b"}, {"b", "a"}, {"c", "d"}, {"d", "c"}},
		},
		{
			name:   "two cycles rejected",
			pairs:  []Pair{{"a", "b"}, {"b", "a"}, {"c", "d"}, {"d", "c"}},
			single: true,
			want:   FailureMultipleCycles,
		},
		{
			name:  "unknown giver",
			pairs: []Pair{{"x", "b"}},
			want:  FailureUnknownParticipant,
		},
		{
			name:  "unknown receiver",
			pairs: []Pair{{"a", "x"}},
			want:  FailureUnknownParticipant,
		},
		{
			name:  "duplicate giver",
			pairs: []Pair{{"a", "b"}, {"a", "c"}},
			want:  FailureDuplicateGiver,
		},
		{
			name:  "duplicate receiver",
			pairs: []Pair{{"a", "b"}, {"c", "b"}},
			want:  FailureDuplicateReceiver,
		},
		{
			name:  "self assignment",
			pairs: []Pair{{"a", "b"}, {"b", "a"}, {"c", "c"}, {"d", "d"}},
			want:  FailureSelfAssignment,
		},
		{
			name:  "forbidden edge",
			pairs: []Pair{{"a", "d"}, {"d", "a"}, {"b", "c"}, {"c", "b"}},
			want:  FailureForbiddenEdge,
		},
		{
			name:  "missing giver",
			pairs: []Pair{{"a", "b"}, {"b", "a"}, {"c", "d"}},
			want:  FailureMissingGiver,
		},
		{
			name: "empty",
			want: FailureMissingGiver,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Assignment{Pairs: tt.pairs}, g, tt.single)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var failure *ValidationFailure
			if !errors.As(err, &failure) {
				t.Fatalf("Validate() = %v, want *ValidationFailure", err)
			}
			if failure.Kind != tt.want {
				t.Errorf("Kind = %s, want %s (%s)", failure.Kind, tt.want, failure.Detail)
			}
		})
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	g := mustGraph(t, []string{"a", "b", "c"}, nil)
	inputs := []Assignment{
		{Pairs: []Pair{{"a", "b"}, {"b", "c"}, {"c", "a"}}},
		{Pairs: []Pair{{"a", "a"}, {"b", "c"}, {"c", "b"}}},
	}
	for _, a := range inputs {
		first := Validate(a, g, true)
		second := Validate(a, g, true)
		if (first == nil) != (second == nil) || (first != nil && first.Error() != second.Error()) {
			t.Errorf("Validate(%v) = %v then %v", a.Pairs, first, second)
		}
	}
}
