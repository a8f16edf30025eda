package assign_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/giftring/pkg/assign"
	"github.com/matzehuels/giftring/pkg/constraint"
	"github.com/matzehuels/giftring/pkg/roster"
)

func ExampleGenerate() {
	// Partners must not draw each other, in either direction.
	r, _ := roster.Normalize([]roster.Entry{
		{ID: "ann", Exclude: []roster.ID{"ben"}},
		{ID: "ben", Exclude: []roster.ID{"ann"}},
		{ID: "cat"},
		{ID: "dan"},
	})
	g := constraint.Build(r)

	out, err := assign.Generate(context.Background(), g, assign.Options{Rand: assign.NewRand(42)})
	if err != nil {
		panic(err)
	}
	fmt.Println("Status:", out.Status)
	fmt.Println("Single ring:", out.Assignment.IsSingleCycle())
	fmt.Println("Valid:", assign.Validate(out.Assignment, g, true) == nil)
	// Output:
	// Status: success
	// Single ring: true
	// Valid: true
}

func ExampleGenerate_infeasible() {
	r, _ := roster.Normalize([]roster.Entry{
		{ID: "ann", Exclude: []roster.ID{"ben"}},
		{ID: "ben"},
	})

	out, _ := assign.Generate(context.Background(), constraint.Build(r), assign.Options{})
	fmt.Println("Status:", out.Status)
	fmt.Println("Reason:", out.Reason)
	fmt.Println("Blocked:", out.Diagnostic.Blocked)
	// Output:
	// Status: infeasible
	// Reason: NO_VALID_CYCLE
	// Blocked: [ann]
}

func ExampleFindMatching() {
	// Only the pairs (ann ben) and (cat dan) may give to each other.
	r, _ := roster.Normalize([]roster.Entry{
		{ID: "ann", Exclude: []roster.ID{"cat", "dan"}},
		{ID: "ben", Exclude: []roster.ID{"cat", "dan"}},
		{ID: "cat", Exclude: []roster.ID{"ann", "ben"}},
		{ID: "dan", Exclude: []roster.ID{"ann", "ben"}},
	})
	g := constraint.Build(r)

	next, err := assign.FindMatching(context.Background(), g, assign.NewRand(1))
	if err != nil {
		panic(err)
	}
	for giver, receiver := range next {
		fmt.Println(g.ID(giver), "->", g.ID(receiver))
	}
	// Output:
	// ann -> ben
	// ben -> ann
	// cat -> dan
	// dan -> cat
}
